// internal/cli/extract.go
package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/law-makers/linkfill/internal/engine"
	"github.com/law-makers/linkfill/internal/utils/headers"
	"github.com/law-makers/linkfill/internal/utils/output"
	"github.com/law-makers/linkfill/pkg/models"
)

var (
	extractOutput  string
	extractHeaders []string
	extractNoCache bool
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <url>",
	Short: "Extract product data from a product page URL",
	Long: `Downloads the page and extracts title, price, image and supplier.

Fields that no extraction step could find are printed as "-" (null in JSON).
A malformed link or a page that cannot be downloaded is reported as an error.`,
	Example: `  # Print a summary
  linkfill extract https://www.ikea.com/pl/pl/p/lack-stolik-bialy-20011413/

  # Print the JSON envelope
  linkfill extract https://www.westwing.pl/stolik-tarse --json

  # Save to a file (.json or .csv)
  linkfill extract https://www.westwing.pl/stolik-tarse --output=product.csv

  # Add custom headers
  linkfill extract https://shop.example/p/1 -H "Cookie: consent=1"`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "File path to save output (supports .json, .csv)")
	extractCmd.Flags().StringArrayVarP(&extractHeaders, "header", "H", []string{}, "Custom headers (e.g., -H \"Cookie: a=b\")")
	extractCmd.Flags().BoolVar(&extractNoCache, "no-cache", false, "Always download the page, even if it was fetched recently")
}

func runExtract(cmd *cobra.Command, args []string) error {
	a := GetAppFromCmd(cmd)
	if a == nil {
		return fmt.Errorf("application not initialized")
	}

	headerMap, err := headers.ParseHeaders(extractHeaders)
	if err != nil {
		return err
	}

	opts := models.RequestOptions{
		URL:     args[0],
		Headers: headerMap,
		NoCache: extractNoCache,
	}

	log.Info().Str("url", opts.URL).Msg("Extracting product")
	data, err := a.Scraper.Scrape(cmd.Context(), opts)
	if err != nil {
		if jsonOutput {
			_ = output.WriteJSON(cmd.OutOrStdout(), engine.Respond(nil, err))
		}
		return err
	}

	if extractOutput != "" {
		if err := output.Save([]*models.ScrapedProductData{data}, extractOutput); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		log.Info().Str("file", extractOutput).Msg("Output saved")
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "%s Saved to %s\n", successMark(), extractOutput)
		}
		return nil
	}

	if jsonOutput {
		return output.WriteJSON(cmd.OutOrStdout(), engine.Respond(data, nil))
	}
	printProduct(cmd.OutOrStdout(), data)
	return nil
}

// internal/cli/parse.go
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/law-makers/linkfill/internal/engine"
	"github.com/law-makers/linkfill/internal/utils/output"
	urlutil "github.com/law-makers/linkfill/internal/utils/url"
	"github.com/law-makers/linkfill/pkg/models"
)

var (
	parseURL    string
	parseOutput string
)

// parseCmd extracts from HTML already on disk
var parseCmd = &cobra.Command{
	Use:   "parse <file|->",
	Short: "Extract product data from a saved HTML file",
	Long: `Runs the extractor over HTML that was saved earlier, without any network access.
The page URL is still required: relative image links are resolved against it
and the supplier falls back to its domain.`,
	Example: `  # Saved page
  linkfill parse page.html --url https://www.westwing.pl/stolik-tarse

  # From stdin
  curl -s https://shop.example/p/1 | linkfill parse - --url https://shop.example/p/1`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseURL, "url", "u", "", "Original URL of the page (required)")
	parseCmd.Flags().StringVarP(&parseOutput, "output", "o", "", "File path to save output (supports .json, .csv)")
	_ = parseCmd.MarkFlagRequired("url")
}

func runParse(cmd *cobra.Command, args []string) error {
	a := GetAppFromCmd(cmd)
	if a == nil {
		return fmt.Errorf("application not initialized")
	}

	if err := urlutil.ValidateURL(parseURL); err != nil {
		return engine.NewEngineError(engine.ErrCodeInvalidURL, "--url must be an absolute http(s) URL", err)
	}

	var r io.Reader = cmd.InOrStdin()
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[0], err)
		}
		defer f.Close()
		r = f
	}

	html, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read HTML: %w", err)
	}

	data := a.Extractor.ExtractHTML(string(html), parseURL)

	if parseOutput != "" {
		if err := output.Save([]*models.ScrapedProductData{data}, parseOutput); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "%s Saved to %s\n", successMark(), parseOutput)
		}
		return nil
	}

	if jsonOutput {
		return output.WriteJSON(cmd.OutOrStdout(), engine.Respond(data, nil))
	}
	printProduct(cmd.OutOrStdout(), data)
	return nil
}

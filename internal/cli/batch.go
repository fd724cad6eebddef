// internal/cli/batch.go
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/law-makers/linkfill/internal/engine"
	"github.com/law-makers/linkfill/internal/config"
	"github.com/law-makers/linkfill/internal/engine/batch"
	"github.com/law-makers/linkfill/internal/utils/output"
	"github.com/law-makers/linkfill/pkg/models"
)

var (
	batchConcurrency int
	batchOutput      string
)

// batchCmd scrapes a list of URLs
var batchCmd = &cobra.Command{
	Use:   "batch <file|->",
	Short: "Extract product data from many URLs",
	Long: `Reads one URL per line (blank lines and lines starting with # are skipped) and
extracts every page concurrently. Requests to the same shop are rate limited.
Results keep the input order; failed URLs are reported but do not stop the run.`,
	Example: `  # Scrape a list and save a spreadsheet
  linkfill batch links.txt --output products.csv

  # Limit concurrency
  linkfill batch links.txt --concurrency 4 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVarP(&batchConcurrency, "concurrency", "c", 0, "Parallel downloads (0 = auto)")
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "", "File path to save output (supports .json, .csv)")
	config.BindEnv(batchCmd.Flags(), "concurrency", "CONCURRENCY")
}

type batchItem struct {
	URL string `json:"url"`
	models.ScrapeResponse
}

func runBatch(cmd *cobra.Command, args []string) error {
	a := GetAppFromCmd(cmd)
	if a == nil {
		return fmt.Errorf("application not initialized")
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

	urls, err := readURLs(r)
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return fmt.Errorf("no URLs found in %s", args[0])
	}

	runner := a.Batch
	if batchConcurrency > 0 {
		runner = batch.New(a.Scraper, batchConcurrency)
	}

	requests := make([]models.RequestOptions, len(urls))
	position := make(map[string]int, len(urls))
	for i, u := range urls {
		requests[i] = models.RequestOptions{URL: u}
		if _, seen := position[u]; !seen {
			position[u] = i
		}
	}

	var bar *progressbar.ProgressBar
	if !quiet && !jsonOutput {
		bar = progressbar.NewOptions(len(requests),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("Extracting"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	results := make([]models.ScrapeResult, 0, len(requests))
	for res := range runner.ScrapeBatch(cmd.Context(), requests) {
		results = append(results, res)
		if res.Error != nil {
			log.Warn().Err(res.Error).Str("url", res.URL).Msg("Extraction failed")
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	sort.SliceStable(results, func(i, j int) bool {
		return position[results[i].URL] < position[results[j].URL]
	})

	var records []*models.ScrapedProductData
	items := make([]batchItem, 0, len(results))
	failed := 0
	for _, res := range results {
		items = append(items, batchItem{URL: res.URL, ScrapeResponse: engine.Respond(res.Data, res.Error)})
		if res.Error != nil {
			failed++
			continue
		}
		records = append(records, res.Data)
	}

	switch {
	case batchOutput != "":
		if err := output.Save(records, batchOutput); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	case jsonOutput:
		if err := output.WriteJSON(cmd.OutOrStdout(), items); err != nil {
			return err
		}
	default:
		for _, data := range records {
			printProduct(cmd.OutOrStdout(), data)
		}
	}

	if !quiet && !jsonOutput {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %d extracted, %d failed", successMark(), len(records), failed)
		if batchOutput != "" {
			fmt.Fprintf(cmd.OutOrStdout(), ", saved to %s", batchOutput)
		}
		fmt.Fprintln(cmd.OutOrStdout())
	}

	if skipped := len(requests) - len(results); skipped > 0 {
		return fmt.Errorf("batch interrupted, %d URLs not processed", skipped)
	}
	if failed == len(requests) {
		return fmt.Errorf("all %d URLs failed", failed)
	}
	return nil
}

// readURLs returns the non-empty, non-comment lines of r
func readURLs(r io.Reader) ([]string, error) {
	var urls []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read URL list: %w", err)
	}
	return urls, nil
}

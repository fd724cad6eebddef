package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/law-makers/linkfill/internal/ui"
	"github.com/law-makers/linkfill/pkg/models"
)

func TestReadURLs(t *testing.T) {
	in := strings.NewReader(`
# shops
https://www.ikea.com/pl/pl/p/lack
   https://www.westwing.pl/stolik   

#https://skipped.example
`)

	urls, err := readURLs(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"https://www.ikea.com/pl/pl/p/lack", "https://www.westwing.pl/stolik"}
	if len(urls) != len(want) {
		t.Fatalf("Expected %d URLs, got %d: %v", len(want), len(urls), urls)
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Errorf("URL %d: expected %s, got %s", i, want[i], urls[i])
		}
	}
}

func TestPrintProduct(t *testing.T) {
	title := "Stolik LACK"
	price := 49.0
	var buf bytes.Buffer

	printProduct(&buf, &models.ScrapedProductData{Title: &title, Price: &price, URL: "https://www.ikea.com/p"})

	out := buf.String()
	if !strings.Contains(out, "Stolik LACK") {
		t.Errorf("Expected title in output: %q", out)
	}
	if !strings.Contains(out, "49.00") {
		t.Errorf("Expected two-decimal price in output: %q", out)
	}
	if !strings.Contains(out, ui.Missing) {
		t.Errorf("Expected missing marker for empty fields: %q", out)
	}
}

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"extract", "parse", "batch", "serve"} {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("Expected %s command to be registered", name)
		}
	}
}

func TestRenderHelp_Root(t *testing.T) {
	var buf bytes.Buffer
	renderHelp(&buf, rootCmd)

	out := buf.String()
	for _, want := range []string{"Fields", "JSON-LD offer", "shop domain", "extract", "serve", "[$LINKFILL_MAX_PRICE]"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in root help:\n%s", want, out)
		}
	}
}

func TestRenderHelp_Subcommand(t *testing.T) {
	var buf bytes.Buffer
	renderHelp(&buf, batchCmd)

	out := buf.String()
	if !strings.Contains(out, "--concurrency int") {
		t.Errorf("Expected concurrency flag in batch help:\n%s", out)
	}
	if !strings.Contains(out, "[$LINKFILL_CONCURRENCY]") {
		t.Errorf("Expected env variable next to --concurrency:\n%s", out)
	}
	if !strings.Contains(out, "Global Flags") || !strings.Contains(out, "[$LINKFILL_PROXY]") {
		t.Errorf("Expected inherited flags with env variables:\n%s", out)
	}
	if strings.Contains(out, "Fields") {
		t.Errorf("Fields section belongs to the root help only:\n%s", out)
	}
}

func TestFlagDescription(t *testing.T) {
	f := rootCmd.PersistentFlags().Lookup("price-candidates")
	if f == nil {
		t.Fatal("price-candidates flag not registered")
	}

	got := flagDescription(f)
	want := "Elements examined per price selector (default 3) [$LINKFILL_PRICE_CANDIDATES]"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}

	if got := flagDescription(rootCmd.PersistentFlags().Lookup("json")); strings.Contains(got, "default") || strings.Contains(got, "$") {
		t.Errorf("Expected plain description for --json, got %q", got)
	}
}

package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/law-makers/linkfill/internal/ui"
	"github.com/law-makers/linkfill/pkg/models"
)

const fieldWidth = 13

func successMark() string {
	return ui.Success("✓")
}

// printProduct writes a human readable summary of one record
func printProduct(w io.Writer, data *models.ScrapedProductData) {
	price := ""
	if data.Price != nil {
		price = strconv.FormatFloat(*data.Price, 'f', 2, 64)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, ui.Field("URL", data.URL, fieldWidth))
	fmt.Fprintln(w, ui.Field("Title", str(data.Title), fieldWidth))
	fmt.Fprintln(w, ui.Field("Price", price, fieldWidth))
	fmt.Fprintln(w, ui.Field("Image", str(data.ImageURL), fieldWidth))
	fmt.Fprintln(w, ui.Field("Supplier", str(data.Supplier), fieldWidth))
	fmt.Fprintln(w, ui.Field("Description", str(data.Description), fieldWidth))
	fmt.Fprintln(w)
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

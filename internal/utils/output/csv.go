package output

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/law-makers/linkfill/pkg/models"
)

// CSVHeader is the column order of SaveCSV
var CSVHeader = []string{"url", "title", "price", "imageUrl", "supplier", "description"}

// SaveCSV writes one row per record to filepath. Missing fields are empty cells.
func SaveCSV(records []*models.ScrapedProductData, filepath string) error {
	file, err := os.Create(filepath)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteCSV(file, records)
}

// WriteCSV writes the header and one row per non-nil record
func WriteCSV(w io.Writer, records []*models.ScrapedProductData) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(CSVHeader); err != nil {
		return err
	}
	for _, r := range records {
		if r == nil {
			continue
		}
		price := ""
		if r.Price != nil {
			price = strconv.FormatFloat(*r.Price, 'f', -1, 64)
		}
		row := []string{r.URL, deref(r.Title), price, deref(r.ImageURL), deref(r.Supplier), deref(r.Description)}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

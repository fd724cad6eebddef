package output

import (
	"encoding/json"
	"io"
	"os"

	"github.com/law-makers/linkfill/pkg/models"
)

// SaveJSON writes records to filepath. A single record is written as an
// object, anything else as an array.
func SaveJSON(records []*models.ScrapedProductData, filepath string) error {
	file, err := os.Create(filepath)
	if err != nil {
		return err
	}
	defer file.Close()

	if len(records) == 1 {
		return WriteJSON(file, records[0])
	}
	if records == nil {
		records = []*models.ScrapedProductData{}
	}
	return WriteJSON(file, records)
}

// WriteJSON writes v as indented JSON followed by a newline
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

package output

import (
	"path/filepath"
	"strings"

	"github.com/law-makers/linkfill/pkg/models"
)

// Save picks the writer from the file extension; anything but .csv is JSON
func Save(records []*models.ScrapedProductData, path string) error {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return SaveCSV(records, path)
	}
	return SaveJSON(records, path)
}

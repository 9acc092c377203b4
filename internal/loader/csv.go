package loader

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/karthikyer/fundsight/internal/schema"
)

// ReadCSV loads a comma-separated export as a table. Ragged rows are
// tolerated; the header row fixes the column count.
func ReadCSV(path string) (schema.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return schema.Table{}, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return schema.Table{}, fmt.Errorf("read csv %s: %w", path, err)
	}
	return tableFromRows(rows, path)
}

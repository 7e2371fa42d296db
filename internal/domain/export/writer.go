package export

import (
	"encoding/csv"
	"io"
)

// WriteCSV writes the header row followed by the table body.
func WriteCSV(w io.Writer, table Table) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(table.Headers); err != nil {
		return err
	}
	for _, record := range table.Records() {
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

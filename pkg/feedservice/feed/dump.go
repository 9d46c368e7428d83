package feed

import (
	"encoding/csv"
	"os"

	"github.com/Oak-Digital/medusa-product-feed/pkg/collection"
)

// CSVHeader returns the union of all item field names in first-seen
// document order, so every column any item carries shows up once
func CSVHeader(items []*Item) []string {
	var header []string
	for i := range items {
		keys := items[i].Keys()
		for j := range keys {
			if !collection.StringInList(keys[j], header) {
				header = append(header, keys[j])
			}
		}
	}
	return header
}

// DumpToCSV writes the mapped items into a csv file. Cell text is
// sanitized since some feed consumers choke on multiline fields.
func DumpToCSV(items []*Item, filename string) (err error) {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	header := CSVHeader(items)
	if len(header) == 0 {
		return nil
	}

	writer := csv.NewWriter(f)
	defer writer.Flush()

	err = writer.Write(header)
	if err != nil {
		return err
	}

	row := make([]string, len(header))
	for i := range items {
		for j := range header {
			row[j] = collection.Sanitize(items[i].GetString(header[j]))
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	return nil
}

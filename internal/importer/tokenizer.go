package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// ErrParse indicates the file structure itself could not be tokenized
// (malformed quoting, missing header row). Fatal for the whole batch: no
// partial tokenization result is ever used.
var ErrParse = errors.New("activity export cannot be parsed")

// Tokenize reads the full comma-delimited input into rows of string cells.
// Double-quoted fields may embed delimiters and newlines. Fully empty lines
// and rows whose every cell is blank are dropped.
func Tokenize(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var rows [][]string
	for {
		cells, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		if allBlank(cells) {
			continue
		}
		rows = append(rows, cells)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: file has no header row", ErrParse)
	}
	return rows, nil
}

func allBlank(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}

package exchange

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"hrms/internal/domain/validation"
)

// Row is one data line of an uploaded file. Number counts from 1 for the
// first line after the header. Err is set when the line could not be parsed.
type Row struct {
	Number int
	Cells  []string
	Err    error
}

// ReadRows returns the header and the non-blank data rows of a CSV or XLSX
// upload.
func ReadRows(r io.Reader, format string) ([]string, []Row, error) {
	switch format {
	case FormatCSV:
		return readCSV(r)
	case FormatXLSX:
		return readXLSX(r)
	}
	return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}

func readCSV(r io.Reader) ([]string, []Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, validation.Field("file", "is empty")
	}
	if err != nil {
		return nil, nil, validation.Field("file", "is not a valid csv file")
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	var rows []Row
	number := 0
	for {
		cells, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		number++
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			rows = append(rows, Row{Number: number, Err: fmt.Errorf("malformed csv line: %w", parseErr.Err)})
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		if blank(cells) {
			continue
		}
		rows = append(rows, Row{Number: number, Cells: cells})
	}
	return header, rows, nil
}

func readXLSX(r io.Reader) ([]string, []Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, validation.Field("file", "is not a valid xlsx file")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, validation.Field("file", "is empty")
	}
	all, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, err
	}
	if len(all) == 0 {
		return nil, nil, validation.Field("file", "is empty")
	}

	var rows []Row
	for i, cells := range all[1:] {
		if blank(cells) {
			continue
		}
		rows = append(rows, Row{Number: i + 1, Cells: cells})
	}
	return all[0], rows, nil
}

func blank(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

package exchange

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"hrms/internal/domain/employee"
	"hrms/internal/domain/validation"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportSheet     = "Employees"
)

var ErrUnsupportedFormat = errors.New("unsupported file format")

type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type Result struct {
	Created int        `json:"created"`
	Updated int        `json:"updated"`
	Errors  []RowError `json:"errors"`
}

// Employees is the part of the lifecycle service the exchange needs.
type Employees interface {
	Upsert(ctx context.Context, p employee.Patch) (employee.Employee, bool, error)
	Records(ctx context.Context, ids []string) ([]employee.Employee, error)
}

// Recorder receives import and export counters.
type Recorder interface {
	RecordImport(persisted, failed int)
	RecordExport(rows int)
}

type Service struct {
	employees Employees
	recorder  Recorder
	logger    *slog.Logger
}

func NewService(employees Employees, recorder Recorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{employees: employees, recorder: recorder, logger: logger}
}

// DetectFormat picks the format from an explicit name, a file name or a
// content type, defaulting to CSV.
func DetectFormat(name, contentType string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	switch {
	case name == FormatXLSX, filepath.Ext(name) == ".xlsx", strings.HasPrefix(contentType, xlsxContentType):
		return FormatXLSX
	}
	return FormatCSV
}

func ContentType(format string) string {
	if format == FormatXLSX {
		return xlsxContentType
	}
	return "text/csv"
}

// Import applies every data row as an upsert keyed by employee_code. A row
// that fails is reported and the remaining rows still commit.
func (s *Service) Import(ctx context.Context, r io.Reader, format string) (Result, error) {
	header, rows, err := ReadRows(r, format)
	if err != nil {
		return Result{}, err
	}
	return s.ImportRows(ctx, header, rows)
}

func (s *Service) ImportRows(ctx context.Context, header []string, rows []Row) (Result, error) {
	if !hasColumn(header, employee.FieldEmployeeCode) {
		return Result{}, validation.Field("file", "header must include employee_code")
	}
	result := Result{Errors: []RowError{}}
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if row.Err != nil {
			result.Errors = append(result.Errors, RowError{Row: row.Number, Message: row.Err.Error()})
			continue
		}
		p := employee.PatchFromRow(header, row.Cells)
		if p.Get(employee.FieldStatus) == "" {
			p[employee.FieldStatus] = employee.StatusActive
		}
		_, created, err := s.employees.Upsert(ctx, p)
		switch {
		case err != nil:
			if _, ok := validation.As(err); !ok && !errors.Is(err, employee.ErrDuplicateCode) {
				s.logger.Warn("import row failed", "row", row.Number, "err", err)
			}
			result.Errors = append(result.Errors, RowError{Row: row.Number, Message: err.Error()})
		case created:
			result.Created++
		default:
			result.Updated++
		}
	}
	if s.recorder != nil {
		s.recorder.RecordImport(result.Created+result.Updated, len(result.Errors))
	}
	s.logger.Info("employee import finished", "created", result.Created, "updated", result.Updated, "failed", len(result.Errors))
	return result, nil
}

func hasColumn(header []string, name string) bool {
	for _, column := range header {
		if strings.EqualFold(strings.TrimSpace(column), name) {
			return true
		}
	}
	return false
}

// Export writes the selected records, or all of them when ids is empty, and
// returns the number of data rows.
func (s *Service) Export(ctx context.Context, w io.Writer, format string, ids []string) (int, error) {
	records, err := s.employees.Records(ctx, ids)
	if err != nil {
		return 0, err
	}
	switch format {
	case FormatCSV:
		err = WriteCSV(w, records)
	case FormatXLSX:
		err = WriteXLSX(w, records)
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return 0, err
	}
	if s.recorder != nil {
		s.recorder.RecordExport(len(records))
	}
	return len(records), nil
}

func exportRow(emp employee.Employee) []string {
	row := make([]string, 0, len(employee.Fields))
	for _, field := range employee.Fields {
		row = append(row, emp.Value(field))
	}
	return row
}

func WriteCSV(w io.Writer, records []employee.Employee) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(employee.Fields); err != nil {
		return err
	}
	for _, emp := range records {
		if err := writer.Write(exportRow(emp)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func WriteXLSX(w io.Writer, records []employee.Employee) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return err
	}
	if err := setRow(f, 1, employee.Fields); err != nil {
		return err
	}
	for i, emp := range records {
		if err := setRow(f, i+2, exportRow(emp)); err != nil {
			return err
		}
	}
	_, err := f.WriteTo(w)
	return err
}

func setRow(f *excelize.File, number int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, number)
	if err != nil {
		return err
	}
	row := make([]any, len(values))
	for i, value := range values {
		row[i] = value
	}
	return f.SetSheetRow(exportSheet, cell, &row)
}

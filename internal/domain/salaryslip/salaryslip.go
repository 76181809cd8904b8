package salaryslip

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"hrms/internal/domain/employee"
)

const footer = "This is a system generated salary slip and does not require a signature."

// Render draws the single page slip of an employee.
func Render(emp employee.Employee, now time.Time) ([]byte, error) {
	pay := employee.Compensation{}
	if emp.Compensation != nil {
		pay = *emp.Compensation
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Salary Slip "+emp.EmployeeCode, true)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "SALARY SLIP", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Date: "+now.Format("2006-01-02"), "", 1, "R", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Employee")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	joined := "-"
	if emp.DateOfJoining != nil {
		joined = emp.DateOfJoining.String()
	}
	for _, line := range [][2]string{
		{"Employee Code", emp.EmployeeCode},
		{"Name", emp.FullName()},
		{"Department", emp.Department},
		{"Designation", emp.Designation},
		{"Date of Joining", joined},
	} {
		row(pdf, line[0], line[1])
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Salary")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for _, line := range []struct {
		label  string
		amount decimal.Decimal
	}{
		{"Annual CTC", pay.AnnualCTC},
		{"Basic Pay", pay.BasicPay},
		{"Allowances", pay.Allowances},
		{"Bonus", pay.Bonus},
	} {
		row(pdf, line.label, line.amount.StringFixed(2))
	}

	pdf.Ln(12)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, footer, "", "C", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render salary slip: %w", err)
	}
	return buf.Bytes(), nil
}

func row(pdf *gofpdf.Fpdf, label, value string) {
	pdf.CellFormat(60, 7, label, "1", 0, "L", false, 0, "")
	pdf.CellFormat(0, 7, value, "1", 1, "L", false, 0, "")
}

// FileName is the attachment name of an employee's slip.
func FileName(emp employee.Employee) string {
	return fmt.Sprintf("salary-slip-%s.pdf", emp.EmployeeCode)
}

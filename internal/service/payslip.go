package service

import (
	"bytes"
	"fmt"
	"time"

	"github.com/Payphone-Digital/clinic-admin/internal/dto"
	"github.com/xuri/excelize/v2"
)

const payslipSheet = "Payslip"

// PayslipFileName is the download name of a rendered payslip
func PayslipFileName(p *dto.Payslip) string {
	return fmt.Sprintf("payslip_%s_%04d_%02d.xlsx", p.UserID, p.Year, p.Month)
}

// RenderPayslip lays the payslip out as a single sheet workbook: identity block,
// earnings block, then one row per adjustment.
func RenderPayslip(p *dto.Payslip) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", payslipSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	labelStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create label style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	moneyFormat := "#,##0.00"
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFormat})
	if err != nil {
		return nil, fmt.Errorf("failed to create money style: %w", err)
	}

	period := time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
	rows := [][]any{
		{"Employee", p.EmployeeName},
		{"Email", p.EmployeeEmail},
		{"Role", p.UserRole.String()},
		{"Period", period},
		{"Generated", p.GeneratedAt.Format(time.RFC3339)},
		{},
		{"Base salary", p.BaseSalary},
		{"Bonus", p.Bonus},
		{"Penalty", p.Penalty},
		{"Net salary", p.NetSalary},
	}
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		r := i + 1
		if err := setRow(f, r, row); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(payslipSheet, cellName(1, r), cellName(1, r), labelStyle); err != nil {
			return nil, fmt.Errorf("failed to style label: %w", err)
		}
		if _, ok := row[1].(float64); ok {
			if err := f.SetCellStyle(payslipSheet, cellName(2, r), cellName(2, r), moneyStyle); err != nil {
				return nil, fmt.Errorf("failed to style amount: %w", err)
			}
		}
	}

	header := len(rows) + 2
	if err := setRow(f, header, []any{"Type", "Amount", "Reason", "Recorded"}); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(payslipSheet, cellName(1, header), cellName(4, header), headerStyle); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}
	for i, e := range p.Adjustments {
		r := header + 1 + i
		if err := setRow(f, r, []any{string(e.Type), e.Amount, e.Reason, e.CreatedAt.Format("2006-01-02")}); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(payslipSheet, cellName(2, r), cellName(2, r), moneyStyle); err != nil {
			return nil, fmt.Errorf("failed to style amount: %w", err)
		}
	}

	for col, width := range map[string]float64{"A": 18, "B": 28, "C": 36, "D": 14} {
		if err := f.SetColWidth(payslipSheet, col, col, width); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}

func setRow(f *excelize.File, row int, values []any) error {
	for i, v := range values {
		if err := f.SetCellValue(payslipSheet, cellName(i+1, row), v); err != nil {
			return fmt.Errorf("failed to set cell %s: %w", cellName(i+1, row), err)
		}
	}
	return nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

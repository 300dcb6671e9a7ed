package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"billdesk/internal/domain"
)

const (
	billsSheet = "Bills"
	itemsSheet = "Items"
)

// WriteXLSX renders bills as a workbook with a Bills sheet and an Items sheet.
func WriteXLSX(w io.Writer, bills []domain.Bill) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), billsSheet); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	if _, err := f.NewSheet(itemsSheet); err != nil {
		return fmt.Errorf("creating items sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	billRows := make([][]string, 0, len(bills))
	var lineRows [][]string
	for i := range bills {
		billRows = append(billRows, billRow(&bills[i]))
		lineRows = append(lineRows, itemRows(&bills[i])...)
	}

	if err := writeSheet(f, billsSheet, billColumns, billRows, headerStyle); err != nil {
		return err
	}
	if err := writeSheet(f, itemsSheet, itemColumns, lineRows, headerStyle); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]string, headerStyle int) error {
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("styling %s header: %w", sheet, err)
	}
	for i, row := range rows {
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &row); err != nil {
		return fmt.Errorf("writing %s row %d: %w", sheet, rowNum, err)
	}
	return nil
}

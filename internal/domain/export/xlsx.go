package export

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/FACorreiaa/extrato-pdf/internal/domain/statement"
)

// SheetName is the worksheet the XLSX output is written to.
const SheetName = "Extrato"

func newWorkbook() (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	return f, nil
}

func setRow(f *excelize.File, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(SheetName, cell, &values)
}

func nullNumber(d decimal.NullDecimal) interface{} {
	if !d.Valid {
		return nil
	}
	return d.Decimal.InexactFloat64()
}

// WriteRecordsXLSX writes records as a workbook with numeric monetary cells.
func WriteRecordsXLSX(w io.Writer, records statement.RecordSet) error {
	f, err := newWorkbook()
	if err != nil {
		return err
	}
	defer f.Close()

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := setRow(f, 1, header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range records {
		values := []interface{}{
			r.Date,
			r.Description,
			r.Amount.InexactFloat64(),
			nullNumber(r.Balance),
			nullNumber(r.WithdrawableBalance),
		}
		if err := setRow(f, i+2, values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// WriteDynamicXLSX writes a dynamic-header set as text cells.
func WriteDynamicXLSX(w io.Writer, set statement.DynamicRecordSet) error {
	f, err := newWorkbook()
	if err != nil {
		return err
	}
	defer f.Close()

	header := make([]interface{}, len(set.Columns))
	for i, c := range set.Columns {
		header[i] = c
	}
	if err := setRow(f, 1, header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i := range set.Rows {
		values := make([]interface{}, len(set.Columns))
		for j, c := range set.Columns {
			values[j] = set.Value(i, c)
		}
		if err := setRow(f, i+2, values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

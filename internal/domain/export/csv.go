// Package export serializes record sets to delimited or spreadsheet files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/FACorreiaa/extrato-pdf/internal/domain/statement"
	"github.com/FACorreiaa/extrato-pdf/pkg/money"
)

// Delimiter separates fields in the CSV output.
const Delimiter = ';'

// Header is the fixed column set of the statement CSV.
var Header = []string{"Data", "Detalhes", "Valor", "Saldo", "Saldo_Sacavel"}

// csvRecord is the on-disk shape of a NormalizedRecord. The tags must match Header.
type csvRecord struct {
	Data         string `csv:"Data"`
	Detalhes     string `csv:"Detalhes"`
	Valor        string `csv:"Valor"`
	Saldo        string `csv:"Saldo"`
	SaldoSacavel string `csv:"Saldo_Sacavel"`
}

func toCSVRecords(records statement.RecordSet) []*csvRecord {
	rows := make([]*csvRecord, len(records))
	for i, r := range records {
		rows[i] = &csvRecord{
			Data:         r.Date,
			Detalhes:     r.Description,
			Valor:        money.FormatAmount(r.Amount),
			Saldo:        money.FormatNullAmount(r.Balance),
			SaldoSacavel: money.FormatNullAmount(r.WithdrawableBalance),
		}
	}
	return rows
}

// newCSVWriter returns a ';'-separated writer that prefixes the output with
// a UTF-8 byte-order mark. The returned closer flushes the BOM transformer.
func newCSVWriter(w io.Writer) (*gocsv.SafeCSVWriter, io.Closer) {
	bom := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
	cw := csv.NewWriter(bom)
	cw.Comma = Delimiter
	return gocsv.NewSafeCSVWriter(cw), bom
}

// WriteRecordsCSV writes the statement CSV, header first.
func WriteRecordsCSV(w io.Writer, records statement.RecordSet) error {
	cw, closer := newCSVWriter(w)
	if err := gocsv.MarshalCSV(toCSVRecords(records), cw); err != nil {
		return fmt.Errorf("failed to marshal CSV: %w", err)
	}
	return closer.Close()
}

// WriteDynamicCSV writes a dynamic-header set; missing fields are empty.
func WriteDynamicCSV(w io.Writer, set statement.DynamicRecordSet) error {
	cw, closer := newCSVWriter(w)
	if err := cw.Write(set.Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	record := make([]string, len(set.Columns))
	for i := range set.Rows {
		for j, column := range set.Columns {
			record[j] = set.Value(i, column)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return closer.Close()
}

package export

import (
	"bytes"
	"context"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/FACorreiaa/extrato-pdf/internal/domain/statement"
	"github.com/FACorreiaa/extrato-pdf/pkg/storage"
)

const bom = "\xef\xbb\xbf"

func sampleRecords() statement.RecordSet {
	return statement.RecordSet{
		{
			Date:                "01/01 10:00",
			Description:         "Pagamento",
			Amount:              decimal.RequireFromString("100"),
			WithdrawableBalance: decimal.NewNullDecimal(decimal.RequireFromString("500")),
		},
		{
			Date:                "02/01 08:00",
			Description:         "Compra; mercado",
			Amount:              decimal.RequireFromString("-1234.5"),
			Balance:             decimal.NewNullDecimal(decimal.RequireFromString("10.25")),
			WithdrawableBalance: decimal.NewNullDecimal(decimal.Zero),
		},
	}
}

func TestHeaderMatchesTags(t *testing.T) {
	typ := reflect.TypeOf(csvRecord{})
	require.Equal(t, len(Header), typ.NumField())
	for i, name := range Header {
		assert.Equal(t, name, typ.Field(i).Tag.Get("csv"))
	}
}

func TestWriteRecordsCSV(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteRecordsCSV(&buf, sampleRecords()))

	want := bom +
		"Data;Detalhes;Valor;Saldo;Saldo_Sacavel\n" +
		"01/01 10:00;Pagamento;100.00;;500.00\n" +
		"02/01 08:00;\"Compra; mercado\";-1234.50;10.25;0.00\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteDynamicCSV(t *testing.T) {
	set := statement.DynamicRecordSet{
		Columns: []string{"Data", "Valor", "Historico"},
		Rows: []map[string]string{
			{"Data": "01/01", "Valor": "10,00"},
			{"Data": "02/01", "Historico": "PIX"},
		},
	}
	var buf bytes.Buffer

	require.NoError(t, WriteDynamicCSV(&buf, set))

	want := bom +
		"Data;Valor;Historico\n" +
		"01/01;10,00;\n" +
		"02/01;;PIX\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteRecordsXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRecordsXLSX(&buf, sampleRecords()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Header, rows[0])
	assert.Equal(t, "Pagamento", rows[1][1])
	assert.Equal(t, "100", rows[1][2])
	assert.Equal(t, "", rows[1][3])
	assert.Equal(t, "-1234.5", rows[2][2])
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat(" XLSX ")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = ParseFormat("pdf")
	assert.Error(t, err)
}

func TestWriter_Write(t *testing.T) {
	ctx := context.Background()

	t.Run("empty result writes nothing", func(t *testing.T) {
		dir := t.TempDir()
		w := NewWriter(storage.NewLocalStorage(dir), FormatCSV, "")

		_, err := w.Write(ctx, statement.Result{Records: statement.RecordSet{}})

		assert.ErrorIs(t, err, ErrEmpty)
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("second run gets a suffixed name", func(t *testing.T) {
		dir := t.TempDir()
		w := NewWriter(storage.NewLocalStorage(dir), FormatCSV, "")
		result := statement.Result{Strategy: statement.StrategyFixedSchema, Records: sampleRecords()}

		first, err := w.Write(ctx, result)
		require.NoError(t, err)
		second, err := w.Write(ctx, result)
		require.NoError(t, err)

		assert.Equal(t, DefaultFileName, first.Name)
		assert.Equal(t, "transacoes_formatadas_1.csv", second.Name)
		data, err := os.ReadFile(second.Path)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), bom+"Data;Detalhes"))
	})

	t.Run("xlsx extension follows format", func(t *testing.T) {
		dir := t.TempDir()
		w := NewWriter(storage.NewLocalStorage(dir), FormatXLSX, "extrato.csv")
		assert.Equal(t, "extrato.xlsx", w.FileName())

		set := statement.DynamicRecordSet{Columns: []string{"A"}, Rows: []map[string]string{{"A": "1"}}}
		info, err := w.Write(ctx, statement.Result{Strategy: statement.StrategyDynamicHeader, Dynamic: &set})
		require.NoError(t, err)
		assert.Equal(t, "extrato.xlsx", info.Name)
		assert.Positive(t, info.Size)
	})
}

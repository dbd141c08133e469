package statement_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/extrato-pdf/internal/domain/statement"
	"github.com/FACorreiaa/extrato-pdf/internal/domain/statement/statementtest"
	"github.com/FACorreiaa/extrato-pdf/pkg/money"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNormalizeRow(t *testing.T) {
	t.Run("wrapped date and optional balances", func(t *testing.T) {
		row := statement.Row("01/01\n10:00", "Pagamento", "R$ 100,00", "-", "500,00")

		res := statement.NormalizeRow(row)

		require.True(t, res.OK())
		assert.Nil(t, res.Rejection)
		rec := res.Record
		assert.Equal(t, "01/01 10:00", rec.Date)
		assert.Equal(t, "Pagamento", rec.Description)
		assert.True(t, dec("100").Equal(rec.Amount))
		assert.False(t, rec.Balance.Valid)
		require.True(t, rec.WithdrawableBalance.Valid)
		assert.True(t, dec("500").Equal(rec.WithdrawableBalance.Decimal))
	})

	t.Run("trims cells and treats nil as empty", func(t *testing.T) {
		row := statement.RawRow{
			statement.Text("  02/01/2024\r\n08:15 "),
			nil,
			statement.Text(" -45,00 "),
			statement.Text("1.234,56"),
			statement.Text(" - "),
		}

		res := statement.NormalizeRow(row)

		require.True(t, res.OK())
		assert.Equal(t, "02/01/2024 08:15", res.Record.Date)
		assert.Equal(t, "", res.Record.Description)
		assert.True(t, dec("-45").Equal(res.Record.Amount))
		assert.True(t, dec("1234.56").Equal(res.Record.Balance.Decimal))
		assert.False(t, res.Record.WithdrawableBalance.Valid)
	})

	t.Run("ignores extra columns", func(t *testing.T) {
		row := statement.Row("03/01", "Tarifa", "-1,99", "-", "-", "garbage", "more")

		res := statement.NormalizeRow(row)

		require.True(t, res.OK())
		assert.True(t, dec("-1.99").Equal(res.Record.Amount))
	})
}

func TestNormalizeRow_InsufficientColumns(t *testing.T) {
	rows := []statement.RawRow{
		nil,
		{},
		statement.Row("01/01"),
		statement.Row("01/01", "Pagamento", "100,00", "-"),
		{nil, nil, nil, nil},
	}

	for _, row := range rows {
		res := statement.NormalizeRow(row)

		assert.False(t, res.OK())
		assert.Nil(t, res.Record)
		require.NotNil(t, res.Rejection)
		assert.Equal(t, statement.ReasonInsufficientColumns, res.Rejection.Reason)
		assert.True(t, errors.Is(res.Rejection, statement.ErrInsufficientColumns))
	}
}

func TestNormalizeRow_ValueFormat(t *testing.T) {
	tests := []struct {
		name   string
		row    statement.RawRow
		column string
		text   string
	}{
		{
			name:   "header row",
			row:    statement.Row("Data", "Detalhes", "Valor", "Saldo", "Saldo sacável"),
			column: "amount",
			text:   "Valor",
		},
		{
			name:   "empty amount",
			row:    statement.Row("01/01", "x", "", "-", "-"),
			column: "amount",
			text:   "",
		},
		{
			name:   "bad balance",
			row:    statement.Row("01/01", "x", "1,00", "n/d", "-"),
			column: "balance",
			text:   "n/d",
		},
		{
			name:   "bad withdrawable balance",
			row:    statement.Row("01/01", "x", "1,00", "-", "12a"),
			column: "withdrawable_balance",
			text:   "12a",
		},
		{
			name:   "dash in mandatory amount",
			row:    statement.Row("01/01", "x", "-", "-", "-"),
			column: "amount",
			text:   "-",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := statement.NormalizeRow(tt.row)

			require.False(t, res.OK())
			rej := res.Rejection
			assert.Equal(t, statement.ReasonValueFormat, rej.Reason)
			assert.Equal(t, tt.column, rej.Column)
			assert.Equal(t, tt.text, rej.Text)
			assert.True(t, errors.Is(rej, money.ErrValueFormat))
			assert.Contains(t, rej.Error(), tt.column)
		})
	}
}

func TestNormalizeRow_GeneratedRows(t *testing.T) {
	gen := statementtest.NewGenerator(42)

	for i := 0; i < 200; i++ {
		tx := gen.Transaction()

		res := statement.NormalizeRow(tx.Row)

		require.True(t, res.OK(), "row %v", tx.Row)
		rec := res.Record
		assert.Equal(t, tx.Date, rec.Date)
		assert.Equal(t, tx.Description, rec.Description)
		assert.True(t, tx.Amount.Equal(rec.Amount), "amount %s != %s", tx.Amount, rec.Amount)
		assert.Equal(t, tx.Balance.Valid, rec.Balance.Valid)
		if tx.Balance.Valid {
			assert.True(t, tx.Balance.Decimal.Equal(rec.Balance.Decimal))
		}
		assert.True(t, tx.WithdrawableBalance.Decimal.Equal(rec.WithdrawableBalance.Decimal))
	}
}

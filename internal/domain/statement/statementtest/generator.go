// Package statementtest generates realistic statement tables for tests.
package statementtest

import (
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/extrato-pdf/internal/domain/statement"
)

// Generator builds raw rows the way a ruled statement PDF yields them.
type Generator struct {
	faker *gofakeit.Faker
}

// NewGenerator creates a generator with a fixed seed for reproducibility.
func NewGenerator(seed int64) *Generator {
	return &Generator{faker: gofakeit.New(seed)}
}

// Transaction is a generated row together with the values it encodes.
type Transaction struct {
	Row                 statement.RawRow
	Date                string // expected normalized date
	Description         string
	Amount              decimal.Decimal
	Balance             decimal.NullDecimal
	WithdrawableBalance decimal.NullDecimal
}

// Transaction generates one valid five-column row. The date cell wraps the
// time onto a second line, and the balance is sometimes "-".
func (g *Generator) Transaction() Transaction {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	when := g.faker.DateRange(start, start.AddDate(1, 0, 0))
	day := when.Format("02/01/2006")
	clock := when.Format("15:04")

	cents := int64(g.faker.Number(1, 2_000_000))
	if g.faker.Bool() {
		cents = -cents
	}
	balanceCents := int64(g.faker.Number(0, 50_000_000))
	withdrawableCents := int64(g.faker.Number(0, 50_000_000))

	tx := Transaction{
		Date:                day + " " + clock,
		Description:         g.faker.Company(),
		Amount:              decimal.New(cents, -2),
		WithdrawableBalance: decimal.NewNullDecimal(decimal.New(withdrawableCents, -2)),
	}

	balanceCell := statement.NotAvailable
	if g.faker.Bool() {
		tx.Balance = decimal.NewNullDecimal(decimal.New(balanceCents, -2))
		balanceCell = FormatBRL(balanceCents)
	}

	tx.Row = statement.Row(
		day+"\n"+clock,
		" "+tx.Description+" ",
		FormatBRL(cents),
		balanceCell,
		strings.TrimPrefix(FormatBRL(withdrawableCents), "R$ "),
	)
	return tx
}

// Table generates a table of n valid rows.
func (g *Generator) Table(n int) (statement.RawTable, []Transaction) {
	txs := make([]Transaction, n)
	table := statement.RawTable{Rows: make([]statement.RawRow, n)}
	for i := range txs {
		txs[i] = g.Transaction()
		table.Rows[i] = txs[i].Row
	}
	return table, txs
}

// FormatBRL renders cents as "R$ 1.234,56" (negative as "R$ -1.234,56").
func FormatBRL(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	units := fmt.Sprintf("%d", cents/100)
	var grouped strings.Builder
	for i, r := range units {
		if i > 0 && (len(units)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(r)
	}

	return fmt.Sprintf("R$ %s%s,%02d", sign, grouped.String(), cents%100)
}

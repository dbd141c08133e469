package statement

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/extrato-pdf/pkg/money"
)

// RowResult is the outcome of normalizing one row. Exactly one field is set.
type RowResult struct {
	Record    *NormalizedRecord
	Rejection *Rejection
}

// OK reports whether the row produced a record.
func (r RowResult) OK() bool {
	return r.Record != nil
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// NormalizeRow coerces a raw row into the fixed statement schema.
func NormalizeRow(row RawRow) RowResult {
	cells := cleanCells(row)
	if len(cells) < MinColumns {
		return reject(&Rejection{Reason: ReasonInsufficientColumns, Cells: cells})
	}

	amount, err := money.ParseAmount(cells[ColAmount])
	if err != nil {
		return reject(valueFormat(cells, "amount", ColAmount, err))
	}

	balance, err := parseOptional(cells[ColBalance])
	if err != nil {
		return reject(valueFormat(cells, "balance", ColBalance, err))
	}

	withdrawable, err := parseOptional(cells[ColWithdrawableBalance])
	if err != nil {
		return reject(valueFormat(cells, "withdrawable_balance", ColWithdrawableBalance, err))
	}

	return RowResult{Record: &NormalizedRecord{
		Date:                lineBreaks.Replace(cells[ColDate]),
		Description:         cells[ColDescription],
		Amount:              amount,
		Balance:             balance,
		WithdrawableBalance: withdrawable,
	}}
}

// parseOptional treats the "-" placeholder as not available.
func parseOptional(text string) (decimal.NullDecimal, error) {
	if text == NotAvailable {
		return decimal.NullDecimal{}, nil
	}
	d, err := money.ParseAmount(text)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

// cleanCells trims every cell; nil cells become empty strings.
func cleanCells(row RawRow) []string {
	cells := make([]string, len(row))
	for i, c := range row {
		if c != nil {
			cells[i] = strings.TrimSpace(*c)
		}
	}
	return cells
}

func valueFormat(cells []string, column string, idx int, err error) *Rejection {
	return &Rejection{
		Reason: ReasonValueFormat,
		Column: column,
		Text:   cells[idx],
		Cells:  cells,
		Err:    err,
	}
}

func reject(r *Rejection) RowResult {
	return RowResult{Rejection: r}
}

package extract

import (
	"math"
	"sort"
	"strings"

	"github.com/tsawler/tabula/text"

	"github.com/FACorreiaa/extrato-pdf/internal/domain/statement"
)

// anchor is the point that decides which cell a fragment lands in: its
// horizontal centre, a little above the baseline.
func anchor(f text.TextFragment) (float64, float64) {
	return f.X + f.Width/2, f.Y + f.Height*0.35
}

// FillGrid assigns text fragments to the grid's cells and returns its rows.
// Positions covered by merged cells are nil; cells without text are "".
func FillGrid(grid Grid, fragments []text.TextFragment, tolerance float64) []statement.RawRow {
	inside := make(map[cellPos][]text.TextFragment)
	for _, f := range fragments {
		if pos, ok := grid.cellAt(anchor(f)); ok {
			inside[pos] = append(inside[pos], f)
		}
	}

	rows := make([]statement.RawRow, grid.NumRows())
	for r := range rows {
		row := make(statement.RawRow, grid.NumCols())
		for c := range row {
			if grid.Merged(r, c) {
				continue
			}
			row[c] = statement.Text(cellText(inside[cellPos{r, c}], tolerance))
		}
		rows[r] = row
	}
	return rows
}

// cellText lays fragments out as lines, top to bottom and left to right.
// A horizontal gap wider than tolerance becomes a space.
func cellText(fragments []text.TextFragment, tolerance float64) string {
	if len(fragments) == 0 {
		return ""
	}
	sort.SliceStable(fragments, func(i, j int) bool { return fragments[i].Y > fragments[j].Y })

	var lines [][]text.TextFragment
	baseline := math.Inf(1)
	for _, f := range fragments {
		if len(lines) == 0 || baseline-f.Y > tolerance {
			lines = append(lines, nil)
			baseline = f.Y
		}
		lines[len(lines)-1] = append(lines[len(lines)-1], f)
	}

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		sort.SliceStable(line, func(i, j int) bool { return line[i].X < line[j].X })

		var b strings.Builder
		end := math.Inf(-1)
		for _, f := range line {
			s := b.String()
			if f.X-end > tolerance && s != "" && !strings.HasSuffix(s, " ") && !strings.HasPrefix(f.Text, " ") {
				b.WriteByte(' ')
			}
			b.WriteString(f.Text)
			end = f.X + f.Width
		}
		out = append(out, b.String())
	}
	return strings.Join(out, "\n")
}

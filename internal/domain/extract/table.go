package extract

import (
	"math"
	"sort"

	"github.com/tsawler/tabula/graphicsstate"
	"github.com/tsawler/tabula/model"
	"github.com/tsawler/tabula/tables"
)

// All geometry here is PDF device space as tabula reports it: y grows
// upwards, so a row's top is its larger y.

// TableSettings tunes ruled-table detection.
type TableSettings struct {
	// LineWidth is the largest box thickness treated as a single rule.
	LineWidth float64
	// SnapTolerance aligns parallel rules closer than this.
	SnapTolerance float64
	// EdgeMinLength drops shorter rules.
	EdgeMinLength float64
	// IntersectionTolerance is how far a rule may stop short of a crossing.
	IntersectionTolerance float64
	// TextTolerance groups fragments into one line when their baselines are this close.
	TextTolerance float64
}

// DefaultTableSettings follows the "lines" strategy with an intersection
// tolerance of 5 points.
func DefaultTableSettings() TableSettings {
	return TableSettings{
		LineWidth:             2.0,
		SnapTolerance:         3.0,
		EdgeMinLength:         3.0,
		IntersectionTolerance: 5.0,
		TextTolerance:         3.0,
	}
}

func horizontalRule(x0, x1, y float64) graphicsstate.ExtractedLine {
	x0, x1 = math.Min(x0, x1), math.Max(x0, x1)
	return graphicsstate.ExtractedLine{
		Start:        model.Point{X: x0, Y: y},
		End:          model.Point{X: x1, Y: y},
		IsHorizontal: true,
		BBox:         model.BBox{X: x0, Y: y, Width: x1 - x0},
	}
}

func verticalRule(x, y0, y1 float64) graphicsstate.ExtractedLine {
	y0, y1 = math.Min(y0, y1), math.Max(y0, y1)
	return graphicsstate.ExtractedLine{
		Start:      model.Point{X: x, Y: y0},
		End:        model.Point{X: x, Y: y1},
		IsVertical: true,
		BBox:       model.BBox{X: x, Y: y0, Height: y1 - y0},
	}
}

// RulesFromRectangles turns painted rectangles into rules: a thin box
// becomes one line, any other box contributes its four sides.
func RulesFromRectangles(rects []graphicsstate.ExtractedRectangle, lineWidth float64) []graphicsstate.ExtractedLine {
	lines := make([]graphicsstate.ExtractedLine, 0, len(rects)*2)
	for _, r := range rects {
		b := r.BBox
		switch {
		case b.Height <= lineWidth && b.Width > lineWidth:
			lines = append(lines, horizontalRule(b.Left(), b.Right(), b.Y+b.Height/2))
		case b.Width <= lineWidth && b.Height > lineWidth:
			lines = append(lines, verticalRule(b.X+b.Width/2, b.Bottom(), b.Top()))
		case b.Width > lineWidth && b.Height > lineWidth:
			lines = append(lines,
				horizontalRule(b.Left(), b.Right(), b.Top()),
				horizontalRule(b.Left(), b.Right(), b.Bottom()),
				verticalRule(b.Left(), b.Bottom(), b.Top()),
				verticalRule(b.Right(), b.Bottom(), b.Top()),
			)
		}
	}
	return lines
}

// crosses reports whether h and v meet, allowing either to stop short.
func crosses(h, v graphicsstate.ExtractedLine, tolerance float64) bool {
	x := (v.Start.X + v.End.X) / 2
	y := (h.Start.Y + h.End.Y) / 2
	return x >= h.BBox.Left()-tolerance && x <= h.BBox.Right()+tolerance &&
		y >= v.BBox.Bottom()-tolerance && y <= v.BBox.Top()+tolerance
}

// ruleSet is one group of connected rules.
type ruleSet struct {
	h, v []graphicsstate.ExtractedLine
}

// connectedRules splits rules into groups that touch through crossings, so
// every table on a page is detected on its own.
func connectedRules(lines []graphicsstate.ExtractedLine, s TableSettings) []ruleSet {
	var hs, vs []graphicsstate.ExtractedLine
	for _, l := range lines {
		length := math.Hypot(l.End.X-l.Start.X, l.End.Y-l.Start.Y)
		if length < s.EdgeMinLength {
			continue
		}
		switch {
		case l.IsHorizontal:
			hs = append(hs, l)
		case l.IsVertical:
			vs = append(vs, l)
		}
	}

	parent := make([]int, len(hs)+len(vs))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}
	for hi, h := range hs {
		for vi, v := range vs {
			if crosses(h, v, s.IntersectionTolerance) {
				parent[find(hi)] = find(len(hs) + vi)
			}
		}
	}

	groups := make(map[int]*ruleSet)
	var order []int
	add := func(i int) *ruleSet {
		root := find(i)
		g, ok := groups[root]
		if !ok {
			g = &ruleSet{}
			groups[root] = g
			order = append(order, root)
		}
		return g
	}
	for i, h := range hs {
		g := add(i)
		g.h = append(g.h, h)
	}
	for i, v := range vs {
		g := add(len(hs) + i)
		g.v = append(g.v, v)
	}

	out := make([]ruleSet, 0, len(order))
	for _, root := range order {
		if g := groups[root]; len(g.h) > 0 && len(g.v) > 0 {
			out = append(out, *g)
		}
	}
	return out
}

type cellPos struct {
	row, col int
}

// Grid is a detected table. Column c spans Xs[c] to Xs[c+1] and row r spans
// Ys[r] down to Ys[r+1].
type Grid struct {
	Xs []float64 // ascending
	Ys []float64 // descending
	// anchors maps each position to the cell that owns it; positions
	// inside a merged cell point at its top-left position.
	anchors [][]cellPos
}

// NumRows returns the number of rows in the grid.
func (g Grid) NumRows() int { return len(g.Ys) - 1 }

// NumCols returns the number of columns in the grid.
func (g Grid) NumCols() int { return len(g.Xs) - 1 }

// Merged reports whether the position is covered by a cell to its left or above.
func (g Grid) Merged(row, col int) bool {
	return g.anchors[row][col] != cellPos{row, col}
}

// cellAt finds the position holding the point. Cells are half-open: a
// point on a shared border belongs to the cell right of or below it.
func (g Grid) cellAt(x, y float64) (cellPos, bool) {
	col := sort.Search(len(g.Xs), func(i int) bool { return g.Xs[i] > x }) - 1
	if col < 0 || col >= g.NumCols() {
		return cellPos{}, false
	}
	row := sort.Search(len(g.Ys), func(i int) bool { return g.Ys[i] < y })
	if row == 0 || row > g.NumRows() {
		return cellPos{}, false
	}
	row--
	return g.anchors[row][col], true
}

// FindTables detects ruled tables from the page's rules, top to bottom.
func FindTables(lines []graphicsstate.ExtractedLine, s TableSettings) []Grid {
	detector := tables.NewGridDetector()
	detector.AlignmentTolerance = s.SnapTolerance
	detector.MinLineLength = s.EdgeMinLength

	var grids []Grid
	for _, set := range connectedRules(lines, s) {
		for _, hyp := range detector.DetectFromLines(set.h, set.v) {
			if hyp.Rows*hyp.Cols < 2 {
				continue
			}
			grids = append(grids, layoutGrid(hyp, set, s))
		}
	}
	sort.SliceStable(grids, func(i, j int) bool {
		if grids[i].Ys[0] != grids[j].Ys[0] {
			return grids[i].Ys[0] > grids[j].Ys[0]
		}
		return grids[i].Xs[0] < grids[j].Xs[0]
	})
	return grids
}

// layoutGrid marks a position merged when no rule separates it from the
// position to its left, or failing that from the one above.
func layoutGrid(hyp *tables.GridHypothesis, set ruleSet, s TableSettings) Grid {
	g := Grid{Xs: hyp.VerticalLines, Ys: hyp.HorizontalLines}
	g.anchors = make([][]cellPos, g.NumRows())
	for r := range g.anchors {
		g.anchors[r] = make([]cellPos, g.NumCols())
		midY := (g.Ys[r] + g.Ys[r+1]) / 2
		for c := range g.anchors[r] {
			midX := (g.Xs[c] + g.Xs[c+1]) / 2
			switch {
			case c > 0 && !ruled(set.v, g.Xs[c], midY, false, s.SnapTolerance):
				g.anchors[r][c] = g.anchors[r][c-1]
			case r > 0 && !ruled(set.h, g.Ys[r], midX, true, s.SnapTolerance):
				g.anchors[r][c] = g.anchors[r-1][c]
			default:
				g.anchors[r][c] = cellPos{r, c}
			}
		}
	}
	return g
}

// ruled reports whether a rule near pos passes through along.
func ruled(lines []graphicsstate.ExtractedLine, pos, along float64, horizontal bool, tolerance float64) bool {
	for _, l := range lines {
		if horizontal {
			if math.Abs((l.Start.Y+l.End.Y)/2-pos) <= tolerance && along >= l.BBox.Left() && along <= l.BBox.Right() {
				return true
			}
			continue
		}
		if math.Abs((l.Start.X+l.End.X)/2-pos) <= tolerance && along >= l.BBox.Bottom() && along <= l.BBox.Top() {
			return true
		}
	}
	return false
}

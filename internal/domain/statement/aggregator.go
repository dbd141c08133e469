package statement

import (
	"fmt"
	"strings"
)

// Reporter receives diagnostics for rows that produced no record.
type Reporter interface {
	RowRejected(src Source, row int, rejection *Rejection)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(src Source, row int, rejection *Rejection)

func (f ReporterFunc) RowRejected(src Source, row int, rejection *Rejection) {
	f(src, row, rejection)
}

type discardReporter struct{}

func (discardReporter) RowRejected(Source, int, *Rejection) {}

// Strategy selects how tables are interpreted.
type Strategy int

const (
	// StrategyFixedSchema assumes the five-column statement layout.
	StrategyFixedSchema Strategy = iota
	// StrategyDynamicHeader derives columns from each table's first row.
	StrategyDynamicHeader
)

func (s Strategy) String() string {
	switch s {
	case StrategyFixedSchema:
		return "fixed-schema"
	case StrategyDynamicHeader:
		return "dynamic-header"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy maps a configuration value to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fixed-schema", "fixed":
		return StrategyFixedSchema, nil
	case "dynamic-header", "dynamic":
		return StrategyDynamicHeader, nil
	}
	return 0, fmt.Errorf("unknown aggregation strategy %q", s)
}

// Aggregate folds every valid row of tables into a RecordSet, in encounter
// order. Rejected rows are skipped and passed to reporter.
func Aggregate(tables []RawTable, reporter Reporter) RecordSet {
	if reporter == nil {
		reporter = discardReporter{}
	}

	records := make(RecordSet, 0)
	for _, table := range tables {
		for i, row := range table.Rows {
			res := NormalizeRow(row)
			if !res.OK() {
				reporter.RowRejected(table.Source, i, res.Rejection)
				continue
			}
			records = append(records, *res.Record)
		}
	}
	return records
}

// Result holds the output of one aggregation pass. Records is set for
// StrategyFixedSchema, Dynamic for StrategyDynamicHeader.
type Result struct {
	Strategy Strategy
	Records  RecordSet
	Dynamic  *DynamicRecordSet
}

// Len returns the number of rows in whichever set the strategy produced.
func (r Result) Len() int {
	if r.Strategy == StrategyDynamicHeader {
		if r.Dynamic == nil {
			return 0
		}
		return r.Dynamic.Len()
	}
	return len(r.Records)
}

// Empty reports whether no row survived.
func (r Result) Empty() bool {
	return r.Len() == 0
}

// Aggregator runs the configured strategy.
type Aggregator struct {
	Strategy Strategy
}

// NewAggregator creates an aggregator for strategy.
func NewAggregator(strategy Strategy) *Aggregator {
	return &Aggregator{Strategy: strategy}
}

// Run aggregates tables with the aggregator's strategy.
func (a *Aggregator) Run(tables []RawTable, reporter Reporter) Result {
	switch a.Strategy {
	case StrategyDynamicHeader:
		set := AggregateDynamic(tables, reporter)
		return Result{Strategy: a.Strategy, Dynamic: &set}
	default:
		return Result{Strategy: StrategyFixedSchema, Records: Aggregate(tables, reporter)}
	}
}

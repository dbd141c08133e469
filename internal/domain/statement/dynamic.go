package statement

// AggregateDynamic treats the first row of each table as its header when
// every header cell is non-empty, and concatenates the tables' rows into a
// wide set whose columns are the union of all headers. No monetary
// coercion is applied. Tables without a usable header are reported once,
// with row index 0, and contribute nothing.
func AggregateDynamic(tables []RawTable, reporter Reporter) DynamicRecordSet {
	if reporter == nil {
		reporter = discardReporter{}
	}

	set := DynamicRecordSet{
		Columns: make([]string, 0),
		Rows:    make([]map[string]string, 0),
	}
	seen := make(map[string]struct{})

	for _, table := range tables {
		if len(table.Rows) == 0 {
			continue
		}

		header := cleanCells(table.Rows[0])
		if !validHeader(header) {
			reporter.RowRejected(table.Source, 0, &Rejection{
				Reason: ReasonMissingHeader,
				Cells:  header,
			})
			continue
		}

		for _, name := range header {
			if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}
				set.Columns = append(set.Columns, name)
			}
		}

		for _, row := range table.Rows[1:] {
			cells := cleanCells(row)
			record := make(map[string]string, len(header))
			for i, name := range header {
				if i < len(cells) {
					record[name] = cells[i]
				} else {
					record[name] = ""
				}
			}
			set.Rows = append(set.Rows, record)
		}
	}

	return set
}

func validHeader(cells []string) bool {
	if len(cells) == 0 {
		return false
	}
	for _, c := range cells {
		if c == "" {
			return false
		}
	}
	return true
}

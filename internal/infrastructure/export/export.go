package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"text/tabwriter"

	"summerschool.lol/lolcoin/internal/application/usecase"
)

// Column headers of the rendered ledger table.
var header = []string{"Імʼя", "Клас", "Рахунок", "Баланс"}

func record(row usecase.Row) []string {
	return []string{row.FullName, row.SchoolGrade, row.AccountID, row.BalanceDisplay}
}

// CSV writes rows as they are rendered, header first.
func CSV(w io.Writer, rows []usecase.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(record(row)); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Table writes rows as aligned text columns for a terminal.
func Table(w io.Writer, rows []usecase.Row) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	write := func(fields []string) {
		for i, field := range fields {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, field)
		}
		fmt.Fprintln(tw)
	}

	write(header)
	for _, row := range rows {
		write(record(row))
	}
	return tw.Flush()
}

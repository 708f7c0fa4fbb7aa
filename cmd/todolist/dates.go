package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joaoVitorVallim/ToDoList/internal/model"
)

var errNoDates = errors.New("no dates given: use --date, --from/--to, --month or --year")

// dateFlags selects days either explicitly or as a bulk range.
type dateFlags struct {
	dates []string
	from  string
	to    string
	month bool
	year  bool
}

func (f *dateFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.dates, "date", nil, "date YYYY-MM-DD (repeatable)")
	cmd.Flags().StringVar(&f.from, "from", "", "first day of a range")
	cmd.Flags().StringVar(&f.to, "to", "", "last day of a range")
	cmd.Flags().BoolVar(&f.month, "month", false, "today through the end of the month")
	cmd.Flags().BoolVar(&f.year, "year", false, "today through December 31")
	cmd.MarkFlagsRequiredTogether("from", "to")
	cmd.MarkFlagsMutuallyExclusive("month", "year", "from")
	cmd.MarkFlagsMutuallyExclusive("month", "year", "date")
	cmd.MarkFlagsMutuallyExclusive("from", "date")
}

// resolve expands the flags, plus positional dates, into days. Bulk modes
// start from today.
func (f dateFlags) resolve(today model.Day, args []string) ([]model.Day, error) {
	switch {
	case f.month:
		return model.MonthRemainder(today), nil
	case f.year:
		return model.YearRemainder(today), nil
	case f.from != "" || f.to != "":
		from, err := model.ParseDay(f.from)
		if err != nil {
			return nil, fmt.Errorf("--from: %w", err)
		}
		to, err := model.ParseDay(f.to)
		if err != nil {
			return nil, fmt.Errorf("--to: %w", err)
		}
		return model.GenerateRange(from, to)
	}
	raw := append(append([]string{}, f.dates...), args...)
	if len(raw) == 0 {
		return nil, errNoDates
	}
	return model.NormalizeAll(raw)
}

func parseDayArg(raw string, today model.Day) (model.Day, error) {
	if raw == "" || raw == "today" {
		return today, nil
	}
	return model.ParseDay(raw)
}

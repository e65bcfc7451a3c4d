package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/sadopc/focusly/internal/store"
)

// ToCSV writes one row per task completion, with its entry's date and
// category metadata, to path.
func ToCSV(days []Day, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"Date", "Category", "Task", "Quantity", "Minutes", "Ad Hoc"}); err != nil {
		return err
	}

	for _, day := range days {
		for _, e := range day.Entries {
			for _, c := range e.Completions {
				minutes := ""
				if c.Duration != nil {
					minutes = fmt.Sprintf("%d", *c.Duration)
				}
				adHoc := ""
				if c.IsOtherTask {
					adHoc = "yes"
				}
				row := []string{
					e.Date,
					e.CategoryName,
					c.TaskName,
					fmt.Sprintf("%d", c.Quantity),
					minutes,
					adHoc,
				}
				if err := w.Write(row); err != nil {
					return err
				}
			}
		}
	}

	return w.Error()
}

// Day groups one date's entry details for export.
type Day struct {
	Date    string
	Entries []store.EntryDetail
}

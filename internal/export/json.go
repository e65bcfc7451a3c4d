package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type jsonExport struct {
	ExportedAt string    `json:"exported_at"`
	Count      int       `json:"count"`
	Days       []jsonDay `json:"days"`
}

type jsonDay struct {
	Date    string      `json:"date"`
	Entries []jsonEntry `json:"entries"`
}

type jsonEntry struct {
	Category       string           `json:"category"`
	CategoryID     string           `json:"category_id"`
	TimeType       string           `json:"time_type"`
	Completions    []jsonCompletion `json:"completions,omitempty"`
	TrackedMinutes int              `json:"tracked_minutes,omitempty"`
}

type jsonCompletion struct {
	Task     string `json:"task"`
	Quantity int    `json:"quantity"`
	Minutes  int    `json:"minutes,omitempty"`
	AdHoc    bool   `json:"ad_hoc,omitempty"`
}

// ToJSON writes the day groups to path as indented JSON.
func ToJSON(days []Day, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
	}

	for _, day := range days {
		jd := jsonDay{Date: day.Date}
		for _, e := range day.Entries {
			je := jsonEntry{
				Category:   e.CategoryName,
				CategoryID: e.CategoryID,
				TimeType:   string(e.TimeType),
			}
			for _, c := range e.Completions {
				jc := jsonCompletion{
					Task:     c.TaskName,
					Quantity: c.Quantity,
					AdHoc:    c.IsOtherTask,
				}
				if c.Duration != nil {
					jc.Minutes = *c.Duration
				}
				je.Completions = append(je.Completions, jc)
				export.Count++
			}
			if e.TimeEntry != nil {
				je.TrackedMinutes = trackedMinutes(e.TimeEntry)
			}
			jd.Entries = append(jd.Entries, je)
		}
		export.Days = append(export.Days, jd)
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

package report

import (
	"encoding/json"
	"os"
	"sort"
	"time"

	"github.com/AnyUserName/hippo-cli/internal/failure"
)

// New creates an empty report.
func New(profileName string, quality int) *Report {
	return &Report{
		Version:     SupportedVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Profile:     profileName,
		Quality:     quality,
		Entries:     []Entry{},
	}
}

// Fail fills in e.Error from err.
func (e *Entry) Fail(err error) {
	e.Error = &ErrorInfo{
		Kind:    failure.KindOf(err).String(),
		Stage:   string(failure.StageOf(err)),
		Message: err.Error(),
	}
}

// Failed reports whether the entry records an error.
func (e Entry) Failed() bool { return e.Error != nil }

// Add appends an entry.
func (r *Report) Add(e Entry) {
	r.Entries = append(r.Entries, e)
}

// Finalize sorts entries by input path and recomputes the stats.
func (r *Report) Finalize() {
	sort.Slice(r.Entries, func(i, j int) bool {
		return r.Entries[i].Input < r.Entries[j].Input
	})

	var s Stats
	for _, e := range r.Entries {
		s.TotalInputBytes += e.InputSize
		if e.Failed() {
			s.Failed++
			continue
		}
		s.Converted++
		s.TotalOutputBytes += e.OutputSize
	}
	r.Stats = s
}

// WriteJSON serializes the report to a JSON file with stable ordering.
func WriteJSON(r *Report, path string) error {
	r.Finalize()

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

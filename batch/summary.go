package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ByLCY/certpress/fonts"
)

// Summary is the report of one batch run.
// Successful + Failed always equals TotalProcessed.
type Summary struct {
	TotalProcessed  int            `json:"totalProcessed"`
	Successful      int            `json:"successful"`
	Failed          int            `json:"failed"`
	Errors          []RowError     `json:"errors"`
	FileLocations   []FileLocation `json:"fileLocations"`
	FontUsage       fonts.Usage    `json:"fontUsage"`
	OutputDirectory string         `json:"outputDirectory"`
	TemplateSource  string         `json:"templateSource"`
	StartedAt       time.Time      `json:"startedAt"`
	Duration        time.Duration  `json:"duration"`
}

// RowError describes one failed record. Row is 1-based.
type RowError struct {
	Row     int    `json:"row"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// FileLocation describes one written document.
type FileLocation struct {
	CertificateID string `json:"certificateId"`
	Name          string `json:"name"`
	Path          string `json:"path"` // absolute
	SizeBytes     int64  `json:"sizeBytes"`
}

func newSummary(usage fonts.Usage) *Summary {
	return &Summary{
		Errors:        []RowError{},
		FileLocations: []FileLocation{},
		FontUsage:     usage,
	}
}

// add folds one record outcome into the summary.
func (s *Summary) add(o outcome) {
	s.TotalProcessed++
	if o.err != nil {
		s.Failed++
		s.Errors = append(s.Errors, RowError{Row: o.row, Name: o.name, Message: o.err.Error()})
		return
	}
	s.Successful++
	s.FileLocations = append(s.FileLocations, o.file)
}

// TotalBytes sums the sizes of all written documents.
func (s *Summary) TotalBytes() int64 {
	var n int64
	for _, f := range s.FileLocations {
		n += f.SizeBytes
	}
	return n
}

// WriteJSON writes the summary as indented JSON to path.
func (s *Summary) WriteJSON(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write summary %s: %w", path, err)
	}
	return nil
}

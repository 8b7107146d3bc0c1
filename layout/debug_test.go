package layout

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteDebugJSONListsDegradedPlacements(t *testing.T) {
	e := NewEngine(testPage, stubFonts{}, failingMeasurer{})
	layer := &Layer{Page: testPage}
	layer.Placements = append(layer.Placements,
		Placement{Text: "regular", Size: 12},
		e.DrawCentered("no metrics", "Lora-Bold", 12, 100, 0),
	)
	path := filepath.Join(t.TempDir(), "debug", "C001.json")
	if err := WriteDebugJSON(layer, path); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	var dump struct {
		Page       Page        `json:"page"`
		Placements []Placement `json:"placements"`
		Degraded   []int       `json:"degraded"`
	}
	if err := json.Unmarshal(data, &dump); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if dump.Page != testPage || len(dump.Placements) != 2 {
		t.Fatalf("unexpected dump: %+v", dump)
	}
	if len(dump.Degraded) != 1 || dump.Degraded[0] != 1 {
		t.Fatalf("expected placement 1 degraded, got %v", dump.Degraded)
	}
	if err := WriteDebugJSON(nil, path); err != nil {
		t.Fatalf("nil layer must be a no-op, got %v", err)
	}
}

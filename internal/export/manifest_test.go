package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/piwi3910/tilepack/internal/model"
)

// buildTestResult creates a small packing result with fixed IDs so the
// manifest output is stable.
func buildTestResult() model.PackResult {
	return model.PackResult{
		Size:  model.NewSize(80, 80),
		Bin:   model.NewSize(96, 80),
		Order: "area",
		Placed: []model.Item{
			{ID: "a1", Label: "hero", X: 0, Y: 0, Width: 64, Height: 48},
			{ID: "b2", Label: "coin", X: 64, Y: 0, Width: 16, Height: 32, Flipped: true, Source: "sprites/coin.png"},
			{ID: "c3", Label: "tile", X: 0, Y: 48, Width: 32, Height: 32},
		},
		Unplaced: []model.Item{
			{ID: "d4", Label: "giant", Width: 500, Height: 400},
		},
		Leftovers: []model.Rect{
			model.NewRect(32, 48, 48, 32),
		},
	}
}

func TestWriteManifest_Golden(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteManifest(&buf, buildTestResult()); err != nil {
		t.Fatalf("WriteManifest returned error: %v", err)
	}

	g := goldie.New(t)
	g.Assert(t, "manifest", buf.Bytes())
}

func TestBuildManifest_EmptyListsNotNull(t *testing.T) {
	m := BuildManifest(model.PackResult{})
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !bytes.Contains(data, []byte(`"items":[]`)) || !bytes.Contains(data, []byte(`"unplaced":[]`)) {
		t.Errorf("expected empty arrays in %s", data)
	}
}

func TestManifestSummary(t *testing.T) {
	s := BuildManifest(buildTestResult()).Summary()
	want := ManifestSummary{Bin: "96x80", Size: "80x80", Order: "area", Placed: 3, Unplaced: 1}
	if s != want {
		t.Errorf("Summary() = %+v, want %+v", s, want)
	}
}

func TestExportManifest_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atlas.json")
	if err := ExportManifest(path, buildTestResult()); err != nil {
		t.Fatalf("ExportManifest returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("manifest not written: %v", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("manifest is not valid JSON: %v", err)
	}
	if len(m.Items) != 3 || m.Items[1].Label != "coin" || !m.Items[1].Flipped {
		t.Errorf("unexpected items: %+v", m.Items)
	}
}

func TestExportManifest_BadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "atlas.json")
	if err := ExportManifest(path, buildTestResult()); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestRoundTo(t *testing.T) {
	tests := []struct {
		v    float64
		want float64
	}{
		{72, 72},
		{66.666666, 66.67},
		{0.004, 0},
	}
	for _, tt := range tests {
		if got := roundTo(tt.v, 2); got != tt.want {
			t.Errorf("roundTo(%v, 2) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

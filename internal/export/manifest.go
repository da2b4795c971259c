// Package export writes packing results to JSON manifests, Excel reports,
// PDF previews and PNG atlases.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/piwi3910/tilepack/internal/model"
)

// ManifestEntry is one item in a manifest. W and H are the placed
// dimensions.
type ManifestEntry struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	W       int    `json:"w"`
	H       int    `json:"h"`
	Flipped bool   `json:"flipped"`
	Source  string `json:"source,omitempty"`
}

// Manifest describes where every item ended up. Consumers such as sprite
// loaders read it next to the atlas image.
type Manifest struct {
	Bin        model.Size      `json:"bin"`
	Size       model.Size      `json:"size"`
	Order      string          `json:"order"`
	Fallback   bool            `json:"fallback"`
	Efficiency float64         `json:"efficiency"`
	Items      []ManifestEntry `json:"items"`
	Unplaced   []ManifestEntry `json:"unplaced"`
}

// ManifestSummary is the short form of a manifest, small enough for a QR code.
type ManifestSummary struct {
	Bin      string `json:"bin"`
	Size     string `json:"size"`
	Order    string `json:"order"`
	Placed   int    `json:"placed"`
	Unplaced int    `json:"unplaced"`
}

func manifestEntry(it model.Item) ManifestEntry {
	return ManifestEntry{
		ID:      it.ID,
		Label:   it.Label,
		X:       it.X,
		Y:       it.Y,
		W:       it.Width,
		H:       it.Height,
		Flipped: it.Flipped,
		Source:  it.Source,
	}
}

// BuildManifest converts a result into its manifest form. Efficiency is
// rounded to two decimals so manifests diff cleanly.
func BuildManifest(result model.PackResult) Manifest {
	m := Manifest{
		Bin:        result.Bin,
		Size:       result.Size,
		Order:      result.Order,
		Fallback:   result.Fallback,
		Efficiency: roundTo(result.Efficiency(), 2),
		Items:      make([]ManifestEntry, 0, len(result.Placed)),
		Unplaced:   make([]ManifestEntry, 0, len(result.Unplaced)),
	}
	for _, it := range result.Placed {
		m.Items = append(m.Items, manifestEntry(it))
	}
	for _, it := range result.Unplaced {
		m.Unplaced = append(m.Unplaced, manifestEntry(it))
	}
	return m
}

// Summary returns the short form of the manifest.
func (m Manifest) Summary() ManifestSummary {
	return ManifestSummary{
		Bin:      m.Bin.String(),
		Size:     m.Size.String(),
		Order:    m.Order,
		Placed:   len(m.Items),
		Unplaced: len(m.Unplaced),
	}
}

// WriteManifest encodes the manifest of result as indented JSON.
func WriteManifest(w io.Writer, result model.PackResult) error {
	data, err := json.MarshalIndent(BuildManifest(result), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// ExportManifest writes the manifest of result to path.
func ExportManifest(path string, result model.PackResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create manifest file: %w", err)
	}
	if err := WriteManifest(f, result); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

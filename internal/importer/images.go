package importer

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/piwi3910/tilepack/internal/model"
)

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// ImportImages creates one item per image file in dir, sized from the image
// header. The item label is the file name without extension and Source
// holds the full path so the atlas exporter can draw it later. Files are
// read in name order; subdirectories are not descended into.
func ImportImages(dir string) ImportResult {
	result := ImportResult{}

	entries, err := os.ReadDir(dir)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read directory: %v", err))
		return result
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	if len(names) == 0 {
		result.Errors = append(result.Errors, "No PNG, JPEG or GIF files found")
		return result
	}

	for _, name := range names {
		path := filepath.Join(dir, name)
		cfg, err := decodeImageConfig(path)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		if cfg.Width <= 0 || cfg.Height <= 0 {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: empty image", name))
			continue
		}
		if cfg.Width > MaxSide || cfg.Height > MaxSide {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %dx%d exceeds the side limit of %d", name, cfg.Width, cfg.Height, MaxSide))
			continue
		}

		it := model.NewItem(strings.TrimSuffix(name, filepath.Ext(name)), cfg.Width, cfg.Height)
		it.Source = path
		result.Items = append(result.Items, it)
	}

	return result
}

func decodeImageConfig(path string) (image.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return image.Config{}, fmt.Errorf("failed to decode image header: %w", err)
	}
	return cfg, nil
}

// Import picks the importer by file extension. A directory is read as a
// set of images.
func Import(path string, dxfScale float64) ImportResult {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return ImportImages(path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xls":
		return ImportExcel(path)
	case ".dxf":
		return ImportDXF(path, dxfScale)
	default:
		return ImportCSV(path)
	}
}

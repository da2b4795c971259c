package project

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/piwi3910/tilepack/internal/model"
)

// Extension is the file suffix used for saved projects.
const Extension = ".tilepack.json"

// IsProjectFile reports whether path names a saved project rather than an
// item list.
func IsProjectFile(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), Extension)
}

// SaveProject writes the project to path as JSON.
// It creates parent directories if they do not exist.
func SaveProject(path string, p model.Project) error {
	if p.Items == nil {
		p.Items = []model.Item{}
	}
	return writeJSON(path, p)
}

// LoadProject reads a project from path. Settings missing from the file
// keep their defaults.
func LoadProject(path string) (model.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Project{}, fmt.Errorf("failed to read project: %w", err)
	}
	p := model.NewProject()
	if err := json.Unmarshal(data, &p); err != nil {
		return model.Project{}, fmt.Errorf("failed to parse project: %w", err)
	}
	if p.Items == nil {
		p.Items = []model.Item{}
	}
	return p, nil
}

// MergeProjectItems appends the items of the project at path to existing.
// Items whose ID is already present are skipped. Results are not carried
// over since the merged list has not been packed.
func MergeProjectItems(path string, existing model.Project) (model.Project, error) {
	imported, err := LoadProject(path)
	if err != nil {
		return existing, err
	}

	ids := make(map[string]bool, len(existing.Items))
	for _, it := range existing.Items {
		ids[it.ID] = true
	}

	added := 0
	for _, it := range imported.Items {
		if ids[it.ID] {
			continue
		}
		existing.Items = append(existing.Items, it)
		ids[it.ID] = true
		added++
	}
	if added > 0 {
		existing.Result = nil
	}
	return existing, nil
}

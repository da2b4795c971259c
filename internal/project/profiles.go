package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/tilepack/internal/model"
)

// DefaultProfilesPath returns the default file path for custom profiles.
func DefaultProfilesPath() string {
	return filepath.Join(DefaultConfigDir(), "profiles.json")
}

// SaveProfiles saves the custom profiles of store to a JSON file.
func SaveProfiles(path string, store model.ProfileStore) error {
	if store.Profiles == nil {
		store.Profiles = []model.Profile{}
	}
	return writeJSON(path, store)
}

// LoadProfiles loads custom profiles from a JSON file.
// Returns an empty store if the file does not exist.
func LoadProfiles(path string) (model.ProfileStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.NewProfileStore(), nil
		}
		return model.ProfileStore{}, fmt.Errorf("failed to read profiles: %w", err)
	}

	var store model.ProfileStore
	if err := json.Unmarshal(data, &store); err != nil {
		return model.ProfileStore{}, fmt.Errorf("failed to parse profiles: %w", err)
	}
	if store.Profiles == nil {
		store.Profiles = []model.Profile{}
	}
	// Loaded profiles are never built-in
	for i := range store.Profiles {
		store.Profiles[i].IsBuiltIn = false
	}
	return store, nil
}

// LoadDefaultProfiles loads custom profiles from the default path.
func LoadDefaultProfiles() (model.ProfileStore, error) {
	return LoadProfiles(DefaultProfilesPath())
}

// ExportProfile exports a single profile to a JSON file (for sharing).
func ExportProfile(path string, profile model.Profile) error {
	profile.IsBuiltIn = false
	return writeJSON(path, profile)
}

// ImportProfile imports a single profile from a JSON file.
func ImportProfile(path string) (model.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Profile{}, fmt.Errorf("failed to read profile: %w", err)
	}

	var profile model.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return model.Profile{}, fmt.Errorf("failed to parse profile: %w", err)
	}

	profile.IsBuiltIn = false
	if profile.Name == "" {
		return model.Profile{}, errors.New("imported profile has no name")
	}
	return profile, nil
}

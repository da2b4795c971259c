package model

import (
	"fmt"

	"github.com/google/uuid"
)

// Profile is a named, reusable set of packing settings.
type Profile struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Settings    PackSettings `json:"settings"`
	IsBuiltIn   bool         `json:"-"`
}

// NewProfile creates a new Profile with a generated ID.
func NewProfile(name, description string, settings PackSettings) Profile {
	return Profile{
		ID:          uuid.New().String()[:8],
		Name:        name,
		Description: description,
		Settings:    settings,
	}
}

// ApplyToSettings copies this profile's search parameters into s. The
// ordering list is only replaced when the profile names one.
func (p Profile) ApplyToSettings(s *PackSettings) {
	s.MaxBinSide = p.Settings.MaxBinSide
	s.DiscardStep = p.Settings.DiscardStep
	s.AllowFlip = p.Settings.AllowFlip
	s.SpacePolicy = p.Settings.SpacePolicy
	s.MaxSpaces = p.Settings.MaxSpaces
	if len(p.Settings.Orders) > 0 {
		s.Orders = append([]string(nil), p.Settings.Orders...)
	}
	s.Genetic = p.Settings.Genetic
}

func builtinProfile(name, description string, maxSide, discardStep int, policy SpacePolicy) Profile {
	s := DefaultSettings()
	s.MaxBinSide = maxSide
	s.DiscardStep = discardStep
	s.SpacePolicy = policy
	return Profile{ID: name, Name: name, Description: description, Settings: s, IsBuiltIn: true}
}

// BuiltinProfiles are always available and cannot be overwritten.
var BuiltinProfiles = []Profile{
	builtinProfile("atlas-4k", "4096px texture atlas, tightest search", 4096, 1, SpacesGrowable),
	builtinProfile("atlas-2k", "2048px texture atlas, tightest search", 2048, 1, SpacesGrowable),
	builtinProfile("mobile-1k", "1024px atlas for low-end GPUs", 1024, 1, SpacesGrowable),
	builtinProfile("fast", "4096px atlas, coarse search with a bounded free list", 4096, 16, SpacesBounded),
}

// ProfileStore holds the user's saved profiles.
type ProfileStore struct {
	Profiles []Profile `json:"profiles"`
}

// NewProfileStore creates an empty profile store.
func NewProfileStore() ProfileStore {
	return ProfileStore{Profiles: []Profile{}}
}

// All returns the built-in profiles followed by the custom ones.
func (ps *ProfileStore) All() []Profile {
	all := make([]Profile, 0, len(BuiltinProfiles)+len(ps.Profiles))
	all = append(all, BuiltinProfiles...)
	all = append(all, ps.Profiles...)
	return all
}

// Find returns the profile with the given name, searching built-ins first,
// or nil.
func (ps *ProfileStore) Find(name string) *Profile {
	for i := range BuiltinProfiles {
		if BuiltinProfiles[i].Name == name {
			p := BuiltinProfiles[i]
			return &p
		}
	}
	for i := range ps.Profiles {
		if ps.Profiles[i].Name == name {
			return &ps.Profiles[i]
		}
	}
	return nil
}

// Add stores p, replacing a custom profile of the same name. Built-in names
// are reserved.
func (ps *ProfileStore) Add(p Profile) error {
	if p.Name == "" {
		return fmt.Errorf("profile has no name")
	}
	for _, b := range BuiltinProfiles {
		if b.Name == p.Name {
			return fmt.Errorf("profile %q is built-in and cannot be replaced", p.Name)
		}
	}
	p.IsBuiltIn = false
	for i := range ps.Profiles {
		if ps.Profiles[i].Name == p.Name {
			ps.Profiles[i] = p
			return nil
		}
	}
	ps.Profiles = append(ps.Profiles, p)
	return nil
}

// Remove deletes the custom profile with the given name and reports
// whether one was found.
func (ps *ProfileStore) Remove(name string) bool {
	for i := range ps.Profiles {
		if ps.Profiles[i].Name == name {
			ps.Profiles = append(ps.Profiles[:i], ps.Profiles[i+1:]...)
			return true
		}
	}
	return false
}

// Names returns the names of all profiles, built-ins first.
func (ps *ProfileStore) Names() []string {
	all := ps.All()
	names := make([]string, len(all))
	for i, p := range all {
		names[i] = p.Name
	}
	return names
}

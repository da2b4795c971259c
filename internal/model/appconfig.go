package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Default packing settings applied to new projects
	DefaultMaxBinSide  int         `json:"default_max_bin_side"`
	DefaultDiscardStep int         `json:"default_discard_step"`
	DefaultAllowFlip   bool        `json:"default_allow_flip"`
	DefaultSpacePolicy SpacePolicy `json:"default_space_policy"`
	DefaultMaxSpaces   int         `json:"default_max_spaces"`
	DefaultOrders      []string    `json:"default_orders"`
	DefaultProfile     string      `json:"default_profile"`

	// Application preferences
	LogLevel       string   `json:"log_level"` // "debug", "info", "warn", "error"
	RecentProjects []string `json:"recent_projects"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultMaxBinSide:  defaults.MaxBinSide,
		DefaultDiscardStep: defaults.DiscardStep,
		DefaultAllowFlip:   defaults.AllowFlip,
		DefaultSpacePolicy: defaults.SpacePolicy,
		DefaultMaxSpaces:   defaults.MaxSpaces,
		DefaultOrders:      defaults.Orders,
		DefaultProfile:     "",
		LogLevel:           "info",
		RecentProjects:     []string{},
	}
}

// ApplyToSettings copies the default values from AppConfig into a PackSettings struct.
// This is used when creating a new project so it inherits the user's saved defaults.
func (c AppConfig) ApplyToSettings(s *PackSettings) {
	s.MaxBinSide = c.DefaultMaxBinSide
	s.DiscardStep = c.DefaultDiscardStep
	s.AllowFlip = c.DefaultAllowFlip
	s.SpacePolicy = c.DefaultSpacePolicy
	s.MaxSpaces = c.DefaultMaxSpaces
	if len(c.DefaultOrders) > 0 {
		s.Orders = append([]string(nil), c.DefaultOrders...)
	}
}

// AddRecentProject moves path to the front of the recent list, keeping at
// most limit entries.
func (c *AppConfig) AddRecentProject(path string, limit int) {
	recent := []string{path}
	for _, p := range c.RecentProjects {
		if p != path {
			recent = append(recent, p)
		}
	}
	if limit > 0 && len(recent) > limit {
		recent = recent[:limit]
	}
	c.RecentProjects = recent
}

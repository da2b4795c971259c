package model

// SpacePolicy selects how the free-space collection stores its regions.
type SpacePolicy string

const (
	SpacesGrowable SpacePolicy = "growable" // Unbounded slice, never rejects a region
	SpacesBounded  SpacePolicy = "bounded"  // Fixed slot table, rejects regions once full
)

// DefaultMaxBinSide mirrors a common maximum GPU texture size.
const DefaultMaxBinSide = 4096

// DefaultMaxSpaces is the slot count of a bounded free-space collection.
const DefaultMaxSpaces = 8192

// DefaultOrderNames lists the orderings tried when none are configured.
var DefaultOrderNames = []string{"area", "perimeter", "max-side", "width", "height", "pathological"}

// GeneticSettings configures the evolved ordering.
type GeneticSettings struct {
	Enabled        bool    `json:"enabled"`
	PopulationSize int     `json:"population_size"`
	Generations    int     `json:"generations"`
	MutationRate   float64 `json:"mutation_rate"`
	TournamentSize int     `json:"tournament_size"`
	EliteCount     int     `json:"elite_count"`
	Seed           int64   `json:"seed"`
}

// DefaultGeneticSettings returns parameters small enough to run on a few
// hundred items in well under a second per generation.
func DefaultGeneticSettings() GeneticSettings {
	return GeneticSettings{
		Enabled:        false,
		PopulationSize: 24,
		Generations:    30,
		MutationRate:   0.15,
		TournamentSize: 3,
		EliteCount:     2,
		Seed:           1,
	}
}

// PackSettings holds the packing engine configuration.
type PackSettings struct {
	MaxBinSide    int             `json:"max_bin_side"`    // Upper bound of bin width and height
	DiscardStep   int             `json:"discard_step"`    // Search precision, 1 = tightest
	AllowFlip     bool            `json:"allow_flip"`      // Permit 90 degree rotation
	SpacePolicy   SpacePolicy     `json:"space_policy"`    // "growable" or "bounded"
	MaxSpaces     int             `json:"max_spaces"`      // Slot count for the bounded policy
	Orders        []string        `json:"orders"`          // Named orderings to try
	StopOnFailure bool            `json:"stop_on_failure"` // Abort the final pass at the first unplaced item
	Genetic       GeneticSettings `json:"genetic"`
}

func DefaultSettings() PackSettings {
	return PackSettings{
		MaxBinSide:  DefaultMaxBinSide,
		DiscardStep: 1,
		AllowFlip:   true,
		SpacePolicy: SpacesGrowable,
		MaxSpaces:   DefaultMaxSpaces,
		Orders:      append([]string(nil), DefaultOrderNames...),
		Genetic:     DefaultGeneticSettings(),
	}
}

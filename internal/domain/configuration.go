package domain

import "github.com/rpgo/glidepath/pkg/dateutil"

// Configuration is the root of the YAML input file
type Configuration struct {
	Log         LogConfig        `yaml:"log" json:"log"`
	Data        DataConfig       `yaml:"data" json:"data"`
	Storage     StorageConfig    `yaml:"storage" json:"storage"`
	Scenarios   []Scenario       `yaml:"scenarios" json:"scenarios"`
	Experiments ExperimentConfig `yaml:"experiments" json:"experiments"`
}

// LogConfig selects the log level and format
type LogConfig struct {
	Level  string `yaml:"level" json:"level"`   // debug|info|warn|error
	Format string `yaml:"format" json:"format"` // console|json
}

// DataConfig points at the monthly price history and the window it may be queried over
type DataConfig struct {
	Path        string             `yaml:"path" json:"path"`
	WindowStart dateutil.YearMonth `yaml:"window_start" json:"window_start"`
	WindowEnd   dateutil.YearMonth `yaml:"window_end" json:"window_end"`
}

// StorageConfig configures result persistence; an empty DSN disables it
type StorageConfig struct {
	DSN string `yaml:"dsn" json:"dsn"`
}

// ExperimentConfig tunes the parameter sweeps
type ExperimentConfig struct {
	Workers         int    `yaml:"workers" json:"workers"`
	OutputDir       string `yaml:"output_dir" json:"output_dir"`
	LastDataYear    int    `yaml:"last_data_year" json:"last_data_year"`
	WindowCount     int    `yaml:"window_count" json:"window_count"`
	WindowSpanYears int    `yaml:"window_span_years" json:"window_span_years"`
}

// FindScenario returns the scenario with the given name
func (c *Configuration) FindScenario(name string) (Scenario, bool) {
	for _, s := range c.Scenarios {
		if s.Name == name {
			return s, true
		}
	}
	return Scenario{}, false
}

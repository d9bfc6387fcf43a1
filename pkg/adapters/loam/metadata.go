package loam

import "time"

// ProfileMetadata is the frontmatter of a player profile document.
// It uses "mapstructure" tags to match the YAML keys.
type ProfileMetadata struct {
	Name      string `json:"name" mapstructure:"name"`
	Kind      string `json:"kind" mapstructure:"kind"`
	Model     string `json:"model" mapstructure:"model"`
	BaseURL   string `json:"base_url" mapstructure:"base_url"`
	APIKeyEnv string `json:"api_key_env" mapstructure:"api_key_env"`

	// Options holds tuning knobs, decoded into ModelOptions.
	Options map[string]any `json:"options" mapstructure:"options"`
}

// ModelOptions are the typed contents of ProfileMetadata.Options.
type ModelOptions struct {
	Temperature *float64      `mapstructure:"temperature"`
	Attempts    int           `mapstructure:"attempts"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Seed        int64         `mapstructure:"seed"`
}

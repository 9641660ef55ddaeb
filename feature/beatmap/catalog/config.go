package catalog

import "strings"

// Config holds configuration for the external beatmap catalog.
type Config struct {
	// BaseURL is the osu! API v1 root; requests go to BaseURL + "/get_beatmaps".
	BaseURL string `mapstructure:"base_url" default:"https://old.ppy.sh/api"`
	// APIKeys is a comma separated pool of API keys, one is picked per request.
	APIKeys string `mapstructure:"api_keys" default:""`
	// TimeoutSeconds bounds every catalog request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"10"`
}

// Keys returns the non-empty entries of the API key pool.
func (c Config) Keys() []string {
	var keys []string
	for _, k := range strings.Split(c.APIKeys, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

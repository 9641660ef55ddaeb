package server

import "strings"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API. Empty disables auth.
	ApiKey string `mapstructure:"api_key" default:""`
	// URL is the public server URL used to build beatmap links (e.g. https://akatsuki.gg).
	URL string `mapstructure:"url" default:"https://akatsuki.gg"`
}

// Domain returns the server URL without scheme or trailing slash.
func (c Config) Domain() string {
	d := strings.TrimPrefix(c.URL, "https://")
	d = strings.TrimPrefix(d, "http://")
	return strings.TrimSuffix(d, "/")
}

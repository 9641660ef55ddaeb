// Package config provides configuration management for the beatmap cache.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file. Defaults live in the 'default' struct tags of
// each partial configuration.
//
// # Configuration Structure
//
//   - Server: HTTP port, API key and the public server URL used in links
//   - Database: MySQL (or SQLite) connection details
//   - Log: Logging level and format
//   - Catalog: osu! API base URL, API key pool and request timeout
//   - Notify: Status change webhook
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Catalog.BaseURL)
package config

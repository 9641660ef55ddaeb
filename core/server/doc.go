// Package server holds the HTTP server configuration.
//
// While the cmd package handles the server startup, this package defines the
// configuration structure for the listening port, the API key protecting the
// beatmap routes, and the public server URL used when rendering beatmap links.
package server

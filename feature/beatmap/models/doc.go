// Package models defines the beatmap entity, its ranked status and game
// mode enumerations, the staleness policy deciding when a cached record must
// be re-fetched, and the mapping to and from the 'beatmaps' table.
package models

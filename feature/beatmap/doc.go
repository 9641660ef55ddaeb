// Package beatmap implements the beatmap cache feature.
//
// Lookups are served from the local store and synchronized with the
// external catalog when the record is missing or stale:
//  1. Store: the beatmaps table, source of truth for local counters and overrides.
//  2. Catalog: the osu! API, source of truth for map metadata and ranked status.
//
// A refresh fetches from the catalog, parses the response, reconciles it with
// the stored record (package reconcile) and applies the resulting plan.
// Concurrent refreshes of the same key share a single catalog fetch.
//
// # Components
//
//   - Service: lookups, refresh, set synchronization and play counting.
//   - Handler: HTTP endpoints.
//   - Feature: registers the routes with the loader.
//
// # HTTP Endpoints
//
//   - GET /beatmaps/md5/:md5 : Get a difficulty by checksum.
//   - GET /beatmaps/:id : Get a difficulty by beatmap id.
//   - GET /beatmapsets/:id : Get every difficulty of a set.
//   - POST /beatmaps/md5/:md5/plays : Count a play, body {"passed": bool}.
package beatmap

// Package catalog is the boundary to the external beatmap catalog (osu! API v1).
//
// # Client
//
// HTTPClient performs get_beatmaps requests by checksum, beatmap id or set id,
// picking a random key from the configured pool for every call. Outcomes map
// onto the core error taxonomy:
//   - 404 or an empty array: no records, nil error (the map does not exist)
//   - 403: errors.ErrServiceUnavailable
//   - any other non-2xx, transport error or timeout: errors.ErrTransientHTTP
//   - an undecodable body: errors.ErrMalformedRecord
//
// # Parse
//
// Parse turns raw records into models.Beatmap values: it builds the sanitized
// song name and filename, coerces numeric fields, translates the catalog status
// code and fills the defaults of a never-seen map (no plays, rating 10).
package catalog

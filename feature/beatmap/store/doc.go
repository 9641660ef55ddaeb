// Package store persists beatmap records in the beatmaps table.
//
// Rows are keyed by checksum. Writes are upserts so duplicate concurrent
// refreshes of the same map converge on the last write; play counters are
// changed only through single UPDATE statements, never read-modify-write.
package store

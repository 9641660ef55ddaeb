// Package utils provides common utility functions for the beatmap cache.
// It includes strict conversion helpers for loosely typed catalog JSON and
// small string helpers that don't fit into domain-specific packages.
package utils

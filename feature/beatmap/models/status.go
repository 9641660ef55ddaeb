package models

import (
	"fmt"
	"strings"
)

// RankedStatus is the ranked lifecycle state of a beatmap.
// Values are totally ordered by declaration.
type RankedStatus int

const (
	StatusNotSubmitted    RankedStatus = -1
	StatusPending         RankedStatus = 0
	StatusUpdateAvailable RankedStatus = 1
	StatusRanked          RankedStatus = 2
	StatusApproved        RankedStatus = 3
	StatusQualified       RankedStatus = 4
	StatusLoved           RankedStatus = 5
)

var statusNames = map[RankedStatus]string{
	StatusNotSubmitted:    "not_submitted",
	StatusPending:         "pending",
	StatusUpdateAvailable: "update_available",
	StatusRanked:          "ranked",
	StatusApproved:        "approved",
	StatusQualified:       "qualified",
	StatusLoved:           "loved",
}

// String returns the lowercase status name.
func (s RankedStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Valid reports whether s is one of the declared statuses.
func (s RankedStatus) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

// ParseRankedStatus parses a status name as returned by String.
func ParseRankedStatus(name string) (RankedStatus, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for status, n := range statusNames {
		if n == name {
			return status, nil
		}
	}
	return 0, fmt.Errorf("unknown ranked status name %q", name)
}

// AwardsRankingPoints reports whether plays on maps of this status give pp.
func (s RankedStatus) AwardsRankingPoints() bool {
	return s == StatusRanked || s == StatusApproved
}

// HasLeaderboard reports whether maps of this status keep a leaderboard.
func (s RankedStatus) HasLeaderboard() bool {
	return s >= StatusRanked
}

// FreezesOnImport reports whether a freshly imported map of this status is
// frozen, i.e. its local status wins over later catalog reports.
func (s RankedStatus) FreezesOnImport() bool {
	return s == StatusRanked || s == StatusApproved || s == StatusLoved
}

// StatusFromCatalog translates the catalog's "approved" code.
// Graveyard (-2) and WIP (-1) collapse into Pending.
func StatusFromCatalog(code int) (RankedStatus, bool) {
	switch code {
	case -2, -1, 0:
		return StatusPending, true
	case 1:
		return StatusRanked, true
	case 2:
		return StatusApproved, true
	case 3:
		return StatusQualified, true
	case 4:
		return StatusLoved, true
	default:
		return 0, false
	}
}

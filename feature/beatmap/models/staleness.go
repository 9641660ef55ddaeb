package models

import (
	"time"

	"beatmap-cache/core/errors"
)

// RefreshInterval returns how long a record of the given status stays fresh.
func RefreshInterval(status RankedStatus) (time.Duration, error) {
	switch status {
	case StatusQualified:
		return 5 * time.Minute, nil
	case StatusPending:
		return 10 * time.Minute, nil
	case StatusLoved:
		// loved maps can still be updated by their mapper
		return 24 * time.Hour, nil
	case StatusRanked, StatusApproved:
		// rarely updated, usually to remove inappropriate content
		return 24 * time.Hour, nil
	default:
		return 0, &errors.UnknownStatusError{Status: int(status)}
	}
}

// IsDueForRefresh reports whether a record last synchronized at lastUpdate
// (unix seconds) must be re-fetched at now. The boundary counts as due.
func IsDueForRefresh(status RankedStatus, lastUpdate int64, now time.Time) (bool, error) {
	interval, err := RefreshInterval(status)
	if err != nil {
		return false, err
	}
	return lastUpdate <= now.Add(-interval).Unix(), nil
}

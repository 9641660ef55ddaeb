package models

import (
	"fmt"
	"time"
)

// Beatmap is the locally cached record of one beatmap difficulty.
// Values are treated as immutable once built; code that needs a modified
// record works on a Clone.
type Beatmap struct {
	MD5   string `json:"md5"`
	ID    int    `json:"id"`
	SetID int    `json:"set_id"`

	SongName string `json:"song_name"`

	Status RankedStatus `json:"status"`
	// BanchoStatus is the status last reported by the catalog, regardless of
	// any local override.
	BanchoStatus *RankedStatus `json:"bancho_status,omitempty"`

	Plays  int  `json:"plays"`
	Passes int  `json:"passes"`
	Mode   Mode `json:"mode"`

	OD float64 `json:"od"`
	AR float64 `json:"ar"`

	DifficultyStd   float64 `json:"difficulty_std"`
	DifficultyTaiko float64 `json:"difficulty_taiko"`
	DifficultyCTB   float64 `json:"difficulty_ctb"`
	DifficultyMania float64 `json:"difficulty_mania"`

	HitLength int `json:"hit_length"`
	MaxCombo  int `json:"max_combo"` // 0 when the catalog has none
	BPM       int `json:"bpm"`       // 0 when the catalog has none

	Filename   string `json:"filename"`
	LastUpdate int64  `json:"last_update"`

	Frozen       bool     `json:"frozen"`
	AttributedBy *string  `json:"attributed_by,omitempty"`
	Rating       *float64 `json:"rating,omitempty"`

	CountCircles  int `json:"count_circles"`
	CountSliders  int `json:"count_sliders"`
	CountSpinners int `json:"count_spinners"`
}

// Clone returns a deep copy; pointer fields get fresh allocations.
func (b Beatmap) Clone() Beatmap {
	c := b
	c.BanchoStatus = clonePtr(b.BanchoStatus)
	c.AttributedBy = clonePtr(b.AttributedBy)
	c.Rating = clonePtr(b.Rating)
	return c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// AwardsRankingPoints reports whether plays on this map give pp.
func (b Beatmap) AwardsRankingPoints() bool {
	return b.Status.AwardsRankingPoints()
}

// HasLeaderboard reports whether this map keeps a leaderboard.
func (b Beatmap) HasLeaderboard() bool {
	return b.Status.HasLeaderboard()
}

// DeservesUpdate reports whether the record is due for a catalog refresh.
func (b Beatmap) DeservesUpdate(now time.Time) (bool, error) {
	return IsDueForRefresh(b.Status, b.LastUpdate, now)
}

// StarRating returns the star rating for the given mode.
func (b Beatmap) StarRating(mode Mode) float64 {
	switch mode {
	case ModeTaiko:
		return b.DifficultyTaiko
	case ModeCTB:
		return b.DifficultyCTB
	case ModeMania:
		return b.DifficultyMania
	default:
		return b.DifficultyStd
	}
}

// URL is the public page of this difficulty on the given server domain.
func (b Beatmap) URL(domain string) string {
	return fmt.Sprintf("https://osu.%s/beatmaps/%d", domain, b.ID)
}

// SetURL is the public page of the containing set.
func (b Beatmap) SetURL(domain string) string {
	return fmt.Sprintf("https://osu.%s/beatmapsets/%d", domain, b.SetID)
}

// Embed renders the in-game chat link for this map.
func (b Beatmap) Embed(domain string) string {
	return fmt.Sprintf("[%s %s]", b.URL(domain), b.SongName)
}

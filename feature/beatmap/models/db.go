package models

// BeatmapRow represents the 'beatmaps' table.
type BeatmapRow struct {
	BeatmapMD5         string   `gorm:"column:beatmap_md5;primaryKey;size:32"`
	BeatmapID          int      `gorm:"column:beatmap_id;index"`
	BeatmapsetID       int      `gorm:"column:beatmapset_id;index"`
	SongName           string   `gorm:"column:song_name"`
	AR                 float64  `gorm:"column:ar"`
	OD                 float64  `gorm:"column:od"`
	Mode               int      `gorm:"column:mode"`
	DifficultyStd      float64  `gorm:"column:difficulty_std"`
	DifficultyTaiko    float64  `gorm:"column:difficulty_taiko"`
	DifficultyCTB      float64  `gorm:"column:difficulty_ctb"`
	DifficultyMania    float64  `gorm:"column:difficulty_mania"`
	Rating             *float64 `gorm:"column:rating"`
	MaxCombo           int      `gorm:"column:max_combo"`
	HitLength          int      `gorm:"column:hit_length"`
	BPM                int      `gorm:"column:bpm"`
	Playcount          int      `gorm:"column:playcount"`
	Passcount          int      `gorm:"column:passcount"`
	Ranked             int      `gorm:"column:ranked"`
	LatestUpdate       int64    `gorm:"column:latest_update"`
	RankedStatusFrozen bool     `gorm:"column:ranked_status_frozen"`
	FileName           string   `gorm:"column:file_name"`
	AttributedBy       *string  `gorm:"column:attributed_by;size:64"`
	BanchoRankedStatus *int     `gorm:"column:bancho_ranked_status"`
	CountCircles       int      `gorm:"column:count_circles"`
	CountSliders       int      `gorm:"column:count_sliders"`
	CountSpinners      int      `gorm:"column:count_spinners"`
}

// TableName overrides the table name.
func (BeatmapRow) TableName() string {
	return "beatmaps"
}

// StorageColumns lists every column of the beatmaps table the store uses.
var StorageColumns = []string{
	"beatmap_md5", "beatmap_id", "beatmapset_id", "song_name", "ar", "od", "mode",
	"difficulty_std", "difficulty_taiko", "difficulty_ctb", "difficulty_mania",
	"rating", "max_combo", "hit_length", "bpm", "playcount", "passcount", "ranked",
	"latest_update", "ranked_status_frozen", "file_name", "attributed_by",
	"bancho_ranked_status", "count_circles", "count_sliders", "count_spinners",
}

// ToStorage converts a Beatmap into its table row.
func ToStorage(b Beatmap) BeatmapRow {
	row := BeatmapRow{
		BeatmapMD5:         b.MD5,
		BeatmapID:          b.ID,
		BeatmapsetID:       b.SetID,
		SongName:           b.SongName,
		AR:                 b.AR,
		OD:                 b.OD,
		Mode:               int(b.Mode),
		DifficultyStd:      b.DifficultyStd,
		DifficultyTaiko:    b.DifficultyTaiko,
		DifficultyCTB:      b.DifficultyCTB,
		DifficultyMania:    b.DifficultyMania,
		Rating:             clonePtr(b.Rating),
		MaxCombo:           b.MaxCombo,
		HitLength:          b.HitLength,
		BPM:                b.BPM,
		Playcount:          b.Plays,
		Passcount:          b.Passes,
		Ranked:             int(b.Status),
		LatestUpdate:       b.LastUpdate,
		RankedStatusFrozen: b.Frozen,
		FileName:           b.Filename,
		AttributedBy:       clonePtr(b.AttributedBy),
		CountCircles:       b.CountCircles,
		CountSliders:       b.CountSliders,
		CountSpinners:      b.CountSpinners,
	}
	if b.BanchoStatus != nil {
		s := int(*b.BanchoStatus)
		row.BanchoRankedStatus = &s
	}
	return row
}

// FromStorage converts a table row back into a Beatmap.
// It is the exact inverse of ToStorage.
func FromStorage(row BeatmapRow) Beatmap {
	b := Beatmap{
		MD5:             row.BeatmapMD5,
		ID:              row.BeatmapID,
		SetID:           row.BeatmapsetID,
		SongName:        row.SongName,
		Status:          RankedStatus(row.Ranked),
		Plays:           row.Playcount,
		Passes:          row.Passcount,
		Mode:            Mode(row.Mode),
		OD:              row.OD,
		AR:              row.AR,
		DifficultyStd:   row.DifficultyStd,
		DifficultyTaiko: row.DifficultyTaiko,
		DifficultyCTB:   row.DifficultyCTB,
		DifficultyMania: row.DifficultyMania,
		HitLength:       row.HitLength,
		MaxCombo:        row.MaxCombo,
		BPM:             row.BPM,
		Filename:        row.FileName,
		LastUpdate:      row.LatestUpdate,
		Frozen:          row.RankedStatusFrozen,
		AttributedBy:    clonePtr(row.AttributedBy),
		Rating:          clonePtr(row.Rating),
		CountCircles:    row.CountCircles,
		CountSliders:    row.CountSliders,
		CountSpinners:   row.CountSpinners,
	}
	if row.BanchoRankedStatus != nil {
		s := RankedStatus(*row.BanchoRankedStatus)
		b.BanchoStatus = &s
	}
	return b
}

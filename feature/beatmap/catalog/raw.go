package catalog

// RawBeatmap is one record of a get_beatmaps response.
// The catalog encodes numbers as strings and optional fields as null, so the
// numeric fields keep their decoded JSON value and are coerced by Parse.
type RawBeatmap struct {
	FileMD5      string `json:"file_md5"`
	BeatmapID    any    `json:"beatmap_id"`
	BeatmapsetID any    `json:"beatmapset_id"`

	// Name fields are required; nil means the key was absent.
	Artist  *string `json:"artist"`
	Title   *string `json:"title"`
	Creator *string `json:"creator"`
	Version *string `json:"version"`

	HitLength any `json:"hit_length"`
	MaxCombo  any `json:"max_combo"`
	Approved  any `json:"approved"`
	Mode      any `json:"mode"`
	BPM       any `json:"bpm"`

	DiffOverall      any `json:"diff_overall"`
	DiffApproach     any `json:"diff_approach"`
	DifficultyRating any `json:"difficultyrating"`

	CountCircles  any `json:"count_circles"`
	CountSliders  any `json:"count_sliders"`
	CountSpinners any `json:"count_spinners"`

	// osu! API v1 spelling of the object counts, used when the above are absent.
	CountNormal  any `json:"count_normal"`
	CountSlider  any `json:"count_slider"`
	CountSpinner any `json:"count_spinner"`
}

func firstPresent(values ...any) any {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

package catalog

import (
	"math"
	"strings"
	"time"

	"beatmap-cache/core/errors"
	"beatmap-cache/core/utils"
	"beatmap-cache/feature/beatmap/models"
)

// IgnoredChars are stripped from filenames and song names.
const IgnoredChars = `:\/*<>?"|`

// DefaultRating is the community rating of a map nobody has rated yet.
const DefaultRating = 10.0

// Parse converts raw catalog records into beatmaps synchronized at now.
// It fails on the first record with a missing or invalid required field.
func Parse(raws []RawBeatmap, now time.Time) ([]models.Beatmap, error) {
	maps := make([]models.Beatmap, 0, len(raws))
	for _, raw := range raws {
		b, err := parseOne(raw, now)
		if err != nil {
			return nil, err
		}
		maps = append(maps, b)
	}
	return maps, nil
}

func parseOne(raw RawBeatmap, now time.Time) (models.Beatmap, error) {
	md5 := strings.TrimSpace(raw.FileMD5)
	if md5 == "" {
		return models.Beatmap{}, errors.NewMalformedRecordError("file_md5", "", errors.New("missing value"))
	}

	p := fieldParser{}
	artist := p.str("artist", raw.Artist)
	title := p.str("title", raw.Title)
	creator := p.str("creator", raw.Creator)
	version := p.str("version", raw.Version)
	id := p.int("beatmap_id", raw.BeatmapID)
	setID := p.int("beatmapset_id", raw.BeatmapsetID)
	hitLength := p.int("hit_length", raw.HitLength)
	approved := p.int("approved", raw.Approved)
	mode := p.int("mode", raw.Mode)
	od := p.float("diff_overall", raw.DiffOverall)
	ar := p.float("diff_approach", raw.DiffApproach)
	circles := p.int("count_circles", firstPresent(raw.CountCircles, raw.CountNormal))
	sliders := p.int("count_sliders", firstPresent(raw.CountSliders, raw.CountSlider))
	spinners := p.int("count_spinners", firstPresent(raw.CountSpinners, raw.CountSpinner))

	// present-if-truthy: a missing, empty or zero value is stored as 0
	var maxCombo, bpm int
	var stars float64
	if utils.IsTruthy(raw.MaxCombo) {
		maxCombo = p.int("max_combo", raw.MaxCombo)
	}
	if utils.IsTruthy(raw.BPM) {
		bpm = int(math.Round(p.float("bpm", raw.BPM)))
	}
	if utils.IsTruthy(raw.DifficultyRating) {
		stars = p.float("difficultyrating", raw.DifficultyRating)
	}
	if p.err != nil {
		return models.Beatmap{}, p.err
	}

	status, ok := models.StatusFromCatalog(approved)
	if !ok {
		return models.Beatmap{}, errors.NewMalformedRecordError("approved", utils.ToString(raw.Approved), errors.New("unknown catalog status code"))
	}
	gameMode := models.Mode(mode)
	if !gameMode.Valid() {
		return models.Beatmap{}, errors.NewMalformedRecordError("mode", utils.ToString(raw.Mode), errors.New("unknown game mode"))
	}

	bancho := status
	rating := DefaultRating
	b := models.Beatmap{
		MD5:           md5,
		ID:            id,
		SetID:         setID,
		SongName:      utils.StripChars(artist+" - "+title+" ["+version+"]", IgnoredChars),
		Filename:      utils.StripChars(artist+" - "+title+" ("+creator+") ["+version+"].osu", IgnoredChars),
		Status:        status,
		BanchoStatus:  &bancho,
		Frozen:        status.FreezesOnImport(),
		Mode:          gameMode,
		OD:            od,
		AR:            ar,
		HitLength:     hitLength,
		MaxCombo:      maxCombo,
		BPM:           bpm,
		LastUpdate:    now.Unix(),
		Rating:        &rating,
		CountCircles:  circles,
		CountSliders:  sliders,
		CountSpinners: spinners,
	}

	switch gameMode {
	case models.ModeStd:
		b.DifficultyStd = stars
	case models.ModeTaiko:
		b.DifficultyTaiko = stars
	case models.ModeCTB:
		b.DifficultyCTB = stars
	case models.ModeMania:
		b.DifficultyMania = stars
	}

	return b, nil
}

// fieldParser keeps the first coercion failure so a record is checked in one pass.
type fieldParser struct {
	err error
}

func (p *fieldParser) int(field string, val any) int {
	if p.err != nil {
		return 0
	}
	i, err := utils.ToInt(val)
	if err != nil {
		p.err = errors.NewMalformedRecordError(field, utils.ToString(val), err)
	}
	return i
}

func (p *fieldParser) str(field string, val *string) string {
	if p.err != nil {
		return ""
	}
	if val == nil {
		p.err = errors.NewMalformedRecordError(field, "", errors.New("missing value"))
		return ""
	}
	return *val
}

func (p *fieldParser) float(field string, val any) float64 {
	if p.err != nil {
		return 0
	}
	f, err := utils.ToFloat(val)
	if err != nil {
		p.err = errors.NewMalformedRecordError(field, utils.ToString(val), err)
	}
	return f
}

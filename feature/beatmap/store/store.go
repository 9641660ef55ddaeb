package store

import (
	"context"
	"fmt"

	"beatmap-cache/core/errors"
	"beatmap-cache/feature/beatmap/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the persistence contract of the beatmap cache.
// Find methods return a nil record and a nil error on a miss. Upsert never
// touches the play counters of an existing row.
type Store interface {
	FindByMD5(ctx context.Context, md5 string) (*models.Beatmap, error)
	FindByID(ctx context.Context, id int) (*models.Beatmap, error)
	FindBySetID(ctx context.Context, setID int) ([]models.Beatmap, error)
	Upsert(ctx context.Context, b models.Beatmap) error
	DeleteByMD5(ctx context.Context, md5 string) error
	IncrementCounters(ctx context.Context, md5 string, playDelta, passDelta int) error
	Transaction(ctx context.Context, fn func(Store) error) error
}

// GormStore implements Store on top of gorm.
type GormStore struct {
	db *gorm.DB
}

// New creates a GormStore.
func New(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates or updates the beatmaps table.
func (s *GormStore) Migrate() error {
	return s.db.AutoMigrate(&models.BeatmapRow{})
}

// FindByMD5 returns the row with this checksum.
func (s *GormStore) FindByMD5(ctx context.Context, md5 string) (*models.Beatmap, error) {
	return s.findOne(ctx, "beatmap_md5 = ?", md5)
}

// FindByID returns a row with this beatmap id.
func (s *GormStore) FindByID(ctx context.Context, id int) (*models.Beatmap, error) {
	return s.findOne(ctx, "beatmap_id = ?", id)
}

func (s *GormStore) findOne(ctx context.Context, query string, arg any) (*models.Beatmap, error) {
	var row models.BeatmapRow
	err := s.db.WithContext(ctx).Where(query, arg).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query beatmaps: %w", err)
	}

	b := models.FromStorage(row)
	return &b, nil
}

// FindBySetID returns every stored difficulty of a set, ordered by beatmap id.
func (s *GormStore) FindBySetID(ctx context.Context, setID int) ([]models.Beatmap, error) {
	var rows []models.BeatmapRow
	if err := s.db.WithContext(ctx).Where("beatmapset_id = ?", setID).Order("beatmap_id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query beatmap set %d: %w", setID, err)
	}

	out := make([]models.Beatmap, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.FromStorage(row))
	}
	return out, nil
}

// syncedColumns are the columns an upsert overwrites on an existing row.
// Counters only move through IncrementCounters.
var syncedColumns = func() []string {
	var cols []string
	for _, c := range models.StorageColumns {
		switch c {
		case "beatmap_md5", "playcount", "passcount":
			continue
		}
		cols = append(cols, c)
	}
	return cols
}()

// Upsert inserts b, or replaces every column of the row with the same
// checksum except playcount and passcount.
func (s *GormStore) Upsert(ctx context.Context, b models.Beatmap) error {
	row := models.ToStorage(b)
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "beatmap_md5"}},
		DoUpdates: clause.AssignmentColumns(syncedColumns),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to upsert beatmap %s: %w", b.MD5, err)
	}
	return nil
}

// DeleteByMD5 removes the row with this checksum. Deleting a missing row is not an error.
func (s *GormStore) DeleteByMD5(ctx context.Context, md5 string) error {
	err := s.db.WithContext(ctx).Where("beatmap_md5 = ?", md5).Delete(&models.BeatmapRow{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete beatmap %s: %w", md5, err)
	}
	return nil
}

// Transaction runs fn against a store bound to one database transaction.
// Every write in fn is rolled back when fn returns an error.
func (s *GormStore) Transaction(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

// IncrementCounters adds the deltas to playcount and passcount in one statement.
// It returns errors.ErrNotFound when no row has this checksum.
func (s *GormStore) IncrementCounters(ctx context.Context, md5 string, playDelta, passDelta int) error {
	res := s.db.WithContext(ctx).Model(&models.BeatmapRow{}).
		Where("beatmap_md5 = ?", md5).
		Updates(map[string]any{
			"playcount": gorm.Expr("playcount + ?", playDelta),
			"passcount": gorm.Expr("passcount + ?", passDelta),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to increment counters of %s: %w", md5, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("beatmap %s: %w", md5, errors.ErrNotFound)
	}
	return nil
}

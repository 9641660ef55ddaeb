package beatmap

import (
	"context"
	"fmt"
	"time"

	"beatmap-cache/core/errors"
	"beatmap-cache/core/metrics"
	"beatmap-cache/feature/beatmap/catalog"
	"beatmap-cache/feature/beatmap/models"
	"beatmap-cache/feature/beatmap/notify"
	"beatmap-cache/feature/beatmap/reconcile"
	"beatmap-cache/feature/beatmap/store"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Service serves beatmap lookups from the store and keeps them in sync
// with the catalog.
type Service struct {
	store    store.Store
	catalog  catalog.Client
	notifier notify.Notifier
	metrics  *metrics.Metrics
	logger   *zap.Logger

	// group coalesces concurrent catalog fetches for the same query key.
	group singleflight.Group
	now   func() time.Time
}

// NewService creates a new beatmap service.
func NewService(st store.Store, client catalog.Client, notifier notify.Notifier, m *metrics.Metrics, logger *zap.Logger) *Service {
	return &Service{
		store:    st,
		catalog:  client,
		notifier: notifier,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// FetchByMD5 returns the beatmap with this checksum, importing it from the
// catalog on a miss and refreshing it when stale.
// It returns errors.ErrNotFound when the catalog has no such map.
func (s *Service) FetchByMD5(ctx context.Context, md5 string) (models.Beatmap, error) {
	stored, err := s.store.FindByMD5(ctx, md5)
	if err != nil {
		return models.Beatmap{}, err
	}
	if stored != nil {
		return s.serve(ctx, *stored)
	}

	s.metrics.CacheLookups.WithLabelValues("miss").Inc()
	return s.coalesce(ctx, catalog.ByMD5(md5), func(ctx context.Context) (*models.Beatmap, error) {
		return s.store.FindByMD5(ctx, md5)
	})
}

// FetchByID returns the beatmap with this id; see FetchByMD5.
func (s *Service) FetchByID(ctx context.Context, id int) (models.Beatmap, error) {
	stored, err := s.store.FindByID(ctx, id)
	if err != nil {
		return models.Beatmap{}, err
	}
	if stored != nil {
		return s.serve(ctx, *stored)
	}

	s.metrics.CacheLookups.WithLabelValues("miss").Inc()
	return s.coalesce(ctx, catalog.ByID(id), func(ctx context.Context) (*models.Beatmap, error) {
		return s.store.FindByID(ctx, id)
	})
}

// Refresh re-synchronizes b with the catalog when it is due.
// Catalog failures are returned unchanged and nothing is written.
// It returns errors.ErrNotFound when the map was withdrawn; the stored row is gone.
func (s *Service) Refresh(ctx context.Context, b models.Beatmap) (models.Beatmap, error) {
	due, err := b.DeservesUpdate(s.now())
	if err != nil {
		return models.Beatmap{}, err
	}
	if !due {
		return b, nil
	}

	return s.coalesce(ctx, catalog.ByID(b.ID), func(ctx context.Context) (*models.Beatmap, error) {
		return s.store.FindByID(ctx, b.ID)
	})
}

// serve returns stored as is when fresh. A stale record is refreshed; when the
// catalog cannot be reached the stale record is still served.
func (s *Service) serve(ctx context.Context, stored models.Beatmap) (models.Beatmap, error) {
	due, err := stored.DeservesUpdate(s.now())
	if err != nil {
		return models.Beatmap{}, err
	}
	if !due {
		s.metrics.CacheLookups.WithLabelValues("fresh").Inc()
		return stored, nil
	}

	s.metrics.CacheLookups.WithLabelValues("stale").Inc()
	b, err := s.Refresh(ctx, stored)
	if errors.Is(err, errors.ErrServiceUnavailable) || errors.Is(err, errors.ErrTransientHTTP) {
		s.logger.Warn("Serving stale beatmap, catalog refresh failed",
			zap.String("md5", stored.MD5),
			zap.Int("beatmap_id", stored.ID),
			zap.Error(err),
		)
		return stored, nil
	}
	return b, err
}

// coalesce runs one catalog synchronization per query key at a time; callers
// arriving while it runs share its result.
func (s *Service) coalesce(ctx context.Context, q catalog.Query, lookup func(context.Context) (*models.Beatmap, error)) (models.Beatmap, error) {
	v, err, shared := s.group.Do(q.Key(), func() (any, error) {
		// the result is shared, one caller going away must not fail the others
		ctx := context.WithoutCancel(ctx)

		old, err := lookup(ctx)
		if err != nil {
			return nil, err
		}
		if old != nil {
			due, err := old.DeservesUpdate(s.now())
			if err != nil {
				return nil, err
			}
			if !due {
				return *old, nil
			}
		}

		return s.sync(ctx, q, old)
	})
	if shared {
		s.logger.Debug("Coalesced catalog fetch", zap.String("query", q.Key()))
	}
	if err != nil {
		return models.Beatmap{}, err
	}
	return v.(models.Beatmap).Clone(), nil
}

// sync fetches q from the catalog, reconciles against old and persists the plan.
func (s *Service) sync(ctx context.Context, q catalog.Query, old *models.Beatmap) (models.Beatmap, error) {
	fetched, err := s.fetch(ctx, q)
	if err != nil {
		return models.Beatmap{}, err
	}

	key := reconcile.ByMD5(q.MD5)
	if q.Kind == catalog.KindID {
		key = reconcile.ByID(q.ID)
	}

	plan := reconcile.Reconcile(old, fetched, key, s.now())
	if err := s.apply(ctx, plan); err != nil {
		return models.Beatmap{}, err
	}

	if plan.Beatmap == nil {
		return models.Beatmap{}, fmt.Errorf("beatmap %s: %w", q.Key(), errors.ErrNotFound)
	}
	return *plan.Beatmap, nil
}

// FetchSet returns every difficulty of a set, synchronizing the whole set
// when any stored difficulty is stale or the set is not stored at all.
// Stored difficulties the catalog no longer lists are deleted.
func (s *Service) FetchSet(ctx context.Context, setID int) ([]models.Beatmap, error) {
	stored, err := s.store.FindBySetID(ctx, setID)
	if err != nil {
		return nil, err
	}

	if len(stored) > 0 {
		fresh, err := s.allFresh(stored)
		if err != nil {
			return nil, err
		}
		if fresh {
			s.metrics.CacheLookups.WithLabelValues("fresh").Inc()
			return stored, nil
		}
		s.metrics.CacheLookups.WithLabelValues("stale").Inc()
	} else {
		s.metrics.CacheLookups.WithLabelValues("miss").Inc()
	}

	q := catalog.BySetID(setID)
	v, err, _ := s.group.Do(q.Key(), func() (any, error) {
		return s.syncSet(context.WithoutCancel(ctx), setID)
	})
	if err != nil {
		return nil, err
	}

	set := v.([]models.Beatmap)
	out := make([]models.Beatmap, len(set))
	for i, b := range set {
		out[i] = b.Clone()
	}
	return out, nil
}

func (s *Service) allFresh(set []models.Beatmap) (bool, error) {
	now := s.now()
	for _, b := range set {
		due, err := b.DeservesUpdate(now)
		if err != nil {
			return false, err
		}
		if due {
			return false, nil
		}
	}
	return true, nil
}

func (s *Service) syncSet(ctx context.Context, setID int) ([]models.Beatmap, error) {
	stored, err := s.store.FindBySetID(ctx, setID)
	if err != nil {
		return nil, err
	}
	if len(stored) > 0 {
		if fresh, err := s.allFresh(stored); err != nil || fresh {
			return stored, err
		}
	}

	fetched, err := s.fetch(ctx, catalog.BySetID(setID))
	if err != nil {
		return nil, err
	}

	byID := make(map[int]*models.Beatmap, len(stored))
	for i := range stored {
		byID[stored[i].ID] = &stored[i]
	}

	now := s.now()
	out := make([]models.Beatmap, 0, len(fetched))
	for _, b := range fetched {
		old := byID[b.ID]
		delete(byID, b.ID)

		plan := reconcile.Reconcile(old, fetched, reconcile.ByID(b.ID), now)
		if err := s.apply(ctx, plan); err != nil {
			return nil, err
		}
		if plan.Beatmap != nil {
			out = append(out, *plan.Beatmap)
		}
	}

	// difficulties removed from the set
	for _, old := range byID {
		plan := reconcile.Reconcile(old, fetched, reconcile.ByID(old.ID), now)
		if err := s.apply(ctx, plan); err != nil {
			return nil, err
		}
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("beatmap set %d: %w", setID, errors.ErrNotFound)
	}
	return out, nil
}

// RecordPlay counts a play (and a pass when passed) on b. The store is
// updated atomically; the returned copy carries the incremented counters.
func (s *Service) RecordPlay(ctx context.Context, b models.Beatmap, passed bool) (models.Beatmap, error) {
	passDelta := 0
	if passed {
		passDelta = 1
	}

	if err := s.store.IncrementCounters(ctx, b.MD5, 1, passDelta); err != nil {
		return models.Beatmap{}, err
	}

	out := b.Clone()
	out.Plays++
	out.Passes += passDelta
	return out, nil
}

// fetch queries the catalog and parses the response.
func (s *Service) fetch(ctx context.Context, q catalog.Query) ([]models.Beatmap, error) {
	raws, err := s.catalog.Fetch(ctx, q)
	s.metrics.CatalogRequests.WithLabelValues(string(q.Kind), catalogOutcome(len(raws), err)).Inc()
	if err != nil {
		s.logger.Error("Catalog fetch failed", zap.String("query", q.Key()), zap.Error(err))
		return nil, err
	}

	fetched, err := catalog.Parse(raws, s.now())
	if err != nil {
		s.logger.Error("Catalog returned a malformed record", zap.String("query", q.Key()), zap.Error(err))
		return nil, err
	}
	return fetched, nil
}

// apply executes the plan's actions in order, then dispatches its event.
// Plans with several actions are written in one transaction so a failed
// upsert never leaves the old row deleted.
func (s *Service) apply(ctx context.Context, plan reconcile.Plan) error {
	write := func(st store.Store) error {
		for _, action := range plan.Actions {
			switch action.Type {
			case reconcile.ActionDelete:
				if err := st.DeleteByMD5(ctx, action.MD5); err != nil {
					return err
				}
				s.logger.Info("Deleted beatmap",
					zap.String("md5", action.MD5),
					zap.String("reason", action.Reason),
				)
			case reconcile.ActionUpsert:
				if err := st.Upsert(ctx, *action.Beatmap); err != nil {
					return err
				}
				s.logger.Debug("Stored beatmap",
					zap.String("md5", action.MD5),
					zap.Int("beatmap_id", action.Beatmap.ID),
					zap.String("status", action.Beatmap.Status.String()),
				)
			}
		}
		return nil
	}

	var err error
	if len(plan.Actions) > 1 {
		err = s.store.Transaction(ctx, write)
	} else {
		err = write(s.store)
	}
	if err != nil {
		return err
	}
	s.metrics.Reconciles.WithLabelValues(string(plan.Outcome)).Inc()

	if plan.Event != nil {
		s.metrics.Notifications.WithLabelValues(string(plan.Event.Action)).Inc()
		s.notifier.Notify(*plan.Event)
	}
	return nil
}

func catalogOutcome(records int, err error) string {
	switch {
	case err == nil && records == 0:
		return "not_found"
	case err == nil:
		return "ok"
	case errors.Is(err, errors.ErrServiceUnavailable):
		return "unavailable"
	case errors.Is(err, errors.ErrMalformedRecord):
		return "malformed"
	default:
		return "transient"
	}
}

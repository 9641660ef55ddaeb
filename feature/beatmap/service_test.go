package beatmap

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"beatmap-cache/core/database"
	"beatmap-cache/core/errors"
	"beatmap-cache/core/metrics"
	"beatmap-cache/feature/beatmap/catalog"
	"beatmap-cache/feature/beatmap/catalog/mocks"
	"beatmap-cache/feature/beatmap/models"
	"beatmap-cache/feature/beatmap/store"
	storemocks "beatmap-cache/feature/beatmap/store/mocks"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var testNow = time.Unix(1_700_000_000, 0)

func ptr[T any](v T) *T { return &v }

// recorder collects notifications.
type recorder struct {
	mu     sync.Mutex
	events []models.StatusEvent
}

func (r *recorder) Notify(e models.StatusEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) all() []models.StatusEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.StatusEvent(nil), r.events...)
}

type fixture struct {
	db       *gorm.DB
	svc      *Service
	store    *store.GormStore
	catalog  *mocks.Client
	notifier *recorder
	metrics  *metrics.Metrics
}

func setup(t *testing.T) *fixture {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	st := store.New(db)
	require.NoError(t, st.Migrate())

	f := &fixture{
		db:       db,
		store:    st,
		catalog:  new(mocks.Client),
		notifier: &recorder{},
		metrics:  metrics.New(),
	}
	f.svc = NewService(f.store, f.catalog, f.notifier, f.metrics, zap.NewNop())
	f.svc.now = func() time.Time { return testNow }
	t.Cleanup(func() { f.catalog.AssertExpectations(t) })
	return f
}

func raw(md5 string, id, setID int, approved string) catalog.RawBeatmap {
	return catalog.RawBeatmap{
		FileMD5:       md5,
		BeatmapID:     float64(id),
		BeatmapsetID:  float64(setID),
		Artist:        ptr("Artist"),
		Title:         ptr("Title"),
		Creator:       ptr("Mapper"),
		Version:       ptr("Hard"),
		HitLength:     "120",
		MaxCombo:      "500",
		Approved:      approved,
		Mode:          "0",
		BPM:           "180",
		DiffOverall:   "8",
		DiffApproach:  "9",
		CountCircles:  "300",
		CountSliders:  "100",
		CountSpinners: "1",
	}
}

func stored(md5 string, id, setID int, status models.RankedStatus, age time.Duration) models.Beatmap {
	return models.Beatmap{
		MD5:          md5,
		ID:           id,
		SetID:        setID,
		SongName:     "Artist - Title [Hard]",
		Status:       status,
		BanchoStatus: ptr(status),
		Plays:        120,
		Passes:       80,
		Rating:       ptr(7.5),
		LastUpdate:   testNow.Add(-age).Unix(),
	}
}

func (f *fixture) seed(t *testing.T, bs ...models.Beatmap) {
	for _, b := range bs {
		require.NoError(t, f.store.Upsert(context.Background(), b))
	}
}

func (f *fixture) find(t *testing.T, md5 string) *models.Beatmap {
	b, err := f.store.FindByMD5(context.Background(), md5)
	require.NoError(t, err)
	return b
}

func TestService_FetchByMD5_ImportsOnMiss(t *testing.T) {
	f := setup(t)
	f.catalog.On("Fetch", mock.Anything, catalog.ByMD5("aaaa")).
		Return([]catalog.RawBeatmap{raw("bbbb", 41, 7, "1"), raw("aaaa", 42, 7, "1")}, nil).Once()

	b, err := f.svc.FetchByMD5(context.Background(), "aaaa")
	require.NoError(t, err)
	assert.Equal(t, "aaaa", b.MD5)
	assert.Equal(t, models.StatusRanked, b.Status)
	assert.True(t, b.Frozen)
	assert.Equal(t, testNow.Unix(), b.LastUpdate)

	persisted := f.find(t, "aaaa")
	require.NotNil(t, persisted)
	assert.Equal(t, b, *persisted)
	assert.Nil(t, f.find(t, "bbbb"), "siblings are not persisted")

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.CatalogRequests.WithLabelValues("md5", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.CacheLookups.WithLabelValues("miss")))
	assert.Empty(t, f.notifier.all())
}

func TestService_FetchByMD5_NotFound(t *testing.T) {
	f := setup(t)
	f.catalog.On("Fetch", mock.Anything, catalog.ByMD5("aaaa")).Return(nil, nil).Once()

	_, err := f.svc.FetchByMD5(context.Background(), "aaaa")
	assert.ErrorIs(t, err, errors.ErrNotFound)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.CatalogRequests.WithLabelValues("md5", "not_found")))
}

func TestService_FetchByID_FreshServedFromStore(t *testing.T) {
	f := setup(t)
	f.seed(t, stored("aaaa", 42, 7, models.StatusPending, time.Minute))

	b, err := f.svc.FetchByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "aaaa", b.MD5)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.CacheLookups.WithLabelValues("fresh")))
	f.catalog.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
}

func TestService_FetchByMD5_StaleKeepsCounters(t *testing.T) {
	f := setup(t)
	f.seed(t, stored("aaaa", 42, 7, models.StatusPending, time.Hour))
	f.catalog.On("Fetch", mock.Anything, catalog.ByID(42)).
		Return([]catalog.RawBeatmap{raw("aaaa", 42, 7, "0")}, nil).Once()

	b, err := f.svc.FetchByMD5(context.Background(), "aaaa")
	require.NoError(t, err)
	assert.Equal(t, 120, b.Plays)
	assert.Equal(t, 80, b.Passes)
	assert.Equal(t, 7.5, *b.Rating)
	assert.Equal(t, testNow.Unix(), b.LastUpdate)
	assert.Equal(t, testNow.Unix(), f.find(t, "aaaa").LastUpdate)
	assert.Empty(t, f.notifier.all())
}

func TestService_Refresh_StatusChange(t *testing.T) {
	f := setup(t)
	old := stored("aaaa", 42, 7, models.StatusPending, time.Hour)
	f.seed(t, old)
	f.catalog.On("Fetch", mock.Anything, catalog.ByID(42)).
		Return([]catalog.RawBeatmap{raw("aaaa", 42, 7, "1")}, nil).Once()

	b, err := f.svc.Refresh(context.Background(), old)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRanked, b.Status)
	assert.False(t, b.Frozen)

	events := f.notifier.all()
	require.Len(t, events, 1)
	assert.Equal(t, models.ActionStatusChange, events[0].Action)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Notifications.WithLabelValues("status_change")))
}

func TestService_Refresh_RegressionFreezes(t *testing.T) {
	f := setup(t)
	old := stored("aaaa", 42, 7, models.StatusRanked, 25*time.Hour)
	f.seed(t, old)
	f.catalog.On("Fetch", mock.Anything, catalog.ByID(42)).
		Return([]catalog.RawBeatmap{raw("aaaa", 42, 7, "-2")}, nil).Once()

	b, err := f.svc.Refresh(context.Background(), old)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRanked, b.Status)
	assert.True(t, b.Frozen)
	assert.True(t, f.find(t, "aaaa").Frozen)

	events := f.notifier.all()
	require.Len(t, events, 1)
	assert.Equal(t, models.ActionFrozen, events[0].Action)
}

func TestService_Refresh_NotDue(t *testing.T) {
	f := setup(t)
	old := stored("aaaa", 42, 7, models.StatusLoved, time.Hour)

	b, err := f.svc.Refresh(context.Background(), old)
	require.NoError(t, err)
	assert.Equal(t, old, b)
}

func TestService_Refresh_IdentityChange(t *testing.T) {
	f := setup(t)
	old := stored("aaaa", 42, 7, models.StatusPending, time.Hour)
	f.seed(t, old)
	f.catalog.On("Fetch", mock.Anything, catalog.ByID(42)).
		Return([]catalog.RawBeatmap{raw("bbbb", 42, 7, "0")}, nil).Once()

	b, err := f.svc.Refresh(context.Background(), old)
	require.NoError(t, err)
	assert.Equal(t, "bbbb", b.MD5)
	assert.Equal(t, 0, b.Plays)
	assert.Equal(t, catalog.DefaultRating, *b.Rating)

	assert.Nil(t, f.find(t, "aaaa"))
	assert.NotNil(t, f.find(t, "bbbb"))
}

func TestService_Refresh_IdentityChangeIsAtomic(t *testing.T) {
	f := setup(t)
	old := stored("aaaa", 42, 7, models.StatusPending, time.Hour)
	f.seed(t, old)
	require.NoError(t, f.db.Exec(`CREATE TRIGGER reject_bbbb BEFORE INSERT ON beatmaps
		WHEN NEW.beatmap_md5 = 'bbbb' BEGIN SELECT RAISE(ABORT, 'rejected'); END`).Error)
	f.catalog.On("Fetch", mock.Anything, catalog.ByID(42)).
		Return([]catalog.RawBeatmap{raw("bbbb", 42, 7, "1")}, nil).Once()

	_, err := f.svc.Refresh(context.Background(), old)
	require.Error(t, err)

	kept := f.find(t, "aaaa")
	require.NotNil(t, kept)
	assert.Equal(t, 120, kept.Plays)
	assert.Nil(t, f.find(t, "bbbb"))
	assert.Empty(t, f.notifier.all())
}

func TestService_Refresh_KeepsPlaysRecordedDuringFetch(t *testing.T) {
	f := setup(t)
	old := stored("aaaa", 42, 7, models.StatusPending, time.Hour)
	f.seed(t, old)
	f.catalog.On("Fetch", mock.Anything, catalog.ByID(42)).
		Run(func(mock.Arguments) {
			require.NoError(t, f.store.IncrementCounters(context.Background(), "aaaa", 1, 1))
		}).
		Return([]catalog.RawBeatmap{raw("aaaa", 42, 7, "1")}, nil).Once()

	_, err := f.svc.Refresh(context.Background(), old)
	require.NoError(t, err)

	b := f.find(t, "aaaa")
	require.NotNil(t, b)
	assert.Equal(t, models.StatusRanked, b.Status)
	assert.Equal(t, 121, b.Plays)
	assert.Equal(t, 81, b.Passes)
}

func TestService_Refresh_Withdrawn(t *testing.T) {
	f := setup(t)
	old := stored("aaaa", 42, 7, models.StatusPending, time.Hour)
	f.seed(t, old)
	f.catalog.On("Fetch", mock.Anything, catalog.ByID(42)).Return([]catalog.RawBeatmap{}, nil).Once()

	_, err := f.svc.Refresh(context.Background(), old)
	assert.ErrorIs(t, err, errors.ErrNotFound)
	assert.Nil(t, f.find(t, "aaaa"))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Reconciles.WithLabelValues("deleted")))
}

func TestService_Refresh_CatalogErrorsPropagate(t *testing.T) {
	cases := map[string]struct {
		err  error
		want error
	}{
		"Unavailable": {&errors.APIError{StatusCode: 403, Endpoint: "get_beatmaps"}, errors.ErrServiceUnavailable},
		"Transient":   {&errors.APIError{StatusCode: 502, Endpoint: "get_beatmaps"}, errors.ErrTransientHTTP},
		"Malformed":   {errors.NewMalformedRecordError("body", "<html>", nil), errors.ErrMalformedRecord},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			f := setup(t)
			old := stored("aaaa", 42, 7, models.StatusPending, time.Hour)
			f.seed(t, old)
			f.catalog.On("Fetch", mock.Anything, catalog.ByID(42)).Return(nil, tc.err).Once()

			_, err := f.svc.Refresh(context.Background(), old)
			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, old, *f.find(t, "aaaa"), "nothing is written")
		})
	}
}

func TestService_FetchByMD5_ServesStaleWhenCatalogDown(t *testing.T) {
	f := setup(t)
	old := stored("aaaa", 42, 7, models.StatusPending, time.Hour)
	f.seed(t, old)
	f.catalog.On("Fetch", mock.Anything, catalog.ByID(42)).
		Return(nil, &errors.APIError{StatusCode: 403, Endpoint: "get_beatmaps"}).Once()

	b, err := f.svc.FetchByMD5(context.Background(), "aaaa")
	require.NoError(t, err)
	assert.Equal(t, old, b)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.CatalogRequests.WithLabelValues("id", "unavailable")))
}

func TestService_FetchByMD5_MissWhenCatalogDown(t *testing.T) {
	f := setup(t)
	f.catalog.On("Fetch", mock.Anything, catalog.ByMD5("aaaa")).
		Return(nil, &errors.APIError{StatusCode: 403, Endpoint: "get_beatmaps"}).Once()

	_, err := f.svc.FetchByMD5(context.Background(), "aaaa")
	assert.ErrorIs(t, err, errors.ErrServiceUnavailable)
}

func TestService_FetchByMD5_MalformedPayload(t *testing.T) {
	f := setup(t)
	bad := raw("aaaa", 42, 7, "9")
	f.catalog.On("Fetch", mock.Anything, catalog.ByMD5("aaaa")).Return([]catalog.RawBeatmap{bad}, nil).Once()

	_, err := f.svc.FetchByMD5(context.Background(), "aaaa")
	assert.ErrorIs(t, err, errors.ErrMalformedRecord)
	assert.Nil(t, f.find(t, "aaaa"))
}

func TestService_FetchByMD5_UnknownStoredStatus(t *testing.T) {
	f := setup(t)
	f.seed(t, stored("aaaa", 42, 7, models.StatusUpdateAvailable, time.Hour))

	_, err := f.svc.FetchByMD5(context.Background(), "aaaa")
	assert.ErrorIs(t, err, errors.ErrUnknownStatus)
}

func TestService_FetchSet(t *testing.T) {
	f := setup(t)
	f.seed(t,
		stored("aaaa", 41, 7, models.StatusPending, time.Hour),
		stored("gone", 43, 7, models.StatusPending, time.Hour),
	)
	f.catalog.On("Fetch", mock.Anything, catalog.BySetID(7)).
		Return([]catalog.RawBeatmap{raw("aaaa", 41, 7, "3"), raw("bbbb", 42, 7, "3")}, nil).Once()

	set, err := f.svc.FetchSet(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, set, 2)
	assert.Equal(t, "aaaa", set[0].MD5)
	assert.Equal(t, 120, set[0].Plays)
	assert.Equal(t, models.StatusQualified, set[0].Status)
	assert.Equal(t, "bbbb", set[1].MD5)
	assert.Equal(t, 0, set[1].Plays)

	assert.Nil(t, f.find(t, "gone"))
	require.Len(t, f.notifier.all(), 1)

	again, err := f.svc.FetchSet(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, again, 2)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.CacheLookups.WithLabelValues("fresh")))
}

func TestService_FetchSet_Withdrawn(t *testing.T) {
	f := setup(t)
	f.seed(t, stored("aaaa", 41, 7, models.StatusPending, time.Hour))
	f.catalog.On("Fetch", mock.Anything, catalog.BySetID(7)).Return(nil, nil).Once()

	_, err := f.svc.FetchSet(context.Background(), 7)
	assert.ErrorIs(t, err, errors.ErrNotFound)
	assert.Nil(t, f.find(t, "aaaa"))
}

func TestService_RecordPlay(t *testing.T) {
	f := setup(t)
	b := stored("aaaa", 42, 7, models.StatusRanked, time.Minute)
	f.seed(t, b)

	played, err := f.svc.RecordPlay(context.Background(), b, true)
	require.NoError(t, err)
	assert.Equal(t, 121, played.Plays)
	assert.Equal(t, 81, played.Passes)
	assert.Equal(t, 120, b.Plays, "input is not modified")

	failed, err := f.svc.RecordPlay(context.Background(), played, false)
	require.NoError(t, err)
	assert.Equal(t, 122, failed.Plays)
	assert.Equal(t, 81, failed.Passes)

	persisted := f.find(t, "aaaa")
	assert.Equal(t, 122, persisted.Plays)
	assert.Equal(t, 81, persisted.Passes)
}

func TestService_RecordPlay_Missing(t *testing.T) {
	f := setup(t)
	_, err := f.svc.RecordPlay(context.Background(), models.Beatmap{MD5: "missing"}, true)
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestService_StoreFailureSkipsNotification(t *testing.T) {
	st := new(storemocks.Store)
	client := new(mocks.Client)
	rec := &recorder{}
	svc := NewService(st, client, rec, metrics.New(), zap.NewNop())
	svc.now = func() time.Time { return testNow }

	old := stored("aaaa", 42, 7, models.StatusPending, time.Hour)
	st.On("FindByID", mock.Anything, 42).Return(&old, nil)
	client.On("Fetch", mock.Anything, catalog.ByID(42)).
		Return([]catalog.RawBeatmap{raw("aaaa", 42, 7, "1")}, nil).Once()
	st.On("Upsert", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()

	_, err := svc.Refresh(context.Background(), old)
	assert.EqualError(t, err, "disk full")
	assert.Empty(t, rec.all())
	st.AssertExpectations(t)
	client.AssertExpectations(t)
}

// blockingCatalog counts fetches and holds them until released.
type blockingCatalog struct {
	calls   atomic.Int32
	entered chan struct{}
	release chan struct{}
	records []catalog.RawBeatmap
}

func (c *blockingCatalog) Fetch(ctx context.Context, q catalog.Query) ([]catalog.RawBeatmap, error) {
	if c.calls.Add(1) == 1 {
		close(c.entered)
	}
	<-c.release
	return c.records, nil
}

func TestService_CoalescesConcurrentMisses(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	st := store.New(db)
	require.NoError(t, st.Migrate())

	cat := &blockingCatalog{
		entered: make(chan struct{}),
		release: make(chan struct{}),
		records: []catalog.RawBeatmap{raw("aaaa", 42, 7, "1")},
	}
	svc := NewService(st, cat, &recorder{}, metrics.New(), zap.NewNop())
	svc.now = func() time.Time { return testNow }

	const callers = 16
	var wg sync.WaitGroup
	results := make([]models.Beatmap, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.FetchByMD5(context.Background(), "aaaa")
		}(i)
	}

	<-cat.entered
	time.Sleep(50 * time.Millisecond)
	close(cat.release)
	wg.Wait()

	assert.Equal(t, int32(1), cat.calls.Load())
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "aaaa", results[i].MD5)
	}
}

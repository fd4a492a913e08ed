package fitlog

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/fitcoach/internal/telemetry/metrics"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const defaultSnapshotTTL = 10 * time.Minute

// EventLister reads whole event collections of a single user.
type EventLister interface {
	ListMeals(ctx context.Context, userID string) ([]Meal, error)
	ListWorkouts(ctx context.Context, userID string) ([]Workout, error)
	ListMeasurements(ctx context.Context, userID string) ([]Measurement, error)
	ListJournal(ctx context.Context, userID string) ([]JournalEntry, error)
}

// SnapshotLoader assembles user snapshots, caching every collection
// separately so a change to one of them only evicts that one.
//
// Every cache key carries a generation bumped by Invalidate. A load only
// fills the cache when the generation it started with is still current, so
// a load racing with a change never caches the collection as it was before.
type SnapshotLoader struct {
	lister         EventLister
	cache          *freecache.Cache
	ttl            time.Duration
	metricsManager *metrics.Manager

	mu          sync.Mutex
	generations map[string]uint64
}

func NewSnapshotLoader(
	lister EventLister,
	cacheSizeMegabytes int,
	ttl time.Duration,
	metricsManager *metrics.Manager,
) *SnapshotLoader {
	if ttl <= 0 {
		ttl = defaultSnapshotTTL
	}
	return &SnapshotLoader{
		lister:         lister,
		cache:          freecache.NewCache(cacheSizeMegabytes * 1024 * 1024),
		ttl:            ttl,
		metricsManager: metricsManager,
		generations:    make(map[string]uint64),
	}
}

func cacheKey(userID string, c Collection) []byte {
	return []byte(userID + "::" + c.String())
}

func (l *SnapshotLoader) Snapshot(ctx context.Context, userID string) (_ *Snapshot, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "cache.fitlog.snapshot")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	snapshot := &Snapshot{UserID: userID}
	if snapshot.Meals, err = loadCached(ctx, l, userID, CollectionMeals, l.lister.ListMeals); err != nil {
		return nil, err
	}
	if snapshot.Workouts, err = loadCached(ctx, l, userID, CollectionWorkouts, l.lister.ListWorkouts); err != nil {
		return nil, err
	}
	if snapshot.Measurements, err = loadCached(ctx, l, userID, CollectionMeasurements, l.lister.ListMeasurements); err != nil {
		return nil, err
	}
	if snapshot.Journal, err = loadCached(ctx, l, userID, CollectionJournal, l.lister.ListJournal); err != nil {
		return nil, err
	}

	return snapshot, nil
}

// Invalidate evicts the given collections of a user; no collections means all.
func (l *SnapshotLoader) Invalidate(userID string, collections ...Collection) {
	if len(collections) == 0 {
		collections = AllCollections
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, c := range collections {
		key := cacheKey(userID, c)
		l.generations[string(key)]++
		l.cache.Del(key)
	}
}

func (l *SnapshotLoader) generation(key []byte) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.generations[string(key)]
}

// fill caches value under key unless the key was invalidated after gen was
// read.
func (l *SnapshotLoader) fill(key []byte, gen uint64, value []byte) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.generations[string(key)] != gen {
		return false, nil
	}
	return true, l.cache.Set(key, value, int(l.ttl.Seconds()))
}

func loadCached[T any](
	ctx context.Context,
	l *SnapshotLoader,
	userID string,
	collection Collection,
	load func(ctx context.Context, userID string) ([]T, error),
) ([]T, error) {
	key := cacheKey(userID, collection)
	if cachedBytes, err := l.cache.Get(key); err == nil {
		var events []T
		if err := json.Unmarshal(cachedBytes, &events); err == nil {
			l.hit()
			return events, nil
		} else {
			log.Errorf("unmarshal cached %s of user %s: %s", collection, userID, err)
		}
	}

	l.miss()
	gen := l.generation(key)
	events, err := load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}

	if eventsJson, err := json.Marshal(events); err != nil {
		log.Errorf("marshal %s of user %s for cache: %s", collection, userID, err)
	} else if filled, err := l.fill(key, gen, eventsJson); err != nil {
		// entries larger than 1/1024 of the cache are rejected
		log.Warnf("cache %s of user %s: %s", collection, userID, err)
	} else if !filled {
		log.Debugf("%s of user %s changed while loading, not cached", collection, userID)
	}

	return events, nil
}

func (l *SnapshotLoader) hit() {
	if l.metricsManager != nil {
		l.metricsManager.CounterSnapshotCacheHits.Inc()
	}
}

func (l *SnapshotLoader) miss() {
	if l.metricsManager != nil {
		l.metricsManager.CounterSnapshotCacheMisses.Inc()
	}
}

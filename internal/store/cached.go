package store

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dropDatabas3/hellomail/internal/cache"
	"github.com/dropDatabas3/hellomail/internal/domain/repository"
	"github.com/dropDatabas3/hellomail/internal/observability/logger"
)

// CachedUsers decora un UserRepository cacheando GetByID.
// Toda escritura sobre un usuario invalida su entrada. Los misses
// concurrentes del mismo id se resuelven con una sola lectura al store.
//
// Cada id lleva una generación que invalidate incrementa: una carga que
// empezó antes de una escritura no vuelve a poblar la cache.
type CachedUsers struct {
	repository.UserRepository
	cache cache.Client
	ttl   time.Duration
	sf    singleflight.Group

	mu  sync.Mutex
	gen map[string]uint64
}

// loadTimeout acota la lectura compartida por el singleflight.
const loadTimeout = 10 * time.Second

// NewCachedUsers envuelve repo con c. Si c es nil devuelve repo sin cambios.
func NewCachedUsers(repo repository.UserRepository, c cache.Client, ttl time.Duration) repository.UserRepository {
	if c == nil {
		return repo
	}
	return &CachedUsers{UserRepository: repo, cache: c, ttl: ttl, gen: make(map[string]uint64)}
}

func userKey(id string) string { return "user:" + id }

func (r *CachedUsers) GetByID(ctx context.Context, id string) (*repository.User, error) {
	log := logger.From(ctx).With(logger.Component("store.cache"))

	if raw, err := r.cache.Get(ctx, userKey(id)); err == nil {
		var u repository.User
		if jerr := json.Unmarshal(raw, &u); jerr == nil {
			return &u, nil
		}
		log.Warn("cached user corrupted, dropping", logger.UserID(id))
		_ = r.cache.Delete(ctx, userKey(id))
	} else if !cache.IsNotFound(err) {
		log.Warn("cache get failed", logger.UserID(id), logger.Err(err))
	}

	gen := r.generation(id)
	flight := id + "#" + strconv.FormatUint(gen, 10)

	v, err, _ := r.sf.Do(flight, func() (any, error) {
		// la lectura es compartida: no depende de la cancelación del primer caller
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()

		u, err := r.UserRepository.GetByID(lctx, id)
		if err != nil {
			return nil, err
		}
		r.fill(lctx, id, gen, u)
		return u, nil
	})
	if err != nil {
		return nil, err
	}

	// cada caller recibe su propia copia
	u := *v.(*repository.User)
	return &u, nil
}

func (r *CachedUsers) UpdateSender(ctx context.Context, id string, upd repository.SenderUpdate) (*repository.User, error) {
	u, err := r.UserRepository.UpdateSender(ctx, id, upd)
	r.invalidate(ctx, id)
	return u, err
}

func (r *CachedUsers) AppendHistory(ctx context.Context, id string, entry repository.HistoryEntry) error {
	err := r.UserRepository.AppendHistory(ctx, id, entry)
	r.invalidate(ctx, id)
	return err
}

func (r *CachedUsers) generation(id string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gen[id]
}

// fill guarda u solo si ninguna escritura invalidó el id desde gen.
// Set e incremento se serializan con mu.
func (r *CachedUsers) fill(ctx context.Context, id string, gen uint64, u *repository.User) {
	raw, err := json.Marshal(u)
	if err != nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gen[id] != gen {
		return
	}
	if err := r.cache.Set(ctx, userKey(id), raw, r.ttl); err != nil {
		logger.From(ctx).Warn("cache set failed",
			logger.Component("store.cache"), logger.UserID(id), logger.Err(err))
	}
}

func (r *CachedUsers) invalidate(ctx context.Context, id string) {
	r.mu.Lock()
	r.gen[id]++
	r.mu.Unlock()

	if err := r.cache.Delete(ctx, userKey(id)); err != nil {
		logger.From(ctx).Warn("cache invalidate failed",
			logger.Component("store.cache"), logger.UserID(id), logger.Err(err))
	}
}

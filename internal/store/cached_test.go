package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/hellomail/internal/cache"
	"github.com/dropDatabas3/hellomail/internal/domain/repository"
	"github.com/dropDatabas3/hellomail/internal/store"
	"github.com/dropDatabas3/hellomail/internal/store/adapters/memory"
)

// countingRepo cuenta lecturas por ID para verificar hits de cache.
type countingRepo struct {
	repository.UserRepository
	gets int
}

func (c *countingRepo) GetByID(ctx context.Context, id string) (*repository.User, error) {
	c.gets++
	return c.UserRepository.GetByID(ctx, id)
}

func newCached(t *testing.T) (repository.UserRepository, *countingRepo, string) {
	t.Helper()
	base := &countingRepo{UserRepository: memory.NewUserRepository()}
	u, err := base.Create(context.Background(), repository.CreateUserInput{
		Name: "Ana", Email: "ana@x.com", PasswordHash: "h",
	})
	require.NoError(t, err)
	return store.NewCachedUsers(base, cache.NewMemory(time.Minute, "test"), 0), base, u.ID
}

func TestCachedUsers_HitsCache(t *testing.T) {
	ctx := context.Background()
	repo, base, id := newCached(t)

	u1, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	u2, err := repo.GetByID(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, 1, base.gets)
	assert.Equal(t, u1.Email, u2.Email)
	assert.Equal(t, "h", u2.PasswordHash)
}

func TestCachedUsers_InvalidatedBySettingsUpdate(t *testing.T) {
	ctx := context.Background()
	repo, base, id := newCached(t)

	_, err := repo.GetByID(ctx, id)
	require.NoError(t, err)

	provider := "gmail"
	_, err = repo.UpdateSender(ctx, id, repository.SenderUpdate{Provider: &provider})
	require.NoError(t, err)

	u, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "gmail", u.Sender.Provider)
	assert.Equal(t, 2, base.gets)
}

func TestCachedUsers_InvalidatedByHistoryAppend(t *testing.T) {
	ctx := context.Background()
	repo, _, id := newCached(t)

	u, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.Empty(t, u.History)

	require.NoError(t, repo.AppendHistory(ctx, id, repository.HistoryEntry{
		RecruiterEmail: "r@y.com", Status: repository.HistorySuccess,
	}))

	u, err = repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.Len(t, u.History, 1)
}

func TestCachedUsers_NotFoundNotCached(t *testing.T) {
	ctx := context.Background()
	repo, base, _ := newCached(t)

	_, err := repo.GetByID(ctx, "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.GetByID(ctx, "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
	assert.Equal(t, 2, base.gets)
}

func TestNewCachedUsers_NilCache(t *testing.T) {
	base := memory.NewUserRepository()
	assert.Same(t, base, store.NewCachedUsers(base, nil, 0))
}

// blockingRepo frena la primera lectura por ID después de leer del store,
// hasta que se cierre release.
type blockingRepo struct {
	repository.UserRepository
	once    sync.Once
	loaded  chan struct{}
	release chan struct{}
}

func (b *blockingRepo) GetByID(ctx context.Context, id string) (*repository.User, error) {
	u, err := b.UserRepository.GetByID(ctx, id)
	b.once.Do(func() {
		close(b.loaded)
		<-b.release
	})
	return u, err
}

func TestCachedUsers_StaleLoadDoesNotRefill(t *testing.T) {
	ctx := context.Background()
	base := memory.NewUserRepository()
	u, err := base.Create(ctx, repository.CreateUserInput{Name: "Ana", Email: "ana@x.com", PasswordHash: "h"})
	require.NoError(t, err)
	gmail := "gmail"
	_, err = base.UpdateSender(ctx, u.ID, repository.SenderUpdate{Provider: &gmail})
	require.NoError(t, err)

	blocking := &blockingRepo{UserRepository: base, loaded: make(chan struct{}), release: make(chan struct{})}
	repo := store.NewCachedUsers(blocking, cache.NewMemory(time.Minute, "test"), time.Minute)

	done := make(chan *repository.User, 1)
	go func() {
		got, err := repo.GetByID(ctx, u.ID)
		assert.NoError(t, err)
		done <- got
	}()

	<-blocking.loaded
	zoho := "zoho"
	_, err = repo.UpdateSender(ctx, u.ID, repository.SenderUpdate{Provider: &zoho})
	require.NoError(t, err)
	close(blocking.release)

	stale := <-done
	require.NotNil(t, stale)
	assert.Equal(t, "gmail", stale.Sender.Provider)

	fresh, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "zoho", fresh.Sender.Provider)
}

// ctxRepo falla si el contexto de la lectura ya está cancelado.
type ctxRepo struct {
	repository.UserRepository
}

func (c *ctxRepo) GetByID(ctx context.Context, id string) (*repository.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.UserRepository.GetByID(ctx, id)
}

func TestCachedUsers_LoadIgnoresCallerCancel(t *testing.T) {
	base := memory.NewUserRepository()
	u, err := base.Create(context.Background(), repository.CreateUserInput{Name: "Ana", Email: "ana@x.com", PasswordHash: "h"})
	require.NoError(t, err)
	repo := store.NewCachedUsers(&ctxRepo{UserRepository: base}, cache.NewMemory(time.Minute, "test"), time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

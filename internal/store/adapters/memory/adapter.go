// Package memory implementa un adapter en memoria para desarrollo y tests.
// Los datos se pierden al cerrar el proceso.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/hellomail/internal/domain/repository"
	store "github.com/dropDatabas3/hellomail/internal/store"
)

func init() {
	store.RegisterAdapter(&memoryAdapter{})
}

type memoryAdapter struct{}

func (a *memoryAdapter) Name() string { return "memory" }

func (a *memoryAdapter) Connect(ctx context.Context, cfg store.AdapterConfig) (store.AdapterConnection, error) {
	return &memoryConnection{users: NewUserRepository()}, nil
}

type memoryConnection struct {
	users *UserRepository
}

func (c *memoryConnection) Name() string { return "memory" }
func (c *memoryConnection) Ping(ctx context.Context) error { return nil }
func (c *memoryConnection) Close() error { return nil }
func (c *memoryConnection) Migrate(ctx context.Context) error { return nil }
func (c *memoryConnection) Users() repository.UserRepository { return c.users }

// UserRepository es un repositorio de usuarios en memoria, seguro para uso concurrente.
type UserRepository struct {
	mu      sync.RWMutex
	byID    map[string]*repository.User
	byEmail map[string]string
	now     func() time.Time
}

// NewUserRepository crea un repositorio vacío.
func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[string]*repository.User),
		byEmail: make(map[string]string),
		now:     time.Now,
	}
}

func (r *UserRepository) Create(ctx context.Context, in repository.CreateUserInput) (*repository.User, error) {
	email := repository.NormalizeEmail(in.Email)
	if email == "" {
		return nil, repository.ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[email]; exists {
		return nil, repository.ErrEmailTaken
	}

	now := r.now().UTC()
	u := &repository.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        email,
		PasswordHash: in.PasswordHash,
		History:      []repository.HistoryEntry{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.byID[u.ID] = u
	r.byEmail[email] = u.ID
	return clone(u), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*repository.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clone(u), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*repository.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[repository.NormalizeEmail(email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clone(r.byID[id]), nil
}

func (r *UserRepository) UpdateSender(ctx context.Context, id string, upd repository.SenderUpdate) (*repository.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u.Sender = upd.Apply(u.Sender)
	u.UpdatedAt = r.now().UTC()
	return clone(u), nil
}

func (r *UserRepository) AppendHistory(ctx context.Context, id string, entry repository.HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.History = append(u.History, entry)
	u.UpdatedAt = r.now().UTC()
	return nil
}

func (r *UserRepository) ListHistory(ctx context.Context, id string) ([]repository.HistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := make([]repository.HistoryEntry, len(u.History))
	copy(out, u.History)
	return out, nil
}

// clone evita que el caller mute el estado interno.
func clone(u *repository.User) *repository.User {
	cp := *u
	cp.History = make([]repository.HistoryEntry, len(u.History))
	copy(cp.History, u.History)
	return &cp
}

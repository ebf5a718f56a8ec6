// Package store provee el registry de adaptadores de almacenamiento de usuarios.
//
// Cada adapter se registra en su init(); el binario importa
// internal/store/adapters/dal para tenerlos todos disponibles.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dropDatabas3/hellomail/internal/domain/repository"
)

// Adapter representa un backend capaz de abrir conexiones.
type Adapter interface {
	// Name retorna el nombre del adapter ("memory", "postgres", "mongo").
	Name() string

	// Connect establece conexión con el almacenamiento.
	Connect(ctx context.Context, cfg AdapterConfig) (AdapterConnection, error)
}

// AdapterConnection es una conexión activa.
type AdapterConnection interface {
	Name() string
	Ping(ctx context.Context) error
	Close() error

	// Migrate crea el esquema/índices necesarios. Idempotente.
	Migrate(ctx context.Context) error

	Users() repository.UserRepository
}

// AdapterConfig contiene los parámetros de conexión.
type AdapterConfig struct {
	// Name del adapter: "memory", "postgres", "mongo".
	Name string

	// DSN connection string (postgres) o URI (mongo).
	DSN string

	// Database nombre de la base (solo mongo).
	Database string

	// Pool settings (postgres)
	MaxOpenConns int
	MaxIdleConns int
}

var (
	registryMu sync.RWMutex
	adapters   = make(map[string]Adapter)
)

// RegisterAdapter registra un adapter en el registry global.
// Llamar en init() de cada adapter.
func RegisterAdapter(a Adapter) {
	registryMu.Lock()
	defer registryMu.Unlock()

	name := a.Name()
	if _, exists := adapters[name]; exists {
		panic(fmt.Sprintf("adapter: %q already registered", name))
	}
	adapters[name] = a
}

// GetAdapter obtiene un adapter por nombre.
func GetAdapter(name string) (Adapter, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	a, ok := adapters[name]
	return a, ok
}

// ListAdapters retorna los nombres registrados, ordenados.
func ListAdapters() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(adapters))
	for name := range adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open abre una conexión usando el adapter indicado en la config.
func Open(ctx context.Context, cfg AdapterConfig) (AdapterConnection, error) {
	a, ok := GetAdapter(cfg.Name)
	if !ok {
		return nil, fmt.Errorf("adapter: %q not registered (available: %v)", cfg.Name, ListAdapters())
	}
	return a.Connect(ctx, cfg)
}

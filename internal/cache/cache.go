// Package cache provee un cliente de cache clave/valor con dos backends:
//
//   - memory (in-process, go-cache)
//   - redis (compartido entre réplicas)
//
// Se usa para cachear perfiles de usuario delante del store.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Client define las operaciones de cache.
type Client interface {
	// Get obtiene un valor. Retorna ErrNotFound si no existe o expiró.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set guarda un valor. ttl 0 usa el TTL por defecto del cliente.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	Delete(ctx context.Context, key string) error

	// Ping verifica la conexión.
	Ping(ctx context.Context) error

	Close() error

	// Kind retorna "memory" o "redis".
	Kind() string
}

// Config configuración para crear un cliente de cache.
type Config struct {
	Kind       string // "memory" | "redis"
	DefaultTTL time.Duration
	Prefix     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// ErrNotFound se retorna en un miss.
var ErrNotFound = errors.New("cache: key not found")

// IsNotFound verifica si el error es un miss.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// New crea un cliente según cfg.Kind. Vacío equivale a "memory".
func New(ctx context.Context, cfg Config) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Kind)) {
	case "", "memory":
		return NewMemory(cfg.DefaultTTL, cfg.Prefix), nil
	case "redis":
		return NewRedis(ctx, cfg)
	default:
		return nil, fmt.Errorf("cache: unknown kind %q", cfg.Kind)
	}
}

func prefixed(prefix, k string) string {
	if prefix == "" {
		return k
	}
	return prefix + ":" + k
}

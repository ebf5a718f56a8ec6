// Package app arma el proceso: store, cache, issuer, métricas, services y router.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/hellomail/internal/cache"
	"github.com/dropDatabas3/hellomail/internal/config"
	"github.com/dropDatabas3/hellomail/internal/email"
	healthctrl "github.com/dropDatabas3/hellomail/internal/http/controllers/health"
	mailctrl "github.com/dropDatabas3/hellomail/internal/http/controllers/mail"
	userctrl "github.com/dropDatabas3/hellomail/internal/http/controllers/user"
	"github.com/dropDatabas3/hellomail/internal/http/router"
	healthsvc "github.com/dropDatabas3/hellomail/internal/http/services/health"
	mailsvc "github.com/dropDatabas3/hellomail/internal/http/services/mail"
	usersvc "github.com/dropDatabas3/hellomail/internal/http/services/user"
	"github.com/dropDatabas3/hellomail/internal/jwt"
	"github.com/dropDatabas3/hellomail/internal/metrics"
	"github.com/dropDatabas3/hellomail/internal/observability/logger"
	"github.com/dropDatabas3/hellomail/internal/store"
)

// Version se completa con -ldflags en el build.
var Version = "dev"

// App contiene el estado del proceso. Se crea una vez y se cierra al apagar.
type App struct {
	Config  *config.Config
	Conn    store.AdapterConnection
	Cache   cache.Client // nil si cache.kind = none
	Issuer  *jwt.Issuer
	Metrics *metrics.Metrics
	Handler http.Handler
}

// Options permite reemplazar piezas en tests.
type Options struct {
	// Transport reemplaza el SMTPFactory construido desde la config.
	Transport email.TransportFactory
}

// pooled lo implementan las conexiones respaldadas por pgxpool.
type pooled interface {
	Pool() *pgxpool.Pool
}

// New valida cfg, abre el store y la cache y arma el handler HTTP.
// Si algo falla cierra lo que ya se abrió.
func New(ctx context.Context, cfg *config.Config, opts Options) (_ *App, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	log := logger.From(ctx).With(logger.Component("app"))

	a := &App{Config: cfg}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	// ─── Store ───
	a.Conn, err = store.Open(ctx, store.AdapterConfig{
		Name:         cfg.Storage.Driver,
		DSN:          storageDSN(cfg),
		Database:     cfg.Storage.Mongo.Database,
		MaxOpenConns: cfg.Storage.Postgres.MaxOpenConns,
		MaxIdleConns: cfg.Storage.Postgres.MaxIdleConns,
	})
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	log.Info("store connected", logger.String("driver", a.Conn.Name()))

	// ─── Cache ───
	if cfg.Cache.Kind != "none" {
		a.Cache, err = cache.New(ctx, cache.Config{
			Kind:          cfg.Cache.Kind,
			DefaultTTL:    cfg.Cache.TTL,
			Prefix:        cfg.Cache.Redis.Prefix,
			RedisAddr:     cfg.Cache.Redis.Addr,
			RedisPassword: cfg.Cache.Redis.Password,
			RedisDB:       cfg.Cache.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("cache: %w", err)
		}
		log.Info("cache ready", logger.String("kind", a.Cache.Kind()))
	}

	// ─── Metrics ───
	a.Metrics, err = metrics.New(nil)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	if p, ok := a.Conn.(pooled); ok {
		if err = a.Metrics.RegisterPool(p.Pool); err != nil {
			return nil, fmt.Errorf("metrics: %w", err)
		}
	}

	a.Issuer = jwt.NewIssuer(cfg.JWT.Issuer, cfg.JWT.Secret, cfg.JWT.AccessTTL)

	users := store.NewCachedUsers(a.Conn.Users(), a.Cache, cfg.Cache.TTL)

	transport := opts.Transport
	if transport == nil {
		transport = email.SMTPFactory{
			ConnectTimeout:     cfg.SMTP.ConnectTimeout,
			InsecureSkipVerify: cfg.SMTP.InsecureSkipVerify,
		}
	}

	// ─── Services ───
	us := usersvc.NewServices(usersvc.Deps{
		Users:      users,
		Issuer:     a.Issuer,
		BcryptCost: cfg.Security.BcryptCost,
	})
	ms := mailsvc.NewServices(mailsvc.Deps{
		Users:     users,
		Transport: transport,
		Metrics:   a.Metrics,
	})
	hdeps := healthsvc.Deps{
		Version:    Version,
		Issuer:     a.Issuer,
		StoreCheck: a.Conn.Ping,
	}
	if a.Cache != nil {
		hdeps.CacheCheck = a.Cache.Ping
		hdeps.CacheKind = a.Cache.Kind()
	}
	hs := healthsvc.NewServices(hdeps)

	// ─── HTTP ───
	a.Handler = router.New(router.Deps{
		Issuer:      a.Issuer,
		Metrics:     a.Metrics,
		CORSOrigins: cfg.Server.CORSAllowedOrigins,
		User:        userctrl.NewControllers(us),
		Mail: mailctrl.NewControllers(ms, mailctrl.Limits{
			MaxAttachments:     cfg.Mail.MaxAttachments,
			MaxAttachmentBytes: cfg.Mail.MaxAttachmentBytes,
		}),
		Health: healthctrl.NewControllers(hs),
	})

	return a, nil
}

// Migrate aplica el esquema del store. Idempotente.
func (a *App) Migrate(ctx context.Context) error {
	return a.Conn.Migrate(ctx)
}

// Close libera store y cache.
func (a *App) Close() error {
	var errs []error
	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("cache: %w", err))
		}
	}
	if a.Conn != nil {
		if err := a.Conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}
	return errors.Join(errs...)
}

func storageDSN(cfg *config.Config) string {
	if cfg.Storage.Driver == "mongo" {
		return cfg.MongoURI()
	}
	return cfg.Storage.DSN
}

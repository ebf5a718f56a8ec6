// Package pg implementa el adapter PostgreSQL.
//
// Cada usuario es una fila; el historial de envíos vive como documento JSONB
// (mail_history) y se extiende con una concatenación atómica, sin leer-modificar-escribir.
package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/hellomail/internal/domain/repository"
	store "github.com/dropDatabas3/hellomail/internal/store"
	migrations "github.com/dropDatabas3/hellomail/migrations/postgres"
)

func init() {
	store.RegisterAdapter(&postgresAdapter{})
}

const uniqueViolation = "23505"

type postgresAdapter struct{}

func (a *postgresAdapter) Name() string { return "postgres" }

func (a *postgresAdapter) Connect(ctx context.Context, cfg store.AdapterConfig) (store.AdapterConnection, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("pg: parse DSN: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	} else {
		poolCfg.MaxConns = 10
	}
	if cfg.MaxIdleConns > 0 {
		poolCfg.MinConns = int32(cfg.MaxIdleConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("pg: create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: ping failed: %w", err)
	}

	return &pgConnection{pool: pool}, nil
}

type pgConnection struct {
	pool *pgxpool.Pool
}

func (c *pgConnection) Name() string { return "postgres" }

func (c *pgConnection) Ping(ctx context.Context) error { return c.pool.Ping(ctx) }

func (c *pgConnection) Close() error {
	c.pool.Close()
	return nil
}

func (c *pgConnection) Users() repository.UserRepository { return &userRepo{pool: c.pool} }

// Pool expone el pool para métricas.
func (c *pgConnection) Pool() *pgxpool.Pool { return c.pool }

// Migrate aplica las migraciones embebidas que todavía no figuran en schema_migrations.
func (c *pgConnection) Migrate(ctx context.Context) error {
	const ddl = `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`
	if _, err := c.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("pg: create schema_migrations: %w", err)
	}

	files, err := migrationFiles(migrations.FS)
	if err != nil {
		return err
	}

	for _, name := range files {
		var exists bool
		if err := c.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)`, name).Scan(&exists); err != nil {
			return fmt.Errorf("pg: check migration %s: %w", name, err)
		}
		if exists {
			continue
		}

		body, err := fs.ReadFile(migrations.FS, name)
		if err != nil {
			return fmt.Errorf("pg: read migration %s: %w", name, err)
		}

		err = pgx.BeginFunc(ctx, c.pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, string(body)); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, name)
			return err
		})
		if err != nil {
			return fmt.Errorf("pg: apply migration %s: %w", name, err)
		}
	}
	return nil
}

// migrationFiles lista los .sql del FS en orden de aplicación.
func migrationFiles(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("pg: list migrations: %w", err)
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}

// ─── UserRepository ───

const userColumns = `id::text, name, email, password_hash, from_mail, app_password, provider, mail_history, created_at, updated_at`

type userRepo struct{ pool *pgxpool.Pool }

func (r *userRepo) Create(ctx context.Context, in repository.CreateUserInput) (*repository.User, error) {
	email := repository.NormalizeEmail(in.Email)
	if email == "" {
		return nil, repository.ErrInvalidInput
	}

	const query = `
		INSERT INTO users (id, name, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns

	u, err := scanUser(r.pool.QueryRow(ctx, query, uuid.NewString(), in.Name, email, in.PasswordHash))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, repository.ErrEmailTaken
		}
		return nil, fmt.Errorf("pg: insert user: %w", err)
	}
	return u, nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*repository.User, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*repository.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = $1`, repository.NormalizeEmail(email))
}

func (r *userRepo) getOne(ctx context.Context, query string, arg any) (*repository.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pg: get user: %w", err)
	}
	return u, nil
}

func (r *userRepo) UpdateSender(ctx context.Context, id string, upd repository.SenderUpdate) (*repository.User, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}

	const query = `
		UPDATE users SET
			from_mail    = COALESCE($2::text, from_mail),
			app_password = COALESCE($3::text, app_password),
			provider     = COALESCE($4::text, provider),
			updated_at   = now()
		WHERE id = $1
		RETURNING ` + userColumns

	u, err := scanUser(r.pool.QueryRow(ctx, query, id, upd.FromMail, upd.AppPassword, upd.Provider))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pg: update sender: %w", err)
	}
	return u, nil
}

func (r *userRepo) AppendHistory(ctx context.Context, id string, entry repository.HistoryEntry) error {
	if !validID(id) {
		return repository.ErrNotFound
	}

	doc, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("pg: encode history entry: %w", err)
	}

	const query = `
		UPDATE users SET
			mail_history = mail_history || jsonb_build_array($2::jsonb),
			updated_at   = now()
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, string(doc))
	if err != nil {
		return fmt.Errorf("pg: append history: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *userRepo) ListHistory(ctx context.Context, id string) ([]repository.HistoryEntry, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}

	var raw []byte
	err := r.pool.QueryRow(ctx, `SELECT mail_history FROM users WHERE id = $1`, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pg: list history: %w", err)
	}
	return decodeHistory(raw)
}

func scanUser(row pgx.Row) (*repository.User, error) {
	var (
		u       repository.User
		history []byte
	)
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash,
		&u.Sender.FromMail, &u.Sender.AppPassword, &u.Sender.Provider,
		&history, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if u.History, err = decodeHistory(history); err != nil {
		return nil, err
	}
	return &u, nil
}

func decodeHistory(raw []byte) ([]repository.HistoryEntry, error) {
	out := []repository.HistoryEntry{}
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("pg: decode mail_history: %w", err)
	}
	return out, nil
}

// validID evita mandar a Postgres ids que no son UUID (fallaría con 22P02).
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

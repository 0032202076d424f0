package mysql

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	mysqldrv "github.com/go-sql-driver/mysql"

	"hotellink/internal/domain"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Repo is the deep-link miss log.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// Open connects with the mysql driver and pings once. parseTime and UTC are
// forced on since seen_at is scanned into time.Time.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	cfg, err := mysqldrv.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse MYSQL_DSN: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db.Ping: %w", err)
	}
	return db, nil
}

// Migrate applies the embedded migrations in name order. Every statement is
// idempotent, so re-running is safe.
func (r *Repo) Migrate(ctx context.Context) error {
	names, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)
	for _, n := range names {
		b, err := migrations.ReadFile(n)
		if err != nil {
			return err
		}
		for _, stmt := range strings.Split(string(b), ";") {
			if strings.TrimSpace(stmt) == "" {
				continue
			}
			if _, err := r.db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("migrate %s: %w", n, err)
			}
		}
	}
	return nil
}

func (r *Repo) LogMiss(ctx context.Context, m domain.Miss) error {
	seen := m.SeenAt
	if seen.IsZero() {
		seen = time.Now()
	}
	seen = seen.UTC()
	_, err := r.db.ExecContext(ctx, upsertMissSQL,
		m.PropertyID,
		m.Kind,
		truncate(m.Code, 191),
		m.Locale,
		seen,
		seen,
	)
	return err
}

// RecentMisses lists misses seen since the given time, newest first.
func (r *Repo) RecentMisses(ctx context.Context, propertyID int64, since time.Time, limit int) ([]domain.Miss, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx, recentMissesSQL, propertyID, since.UTC(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Miss
	for rows.Next() {
		var m domain.Miss
		if err := rows.Scan(&m.PropertyID, &m.Kind, &m.Code, &m.Locale, &m.Hits, &m.SeenAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Purge deletes misses not seen since before.
func (r *Repo) Purge(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, purgeMissesSQL, before.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

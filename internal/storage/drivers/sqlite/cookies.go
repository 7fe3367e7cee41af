package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/tutorship/internal/storage"
)

type cookiesRepo struct {
	db  *sql.DB
	now func() time.Time
}

func (r *cookiesRepo) Get(ctx context.Context, name string) (storage.Cookie, error) {
	var (
		c       storage.Cookie
		expires sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT name, value, path, expires_at FROM cookies WHERE name = ?`, name,
	).Scan(&c.Name, &c.Value, &c.Path, &expires)
	if err != nil {
		return storage.Cookie{}, mapNotFound(err)
	}
	c.Expires = mapNullUnix(expires)

	if c.Expired(r.now()) {
		return storage.Cookie{}, storage.ErrNotFound
	}
	return c, nil
}

func (r *cookiesRepo) Set(ctx context.Context, c storage.Cookie) error {
	if c.Path == "" {
		c.Path = "/"
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cookies (name, value, path, expires_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			value = excluded.value,
			path = excluded.path,
			expires_at = excluded.expires_at,
			updated_at = excluded.updated_at`,
		c.Name, c.Value, c.Path, mapUnixNull(c.Expires), r.now().Unix(),
	)
	return err
}

func (r *cookiesRepo) Delete(ctx context.Context, name string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cookies WHERE name = ?`, name)
	return err
}

func (r *cookiesRepo) DeleteIfValue(ctx context.Context, name, value string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cookies WHERE name = ? AND value = ?`, name, value)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jask/crewdeck/internal/catalog"
)

// AppRepo handles the portal app registry table.
type AppRepo struct {
	db *sql.DB
}

func NewAppRepo(db *sql.DB) *AppRepo {
	return &AppRepo{db: db}
}

func (r *AppRepo) Upsert(ctx context.Context, ord int, a catalog.PortalApp) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO apps(id, ord, name, blurb, surface)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	 ord=excluded.ord,
	 name=excluded.name,
	 blurb=excluded.blurb,
	 surface=excluded.surface;
	`, a.ID, ord, a.Name, a.Blurb, a.Surface)
	return err
}

func (r *AppRepo) List(ctx context.Context) ([]catalog.PortalApp, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, blurb, surface FROM apps ORDER BY ord`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []catalog.PortalApp
	for rows.Next() {
		var a catalog.PortalApp
		if err := rows.Scan(&a.ID, &a.Name, &a.Blurb, &a.Surface); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AppRepo) Get(ctx context.Context, id string) (catalog.PortalApp, bool, error) {
	var a catalog.PortalApp
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, blurb, surface FROM apps WHERE id = ?`, id,
	).Scan(&a.ID, &a.Name, &a.Blurb, &a.Surface)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.PortalApp{}, false, nil
	}
	if err != nil {
		return catalog.PortalApp{}, false, err
	}
	return a, true, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jask/crewdeck/internal/catalog"
)

// IncidentRepo handles the incidents table.
type IncidentRepo struct {
	db *sql.DB
}

func NewIncidentRepo(db *sql.DB) *IncidentRepo {
	return &IncidentRepo{db: db}
}

func (r *IncidentRepo) Upsert(ctx context.Context, ord int, in catalog.IncidentBundle) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO incidents(id, ord, title, service, severity, status, opened, timeline)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	 ord=excluded.ord,
	 title=excluded.title,
	 service=excluded.service,
	 severity=excluded.severity,
	 status=excluded.status,
	 opened=excluded.opened,
	 timeline=excluded.timeline;
	`, in.ID, ord, in.Title, in.Service, in.Severity, in.Status, in.Opened.UTC(), joinList(in.Timeline))
	return err
}

// List returns incidents most recently opened first.
func (r *IncidentRepo) List(ctx context.Context) ([]catalog.IncidentBundle, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, service, severity, status, opened, timeline FROM incidents ORDER BY opened DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []catalog.IncidentBundle
	for rows.Next() {
		var in catalog.IncidentBundle
		var timeline string
		if err := rows.Scan(&in.ID, &in.Title, &in.Service, &in.Severity, &in.Status, &in.Opened, &timeline); err != nil {
			return nil, err
		}
		in.Timeline = splitList(timeline)
		out = append(out, in)
	}
	return out, rows.Err()
}

func (r *IncidentRepo) Get(ctx context.Context, id string) (catalog.IncidentBundle, bool, error) {
	var in catalog.IncidentBundle
	var timeline string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, service, severity, status, opened, timeline FROM incidents WHERE id = ?`, id,
	).Scan(&in.ID, &in.Title, &in.Service, &in.Severity, &in.Status, &in.Opened, &timeline)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.IncidentBundle{}, false, nil
	}
	if err != nil {
		return catalog.IncidentBundle{}, false, err
	}
	in.Timeline = splitList(timeline)
	return in, true, nil
}

// CountOpen returns the number of incidents still marked open.
func (r *IncidentRepo) CountOpen(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM incidents WHERE status = 'open'`).Scan(&n)
	return n, err
}

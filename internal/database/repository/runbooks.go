package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jask/crewdeck/internal/catalog"
)

// RunbookRepo handles the runbooks table.
type RunbookRepo struct {
	db *sql.DB
}

func NewRunbookRepo(db *sql.DB) *RunbookRepo {
	return &RunbookRepo{db: db}
}

func (r *RunbookRepo) Upsert(ctx context.Context, ord int, rb catalog.Runbook) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO runbooks(id, ord, title, service, severity, steps)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	 ord=excluded.ord,
	 title=excluded.title,
	 service=excluded.service,
	 severity=excluded.severity,
	 steps=excluded.steps;
	`, rb.ID, ord, rb.Title, rb.Service, rb.Severity, joinList(rb.Steps))
	return err
}

func (r *RunbookRepo) List(ctx context.Context) ([]catalog.Runbook, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, service, severity, steps FROM runbooks ORDER BY ord`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []catalog.Runbook
	for rows.Next() {
		var rb catalog.Runbook
		var steps string
		if err := rows.Scan(&rb.ID, &rb.Title, &rb.Service, &rb.Severity, &steps); err != nil {
			return nil, err
		}
		rb.Steps = splitList(steps)
		out = append(out, rb)
	}
	return out, rows.Err()
}

func (r *RunbookRepo) Get(ctx context.Context, id string) (catalog.Runbook, bool, error) {
	var rb catalog.Runbook
	var steps string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, service, severity, steps FROM runbooks WHERE id = ?`, id,
	).Scan(&rb.ID, &rb.Title, &rb.Service, &rb.Severity, &steps)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Runbook{}, false, nil
	}
	if err != nil {
		return catalog.Runbook{}, false, err
	}
	rb.Steps = splitList(steps)
	return rb, true, nil
}

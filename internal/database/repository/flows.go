package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jask/crewdeck/internal/catalog"
)

// FlowRepo handles the flows table.
type FlowRepo struct {
	db *sql.DB
}

func NewFlowRepo(db *sql.DB) *FlowRepo {
	return &FlowRepo{db: db}
}

func (r *FlowRepo) Upsert(ctx context.Context, ord int, f catalog.FlowSpec) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO flows(id, ord, title, fires_on, stages, gates, owner)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	 ord=excluded.ord,
	 title=excluded.title,
	 fires_on=excluded.fires_on,
	 stages=excluded.stages,
	 gates=excluded.gates,
	 owner=excluded.owner;
	`, f.ID, ord, f.Title, f.Trigger, joinList(f.Stages), joinList(f.Gates), f.Owner)
	return err
}

func (r *FlowRepo) List(ctx context.Context) ([]catalog.FlowSpec, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, fires_on, stages, gates, owner FROM flows ORDER BY ord`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []catalog.FlowSpec
	for rows.Next() {
		var f catalog.FlowSpec
		var stages, gates string
		if err := rows.Scan(&f.ID, &f.Title, &f.Trigger, &stages, &gates, &f.Owner); err != nil {
			return nil, err
		}
		f.Stages = splitList(stages)
		f.Gates = splitList(gates)
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *FlowRepo) Get(ctx context.Context, id string) (catalog.FlowSpec, bool, error) {
	var f catalog.FlowSpec
	var stages, gates string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, fires_on, stages, gates, owner FROM flows WHERE id = ?`, id,
	).Scan(&f.ID, &f.Title, &f.Trigger, &stages, &gates, &f.Owner)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.FlowSpec{}, false, nil
	}
	if err != nil {
		return catalog.FlowSpec{}, false, err
	}
	f.Stages = splitList(stages)
	f.Gates = splitList(gates)
	return f, true, nil
}

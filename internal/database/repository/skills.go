package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jask/crewdeck/internal/catalog"
)

// SkillRepo handles the skills table.
type SkillRepo struct {
	db *sql.DB
}

func NewSkillRepo(db *sql.DB) *SkillRepo {
	return &SkillRepo{db: db}
}

func (r *SkillRepo) Upsert(ctx context.Context, ord int, s catalog.Skill) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO skills(id, ord, title, engine, risk, persona, summary, tags)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	 ord=excluded.ord,
	 title=excluded.title,
	 engine=excluded.engine,
	 risk=excluded.risk,
	 persona=excluded.persona,
	 summary=excluded.summary,
	 tags=excluded.tags;
	`, s.ID, ord, s.Title, string(s.Engine), string(s.Risk), s.Persona, s.Summary, joinList(s.Tags))
	return err
}

func (r *SkillRepo) List(ctx context.Context) ([]catalog.Skill, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, engine, risk, persona, summary, tags FROM skills ORDER BY ord`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []catalog.Skill
	for rows.Next() {
		var s catalog.Skill
		var engine, risk, tags string
		if err := rows.Scan(&s.ID, &s.Title, &engine, &risk, &s.Persona, &s.Summary, &tags); err != nil {
			return nil, err
		}
		s.Engine = catalog.Engine(engine)
		s.Risk = catalog.Risk(risk)
		s.Tags = splitList(tags)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SkillRepo) Get(ctx context.Context, id string) (catalog.Skill, bool, error) {
	var s catalog.Skill
	var engine, risk, tags string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, engine, risk, persona, summary, tags FROM skills WHERE id = ?`, id,
	).Scan(&s.ID, &s.Title, &engine, &risk, &s.Persona, &s.Summary, &tags)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Skill{}, false, nil
	}
	if err != nil {
		return catalog.Skill{}, false, err
	}
	s.Engine = catalog.Engine(engine)
	s.Risk = catalog.Risk(risk)
	s.Tags = splitList(tags)
	return s, true, nil
}

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jask/crewdeck/internal/catalog"
	"github.com/jask/crewdeck/internal/database/repository"
)

// Seed loads the parsed catalog into the reference tables. It runs once at
// startup; upserts keep it idempotent should anyone call it again.
func Seed(ctx context.Context, db *sql.DB, cat *catalog.Catalog) error {
	skillRepo := repository.NewSkillRepo(db)
	for i, s := range cat.Skills() {
		if err := skillRepo.Upsert(ctx, i, s); err != nil {
			return fmt.Errorf("seed skill %s: %w", s.ID, err)
		}
	}
	flowRepo := repository.NewFlowRepo(db)
	for i, f := range cat.Flows() {
		if err := flowRepo.Upsert(ctx, i, f); err != nil {
			return fmt.Errorf("seed flow %s: %w", f.ID, err)
		}
	}
	runbookRepo := repository.NewRunbookRepo(db)
	for i, rb := range cat.Runbooks() {
		if err := runbookRepo.Upsert(ctx, i, rb); err != nil {
			return fmt.Errorf("seed runbook %s: %w", rb.ID, err)
		}
	}
	incidentRepo := repository.NewIncidentRepo(db)
	for i, in := range cat.Incidents() {
		if err := incidentRepo.Upsert(ctx, i, in); err != nil {
			return fmt.Errorf("seed incident %s: %w", in.ID, err)
		}
	}
	appRepo := repository.NewAppRepo(db)
	for i, a := range cat.Apps() {
		if err := appRepo.Upsert(ctx, i, a); err != nil {
			return fmt.Errorf("seed app %s: %w", a.ID, err)
		}
	}
	return nil
}

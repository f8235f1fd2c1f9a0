package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Kamon-Tahara-504/HypoFrame/internal/types"
)

const runColumns = `id, input_url, company_name, summary_business, industry,
	employee_scale, decision_maker_name, ir_summary,
	hypothesis_segment_1, hypothesis_segment_2, hypothesis_segment_3,
	hypothesis_segment_4, hypothesis_segment_5, letter_draft,
	regenerated_count, created_at, updated_at`

// editableFields maps patchable JSON fields to their column and audit-target
// names, in a fixed order so edit logs are appended deterministically.
var editableFields = []struct {
	name   string // audit target field
	column string
	get    func(*types.RunPatch) *string
	cur    func(*types.Run) string
	set    func(*types.Run, string)
}{
	{"segment_1", "hypothesis_segment_1",
		func(p *types.RunPatch) *string { return p.HypothesisSegment1 },
		func(r *types.Run) string { return r.HypothesisSegment1 },
		func(r *types.Run, v string) { r.HypothesisSegment1 = v }},
	{"segment_2", "hypothesis_segment_2",
		func(p *types.RunPatch) *string { return p.HypothesisSegment2 },
		func(r *types.Run) string { return r.HypothesisSegment2 },
		func(r *types.Run, v string) { r.HypothesisSegment2 = v }},
	{"segment_3", "hypothesis_segment_3",
		func(p *types.RunPatch) *string { return p.HypothesisSegment3 },
		func(r *types.Run) string { return r.HypothesisSegment3 },
		func(r *types.Run, v string) { r.HypothesisSegment3 = v }},
	{"segment_4", "hypothesis_segment_4",
		func(p *types.RunPatch) *string { return p.HypothesisSegment4 },
		func(r *types.Run) string { return r.HypothesisSegment4 },
		func(r *types.Run, v string) { r.HypothesisSegment4 = v }},
	{"segment_5", "hypothesis_segment_5",
		func(p *types.RunPatch) *string { return p.HypothesisSegment5 },
		func(r *types.Run) string { return r.HypothesisSegment5 },
		func(r *types.Run, v string) { r.HypothesisSegment5 = v }},
	{"letter_draft", "letter_draft",
		func(p *types.RunPatch) *string { return p.LetterDraft },
		func(r *types.Run) string { return r.LetterDraft },
		func(r *types.Run, v string) { r.LetterDraft = v }},
}

// InsertRun creates a run owned by ownerID and returns its ID.
func (db *DB) InsertRun(ctx context.Context, ownerID uuid.UUID, ins *types.RunInsert) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO runs (user_id, input_url, company_name, summary_business, industry,
			employee_scale, decision_maker_name, ir_summary,
			hypothesis_segment_1, hypothesis_segment_2, hypothesis_segment_3,
			hypothesis_segment_4, hypothesis_segment_5, letter_draft, regenerated_count)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		 RETURNING id`,
		ownerID, ins.InputURL, ins.CompanyName, ins.SummaryBusiness, ins.Industry,
		ins.EmployeeScale, ins.DecisionMakerName, ins.IRSummary,
		ins.HypothesisSegment1, ins.HypothesisSegment2, ins.HypothesisSegment3,
		ins.HypothesisSegment4, ins.HypothesisSegment5, ins.LetterDraft,
		ins.RegeneratedCount,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert run: %w", err)
	}
	return id, nil
}

// GetRun retrieves one run scoped to its owner.
func (db *DB) GetRun(ctx context.Context, id, ownerID uuid.UUID) (*types.Run, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+runColumns+` FROM runs WHERE id = $1 AND user_id = $2`,
		id, ownerID,
	)
	return scanRun(row)
}

// ListRuns returns the owner's runs, newest updated first.
func (db *DB) ListRuns(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]types.RunListItem, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, input_url, company_name, created_at, updated_at
		 FROM runs WHERE user_id = $1
		 ORDER BY updated_at DESC
		 LIMIT $2 OFFSET $3`,
		ownerID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	items := make([]types.RunListItem, 0)
	for rows.Next() {
		var item types.RunListItem
		if err := rows.Scan(&item.ID, &item.InputURL, &item.CompanyName, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateRun applies a partial edit to an owned run and appends one edit_logs
// row per changed field in the same transaction. Updates are
// last-writer-wins; a single owner edits a run at a time by application
// convention.
func (db *DB) UpdateRun(ctx context.Context, id, ownerID uuid.UUID, patch *types.RunPatch) (*types.Run, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx,
		`SELECT `+runColumns+` FROM runs WHERE id = $1 AND user_id = $2`,
		id, ownerID,
	)
	run, err := scanRun(row)
	if err != nil {
		return nil, err
	}

	changed := false
	for _, f := range editableFields {
		val := f.get(patch)
		if val == nil || *val == f.cur(run) {
			continue
		}
		before := f.cur(run)

		if _, err := tx.Exec(ctx,
			fmt.Sprintf(`UPDATE runs SET %s = $1, updated_at = NOW() WHERE id = $2`, f.column),
			*val, id,
		); err != nil {
			return nil, fmt.Errorf("failed to update %s: %w", f.column, err)
		}
		// Audit rows are append-only; nothing ever updates or deletes them.
		if _, err := tx.Exec(ctx,
			`INSERT INTO edit_logs (run_id, target_field, before, after) VALUES ($1, $2, $3, $4)`,
			id, f.name, before, *val,
		); err != nil {
			return nil, fmt.Errorf("failed to append edit log: %w", err)
		}
		f.set(run, *val)
		changed = true
	}

	if changed {
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("failed to commit update: %w", err)
		}
	}
	return run, nil
}

// UpdateGeneration replaces a run's generated fields after a regeneration and
// bumps the regeneration counter.
func (db *DB) UpdateGeneration(ctx context.Context, id, ownerID uuid.UUID, gen *types.GenerateResponse) (*types.Run, error) {
	row := db.pool.QueryRow(ctx,
		`UPDATE runs SET summary_business = $1, industry = $2, employee_scale = $3,
			decision_maker_name = $4, ir_summary = $5,
			hypothesis_segment_1 = $6, hypothesis_segment_2 = $7, hypothesis_segment_3 = $8,
			hypothesis_segment_4 = $9, hypothesis_segment_5 = $10, letter_draft = $11,
			regenerated_count = regenerated_count + 1, updated_at = NOW()
		 WHERE id = $12 AND user_id = $13
		 RETURNING `+runColumns,
		gen.SummaryBusiness, gen.Industry, gen.EmployeeScale,
		gen.DecisionMakerName, gen.IRSummary,
		gen.HypothesisSegments[0], gen.HypothesisSegments[1], gen.HypothesisSegments[2],
		gen.HypothesisSegments[3], gen.HypothesisSegments[4], gen.LetterDraft,
		id, ownerID,
	)
	return scanRun(row)
}

// ListEditLogs returns the audit trail of a run, oldest first.
func (db *DB) ListEditLogs(ctx context.Context, runID uuid.UUID) ([]types.EditLog, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, run_id, target_field, before, after, created_at
		 FROM edit_logs WHERE run_id = $1 ORDER BY created_at ASC, id ASC`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list edit logs: %w", err)
	}
	defer rows.Close()

	logs := make([]types.EditLog, 0)
	for rows.Next() {
		var l types.EditLog
		if err := rows.Scan(&l.ID, &l.RunID, &l.TargetField, &l.Before, &l.After, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan edit log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func scanRun(row pgx.Row) (*types.Run, error) {
	var run types.Run
	err := row.Scan(
		&run.ID, &run.InputURL, &run.CompanyName, &run.SummaryBusiness, &run.Industry,
		&run.EmployeeScale, &run.DecisionMakerName, &run.IRSummary,
		&run.HypothesisSegment1, &run.HypothesisSegment2, &run.HypothesisSegment3,
		&run.HypothesisSegment4, &run.HypothesisSegment5, &run.LetterDraft,
		&run.RegeneratedCount, &run.CreatedAt, &run.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}
	return &run, nil
}

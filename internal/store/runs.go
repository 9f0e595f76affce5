package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/councilos/councilos/internal/models"
)

// RunStore persists council run history in the council_runs table.
type RunStore struct {
	pool *pgxpool.Pool
}

// NewRunStore creates a run store on the given pool.
func NewRunStore(pool *pgxpool.Pool) *RunStore {
	return &RunStore{pool: pool}
}

// Create inserts a run row with its caller-assigned id.
func (s *RunStore) Create(ctx context.Context, run *models.CouncilRun) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO council_runs (id, blueprint_id, input_topic, status, execution_mode)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		run.ID, run.BlueprintID, run.InputTopic, run.Status, run.ExecutionMode,
	).Scan(&run.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}

	return nil
}

// Get retrieves a run row by id.
func (s *RunStore) Get(ctx context.Context, id string) (*models.CouncilRun, error) {
	var run models.CouncilRun

	err := s.pool.QueryRow(ctx, `
		SELECT id, blueprint_id, input_topic, status, execution_mode,
		       final_draft, evaluation_score, iteration_count, active_node, error,
		       created_at, completed_at
		FROM council_runs
		WHERE id = $1
	`, id).Scan(
		&run.ID,
		&run.BlueprintID,
		&run.InputTopic,
		&run.Status,
		&run.ExecutionMode,
		&run.FinalDraft,
		&run.EvaluationScore,
		&run.IterationCount,
		&run.ActiveNode,
		&run.Error,
		&run.CreatedAt,
		&run.CompletedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	return &run, nil
}

// List returns run history, newest first, capped at limit (50 when <= 0).
func (s *RunStore) List(ctx context.Context, limit int) ([]*models.CouncilRun, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, blueprint_id, input_topic, status, execution_mode,
		       final_draft, evaluation_score, iteration_count, active_node, error,
		       created_at, completed_at
		FROM council_runs
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.CouncilRun
	for rows.Next() {
		var run models.CouncilRun
		err := rows.Scan(
			&run.ID,
			&run.BlueprintID,
			&run.InputTopic,
			&run.Status,
			&run.ExecutionMode,
			&run.FinalDraft,
			&run.EvaluationScore,
			&run.IterationCount,
			&run.ActiveNode,
			&run.Error,
			&run.CreatedAt,
			&run.CompletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, &run)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

// UpdateProgress records the node and iteration a running council is on.
func (s *RunStore) UpdateProgress(ctx context.Context, id, status string, activeNode *string, iteration *int) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE council_runs
		SET status = $2, active_node = $3, iteration_count = $4
		WHERE id = $1
	`, id, status, activeNode, iteration)

	if err != nil {
		return fmt.Errorf("failed to update run progress: %w", err)
	}

	return nil
}

// Complete marks a run finished with its outcome. completed_at is stamped
// for the terminal statuses only.
func (s *RunStore) Complete(ctx context.Context, id, status string, finalDraft *string, score *float64, iteration *int, runErr *string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE council_runs
		SET status = $2, final_draft = $3, evaluation_score = $4, iteration_count = $5,
		    error = $6, active_node = NULL,
		    completed_at = CASE WHEN $2 IN ('completed', 'failed', 'rejected') THEN NOW() ELSE completed_at END
		WHERE id = $1
	`, id, status, finalDraft, score, iteration, runErr)

	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}

	return nil
}

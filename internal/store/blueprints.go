package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/councilos/councilos/internal/models"
)

// BlueprintStore persists council blueprints. Node and edge lists are stored
// as jsonb so the schema does not need to chase the canvas format.
type BlueprintStore struct {
	pool *pgxpool.Pool
}

// NewBlueprintStore creates a blueprint store on the given pool.
func NewBlueprintStore(pool *pgxpool.Pool) *BlueprintStore {
	return &BlueprintStore{pool: pool}
}

// Create inserts a new blueprint and returns it with the generated id and
// timestamps filled in.
func (s *BlueprintStore) Create(ctx context.Context, bp *models.Blueprint) (*models.Blueprint, error) {
	saved := *bp
	err := s.pool.QueryRow(ctx,
		`INSERT INTO blueprints (name, version, nodes, edges)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		bp.Name, bp.Version, bp.Nodes, bp.Edges,
	).Scan(&saved.ID, &saved.CreatedAt, &saved.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to create blueprint: %w", err)
	}

	return &saved, nil
}

// Get retrieves a blueprint by id.
func (s *BlueprintStore) Get(ctx context.Context, id string) (*models.Blueprint, error) {
	var bp models.Blueprint

	err := s.pool.QueryRow(ctx, `
		SELECT id, name, version, nodes, edges, created_at, updated_at
		FROM blueprints
		WHERE id = $1
	`, id).Scan(
		&bp.ID,
		&bp.Name,
		&bp.Version,
		&bp.Nodes,
		&bp.Edges,
		&bp.CreatedAt,
		&bp.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get blueprint: %w", err)
	}

	return &bp, nil
}

// List returns all blueprints, newest first.
func (s *BlueprintStore) List(ctx context.Context) ([]*models.Blueprint, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, version, nodes, edges, created_at, updated_at
		FROM blueprints
		ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query blueprints: %w", err)
	}
	defer rows.Close()

	var blueprints []*models.Blueprint
	for rows.Next() {
		var bp models.Blueprint
		err := rows.Scan(
			&bp.ID,
			&bp.Name,
			&bp.Version,
			&bp.Nodes,
			&bp.Edges,
			&bp.CreatedAt,
			&bp.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan blueprint: %w", err)
		}
		blueprints = append(blueprints, &bp)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating blueprints: %w", err)
	}

	return blueprints, nil
}

// Update replaces the stored definition and bumps the version counter.
func (s *BlueprintStore) Update(ctx context.Context, bp *models.Blueprint) (*models.Blueprint, error) {
	saved := *bp
	err := s.pool.QueryRow(ctx,
		`UPDATE blueprints
		 SET name = $2, nodes = $3, edges = $4, version = version + 1, updated_at = NOW()
		 WHERE id = $1
		 RETURNING version, created_at, updated_at`,
		bp.ID, bp.Name, bp.Nodes, bp.Edges,
	).Scan(&saved.Version, &saved.CreatedAt, &saved.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update blueprint: %w", err)
	}

	return &saved, nil
}

// Delete removes a blueprint by id.
func (s *BlueprintStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM blueprints WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete blueprint: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

package helpers

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/councilos/councilos/internal/models"
)

// GetTestDatabasePool creates a database connection pool for testing
func GetTestDatabasePool(ctx context.Context) (*pgxpool.Pool, error) {
	databaseURL := buildDatabaseURL()

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// buildDatabaseURL constructs the database URL from environment variables
func buildDatabaseURL() string {
	if url := os.Getenv("TEST_DATABASE_URL"); url != "" {
		return url
	}

	host := os.Getenv("POSTGRES_HOST")
	if host == "" {
		host = "localhost"
	}

	port := os.Getenv("POSTGRES_PORT")
	if port == "" {
		port = "5432"
	}

	user := os.Getenv("POSTGRES_USER")
	if user == "" {
		user = "postgres"
	}

	password := os.Getenv("POSTGRES_PASSWORD")
	if password == "" {
		password = "postgres"
	}

	dbname := os.Getenv("POSTGRES_DB")
	if dbname == "" {
		dbname = "councilos_test"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=prefer",
		user, password, host, port, dbname)
}

// TestDatabase provides database utilities for testing
type TestDatabase struct {
	Pool *pgxpool.Pool
	ctx  context.Context
}

// NewTestDatabase creates a new test database instance. It skips the calling
// test when no database is reachable so the suite stays runnable without
// infrastructure.
func NewTestDatabase(t *testing.T) *TestDatabase {
	ctx := context.Background()

	pool, err := GetTestDatabasePool(ctx)
	if err != nil {
		t.Skipf("Skipping database test: %v", err)
	}

	db := &TestDatabase{
		Pool: pool,
		ctx:  ctx,
	}
	db.ensureSchema(t)
	return db
}

// Close closes the database connection
func (db *TestDatabase) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}

// ensureSchema creates the councilos tables if they do not exist yet. The
// statements mirror migrations/schema.sql.
func (db *TestDatabase) ensureSchema(t *testing.T) {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`,
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			hashed_password TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS blueprints (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT NOT NULL,
			version INTEGER NOT NULL DEFAULT 1,
			nodes JSONB NOT NULL DEFAULT '[]',
			edges JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS council_runs (
			id UUID PRIMARY KEY,
			blueprint_id UUID REFERENCES blueprints(id) ON DELETE SET NULL,
			input_topic TEXT NOT NULL,
			status TEXT NOT NULL,
			execution_mode TEXT NOT NULL,
			final_draft TEXT,
			evaluation_score DOUBLE PRECISION,
			iteration_count INTEGER,
			active_node TEXT,
			error TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			completed_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS document_chunks (
			id BIGSERIAL PRIMARY KEY,
			source TEXT NOT NULL,
			page INTEGER NOT NULL,
			content TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Pool.Exec(db.ctx, stmt); err != nil {
			t.Fatalf("Failed to ensure schema: %v", err)
		}
	}
}

// CleanupTables removes test data from all tables
func (db *TestDatabase) CleanupTables(t *testing.T) {
	tables := []string{
		"council_runs",
		"blueprints",
		"document_chunks",
		"users",
	}

	for _, table := range tables {
		_, err := db.Pool.Exec(db.ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("Warning: Failed to cleanup table %s: %v", table, err)
		}
	}
}

// CreateTestUser creates a test user with a bcrypt-hashed password and
// returns the user ID
func (db *TestDatabase) CreateTestUser(t *testing.T, email, password string) string {
	hashed, err := db.HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	var userID string
	err = db.Pool.QueryRow(db.ctx, `
		INSERT INTO users (name, email, hashed_password, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id
	`, "Test User", email, hashed).Scan(&userID)

	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return userID
}

// CreateTestBlueprint stores a blueprint fixture and returns its ID
func (db *TestDatabase) CreateTestBlueprint(t *testing.T, bp *models.Blueprint) string {
	var blueprintID string
	err := db.Pool.QueryRow(db.ctx, `
		INSERT INTO blueprints (name, version, nodes, edges, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id
	`, bp.Name, 1, bp.Nodes, bp.Edges).Scan(&blueprintID)

	if err != nil {
		t.Fatalf("Failed to create test blueprint: %v", err)
	}

	return blueprintID
}

// GetRunCount returns the number of council runs in the database
func (db *TestDatabase) GetRunCount(t *testing.T) int {
	var count int
	err := db.Pool.QueryRow(db.ctx, "SELECT COUNT(*) FROM council_runs").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to get run count: %v", err)
	}
	return count
}

// GetChunkCount returns the number of document chunks in the database
func (db *TestDatabase) GetChunkCount(t *testing.T) int {
	var count int
	err := db.Pool.QueryRow(db.ctx, "SELECT COUNT(*) FROM document_chunks").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to get chunk count: %v", err)
	}
	return count
}

// HashPassword hashes a password using bcrypt for testing
func (db *TestDatabase) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// Package duckdb persists per-variant analysis results and mutation
// records in DuckDB (queryable, append-friendly).
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection for experiment results.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS variants (
		variant_id VARCHAR,
		parent_id VARCHAR,
		generation INTEGER,
		protein VARCHAR,
		dna_yield DOUBLE,
		protein_yield DOUBLE,
		is_control BOOLEAN,
		activity_score DOUBLE,
		has_score BOOLEAN,
		PRIMARY KEY (variant_id)
	)`); err != nil {
		return err
	}

	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS mutations (
		variant_id VARCHAR,
		position INTEGER,
		wild_type VARCHAR,
		mutant VARCHAR,
		wt_codon VARCHAR,
		mut_codon VARCHAR,
		mut_aa VARCHAR,
		mutation_type VARCHAR,
		generation_introduced INTEGER
	)`)
	return err
}

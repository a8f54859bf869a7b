package duckdb

import (
	"context"
	"database/sql/driver"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/evotrace/evotrace/internal/mutation"
)

// VariantRow holds the per-variant data written to DuckDB.
type VariantRow struct {
	VariantID     string
	ParentID      string
	Generation    int
	Protein       string
	DNAYield      float64
	ProteinYield  float64
	IsControl     bool
	ActivityScore float64
	HasScore      bool
}

// WriteVariants batch-inserts variant rows using the Appender API.
// Duplicate variant IDs are deduplicated before writing (last one wins is
// not needed; first occurrence is kept to match input order).
func (s *Store) WriteVariants(rows []VariantRow) error {
	if len(rows) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(rows))
	deduped := make([]VariantRow, 0, len(rows))
	for _, r := range rows {
		if !seen[r.VariantID] {
			seen[r.VariantID] = true
			deduped = append(deduped, r)
		}
	}

	appender, closeAppender, err := s.newAppender("variants")
	if err != nil {
		return err
	}
	defer closeAppender()

	for _, r := range deduped {
		if err := appender.AppendRow(
			r.VariantID, r.ParentID, int32(r.Generation), r.Protein,
			r.DNAYield, r.ProteinYield, r.IsControl,
			r.ActivityScore, r.HasScore,
		); err != nil {
			return fmt.Errorf("append variant row: %w", err)
		}
	}

	return appender.Flush()
}

// ReplaceMutations deletes any stored mutations for a variant and writes
// the fresh set, so re-analysis never leaves stale records behind.
func (s *Store) ReplaceMutations(variantID string, generation int, muts []mutation.Mutation) error {
	if _, err := s.db.Exec("DELETE FROM mutations WHERE variant_id=?", variantID); err != nil {
		return fmt.Errorf("clear mutations for %s: %w", variantID, err)
	}
	if len(muts) == 0 {
		return nil
	}

	appender, closeAppender, err := s.newAppender("mutations")
	if err != nil {
		return err
	}
	defer closeAppender()

	for _, m := range muts {
		if err := appender.AppendRow(
			variantID, int32(m.Position), m.WildType, m.Mutant,
			m.WTCodon, m.MutCodon, m.MutAA, m.Type,
			int32(generation),
		); err != nil {
			return fmt.Errorf("append mutation: %w", err)
		}
	}

	return appender.Flush()
}

// LookupMutations returns the stored mutations for a variant, ordered by
// position.
func (s *Store) LookupMutations(variantID string) ([]mutation.Mutation, error) {
	rows, err := s.db.Query(`SELECT
		position, wild_type, mutant, wt_codon, mut_codon, mut_aa, mutation_type
		FROM mutations
		WHERE variant_id=?
		ORDER BY position`, variantID)
	if err != nil {
		return nil, fmt.Errorf("query mutations: %w", err)
	}
	defer rows.Close()

	var muts []mutation.Mutation
	for rows.Next() {
		var m mutation.Mutation
		var pos int32
		if err := rows.Scan(&pos, &m.WildType, &m.Mutant, &m.WTCodon, &m.MutCodon, &m.MutAA, &m.Type); err != nil {
			return nil, fmt.Errorf("scan mutation: %w", err)
		}
		m.Position = int(pos)
		muts = append(muts, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mutations: %w", err)
	}
	return muts, nil
}

// SearchByMutation returns the IDs of variants carrying a mutation to the
// given residue at the given position (e.g. position 41, mutant "V").
func (s *Store) SearchByMutation(position int, mutant string) ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT variant_id
		FROM mutations
		WHERE position=? AND mutant=?
		ORDER BY variant_id`, position, mutant)
	if err != nil {
		return nil, fmt.Errorf("query by mutation: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan variant id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate variant ids: %w", err)
	}
	return ids, nil
}

// TopVariants returns the n highest-scoring non-control variants.
func (s *Store) TopVariants(n int) ([]VariantRow, error) {
	rows, err := s.db.Query(`SELECT
		variant_id, parent_id, generation, protein,
		dna_yield, protein_yield, is_control, activity_score, has_score
		FROM variants
		WHERE has_score AND NOT is_control
		ORDER BY activity_score DESC
		LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query top variants: %w", err)
	}
	defer rows.Close()

	var out []VariantRow
	for rows.Next() {
		var r VariantRow
		var gen int32
		if err := rows.Scan(&r.VariantID, &r.ParentID, &gen, &r.Protein,
			&r.DNAYield, &r.ProteinYield, &r.IsControl, &r.ActivityScore, &r.HasScore); err != nil {
			return nil, fmt.Errorf("scan variant row: %w", err)
		}
		r.Generation = int(gen)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate variant rows: %w", err)
	}
	return out, nil
}

// ClearVariants removes all stored variants and mutations.
func (s *Store) ClearVariants() error {
	if _, err := s.db.Exec("DELETE FROM mutations"); err != nil {
		return err
	}
	_, err := s.db.Exec("DELETE FROM variants")
	return err
}

// newAppender opens a DuckDB appender for a table on a dedicated
// connection. The returned close function releases both.
func (s *Store) newAppender(table string) (*goduckdb.Appender, func(), error) {
	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return nil, nil, fmt.Errorf("get connection: %w", err)
	}

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", table)
		return err
	}); err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("create appender: %w", err)
	}

	return appender, func() {
		appender.Close()
		conn.Close()
	}, nil
}

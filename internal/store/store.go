// Package store handles SQLite persistence of analysis history.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/readstat/internal/model"
	"github.com/verte-zerg/readstat/internal/readability"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrNotFound is returned when an analysis id does not exist.
var ErrNotFound = errors.New("analysis not found")

// Store wraps SQLite access for analysis history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1)
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, fmt.Errorf("migrate db: %w", err)
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analyses (
			id INTEGER PRIMARY KEY,
			created_at TEXT NOT NULL,
			source TEXT NOT NULL,
			label TEXT NOT NULL,
			hash TEXT NOT NULL,
			letters INTEGER NOT NULL,
			words INTEGER NOT NULL,
			sentences INTEGER NOT NULL,
			syllables INTEGER NOT NULL,
			polysyllables INTEGER NOT NULL,
			polysyllables_common INTEGER NOT NULL,
			flesch_reading_ease REAL NOT NULL,
			flesch_kincaid_grade REAL NOT NULL,
			gunning_fog REAL NOT NULL,
			coleman_liau REAL NOT NULL,
			smog REAL NOT NULL,
			ari REAL NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS analysis_words (
			analysis_id INTEGER NOT NULL REFERENCES analyses(id) ON DELETE CASCADE,
			word TEXT NOT NULL,
			syllables INTEGER NOT NULL,
			count INTEGER NOT NULL,
			PRIMARY KEY (analysis_id, word)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_source ON analyses(source);`,
		`CREATE INDEX IF NOT EXISTS idx_analysis_words_word ON analysis_words(word);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertAnalysis stores an analysis and its polysyllabic words.
func (s *Store) InsertAnalysis(ctx context.Context, a model.Analysis, words []model.WordStat) (id int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	created := a.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	st := a.Stats
	res, err := tx.ExecContext(ctx,
		`INSERT INTO analyses (created_at, source, label, hash, letters, words, sentences, syllables,
			polysyllables, polysyllables_common, flesch_reading_ease, flesch_kincaid_grade,
			gunning_fog, coleman_liau, smog, ari)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		created.UTC().Format(time.RFC3339Nano),
		a.Source,
		a.Label,
		a.Hash,
		st.Letters,
		st.Words,
		st.Sentences,
		st.Syllables,
		st.Polysyllables,
		st.PolysyllablesExcludingProperNouns,
		st.FleschReadingEase,
		st.FleschKincaidGrade,
		st.GunningFog,
		st.ColemanLiau,
		st.SMOG,
		st.AutomatedReadabilityIndex,
	)
	if err != nil {
		return 0, err
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(words) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO analysis_words (analysis_id, word, syllables, count) VALUES (?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, w := range words {
			if _, err = stmt.ExecContext(ctx, id, w.Word, w.Syllables, w.Count); err != nil {
				return 0, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

const analysisColumns = `id, created_at, source, label, hash, letters, words, sentences, syllables,
	polysyllables, polysyllables_common`

type scanner interface {
	Scan(dest ...any) error
}

// scanAnalysis reads the count columns; scores are recomputed from them.
func scanAnalysis(row scanner) (model.Analysis, error) {
	var a model.Analysis
	var created string
	var c readability.Counts
	if err := row.Scan(&a.ID, &created, &a.Source, &a.Label, &a.Hash,
		&c.Letters, &c.Words, &c.Sentences, &c.Syllables,
		&c.Polysyllables, &c.PolysyllablesExcludingProperNouns); err != nil {
		return model.Analysis{}, err
	}
	parsed, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return model.Analysis{}, err
	}
	a.CreatedAt = parsed
	a.Stats = readability.Score(c)
	return a, nil
}

// ListAnalyses returns analyses matching filter, oldest first. Last is
// applied by the caller.
func (s *Store) ListAnalyses(ctx context.Context, filter model.HistoryFilter) ([]model.Analysis, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.Source != "" {
		clauses = append(clauses, "instr(source, ?) > 0")
		args = append(args, filter.Source)
	}
	if filter.Label != "" {
		clauses = append(clauses, "label = ?")
		args = append(args, filter.Label)
	}
	if filter.Since != nil {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, filter.Since.UTC().Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT %s
		FROM analyses
		WHERE %s
		ORDER BY created_at ASC, id ASC`, analysisColumns, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var analyses []model.Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return analyses, nil
}

// GetAnalysis loads one analysis by id.
func (s *Store) GetAnalysis(ctx context.Context, id int64) (model.Analysis, error) {
	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM analyses WHERE id = ?`, analysisColumns), id)
	a, err := scanAnalysis(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Analysis{}, fmt.Errorf("analysis %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Analysis{}, err
	}
	return a, nil
}

// LatestBySource returns the most recent analysis recorded for source.
func (s *Store) LatestBySource(ctx context.Context, source string) (model.Analysis, error) {
	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM analyses WHERE source = ? ORDER BY created_at DESC, id DESC LIMIT 1`, analysisColumns), source)
	a, err := scanAnalysis(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Analysis{}, fmt.Errorf("source %q: %w", source, ErrNotFound)
	}
	if err != nil {
		return model.Analysis{}, err
	}
	return a, nil
}

// DeleteAnalysis removes an analysis and its word rows.
func (s *Store) DeleteAnalysis(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM analyses WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("analysis %d: %w", id, ErrNotFound)
	}
	return nil
}

// ListWordAggregates sums polysyllabic word counts across analyses.
func (s *Store) ListWordAggregates(ctx context.Context, analysisIDs []int64) ([]model.WordAggregate, error) {
	if len(analysisIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(analysisIDs))
	args := make([]any, len(analysisIDs))
	for i, id := range analysisIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT word, MAX(syllables), SUM(count), COUNT(DISTINCT analysis_id)
		FROM analysis_words
		WHERE analysis_id IN (%s)
		GROUP BY word`, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.WordAggregate
	for rows.Next() {
		var agg model.WordAggregate
		if err := rows.Scan(&agg.Word, &agg.Syllables, &agg.Count, &agg.Analyses); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

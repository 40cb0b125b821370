package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dcamarg/smart-inspector-go/domain/classify"
)

// ErrNoDSN reports that remote storage is enabled but no connection
// string is configured.
var ErrNoDSN = errors.New("storage: remote DSN not configured")

// backgroundTable collects background examples from every variant.
const backgroundTable = "fotofundo"

const connectTimeout = 5 * time.Second

// SampleStore mirrors training examples to Postgres so datasets
// survive the bench machine. Every call is best-effort: callers log
// failures and carry on, a database outage must never block training.
type SampleStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewSampleStore connects and pings within a bounded timeout.
func NewSampleStore(ctx context.Context, dsn string, logger *slog.Logger) (*SampleStore, error) {
	if dsn == "" {
		return nil, ErrNoDSN
	}
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect sample store: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping sample store: %w", err)
	}
	return &SampleStore{pool: pool, logger: logger}, nil
}

// Close releases the connection pool.
func (s *SampleStore) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

// tableFor routes a sample to its table: one table per variant,
// background examples from all variants pooled in one shared table.
func tableFor(variant, label string) string {
	if label == classify.BackgroundLabel(variant) {
		return backgroundTable
	}
	return sanitizeKey(variant)
}

// InsertSample uploads one training example.
func (s *SampleStore) InsertSample(ctx context.Context, variant, label string, e classify.Embedding) error {
	table := pgx.Identifier{tableFor(variant, label)}.Sanitize()
	sql := fmt.Sprintf(`INSERT INTO %s (id, label, embedding) VALUES ($1, $2, $3)`, table)
	if _, err := s.pool.Exec(ctx, sql, uuid.NewString(), label, []float64(e)); err != nil {
		return fmt.Errorf("insert sample into %s: %w", table, err)
	}
	return nil
}

// LoadSamples fetches every stored example for a variant, grouped by
// label, including the shared background table.
func (s *SampleStore) LoadSamples(ctx context.Context, variant string) (map[string][]classify.Embedding, error) {
	out := make(map[string][]classify.Embedding)
	for _, table := range []string{sanitizeKey(variant), backgroundTable} {
		if err := s.loadTable(ctx, table, out); err != nil {
			return nil, err
		}
	}
	if s.logger != nil {
		s.logger.Info("remote samples loaded", "variant", variant, "labels", len(out))
	}
	return out, nil
}

func (s *SampleStore) loadTable(ctx context.Context, table string, out map[string][]classify.Embedding) error {
	sql := fmt.Sprintf(`SELECT label, embedding FROM %s`, pgx.Identifier{table}.Sanitize())
	rows, err := s.pool.Query(ctx, sql)
	if err != nil {
		return fmt.Errorf("load samples from %s: %w", table, err)
	}
	defer rows.Close()
	for rows.Next() {
		var label string
		var values []float64
		if err := rows.Scan(&label, &values); err != nil {
			return fmt.Errorf("scan sample from %s: %w", table, err)
		}
		out[label] = append(out[label], classify.Embedding(values))
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read samples from %s: %w", table, err)
	}
	return nil
}

// DeleteSamples removes every example uploaded for a variant's region
// labels. Background examples are shared and left untouched.
func (s *SampleStore) DeleteSamples(ctx context.Context, variant string) error {
	table := pgx.Identifier{sanitizeKey(variant)}.Sanitize()
	if _, err := s.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s`, table)); err != nil {
		return fmt.Errorf("delete samples from %s: %w", table, err)
	}
	return nil
}

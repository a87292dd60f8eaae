package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"tutormatch/search-service/internal/geo"
	"tutormatch/search-service/internal/model"
	"tutormatch/search-service/internal/search"
)

const (
	teacherTable = "teachers"
	jobTable     = "jobs"
)

// PostgresStore implements search.Store on PostgreSQL via sqlx.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore connects to PostgreSQL and verifies the connection.
func NewPostgresStore(dsn string, maxConn, maxIdleConn int) (*PostgresStore, error) {
	// Disable prepared statement caching to avoid "unnamed prepared
	// statement does not exist" errors behind connection poolers.
	if !strings.Contains(dsn, "?") {
		dsn += "?prefer_simple_protocol=true"
	} else {
		dsn += "&prefer_simple_protocol=true"
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Migrate applies pending schema migrations from the given source, e.g.
// "file://migrations". A fully migrated schema is not an error.
func Migrate(sourceURL, databaseURL string) error {
	m, err := migrate.New(sourceURL, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to init migrations: %w", err)
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

type teacherRow struct {
	model.Teacher
	DistanceM *float64 `db:"distance_m"`
}

type jobRow struct {
	model.Job
	DistanceM *float64 `db:"distance_m"`
}

// SearchTeachers runs one page query. With a spatial bound every row is
// annotated with its distance from the origin.
func (s *PostgresStore) SearchTeachers(ctx context.Context, q *search.Query) ([]model.TeacherResult, error) {
	query, args, err := buildSearch(teacherTable, q)
	if err != nil {
		return nil, err
	}

	var rows []teacherRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch teachers: %w", err)
	}

	results := make([]model.TeacherResult, 0, len(rows))
	for _, r := range rows {
		results = append(results, model.TeacherResult{
			Teacher:  r.Teacher,
			Distance: geo.RoundMeters(r.DistanceM),
		})
	}
	return results, nil
}

// CountTeachers returns the full matching total for the same predicate and
// spatial bound, independent of any page slice.
func (s *PostgresStore) CountTeachers(ctx context.Context, p search.Predicate, g *search.GeoBound) (int, error) {
	query, args, err := buildCount(teacherTable, p, g)
	if err != nil {
		return 0, err
	}
	var total int
	if err := s.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count teachers: %w", err)
	}
	return total, nil
}

// SearchJobs runs one page query over job postings.
func (s *PostgresStore) SearchJobs(ctx context.Context, q *search.Query) ([]model.JobResult, error) {
	query, args, err := buildSearch(jobTable, q)
	if err != nil {
		return nil, err
	}

	var rows []jobRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch jobs: %w", err)
	}

	results := make([]model.JobResult, 0, len(rows))
	for _, r := range rows {
		results = append(results, model.JobResult{
			Job:      r.Job,
			Distance: geo.RoundMeters(r.DistanceM),
		})
	}
	return results, nil
}

// CountJobs returns the full matching total for job postings.
func (s *PostgresStore) CountJobs(ctx context.Context, p search.Predicate, g *search.GeoBound) (int, error) {
	query, args, err := buildCount(jobTable, p, g)
	if err != nil {
		return 0, err
	}
	var total int
	if err := s.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}
	return total, nil
}

// TeacherLocations aggregates active teacher rows matching the text on
// city, state or area into (city, state) groups with counts. Representative
// coordinates are whichever row the aggregate saw first. The result is not
// capped here: the suggestion cut happens after the cross-collection merge
// sums the counts, so a group weak in one collection can still rank.
func (s *PostgresStore) TeacherLocations(ctx context.Context, text string) ([]model.LocationGroup, error) {
	query := fmt.Sprintf(`
		SELECT city, state,
			(array_agg(latitude))[1] AS latitude,
			(array_agg(longitude))[1] AS longitude,
			COUNT(*) AS cnt
		FROM %s
		WHERE is_active = TRUE AND is_verified = TRUE
			AND (city ILIKE $1 OR state ILIKE $1 OR area ILIKE $1)
		GROUP BY city, state
		ORDER BY cnt DESC
	`, teacherTable)

	var groups []model.LocationGroup
	if err := s.db.SelectContext(ctx, &groups, query, "%"+text+"%"); err != nil {
		return nil, fmt.Errorf("failed to aggregate teacher locations: %w", err)
	}
	return groups, nil
}

// JobLocations aggregates active, unexpired job rows matching the text on
// city or state into (city, state) groups with counts.
func (s *PostgresStore) JobLocations(ctx context.Context, text string) ([]model.LocationGroup, error) {
	query := fmt.Sprintf(`
		SELECT city, state,
			(array_agg(latitude))[1] AS latitude,
			(array_agg(longitude))[1] AS longitude,
			COUNT(*) AS cnt
		FROM %s
		WHERE status = $1 AND expires_at >= NOW()
			AND (city ILIKE $2 OR state ILIKE $2)
		GROUP BY city, state
		ORDER BY cnt DESC
	`, jobTable)

	var groups []model.LocationGroup
	if err := s.db.SelectContext(ctx, &groups, query, model.JobStatusActive, "%"+text+"%"); err != nil {
		return nil, fmt.Errorf("failed to aggregate job locations: %w", err)
	}
	return groups, nil
}

// LogSearch inserts one search log row.
func (s *PostgresStore) LogSearch(ctx context.Context, entry *model.SearchLog) error {
	query := `
		INSERT INTO search_logs (id, entity, params, result_count, total, took_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		entry.ID, entry.Entity, entry.Params, entry.ResultCount, entry.Total, entry.TookMs, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to log search: %w", err)
	}
	return nil
}

// SweepExpiredJobs flips active jobs past their expiry to expired and
// returns how many rows changed. The active-status predicate already
// excludes them from search; the sweep keeps the stored state honest.
func (s *PostgresStore) SweepExpiredJobs(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET status = $1 WHERE status = $2 AND expires_at < NOW()`,
		model.JobStatusExpired, model.JobStatusActive)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired jobs: %w", err)
	}
	return res.RowsAffected()
}

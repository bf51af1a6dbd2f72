package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/evhartley/fiction-passport/internal/model"
	"github.com/evhartley/fiction-passport/internal/storage"
	"github.com/evhartley/fiction-passport/internal/storage/sqlite/migrations"
)

// Storage is a SQLite-backed implementation of the storage interface
type Storage struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at path and runs migrations.
// Pass ":memory:" for an ephemeral database.
func New(path string) (*Storage, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	// The storage engine, not the application, serializes writers.
	// A single connection also keeps :memory: databases coherent.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	s := &Storage{db: db}
	if err := s.runMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return s, nil
}

func (s *Storage) runMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}

	return goose.UpContext(ctx, s.db, ".")
}

// Close closes the underlying database
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) CreateUser(ctx context.Context, username, passwordHash string) (*model.User, error) {
	now := time.Now().UTC().Truncate(time.Second)

	query := `INSERT INTO users (username, hash, created_at) VALUES (?, ?, ?)`

	res, err := s.db.ExecContext(ctx, query, username, passwordHash, now.Format(model.TimestampLayout))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, model.ErrUsernameExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return &model.User{
		ID:           id,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
	}, nil
}

func (s *Storage) GetUser(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT id, username, hash, created_at FROM users WHERE id = ?`
	return s.scanUser(s.db.QueryRowContext(ctx, query, id))
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT id, username, hash, created_at FROM users WHERE username = ?`
	return s.scanUser(s.db.QueryRowContext(ctx, query, username))
}

func (s *Storage) scanUser(row *sql.Row) (*model.User, error) {
	var (
		user      model.User
		createdAt string
	)
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	user.CreatedAt = parseTimestamp(createdAt)
	return &user, nil
}

// Stamp operations

func (s *Storage) CreateStamp(ctx context.Context, stamp *model.Stamp) error {
	query := `INSERT INTO stamps (user_id, location_type, location_name, source, means, latitude, longitude, timestamp)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	var means any
	if stamp.Means != "" {
		means = stamp.Means
	}

	res, err := s.db.ExecContext(ctx, query,
		stamp.UserID, stamp.LocationType, stamp.LocationName, stamp.Source,
		means, stamp.Latitude, stamp.Longitude, stamp.Timestamp())
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	stamp.ID = id

	return nil
}

const stampColumns = `id, user_id, location_type, location_name, source, means, latitude, longitude, timestamp`

func (s *Storage) RecentStamps(ctx context.Context, userID int64, limit int) ([]*model.Stamp, error) {
	query := `SELECT ` + stampColumns + ` FROM stamps
	          WHERE user_id = ? ORDER BY timestamp DESC, id DESC LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	return scanStamps(rows)
}

func (s *Storage) HasStampsBeyond(ctx context.Context, userID int64, offset int) (bool, error) {
	query := `SELECT id FROM stamps WHERE user_id = ?
	          ORDER BY timestamp DESC, id DESC LIMIT 1 OFFSET ?`

	var id int64
	err := s.db.QueryRowContext(ctx, query, userID, offset).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("db error: %w", err)
	}
	return true, nil
}

// CountStampsByMeans groups by means. COUNT(*) counts rows, so stamps
// with NULL means form their own group instead of reporting zero.
func (s *Storage) CountStampsByMeans(ctx context.Context, userID int64) ([]model.GroupCount, error) {
	query := `SELECT means, COUNT(*) AS count FROM stamps
	          WHERE user_id = ? GROUP BY means ORDER BY count DESC`
	return s.groupCounts(ctx, query, userID)
}

func (s *Storage) CountStampsByLocationType(ctx context.Context, userID int64) ([]model.GroupCount, error) {
	query := `SELECT location_type, COUNT(*) AS count FROM stamps
	          WHERE user_id = ? GROUP BY location_type ORDER BY count DESC`
	return s.groupCounts(ctx, query, userID)
}

func (s *Storage) groupCounts(ctx context.Context, query string, userID int64) ([]model.GroupCount, error) {
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var counts []model.GroupCount
	for rows.Next() {
		var (
			key   sql.NullString
			count int64
		)
		if err := rows.Scan(&key, &count); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		counts = append(counts, model.GroupCount{Key: key.String, Count: count})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return counts, nil
}

func (s *Storage) AllStamps(ctx context.Context, userID int64) ([]*model.Stamp, error) {
	query := `SELECT ` + stampColumns + ` FROM stamps
	          WHERE user_id = ? ORDER BY timestamp DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	return scanStamps(rows)
}

func (s *Storage) LatestStamp(ctx context.Context, userID int64) (*model.Stamp, error) {
	stamps, err := s.RecentStamps(ctx, userID, 1)
	if err != nil {
		return nil, err
	}
	if len(stamps) == 0 {
		return nil, model.ErrStampNotFound
	}
	return stamps[0], nil
}

func (s *Storage) CountStamps(ctx context.Context, userID int64) (int64, error) {
	query := `SELECT COUNT(id) FROM stamps WHERE user_id = ?`

	var count int64
	if err := s.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return count, nil
}

// DeleteStamp removes a stamp only if it belongs to userID. A stamp that
// does not exist and a stamp owned by someone else are indistinguishable
// to the caller; both return model.ErrStampNotFound.
func (s *Storage) DeleteStamp(ctx context.Context, userID, stampID int64) error {
	query := `DELETE FROM stamps WHERE id = ? AND user_id = ?`

	res, err := s.db.ExecContext(ctx, query, stampID, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return model.ErrStampNotFound
	}
	return nil
}

func scanStamps(rows *sql.Rows) ([]*model.Stamp, error) {
	var stamps []*model.Stamp
	for rows.Next() {
		var (
			stamp model.Stamp
			means sql.NullString
			ts    string
		)
		err := rows.Scan(&stamp.ID, &stamp.UserID, &stamp.LocationType, &stamp.LocationName,
			&stamp.Source, &means, &stamp.Latitude, &stamp.Longitude, &ts)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		stamp.Means = means.String
		stamp.CreatedAt = parseTimestamp(ts)
		stamps = append(stamps, &stamp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return stamps, nil
}

func parseTimestamp(ts string) time.Time {
	t, err := time.ParseInLocation(model.TimestampLayout, ts, time.UTC)
	if err != nil {
		// RFC3339 shows up if a row was written by other tooling
		t, _ = time.Parse(time.RFC3339, ts)
	}
	return t
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

package batch

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"reelflow/internal/config"
)

// Store manages batch persistence backed by SQLite. It implements the remote
// store contract the controller and board depend on.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the batch database and applies the schema.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.DatabasePath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// CreateBatch inserts a new batch at the start of the pipeline.
func (s *Store) CreateBatch(ctx context.Context, name string, batchType BatchType) (*Batch, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("batch name is required")
	}
	if batchType == "" {
		batchType = TypeConcept
	}
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO batches (name, status, batch_type, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?)`,
		name,
		StatusIdeation,
		string(batchType),
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert batch: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetBatch(ctx, id)
}

// GetBatch fetches a batch by identifier. A missing batch returns (nil, nil).
func (s *Store) GetBatch(ctx context.Context, id int64) (*Batch, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+batchColumns+` FROM batches WHERE id = ?`, id)
	b, err := scanBatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return b, nil
}

// ListBatches returns batches filtered by status set (or all batches when no
// status is provided), ordered by creation time.
func (s *Store) ListBatches(ctx context.Context, statuses ...Status) ([]*Batch, error) {
	var (
		rows *sql.Rows
		err  error
	)

	baseQuery := `SELECT ` + batchColumns + ` FROM batches`
	orderClause := ` ORDER BY created_at, id`

	if len(statuses) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(statuses))
		args := make([]any, len(statuses))
		for i, status := range statuses {
			args[i] = status
		}
		query := baseQuery + ` WHERE status IN (` + placeholders + `)` + orderClause
		rows, err = s.db.QueryContext(ctx, query, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()

	var batches []*Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

// ApplyBatchPatch persists a typed partial update. An empty patch is a no-op
// and issues no SQL.
func (s *Store) ApplyBatchPatch(ctx context.Context, id int64, patch BatchPatch) error {
	if patch == nil {
		return nil
	}
	cols, args := patch.assignments()
	if len(cols) == 0 {
		return nil
	}

	set := make([]string, 0, len(cols)+1)
	for _, col := range cols {
		set = append(set, col+" = ?")
	}
	set = append(set, "updated_at = ?")
	args = append(args, time.Now().UTC().Format(time.RFC3339Nano), id)

	res, err := s.db.ExecContext(ctx, `UPDATE batches SET `+strings.Join(set, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("patch batch: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("patch batch %d: no such batch", id)
	}
	return nil
}

// SetStatus persists a status change. The status must be a member of the
// canonical enum; transition legality is the board's concern.
func (s *Store) SetStatus(ctx context.Context, id int64, status Status) error {
	if !IsValidStatus(status) {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, status)
	}
	return s.ApplyBatchPatch(ctx, id, StatusPatch{status: status})
}

// DeleteBatch removes a batch; owned items cascade.
func (s *Store) DeleteBatch(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM batches WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete batch: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// Stats returns a count of batches grouped by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM batches GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("batch stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

// Summary aggregates board counts for diagnostic output.
func (s *Store) Summary(ctx context.Context) (StatsSummary, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return StatsSummary{}, err
	}
	summary := StatsSummary{}
	for status, count := range stats {
		summary.Total += count
		if status == StatusArchived {
			summary.Archived += count
		} else {
			summary.Active += count
		}
	}
	return summary, nil
}

const batchColumns = "id, name, status, batch_type, idea, creator_brief, shotlist, brief, main_messaging, learnings, boost_hooks, boost_copy, angle_id, format_id, reference_batch_id, reference_ad_id, created_at, updated_at"

func scanBatch(scanner interface{ Scan(dest ...any) error }) (*Batch, error) {
	var (
		id            int64
		name          string
		statusStr     string
		batchType     string
		idea          string
		creatorBrief  string
		shotlist      string
		brief         string
		mainMessaging string
		learnings     string
		boostHooks    string
		boostCopy     string
		angleID       sql.NullInt64
		formatID      sql.NullInt64
		refBatchID    sql.NullInt64
		refAdID       sql.NullInt64
		createdRaw    string
		updatedRaw    string
	)

	if err := scanner.Scan(
		&id,
		&name,
		&statusStr,
		&batchType,
		&idea,
		&creatorBrief,
		&shotlist,
		&brief,
		&mainMessaging,
		&learnings,
		&boostHooks,
		&boostCopy,
		&angleID,
		&formatID,
		&refBatchID,
		&refAdID,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	b := &Batch{
		ID:            id,
		Name:          name,
		Status:        Status(statusStr),
		BatchType:     BatchType(batchType),
		Idea:          idea,
		CreatorBrief:  creatorBrief,
		Shotlist:      shotlist,
		Brief:         brief,
		MainMessaging: mainMessaging,
		Learnings:     learnings,
		BoostHooks:    boostHooks,
		BoostCopy:     boostCopy,
	}
	b.AngleID = nullableID(angleID)
	b.FormatID = nullableID(formatID)
	b.ReferenceBatchID = nullableID(refBatchID)
	b.ReferenceAdID = nullableID(refAdID)

	if created, err := parseTimeString(createdRaw); err == nil {
		b.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		b.UpdatedAt = updated
	}
	return b, nil
}

func nullableID(value sql.NullInt64) *int64 {
	if !value.Valid {
		return nil
	}
	v := value.Int64
	return &v
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}

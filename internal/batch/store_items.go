package batch

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// CreateItem appends a new empty variation to a batch. The caller receives the
// stored row so the server-assigned id is always authoritative.
func (s *Store) CreateItem(ctx context.Context, batchID int64) (*BatchItem, error) {
	owner, err := s.GetBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, fmt.Errorf("create item: no such batch %d", batchID)
	}

	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO batch_items (batch_id, status, created_at, updated_at)
         VALUES (?, ?, ?, ?)`,
		batchID,
		ItemPendingRevision,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetItem(ctx, id)
}

// GetItem fetches a batch item by identifier. A missing item returns (nil, nil).
func (s *Store) GetItem(ctx context.Context, id int64) (*BatchItem, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM batch_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// ItemsForBatch returns a batch's items in insertion order. Display order is
// insertion order; there is no reordering operation.
func (s *Store) ItemsForBatch(ctx context.Context, batchID int64) ([]*BatchItem, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+itemColumns+` FROM batch_items WHERE batch_id = ? ORDER BY id`, batchID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []*BatchItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ApplyItemPatch persists a typed partial update to one item. An empty patch
// is a no-op and issues no SQL.
func (s *Store) ApplyItemPatch(ctx context.Context, itemID int64, patch ItemPatch) error {
	cols, args := patch.assignments()
	if len(cols) == 0 {
		return nil
	}
	if patch.Status != nil {
		if _, ok := ParseItemStatus(string(*patch.Status)); !ok {
			return fmt.Errorf("invalid item status %q", *patch.Status)
		}
	}

	set := make([]string, 0, len(cols)+1)
	for _, col := range cols {
		set = append(set, col+" = ?")
	}
	set = append(set, "updated_at = ?")
	args = append(args, time.Now().UTC().Format(time.RFC3339Nano), itemID)

	res, err := s.db.ExecContext(ctx, `UPDATE batch_items SET `+strings.Join(set, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("patch item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("patch item %d: no such item", itemID)
	}
	return nil
}

// DeleteItem removes one item.
func (s *Store) DeleteItem(ctx context.Context, itemID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM batch_items WHERE id = ?`, itemID)
	if err != nil {
		return false, fmt.Errorf("delete item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

const itemColumns = "id, batch_id, hook_id, notes, script, video_url, status, created_at, updated_at"

func scanItem(scanner interface{ Scan(dest ...any) error }) (*BatchItem, error) {
	var (
		id         int64
		batchID    int64
		hookID     sql.NullInt64
		notes      string
		script     string
		videoURL   string
		statusStr  string
		createdRaw string
		updatedRaw string
	)

	if err := scanner.Scan(
		&id,
		&batchID,
		&hookID,
		&notes,
		&script,
		&videoURL,
		&statusStr,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	item := &BatchItem{
		ID:       id,
		BatchID:  batchID,
		Notes:    notes,
		Script:   script,
		VideoURL: videoURL,
		Status:   ItemStatus(statusStr),
	}
	item.HookID = nullableID(hookID)

	if created, err := parseTimeString(createdRaw); err == nil {
		item.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		item.UpdatedAt = updated
	}
	return item, nil
}

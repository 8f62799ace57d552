package api

import (
	"context"

	"reelflow/internal/batch"
)

// BatchReader abstracts batch persistence interactions needed for API queries.
type BatchReader interface {
	ListBatches(ctx context.Context, statuses ...batch.Status) ([]*batch.Batch, error)
	GetBatch(ctx context.Context, id int64) (*batch.Batch, error)
	ItemsForBatch(ctx context.Context, batchID int64) ([]*batch.BatchItem, error)
	Stats(ctx context.Context) (map[batch.Status]int, error)
}

// BatchService exposes read-only batch operations returning API DTOs.
type BatchService struct {
	store BatchReader
}

// NewBatchService constructs a BatchService around the provided reader.
func NewBatchService(store BatchReader) *BatchService {
	if store == nil {
		return nil
	}
	return &BatchService{store: store}
}

// List returns batches filtered by status, without item detail.
func (s *BatchService) List(ctx context.Context, statuses ...batch.Status) ([]Batch, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	batches, err := s.store.ListBatches(ctx, statuses...)
	if err != nil {
		return nil, err
	}
	return FromBatches(batches), nil
}

// Describe fetches a single batch with its items attached.
func (s *BatchService) Describe(ctx context.Context, id int64) (*Batch, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	b, err := s.store.GetBatch(ctx, id)
	if err != nil || b == nil {
		return nil, err
	}
	items, err := s.store.ItemsForBatch(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := FromBatch(b)
	dto.Items = FromItems(items)
	return &dto, nil
}

// Stats returns board counts keyed by status string.
func (s *BatchService) Stats(ctx context.Context) (map[string]int, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return MergeStats(stats), nil
}

package api

import (
	"context"
	"fmt"
	"strings"

	"reelflow/internal/batch"
	"reelflow/internal/services"
)

// BatchMutator abstracts the write operations the action service needs.
type BatchMutator interface {
	CreateBatch(ctx context.Context, name string, batchType batch.BatchType) (*batch.Batch, error)
	GetBatch(ctx context.Context, id int64) (*batch.Batch, error)
	ApplyBatchPatch(ctx context.Context, id int64, patch batch.BatchPatch) error
	DeleteBatch(ctx context.Context, id int64) (bool, error)
	CreateItem(ctx context.Context, batchID int64) (*batch.BatchItem, error)
	GetItem(ctx context.Context, id int64) (*batch.BatchItem, error)
	ApplyItemPatch(ctx context.Context, itemID int64, patch batch.ItemPatch) error
	DeleteItem(ctx context.Context, itemID int64) (bool, error)
}

// BatchActions exposes write operations returning API DTOs.
type BatchActions struct {
	store BatchMutator
}

// NewBatchActions constructs a BatchActions service around the provided store.
func NewBatchActions(store BatchMutator) *BatchActions {
	if store == nil {
		return nil
	}
	return &BatchActions{store: store}
}

// CreateBatchRequest carries the inputs for creating a batch.
type CreateBatchRequest struct {
	Name      string `json:"name"`
	BatchType string `json:"batchType,omitempty"`
}

// Create makes a new batch in the first pipeline column.
func (s *BatchActions) Create(ctx context.Context, req CreateBatchRequest) (*Batch, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, services.Wrap(services.ErrValidation, "api", "create batch", "name required", nil)
	}
	batchType := batch.BatchType(strings.ToUpper(strings.TrimSpace(req.BatchType)))
	created, err := s.store.CreateBatch(ctx, name, batchType)
	if err != nil {
		return nil, err
	}
	dto := FromBatch(created)
	return &dto, nil
}

// UpdateBatchRequest carries optional scalar updates; nil fields are ignored.
type UpdateBatchRequest struct {
	Name          *string `json:"name,omitempty"`
	BatchType     *string `json:"batchType,omitempty"`
	Idea          *string `json:"idea,omitempty"`
	Shotlist      *string `json:"shotlist,omitempty"`
	Brief         *string `json:"brief,omitempty"`
	MainMessaging *string `json:"mainMessaging,omitempty"`
	Learnings     *string `json:"learnings,omitempty"`
}

// Update applies a scalar patch built from the set request fields.
func (s *BatchActions) Update(ctx context.Context, id int64, req UpdateBatchRequest) (*Batch, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	existing, err := s.store.GetBatch(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, services.Wrap(services.ErrNotFound, "api", "update batch", fmt.Sprintf("batch %d", id), nil)
	}

	patch := batch.ScalarPatch{
		Name:          req.Name,
		Idea:          req.Idea,
		Shotlist:      req.Shotlist,
		Brief:         req.Brief,
		MainMessaging: req.MainMessaging,
		Learnings:     req.Learnings,
	}
	if req.BatchType != nil {
		bt := batch.BatchType(strings.ToUpper(strings.TrimSpace(*req.BatchType)))
		patch.BatchType = &bt
	}
	if err := s.store.ApplyBatchPatch(ctx, id, patch); err != nil {
		return nil, err
	}
	patch.Apply(existing)
	dto := FromBatch(existing)
	return &dto, nil
}

// Delete removes a batch and, through the schema cascade, its items.
func (s *BatchActions) Delete(ctx context.Context, id int64) error {
	if s == nil || s.store == nil {
		return nil
	}
	removed, err := s.store.DeleteBatch(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return services.Wrap(services.ErrNotFound, "api", "delete batch", fmt.Sprintf("batch %d", id), nil)
	}
	return nil
}

// AddItem creates an empty variation under a batch.
func (s *BatchActions) AddItem(ctx context.Context, batchID int64) (*BatchItem, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	item, err := s.store.CreateItem(ctx, batchID)
	if err != nil {
		return nil, err
	}
	dto := FromItem(item)
	return &dto, nil
}

// UpdateItemRequest carries optional item updates; nil fields are ignored.
type UpdateItemRequest struct {
	HookID   *int64  `json:"hookId,omitempty"`
	Notes    *string `json:"notes,omitempty"`
	Script   *string `json:"script,omitempty"`
	VideoURL *string `json:"videoUrl,omitempty"`
	Status   *string `json:"status,omitempty"`
}

// UpdateItem applies an item patch built from the set request fields.
func (s *BatchActions) UpdateItem(ctx context.Context, itemID int64, req UpdateItemRequest) (*BatchItem, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	existing, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, services.Wrap(services.ErrNotFound, "api", "update item", fmt.Sprintf("item %d", itemID), nil)
	}

	patch := batch.ItemPatch{
		HookID:   req.HookID,
		Notes:    req.Notes,
		Script:   req.Script,
		VideoURL: req.VideoURL,
	}
	if req.Status != nil {
		status, ok := batch.ParseItemStatus(*req.Status)
		if !ok {
			return nil, services.Wrap(services.ErrValidation, "api", "update item",
				fmt.Sprintf("unknown item status %q", *req.Status), nil)
		}
		patch.Status = &status
	}
	if err := s.store.ApplyItemPatch(ctx, itemID, patch); err != nil {
		return nil, err
	}
	patch.Apply(existing)
	dto := FromItem(existing)
	return &dto, nil
}

// RemoveItem deletes one variation.
func (s *BatchActions) RemoveItem(ctx context.Context, itemID int64) error {
	if s == nil || s.store == nil {
		return nil
	}
	removed, err := s.store.DeleteItem(ctx, itemID)
	if err != nil {
		return err
	}
	if !removed {
		return services.Wrap(services.ErrNotFound, "api", "remove item", fmt.Sprintf("item %d", itemID), nil)
	}
	return nil
}

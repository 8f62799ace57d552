package controller

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"reelflow/internal/autosave"
	"reelflow/internal/batch"
	"reelflow/internal/logging"
	"reelflow/internal/services"
)

// RemoteStore is the persistence contract the controller needs. batch.Store
// satisfies it; tests substitute recording fakes.
type RemoteStore interface {
	GetBatch(ctx context.Context, id int64) (*batch.Batch, error)
	ItemsForBatch(ctx context.Context, batchID int64) ([]*batch.BatchItem, error)
	ApplyBatchPatch(ctx context.Context, id int64, patch batch.BatchPatch) error
	SetStatus(ctx context.Context, id int64, status batch.Status) error
	CreateItem(ctx context.Context, batchID int64) (*batch.BatchItem, error)
	ApplyItemPatch(ctx context.Context, itemID int64, patch batch.ItemPatch) error
	DeleteItem(ctx context.Context, itemID int64) (bool, error)
	DeleteBatch(ctx context.Context, id int64) (bool, error)
}

// Batch field names accepted by SetField.
const (
	FieldIdea          = "idea"
	FieldCreatorBrief  = "creator_brief"
	FieldShotlist      = "shotlist"
	FieldBrief         = "brief"
	FieldMainMessaging = "main_messaging"
	FieldLearnings     = "learnings"
	FieldBoostHooks    = "boost_hooks"
	FieldBoostCopy     = "boost_copy"
)

// Item field names accepted by SetItemField.
const (
	ItemFieldNotes    = "notes"
	ItemFieldScript   = "script"
	ItemFieldVideoURL = "video_url"
)

// batchFieldPatches maps an autosaved batch field to its typed patch.
var batchFieldPatches = map[string]func(value string) batch.BatchPatch{
	FieldIdea:          func(v string) batch.BatchPatch { return batch.ScalarPatch{Idea: &v} },
	FieldShotlist:      func(v string) batch.BatchPatch { return batch.ScalarPatch{Shotlist: &v} },
	FieldBrief:         func(v string) batch.BatchPatch { return batch.ScalarPatch{Brief: &v} },
	FieldMainMessaging: func(v string) batch.BatchPatch { return batch.ScalarPatch{MainMessaging: &v} },
	FieldLearnings:     func(v string) batch.BatchPatch { return batch.ScalarPatch{Learnings: &v} },
	FieldCreatorBrief:  func(v string) batch.BatchPatch { return batch.CreatorBriefPatch{CreatorBrief: &v} },
	FieldBoostHooks:    func(v string) batch.BatchPatch { return batch.BoostPatch{BoostHooks: &v} },
	FieldBoostCopy:     func(v string) batch.BatchPatch { return batch.BoostPatch{BoostCopy: &v} },
}

var itemFieldPatches = map[string]func(value string) batch.ItemPatch{
	ItemFieldNotes:    func(v string) batch.ItemPatch { return batch.ItemPatch{Notes: &v} },
	ItemFieldScript:   func(v string) batch.ItemPatch { return batch.ItemPatch{Script: &v} },
	ItemFieldVideoURL: func(v string) batch.ItemPatch { return batch.ItemPatch{VideoURL: &v} },
}

// Controller mediates all reads and writes for one loaded batch.
type Controller struct {
	store  RemoteStore
	logger *slog.Logger
	settle time.Duration

	mu         sync.Mutex
	loaded     bool
	b          batch.Batch
	items      []*batch.BatchItem
	fields     map[string]*autosave.Field
	itemFields map[int64]map[string]*autosave.Field
	closed     bool
}

// New constructs a controller around the remote store. The settle delay
// applies to every autosaved field; zero selects the package default.
func New(store RemoteStore, settle time.Duration, logger *slog.Logger) *Controller {
	return &Controller{
		store:      store,
		logger:     logging.NewComponentLogger(logger, "controller"),
		settle:     settle,
		fields:     make(map[string]*autosave.Field),
		itemFields: make(map[int64]map[string]*autosave.Field),
	}
}

// Load fetches the batch and its items and seeds every field store from the
// loaded values. Seeding never triggers a flush.
func (c *Controller) Load(ctx context.Context, id int64) error {
	b, err := c.store.GetBatch(ctx, id)
	if err != nil {
		return services.Wrap(services.ErrTransient, "controller", "load", "fetch batch", err)
	}
	if b == nil {
		return services.Wrap(services.ErrNotFound, "controller", "load", fmt.Sprintf("batch %d", id), nil)
	}
	items, err := c.store.ItemsForBatch(ctx, id)
	if err != nil {
		return services.Wrap(services.ErrTransient, "controller", "load", "fetch items", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = true
	c.b = *b
	c.items = items
	for name := range batchFieldPatches {
		field := c.ensureBatchFieldLocked(name)
		field.Seed(batchFieldValue(&c.b, name))
	}
	for _, item := range items {
		c.seedItemFieldsLocked(item)
	}
	return nil
}

// Batch returns a snapshot of the loaded batch.
func (c *Controller) Batch() batch.Batch {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.b
}

// Items returns a snapshot of the item list in display order.
func (c *Controller) Items() []batch.BatchItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]batch.BatchItem, len(c.items))
	for i, item := range c.items {
		items[i] = *item
	}
	return items
}

// Step returns the display step derived from the current status.
func (c *Controller) Step() (batch.Step, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return batch.StepFor(c.b.Status)
}

// SetField records an edit to an autosaved batch field. The value is visible
// immediately; persistence happens after the settle delay.
func (c *Controller) SetField(name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		return services.Wrap(services.ErrValidation, "controller", "set field", "no batch loaded", nil)
	}
	if _, ok := batchFieldPatches[name]; !ok {
		return services.Wrap(services.ErrValidation, "controller", "set field", fmt.Sprintf("unknown field %q", name), nil)
	}
	setBatchFieldValue(&c.b, name, value)
	c.ensureBatchFieldLocked(name).Set(value)
	return nil
}

// FieldValue returns the currently visible value of an autosaved batch field.
func (c *Controller) FieldValue(name string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := batchFieldPatches[name]; !ok {
		return "", services.Wrap(services.ErrValidation, "controller", "field value", fmt.Sprintf("unknown field %q", name), nil)
	}
	return batchFieldValue(&c.b, name), nil
}

// SetItemField records an edit to an autosaved field on one item.
func (c *Controller) SetItemField(itemID int64, name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := itemFieldPatches[name]; !ok {
		return services.Wrap(services.ErrValidation, "controller", "set item field", fmt.Sprintf("unknown field %q", name), nil)
	}
	item := c.itemLocked(itemID)
	if item == nil {
		return services.Wrap(services.ErrNotFound, "controller", "set item field", fmt.Sprintf("item %d", itemID), nil)
	}
	setItemFieldValue(item, name, value)
	c.itemFields[itemID][name].Set(value)
	return nil
}

// UpdateScalars merges the patch into the local batch immediately and issues
// one remote patch with exactly those fields. Persistence failures are logged;
// the optimistic local state remains the visible truth.
func (c *Controller) UpdateScalars(ctx context.Context, patch batch.ScalarPatch) error {
	c.mu.Lock()
	if !c.loaded {
		c.mu.Unlock()
		return services.Wrap(services.ErrValidation, "controller", "update scalars", "no batch loaded", nil)
	}
	patch.Apply(&c.b)
	id := c.b.ID
	c.mu.Unlock()

	reqCtx := c.requestContext(ctx, id)
	if err := c.store.ApplyBatchPatch(reqCtx, id, patch); err != nil {
		logging.WithContext(reqCtx, c.logger).Warn("scalar update persist failed",
			logging.Error(err))
	}
	return nil
}

// SetStatus changes the batch status: optimistic locally, then remote. The
// status must be a member of the canonical enum.
func (c *Controller) SetStatus(ctx context.Context, status batch.Status) error {
	if !batch.IsValidStatus(status) {
		return services.Wrap(services.ErrValidation, "controller", "set status", fmt.Sprintf("unknown status %q", status), nil)
	}
	c.mu.Lock()
	if !c.loaded {
		c.mu.Unlock()
		return services.Wrap(services.ErrValidation, "controller", "set status", "no batch loaded", nil)
	}
	c.b.Status = status
	id := c.b.ID
	c.mu.Unlock()

	reqCtx := c.requestContext(ctx, id)
	if err := c.store.SetStatus(reqCtx, id, status); err != nil {
		logging.WithContext(reqCtx, c.logger).Warn("status persist failed",
			logging.String(logging.FieldStatus, string(status)),
			logging.Error(err))
	}
	return nil
}

// AddItem creates a new variation. Creation is not optimistic: the item is
// appended locally only after the remote store assigns its id.
func (c *Controller) AddItem(ctx context.Context) (batch.BatchItem, error) {
	c.mu.Lock()
	if !c.loaded {
		c.mu.Unlock()
		return batch.BatchItem{}, services.Wrap(services.ErrValidation, "controller", "add item", "no batch loaded", nil)
	}
	id := c.b.ID
	c.mu.Unlock()

	item, err := c.store.CreateItem(c.requestContext(ctx, id), id)
	if err != nil {
		return batch.BatchItem{}, services.Wrap(services.ErrTransient, "controller", "add item", "remote create", err)
	}

	c.mu.Lock()
	c.items = append(c.items, item)
	c.seedItemFieldsLocked(item)
	c.mu.Unlock()
	return *item, nil
}

// UpdateItem merges the patch into the matching item immediately, then issues
// a remote patch keyed by item id. Persistence failures are logged only.
func (c *Controller) UpdateItem(ctx context.Context, itemID int64, patch batch.ItemPatch) error {
	c.mu.Lock()
	item := c.itemLocked(itemID)
	if item == nil {
		c.mu.Unlock()
		return services.Wrap(services.ErrNotFound, "controller", "update item", fmt.Sprintf("item %d", itemID), nil)
	}
	patch.Apply(item)
	batchID := c.b.ID
	c.mu.Unlock()

	reqCtx := c.requestContext(ctx, batchID)
	if err := c.store.ApplyItemPatch(reqCtx, itemID, patch); err != nil {
		logging.WithContext(reqCtx, c.logger).Warn("item update persist failed",
			logging.Int64(logging.FieldItemID, itemID),
			logging.Error(err))
	}
	return nil
}

// DeleteItem removes a variation. Confirmation is the caller's concern; the
// remote delete must succeed before the local copy is dropped.
func (c *Controller) DeleteItem(ctx context.Context, itemID int64) error {
	c.mu.Lock()
	if c.itemLocked(itemID) == nil {
		c.mu.Unlock()
		return services.Wrap(services.ErrNotFound, "controller", "delete item", fmt.Sprintf("item %d", itemID), nil)
	}
	batchID := c.b.ID
	c.mu.Unlock()

	removed, err := c.store.DeleteItem(c.requestContext(ctx, batchID), itemID)
	if err != nil {
		return services.Wrap(services.ErrTransient, "controller", "delete item", "remote delete", err)
	}
	if !removed {
		return services.Wrap(services.ErrNotFound, "controller", "delete item", fmt.Sprintf("item %d", itemID), nil)
	}

	c.mu.Lock()
	c.discardItemFieldsLocked(itemID)
	kept := c.items[:0]
	for _, item := range c.items {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	c.items = kept
	c.mu.Unlock()
	return nil
}

// Delete removes the whole batch. The remote delete must succeed before the
// caller navigates away; no local state remains meaningful afterwards, so all
// field stores are discarded without flushing.
func (c *Controller) Delete(ctx context.Context) error {
	c.mu.Lock()
	if !c.loaded {
		c.mu.Unlock()
		return services.Wrap(services.ErrValidation, "controller", "delete", "no batch loaded", nil)
	}
	id := c.b.ID
	c.mu.Unlock()

	removed, err := c.store.DeleteBatch(c.requestContext(ctx, id), id)
	if err != nil {
		return services.Wrap(services.ErrTransient, "controller", "delete", "remote delete", err)
	}
	if !removed {
		return services.Wrap(services.ErrNotFound, "controller", "delete", fmt.Sprintf("batch %d", id), nil)
	}

	c.discardAll()
	return nil
}

// Close tears down every field store, forcing a final flush of pending edits.
// The controller is unusable afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	fields := make([]*autosave.Field, 0, len(c.fields))
	for _, field := range c.fields {
		fields = append(fields, field)
	}
	for _, group := range c.itemFields {
		for _, field := range group {
			fields = append(fields, field)
		}
	}
	c.mu.Unlock()

	for _, field := range fields {
		field.Close()
	}
}

// Dirty reports whether any field store holds an unflushed edit.
func (c *Controller) Dirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, field := range c.fields {
		if field.Dirty() {
			return true
		}
	}
	for _, group := range c.itemFields {
		for _, field := range group {
			if field.Dirty() {
				return true
			}
		}
	}
	return false
}

func (c *Controller) discardAll() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	fields := make([]*autosave.Field, 0, len(c.fields))
	for _, field := range c.fields {
		fields = append(fields, field)
	}
	for _, group := range c.itemFields {
		for _, field := range group {
			fields = append(fields, field)
		}
	}
	c.mu.Unlock()

	// Clean each store before closing so nothing flushes against a deleted row.
	for _, field := range fields {
		field.Seed(field.Value())
		field.Close()
	}
}

func (c *Controller) ensureBatchFieldLocked(name string) *autosave.Field {
	if field, ok := c.fields[name]; ok {
		return field
	}
	build := batchFieldPatches[name]
	id := c.b.ID
	field := autosave.NewField(name, c.settle, func(ctx context.Context, value string) error {
		return c.store.ApplyBatchPatch(c.requestContext(ctx, id), id, build(value))
	}, c.logger)
	c.fields[name] = field
	return field
}

func (c *Controller) seedItemFieldsLocked(item *batch.BatchItem) {
	group, ok := c.itemFields[item.ID]
	if !ok {
		group = make(map[string]*autosave.Field, len(itemFieldPatches))
		c.itemFields[item.ID] = group
	}
	batchID := c.b.ID
	for name, build := range itemFieldPatches {
		field, ok := group[name]
		if !ok {
			itemID := item.ID
			patchFor := build
			field = autosave.NewField(fmt.Sprintf("item.%d.%s", itemID, name), c.settle, func(ctx context.Context, value string) error {
				return c.store.ApplyItemPatch(c.requestContext(ctx, batchID), itemID, patchFor(value))
			}, c.logger)
			group[name] = field
		}
		field.Seed(itemFieldValue(item, name))
	}
}

func (c *Controller) discardItemFieldsLocked(itemID int64) {
	group, ok := c.itemFields[itemID]
	if !ok {
		return
	}
	delete(c.itemFields, itemID)
	for _, field := range group {
		field.Seed(field.Value())
		field.Close()
	}
}

func (c *Controller) itemLocked(itemID int64) *batch.BatchItem {
	for _, item := range c.items {
		if item.ID == itemID {
			return item
		}
	}
	return nil
}

func (c *Controller) requestContext(ctx context.Context, batchID int64) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = services.WithBatchID(ctx, batchID)
	return services.WithRequestID(ctx, uuid.NewString())
}

func batchFieldValue(b *batch.Batch, name string) string {
	switch name {
	case FieldIdea:
		return b.Idea
	case FieldCreatorBrief:
		return b.CreatorBrief
	case FieldShotlist:
		return b.Shotlist
	case FieldBrief:
		return b.Brief
	case FieldMainMessaging:
		return b.MainMessaging
	case FieldLearnings:
		return b.Learnings
	case FieldBoostHooks:
		return b.BoostHooks
	case FieldBoostCopy:
		return b.BoostCopy
	}
	return ""
}

func setBatchFieldValue(b *batch.Batch, name, value string) {
	switch name {
	case FieldIdea:
		b.Idea = value
	case FieldCreatorBrief:
		b.CreatorBrief = value
	case FieldShotlist:
		b.Shotlist = value
	case FieldBrief:
		b.Brief = value
	case FieldMainMessaging:
		b.MainMessaging = value
	case FieldLearnings:
		b.Learnings = value
	case FieldBoostHooks:
		b.BoostHooks = value
	case FieldBoostCopy:
		b.BoostCopy = value
	}
}

func itemFieldValue(item *batch.BatchItem, name string) string {
	switch name {
	case ItemFieldNotes:
		return item.Notes
	case ItemFieldScript:
		return item.Script
	case ItemFieldVideoURL:
		return item.VideoURL
	}
	return ""
}

func setItemFieldValue(item *batch.BatchItem, name, value string) {
	switch name {
	case ItemFieldNotes:
		item.Notes = value
	case ItemFieldScript:
		item.Script = value
	case ItemFieldVideoURL:
		item.VideoURL = value
	}
}

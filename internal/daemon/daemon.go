package daemon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"log/slog"

	"github.com/gofrs/flock"

	"reelflow/internal/api"
	"reelflow/internal/batch"
	"reelflow/internal/config"
	"reelflow/internal/logging"
	"reelflow/internal/services"
	"reelflow/internal/services/composer"
	"reelflow/internal/services/uploads"
)

// Daemon coordinates the serving surfaces and enforces single-instance
// execution.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *batch.Store

	sessions *Sessions
	batchSvc *api.BatchService
	actions  *api.BatchActions
	boardSvc *api.BoardService
	compose  *composer.Client
	uploads  *uploads.Client
	apiSrv   *apiServer
	logPath  string

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *batch.Store, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil {
		return nil, errors.New("daemon requires config and store")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	d := &Daemon{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		sessions: NewSessions(store, cfg.SettleDelay(), cfg.SessionIdle(), logger),
		batchSvc: api.NewBatchService(store),
		actions:  api.NewBatchActions(store),
		boardSvc: api.NewBoardService(store, logger),
		compose: composer.NewClient(composer.Config{
			BaseURL:        cfg.Composer.BaseURL,
			APIKey:         cfg.Composer.APIKey,
			Model:          cfg.Composer.Model,
			TimeoutSeconds: cfg.Composer.TimeoutSeconds,
			RetryAttempts:  cfg.Composer.RetryAttempts,
		}),
		uploads: uploads.NewClient(uploads.Config{
			BaseURL:        cfg.Uploads.BaseURL,
			APIKey:         cfg.Uploads.APIKey,
			TimeoutSeconds: cfg.Uploads.TimeoutSeconds,
		}),
		logPath:  filepath.Join(cfg.Paths.LogDir, "reelflow.log"),
		lockPath: cfg.LockPath(),
		lock:     flock.New(cfg.LockPath()),
	}
	d.apiSrv = newAPIServer(cfg, d, logger)
	return d, nil
}

// Start acquires the daemon lock and brings up the HTTP API and the session
// reaper.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another reelflow daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	if err := d.apiSrv.start(d.ctx); err != nil {
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx, d.cancel = nil, nil
		return err
	}
	go d.sessions.Run(d.ctx, d.cfg.ReaperInterval())

	d.running.Store(true)
	d.logger.Info("reelflow daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop closes all editing sessions, stops serving, and releases the lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.sessions.CloseAll()
	d.apiSrv.stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("reelflow daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// LogPath returns the path to the daemon log file.
func (d *Daemon) LogPath() string {
	return d.logPath
}

// Status returns the current daemon status with board counts attached.
func (d *Daemon) Status(ctx context.Context) api.DaemonStatus {
	status := api.DaemonStatus{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		DatabasePath: d.store.Path(),
		LockFilePath: d.lockPath,
		Sessions:     d.sessions.Count(),
	}
	if counts, err := d.batchSvc.Stats(ctx); err == nil {
		status.BoardCounts = counts
	}
	return status
}

// Board returns the kanban view.
func (d *Daemon) Board(ctx context.Context) (api.BoardView, error) {
	return d.boardSvc.View(ctx)
}

// BoardTargets returns the legal drop columns for a batch.
func (d *Daemon) BoardTargets(ctx context.Context, id int64) (api.DragTargets, error) {
	return d.boardSvc.Targets(ctx, id)
}

// ListBatches returns batches filtered by optional statuses.
func (d *Daemon) ListBatches(ctx context.Context, statuses []batch.Status) ([]api.Batch, error) {
	return d.batchSvc.List(ctx, statuses...)
}

// DescribeBatch returns one batch with its items, preferring the live session
// copy when the batch is being edited so unsaved field values are visible.
func (d *Daemon) DescribeBatch(ctx context.Context, id int64) (*api.Batch, error) {
	if ctrl, ok := d.sessions.Peek(id); ok {
		b := ctrl.Batch()
		dto := api.FromBatch(&b)
		items := ctrl.Items()
		dto.Items = make([]api.BatchItem, 0, len(items))
		for i := range items {
			dto.Items = append(dto.Items, api.FromItem(&items[i]))
		}
		return &dto, nil
	}
	return d.batchSvc.Describe(ctx, id)
}

// CreateBatch makes a new batch in the first pipeline column.
func (d *Daemon) CreateBatch(ctx context.Context, req api.CreateBatchRequest) (*api.Batch, error) {
	return d.actions.Create(ctx, req)
}

// UpdateBatch applies scalar updates, routing through the editing session
// when one is open so the optimistic copy stays authoritative.
func (d *Daemon) UpdateBatch(ctx context.Context, id int64, req api.UpdateBatchRequest) (*api.Batch, error) {
	ctrl, ok := d.sessions.Peek(id)
	if !ok {
		return d.actions.Update(ctx, id, req)
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
	if err := ctrl.UpdateScalars(ctx, patch); err != nil {
		return nil, err
	}
	b := ctrl.Batch()
	dto := api.FromBatch(&b)
	return &dto, nil
}

// MoveBatch relocates a batch on the board, enforcing the transition rules.
// An open editing session moves through its controller so the session copy
// never goes stale.
func (d *Daemon) MoveBatch(ctx context.Context, id int64, target string) (api.MoveResult, error) {
	ctrl, ok := d.sessions.Peek(id)
	if !ok {
		return d.boardSvc.Move(ctx, id, target)
	}
	to, valid := batch.ParseStatus(target)
	if !valid {
		return api.MoveResult{}, services.Wrap(services.ErrValidation, "daemon", "move",
			fmt.Sprintf("unknown status %q", target), nil)
	}
	from := ctrl.Batch().Status
	if from == to {
		return api.MoveResult{Moved: false, From: string(from), To: string(to)}, nil
	}
	if !batch.CanMove(from, to) {
		return api.MoveResult{}, services.Wrap(services.ErrValidation, "daemon", "move",
			fmt.Sprintf("cannot move from %s to %s", from, to), nil)
	}
	if err := ctrl.SetStatus(ctx, to); err != nil {
		return api.MoveResult{}, err
	}
	return api.MoveResult{Moved: true, From: string(from), To: string(to)}, nil
}

// DeleteBatch removes a batch. An open session deletes through its controller
// so pending edits are discarded instead of flushed against the deleted row.
func (d *Daemon) DeleteBatch(ctx context.Context, id int64) error {
	if ctrl, ok := d.sessions.Peek(id); ok {
		if err := ctrl.Delete(ctx); err != nil {
			return err
		}
		d.sessions.Forget(id)
		return nil
	}
	return d.actions.Delete(ctx, id)
}

// SetBatchField records a debounced edit to one autosaved batch field.
func (d *Daemon) SetBatchField(ctx context.Context, id int64, field, value string) error {
	ctrl, err := d.sessions.Controller(ctx, id)
	if err != nil {
		return err
	}
	return ctrl.SetField(field, value)
}

// SetItemField records a debounced edit to one autosaved item field.
func (d *Daemon) SetItemField(ctx context.Context, batchID, itemID int64, field, value string) error {
	ctrl, err := d.sessions.Controller(ctx, batchID)
	if err != nil {
		return err
	}
	return ctrl.SetItemField(itemID, field, value)
}

// AddItem creates an empty variation under a batch.
func (d *Daemon) AddItem(ctx context.Context, batchID int64) (*api.BatchItem, error) {
	if ctrl, ok := d.sessions.Peek(batchID); ok {
		item, err := ctrl.AddItem(ctx)
		if err != nil {
			return nil, err
		}
		dto := api.FromItem(&item)
		return &dto, nil
	}
	return d.actions.AddItem(ctx, batchID)
}

// UpdateItem applies non-debounced item updates (hook, status).
func (d *Daemon) UpdateItem(ctx context.Context, batchID, itemID int64, req api.UpdateItemRequest) (*api.BatchItem, error) {
	ctrl, ok := d.sessions.Peek(batchID)
	if !ok {
		return d.actions.UpdateItem(ctx, itemID, req)
	}
	patch := batch.ItemPatch{
		HookID:   req.HookID,
		Notes:    req.Notes,
		Script:   req.Script,
		VideoURL: req.VideoURL,
	}
	if req.Status != nil {
		status, valid := batch.ParseItemStatus(*req.Status)
		if !valid {
			return nil, services.Wrap(services.ErrValidation, "daemon", "update item",
				fmt.Sprintf("unknown item status %q", *req.Status), nil)
		}
		patch.Status = &status
	}
	if err := ctrl.UpdateItem(ctx, itemID, patch); err != nil {
		return nil, err
	}
	for _, item := range ctrl.Items() {
		if item.ID == itemID {
			dto := api.FromItem(&item)
			return &dto, nil
		}
	}
	return nil, services.Wrap(services.ErrNotFound, "daemon", "update item", fmt.Sprintf("item %d", itemID), nil)
}

// RemoveItem deletes one variation.
func (d *Daemon) RemoveItem(ctx context.Context, batchID, itemID int64) error {
	if ctrl, ok := d.sessions.Peek(batchID); ok {
		return ctrl.DeleteItem(ctx, itemID)
	}
	return d.actions.RemoveItem(ctx, itemID)
}

// Compose runs the content generator for one autosaved field and writes the
// result back through the normal debounced edit path.
func (d *Daemon) Compose(ctx context.Context, batchID int64, target string) (api.ComposeResult, error) {
	prompt, err := composer.PromptFor(target)
	if err != nil {
		return api.ComposeResult{}, services.Wrap(services.ErrValidation, "daemon", "compose", err.Error(), nil)
	}
	ctrl, err := d.sessions.Controller(ctx, batchID)
	if err != nil {
		return api.ComposeResult{}, err
	}
	b := ctrl.Batch()
	userPrompt, err := composer.BuildUserPrompt(&b)
	if err != nil {
		return api.ComposeResult{}, services.Wrap(services.ErrValidation, "daemon", "compose", err.Error(), nil)
	}
	content, err := d.compose.Generate(ctx, prompt, userPrompt)
	if err != nil {
		return api.ComposeResult{}, services.Wrap(services.ErrExternalService, "daemon", "compose", "generate", err)
	}
	if err := ctrl.SetField(target, content); err != nil {
		return api.ComposeResult{}, err
	}
	return api.ComposeResult{Target: target, Content: content}, nil
}

// UploadItemVideo spools a video into the staging directory, uploads it from
// there, and writes the hosted URL onto the item. The staged copy is removed
// once the upload finishes.
func (d *Daemon) UploadItemVideo(ctx context.Context, batchID, itemID int64, file io.Reader, fileName string) (*api.BatchItem, error) {
	staged, err := d.stageUpload(file)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "daemon", "upload item video", "stage upload", err)
	}
	defer func() {
		staged.Close()
		if err := os.Remove(staged.Name()); err != nil && !os.IsNotExist(err) {
			d.logger.Warn("failed to remove staged upload",
				logging.String("path", staged.Name()),
				logging.Error(err))
		}
	}()

	result, err := d.uploads.Upload(ctx, staged, uploads.Meta{
		FileName: fileName,
		BatchID:  batchID,
		ItemID:   itemID,
	})
	if err != nil {
		return nil, services.Wrap(services.ErrExternalService, "daemon", "upload item video", "upload", err)
	}
	return d.UpdateItem(ctx, batchID, itemID, api.UpdateItemRequest{VideoURL: &result.URL})
}

// stageUpload copies the incoming stream to a file under the staging dir and
// returns it rewound for reading.
func (d *Daemon) stageUpload(file io.Reader) (*os.File, error) {
	if err := os.MkdirAll(d.cfg.Paths.StagingDir, 0o755); err != nil {
		return nil, err
	}
	staged, err := os.CreateTemp(d.cfg.Paths.StagingDir, "upload-*.part")
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(staged, file); err != nil {
		staged.Close()
		os.Remove(staged.Name())
		return nil, err
	}
	if _, err := staged.Seek(0, io.SeekStart); err != nil {
		staged.Close()
		os.Remove(staged.Name())
		return nil, err
	}
	return staged, nil
}

// CloseSession flushes and closes one editing session.
func (d *Daemon) CloseSession(batchID int64) {
	d.sessions.CloseSession(batchID)
}

// Sessions exposes the session manager for tests and diagnostics.
func (d *Daemon) Sessions() *Sessions {
	return d.sessions
}

// Handler exposes the HTTP API router for in-process serving and tests.
func (d *Daemon) Handler() http.Handler {
	return d.apiSrv.handler()
}

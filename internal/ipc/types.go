package ipc

import "reelflow/internal/api"

// StopRequest stops the daemon.
type StopRequest struct{}

// StopResponse indicates stop result.
type StopResponse struct {
	Stopped bool `json:"stopped"`
}

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// StatusResponse mirrors the HTTP status payload for socket callers.
type StatusResponse = api.DaemonStatus

// BoardRequest fetches the kanban view.
type BoardRequest struct{}

// BoardResponse contains the full board.
type BoardResponse struct {
	Board api.BoardView `json:"board"`
}

// BatchListRequest filters batch listing by status token.
type BatchListRequest struct {
	Statuses []string `json:"statuses"`
}

// BatchListResponse contains batch entries.
type BatchListResponse struct {
	Batches []api.Batch `json:"batches"`
}

// BatchDescribeRequest fetches a single batch by id.
type BatchDescribeRequest struct {
	ID int64 `json:"id"`
}

// BatchDescribeResponse contains a single batch with its items.
type BatchDescribeResponse struct {
	Batch api.Batch `json:"batch"`
}

// BatchCreateRequest creates a batch in the first column.
type BatchCreateRequest struct {
	Name      string `json:"name"`
	BatchType string `json:"batch_type"`
}

// BatchCreateResponse returns the created batch.
type BatchCreateResponse struct {
	Batch api.Batch `json:"batch"`
}

// BatchMoveRequest relocates a batch on the board.
type BatchMoveRequest struct {
	ID int64  `json:"id"`
	To string `json:"to"`
}

// BatchMoveResponse reports the move outcome.
type BatchMoveResponse struct {
	Result api.MoveResult `json:"result"`
}

// BatchTargetsRequest fetches the legal drop columns for a batch.
type BatchTargetsRequest struct {
	ID int64 `json:"id"`
}

// BatchTargetsResponse lists legal drop columns.
type BatchTargetsResponse struct {
	Targets api.DragTargets `json:"targets"`
}

// BatchDeleteRequest removes a batch.
type BatchDeleteRequest struct {
	ID int64 `json:"id"`
}

// BatchDeleteResponse confirms removal.
type BatchDeleteResponse struct {
	Deleted bool `json:"deleted"`
}

// FieldSetRequest records a debounced edit to one autosaved batch field.
type FieldSetRequest struct {
	ID    int64  `json:"id"`
	Field string `json:"field"`
	Value string `json:"value"`
}

// FieldSetResponse confirms the edit was recorded.
type FieldSetResponse struct {
	Accepted bool `json:"accepted"`
}

// ItemAddRequest creates an empty variation under a batch.
type ItemAddRequest struct {
	BatchID int64 `json:"batch_id"`
}

// ItemAddResponse returns the created item.
type ItemAddResponse struct {
	Item api.BatchItem `json:"item"`
}

// ItemFieldSetRequest records a debounced edit to one autosaved item field.
type ItemFieldSetRequest struct {
	BatchID int64  `json:"batch_id"`
	ItemID  int64  `json:"item_id"`
	Field   string `json:"field"`
	Value   string `json:"value"`
}

// ItemFieldSetResponse confirms the edit was recorded.
type ItemFieldSetResponse struct {
	Accepted bool `json:"accepted"`
}

// ItemRemoveRequest deletes one variation.
type ItemRemoveRequest struct {
	BatchID int64 `json:"batch_id"`
	ItemID  int64 `json:"item_id"`
}

// ItemRemoveResponse confirms removal.
type ItemRemoveResponse struct {
	Removed bool `json:"removed"`
}

// ComposeRequest asks the daemon to generate copy for one batch field.
type ComposeRequest struct {
	BatchID int64  `json:"batch_id"`
	Target  string `json:"target"`
}

// ComposeResponse carries the generated copy.
type ComposeResponse struct {
	Result api.ComposeResult `json:"result"`
}

// SessionCloseRequest flushes and closes a batch editing session.
type SessionCloseRequest struct {
	BatchID int64 `json:"batch_id"`
}

// SessionCloseResponse confirms the session teardown.
type SessionCloseResponse struct {
	Closed bool `json:"closed"`
}

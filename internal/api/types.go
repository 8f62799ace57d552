package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Batch describes a batch in a transport-friendly format.
type Batch struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	BatchType string `json:"batchType,omitempty"`
	Step      string `json:"step"`

	Idea          string `json:"idea,omitempty"`
	CreatorBrief  string `json:"creatorBrief,omitempty"`
	Shotlist      string `json:"shotlist,omitempty"`
	Brief         string `json:"brief,omitempty"`
	MainMessaging string `json:"mainMessaging,omitempty"`
	Learnings     string `json:"learnings,omitempty"`
	BoostHooks    string `json:"boostHooks,omitempty"`
	BoostCopy     string `json:"boostCopy,omitempty"`

	AngleID          *int64 `json:"angleId,omitempty"`
	FormatID         *int64 `json:"formatId,omitempty"`
	ReferenceBatchID *int64 `json:"referenceBatchId,omitempty"`
	ReferenceAdID    *int64 `json:"referenceAdId,omitempty"`

	Items []BatchItem `json:"items,omitempty"`

	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// BatchItem describes one variation in a transport-friendly format.
type BatchItem struct {
	ID        int64  `json:"id"`
	BatchID   int64  `json:"batchId"`
	HookID    *int64 `json:"hookId,omitempty"`
	Notes     string `json:"notes,omitempty"`
	Script    string `json:"script,omitempty"`
	VideoURL  string `json:"videoUrl,omitempty"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// BoardCard is the condensed batch representation shown on a board column.
type BoardCard struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	BatchType string `json:"batchType,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// BoardColumn is one lane of the kanban view.
type BoardColumn struct {
	Status string      `json:"status"`
	Cards  []BoardCard `json:"cards"`
}

// BoardView is the full kanban payload: every column in canonical order.
type BoardView struct {
	Columns []BoardColumn  `json:"columns"`
	Counts  map[string]int `json:"counts"`
}

// MoveResult reports the outcome of a drop.
type MoveResult struct {
	Moved bool   `json:"moved"`
	From  string `json:"from"`
	To    string `json:"to"`
}

// DragTargets lists the columns a batch may legally land in.
type DragTargets struct {
	BatchID int64    `json:"batchId"`
	From    string   `json:"from"`
	Targets []string `json:"targets"`
}

// DaemonStatus aggregates daemon runtime information for API consumers.
type DaemonStatus struct {
	Running      bool           `json:"running"`
	PID          int            `json:"pid"`
	DatabasePath string         `json:"databasePath"`
	LockFilePath string         `json:"lockFilePath"`
	Sessions     int            `json:"sessions"`
	BoardCounts  map[string]int `json:"boardCounts,omitempty"`
}

// BatchListResponse wraps a collection of batches for API responses.
type BatchListResponse struct {
	Batches []Batch `json:"batches"`
}

// BatchResponse wraps a single batch.
type BatchResponse struct {
	Batch Batch `json:"batch"`
}

// ItemResponse wraps a single batch item.
type ItemResponse struct {
	Item BatchItem `json:"item"`
}

// ComposeResult carries generated text destined for one autosaved field.
type ComposeResult struct {
	Target  string `json:"target"`
	Content string `json:"content"`
}

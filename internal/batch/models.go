package batch

import (
	"strings"
	"time"
)

// BatchType classifies a batch for reporting; it does not affect the state
// machine.
type BatchType string

const (
	TypeConcept   BatchType = "CONCEPT"
	TypeIteration BatchType = "ITERATION"
	TypeScaling   BatchType = "SCALING"
)

// ItemStatus is the two-state flag on a batch item, decoupled from the
// batch-level status.
type ItemStatus string

const (
	ItemPendingRevision ItemStatus = "PENDING_REVISION"
	ItemDone            ItemStatus = "DONE"
)

// ParseItemStatus converts a string into a known ItemStatus.
func ParseItemStatus(value string) (ItemStatus, bool) {
	normalized := ItemStatus(strings.ToUpper(strings.TrimSpace(value)))
	switch normalized {
	case ItemPendingRevision, ItemDone:
		return normalized, true
	}
	return "", false
}

// Batch is the aggregate root: the unit of ad-video work tracked through the
// pipeline. The free-text content fields are each independently auto-saved.
type Batch struct {
	ID        int64
	Name      string
	Status    Status
	BatchType BatchType

	Idea          string
	CreatorBrief  string
	Shotlist      string
	Brief         string
	MainMessaging string
	Learnings     string
	BoostHooks    string
	BoostCopy     string

	// Read-only references to collaborator entities; managed elsewhere.
	AngleID          *int64
	FormatID         *int64
	ReferenceBatchID *int64
	ReferenceAdID    *int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Step returns the display step derived from the batch status.
func (b *Batch) Step() (Step, error) {
	return StepFor(b.Status)
}

// BatchItem is one candidate variation owned by exactly one batch. Items are
// created empty, mutated field by field, and deleted explicitly; batch status
// transitions never create or destroy them.
type BatchItem struct {
	ID       int64
	BatchID  int64
	HookID   *int64
	Notes    string
	Script   string
	VideoURL string
	Status   ItemStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StatsSummary aggregates board counts per column for diagnostics.
type StatsSummary struct {
	Total    int
	Active   int
	Archived int
}

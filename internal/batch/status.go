package batch

import (
	"errors"
	"fmt"
	"strings"
)

// Status represents the pipeline position of a batch. The string values are
// the persisted wire tokens; changing one is a breaking schema change.
type Status string

const (
	StatusIdeation        Status = "IDEATION"
	StatusCreatorBriefing Status = "CREATOR_BRIEFING"
	StatusFilming         Status = "FILMING"
	StatusEditorBriefing  Status = "EDITOR_BRIEFING"
	StatusEditing         Status = "EDITING"
	StatusReview          Status = "REVIEW"
	StatusAIBoost         Status = "AI_BOOST"
	StatusLearning        Status = "LEARNING"
	StatusArchived        Status = "ARCHIVED"
)

// ErrUnknownStatus reports a status outside the canonical enum.
var ErrUnknownStatus = errors.New("unknown status")

// canonicalOrder is load-bearing: step completion and drag adjacency are both
// computed from index positions in this slice.
var canonicalOrder = []Status{
	StatusIdeation,
	StatusCreatorBriefing,
	StatusFilming,
	StatusEditorBriefing,
	StatusEditing,
	StatusReview,
	StatusAIBoost,
	StatusLearning,
	StatusArchived,
}

var statusIndex = func() map[Status]int {
	idx := make(map[Status]int, len(canonicalOrder))
	for i, status := range canonicalOrder {
		idx[status] = i
	}
	return idx
}()

// AllStatuses returns the canonical ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(canonicalOrder))
	copy(cp, canonicalOrder)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToUpper(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusIndex[normalized]
	return normalized, ok
}

// IsValidStatus reports whether the status is a member of the canonical enum.
func IsValidStatus(status Status) bool {
	_, ok := statusIndex[status]
	return ok
}

// OrderIndex returns the canonical-order position of a status.
func OrderIndex(status Status) (int, error) {
	idx, ok := statusIndex[status]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownStatus, status)
	}
	return idx, nil
}

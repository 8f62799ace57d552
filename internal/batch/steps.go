package batch

import "fmt"

// Step is the coarser, user-facing grouping of one or more statuses. Multiple
// statuses may project onto the same step (LEARNING hosts both LEARNING and
// ARCHIVED); the reverse mapping is never needed.
type Step string

const (
	StepIdeation        Step = "IDEATION"
	StepCreatorBriefing Step = "CREATOR_BRIEFING"
	StepFilming         Step = "FILMING"
	StepBriefing        Step = "BRIEFING"
	StepProduction      Step = "PRODUCTION"
	StepReview          Step = "REVIEW"
	StepAIBoost         Step = "AI_BOOST"
	StepLearning        Step = "LEARNING"
)

var stepOrder = []Step{
	StepIdeation,
	StepCreatorBriefing,
	StepFilming,
	StepBriefing,
	StepProduction,
	StepReview,
	StepAIBoost,
	StepLearning,
}

// stepForStatus is the fixed projection table from status to display step.
var stepForStatus = map[Status]Step{
	StatusIdeation:        StepIdeation,
	StatusCreatorBriefing: StepCreatorBriefing,
	StatusFilming:         StepFilming,
	StatusEditorBriefing:  StepBriefing,
	StatusEditing:         StepProduction,
	StatusReview:          StepReview,
	StatusAIBoost:         StepAIBoost,
	StatusLearning:        StepLearning,
	StatusArchived:        StepLearning,
}

// stepAnchor maps each step to the canonical status that defines its position
// in the pipeline, used for completion checkmarks.
var stepAnchor = map[Step]Status{
	StepIdeation:        StatusIdeation,
	StepCreatorBriefing: StatusCreatorBriefing,
	StepFilming:         StatusFilming,
	StepBriefing:        StatusEditorBriefing,
	StepProduction:      StatusEditing,
	StepReview:          StatusReview,
	StepAIBoost:         StatusAIBoost,
	StepLearning:        StatusLearning,
}

// AllSteps returns the ordered list of workflow steps.
func AllSteps() []Step {
	cp := make([]Step, len(stepOrder))
	copy(cp, stepOrder)
	return cp
}

// StepFor returns the display step for a status. Unknown statuses are an
// error, never silently defaulted.
func StepFor(status Status) (Step, error) {
	step, ok := stepForStatus[status]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, status)
	}
	return step, nil
}

// IsStepUnlocked reports whether a step is the one editable step for the given
// status. Exactly one step is unlocked for any canonical status; this gates
// field-edit permission and step navigation.
func IsStepUnlocked(step Step, status Status) bool {
	current, err := StepFor(status)
	if err != nil {
		return false
	}
	return current == step
}

// IsStageComplete reports whether the pipeline has moved strictly past a step.
// Used only for completed checkmark display, never for gating.
func IsStageComplete(step Step, status Status) bool {
	anchor, ok := stepAnchor[step]
	if !ok {
		return false
	}
	statusIdx, err := OrderIndex(status)
	if err != nil {
		return false
	}
	anchorIdx, err := OrderIndex(anchor)
	if err != nil {
		return false
	}
	return statusIdx > anchorIdx
}

package composer

import (
	"errors"
	"fmt"
	"strings"

	"reelflow/internal/batch"
)

// Targets the generator can draft. The names match the autosaved field names
// the result is written back through.
const (
	TargetCreatorBrief = "creator_brief"
	TargetBoostHooks   = "boost_hooks"
	TargetBoostCopy    = "boost_copy"
)

// CreatorBriefPrompt captures the instructions sent when drafting a creator
// brief from the batch idea and shotlist. Keep updates centralized here so it
// is easy to tweak without hunting through call sites.
const CreatorBriefPrompt = `You are a creative producer writing a brief for a content creator who will film a short-form ad.

Write a concise creator brief covering: the core idea, the tone, what must be said on camera, and what footage is needed. Use plain language the creator can follow while filming. Do not include editing or post-production notes.

Respond with the brief text only, no preamble.`

// BoostHooksPrompt drafts alternative opening hooks for the boost stage.
const BoostHooksPrompt = `You are a performance marketer writing alternative opening hooks for a short-form ad.

Write 5 distinct hooks, one per line. Each hook is a single spoken sentence designed to stop the scroll in the first two seconds. Vary the angle across the hooks. Do not number them.

Respond with the hooks only, no preamble.`

// BoostCopyPrompt drafts primary ad copy for the boost stage.
const BoostCopyPrompt = `You are a performance marketer writing primary text for a paid social ad.

Write one short block of ad copy: an attention line, two sentences of body, and a call to action. Keep it under 80 words.

Respond with the copy only, no preamble.`

var targetPrompts = map[string]string{
	TargetCreatorBrief: CreatorBriefPrompt,
	TargetBoostHooks:   BoostHooksPrompt,
	TargetBoostCopy:    BoostCopyPrompt,
}

// PromptFor returns the system prompt for a compose target.
func PromptFor(target string) (string, error) {
	prompt, ok := targetPrompts[strings.TrimSpace(strings.ToLower(target))]
	if !ok {
		return "", fmt.Errorf("composer: unknown target %q", target)
	}
	return prompt, nil
}

// BuildUserPrompt serializes the batch's working material into the user half
// of the completion request. Empty fields are omitted.
func BuildUserPrompt(b *batch.Batch) (string, error) {
	if b == nil {
		return "", errors.New("composer: batch required")
	}
	var sb strings.Builder
	writeSection(&sb, "Batch", b.Name)
	writeSection(&sb, "Type", string(b.BatchType))
	writeSection(&sb, "Idea", b.Idea)
	writeSection(&sb, "Shotlist", b.Shotlist)
	writeSection(&sb, "Brief", b.Brief)
	writeSection(&sb, "Main messaging", b.MainMessaging)
	writeSection(&sb, "Learnings from previous batches", b.Learnings)
	if sb.Len() == 0 {
		return "", errors.New("composer: batch has no material to compose from")
	}
	return strings.TrimSpace(sb.String()), nil
}

func writeSection(sb *strings.Builder, label, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	fmt.Fprintf(sb, "%s:\n%s\n\n", label, value)
}

// Package composer talks to the hosted content generator that drafts briefing
// and boost copy from a batch's working material. Requests are JSON chat
// completions; transient failures are retried with exponential backoff so the
// editing surfaces never see a flaky upstream directly.
package composer

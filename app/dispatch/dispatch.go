// Package dispatch implements the fan-out engine used to deliver a campaign
// to many targets through a single platform adapter.
package dispatch

import (
	"context"
	"errors"
)

// ErrNoValidTargets is returned when validation filters out every target
// before any network call is made.
var ErrNoValidTargets = errors.New("no valid targets to dispatch")

// Outcome is the per-target result of one delivery attempt
type Outcome struct {
	Target     string `json:"target"`
	Success    bool   `json:"success"`
	Reason     string `json:"reason,omitempty"`
	ExternalID string `json:"external_id,omitempty"`
}

// Summary aggregates the outcomes of one fan-out.
// Successful+Failed always equals Total, the post-filter target count.
type Summary struct {
	Total      int       `json:"total"`
	Successful int       `json:"successful"`
	Failed     int       `json:"failed"`
	Skipped    []string  `json:"skipped,omitempty"` // targets dropped by validation
	Details    []Outcome `json:"details"`
}

// SendFunc delivers to a single target. Implementations must report provider
// rejections and transport errors through the Outcome, never by panicking.
type SendFunc func(ctx context.Context, target string) Outcome

// ValidateFunc reports whether a target is well-formed for the platform
type ValidateFunc func(target string) bool

// Bulk fans a delivery out over targets, strictly sequential and in input
// order. Invalid targets are dropped up front; if none survive, Bulk returns
// ErrNoValidTargets without contacting the provider. A failed send never
// stops the loop: every remaining target still gets its attempt.
func Bulk(ctx context.Context, platform string, targets []string, validate ValidateFunc, send SendFunc) (*Summary, error) {
	summary := &Summary{}

	valid := make([]string, 0, len(targets))
	for _, target := range targets {
		if validate != nil && !validate(target) {
			summary.Skipped = append(summary.Skipped, target)
			continue
		}
		valid = append(valid, target)
	}

	if len(valid) == 0 {
		return nil, ErrNoValidTargets
	}

	summary.Total = len(valid)
	summary.Details = make([]Outcome, 0, len(valid))

	for _, target := range valid {
		outcome := send(ctx, target)
		outcome.Target = target

		if outcome.Success {
			summary.Successful++
			recordTarget(platform, resultSuccess)
		} else {
			summary.Failed++
			recordTarget(platform, resultFailure)
		}

		summary.Details = append(summary.Details, outcome)
	}

	return summary, nil
}

// Single is the one-target degenerate case used for social posts and ads
func Single(ctx context.Context, platform, target string, send SendFunc) Outcome {
	outcome := send(ctx, target)
	outcome.Target = target

	if outcome.Success {
		recordTarget(platform, resultSuccess)
	} else {
		recordTarget(platform, resultFailure)
	}

	return outcome
}

package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBulkPartialFailure(t *testing.T) {
	targets := []string{"+15550000001", "+15550000002", "+15550000003"}

	summary, err := Bulk(context.Background(), "whatsapp", targets,
		func(string) bool { return true },
		func(_ context.Context, target string) Outcome {
			if target == "+15550000002" {
				return Outcome{Success: false, Reason: "provider rejected"}
			}
			return Outcome{Success: true, ExternalID: "msg-" + target}
		})

	require.NoError(t, err)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Successful)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, summary.Total, summary.Successful+summary.Failed)
	assert.Empty(t, summary.Skipped)

	require.Len(t, summary.Details, 3)
	assert.True(t, summary.Details[0].Success)
	assert.False(t, summary.Details[1].Success)
	assert.Equal(t, "provider rejected", summary.Details[1].Reason)
	assert.True(t, summary.Details[2].Success)
}

func TestBulkPreservesInputOrder(t *testing.T) {
	targets := []string{"c@example.com", "a@example.com", "b@example.com"}

	summary, err := Bulk(context.Background(), "email", targets,
		nil,
		func(_ context.Context, target string) Outcome {
			return Outcome{Success: true}
		})

	require.NoError(t, err)
	require.Len(t, summary.Details, 3)
	for i, target := range targets {
		assert.Equal(t, target, summary.Details[i].Target)
	}
}

func TestBulkSkipsInvalidTargets(t *testing.T) {
	targets := []string{"+15550000001", "bogus", "+15550000002"}

	var attempted []string
	summary, err := Bulk(context.Background(), "whatsapp", targets,
		func(target string) bool { return target != "bogus" },
		func(_ context.Context, target string) Outcome {
			attempted = append(attempted, target)
			return Outcome{Success: true}
		})

	require.NoError(t, err)
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, []string{"bogus"}, summary.Skipped)
	assert.Equal(t, []string{"+15550000001", "+15550000002"}, attempted)
	assert.Equal(t, summary.Total, summary.Successful+summary.Failed)
}

func TestBulkNoValidTargets(t *testing.T) {
	called := false
	summary, err := Bulk(context.Background(), "whatsapp", []string{"bad1", "bad2"},
		func(string) bool { return false },
		func(_ context.Context, _ string) Outcome {
			called = true
			return Outcome{Success: true}
		})

	assert.Nil(t, summary)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoValidTargets))
	assert.False(t, called, "no provider call should be made when every target is invalid")
}

func TestBulkFailureDoesNotStopLoop(t *testing.T) {
	targets := []string{"a", "b", "c", "d"}

	summary, err := Bulk(context.Background(), "email", targets,
		nil,
		func(_ context.Context, _ string) Outcome {
			return Outcome{Success: false, Reason: "smtp down"}
		})

	require.NoError(t, err)
	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 0, summary.Successful)
	assert.Equal(t, 4, summary.Failed)
	require.Len(t, summary.Details, 4)
}

func TestSingle(t *testing.T) {
	outcome := Single(context.Background(), "facebook", "page-1",
		func(_ context.Context, _ string) Outcome {
			return Outcome{Success: true, ExternalID: "post-42"}
		})

	assert.Equal(t, "page-1", outcome.Target)
	assert.True(t, outcome.Success)
	assert.Equal(t, "post-42", outcome.ExternalID)
}

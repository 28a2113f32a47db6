package businessflow

import (
	"context"
	"errors"
	"testing"

	"github.com/sepehrdad/Hydra-Marketing/app/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProposalContentRendersStructuredCompletion(t *testing.T) {
	pf := &ProposalFlowImpl{aiService: &services.MockAIService{
		JSONResponse: "```json\n{\"summary\":\"Grow the brand.\",\"sections\":[{\"heading\":\"Audience\",\"body\":\"Focus on creators.\"},{\"heading\":\"Budget\",\"body\":\"Start small.\"}]}\n```",
	}}

	content, err := pf.generateContent(context.Background(), "expand into new markets")
	require.NoError(t, err)
	assert.Equal(t, "Grow the brand.\n\nAudience\nFocus on creators.\n\nBudget\nStart small.", content)
}

func TestProposalContentFallsBackToProse(t *testing.T) {
	prose := "I recommend a three-month influencer push followed by a referral program."
	pf := &ProposalFlowImpl{aiService: &services.MockAIService{JSONResponse: prose}}

	content, err := pf.generateContent(context.Background(), "expand into new markets")
	require.NoError(t, err, "a prose answer is used as the proposal body, not rejected")
	assert.Equal(t, prose, content)
}

func TestProposalContentPropagatesGenerationError(t *testing.T) {
	pf := &ProposalFlowImpl{aiService: &services.MockAIService{Err: errors.New("completion API returned status 500")}}

	_, err := pf.generateContent(context.Background(), "expand into new markets")
	assert.Error(t, err)
}

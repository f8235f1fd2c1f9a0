package llm

import (
	"context"

	"github.com/Kamon-Tahara-504/HypoFrame/internal/types"
)

// Generator runs the three-stage pipeline over one shared transport.
// The stages are strictly sequential: stage 2 consumes stage 1's summary and
// stage 3 consumes both.
type Generator struct {
	client Client
}

// NewGenerator builds a Generator on the given transport.
func NewGenerator(client Client) *Generator {
	return &Generator{client: client}
}

// Generate produces the full artifact from the structured crawl text.
// The optional focus only softens prompt phrasing for one stage; it never
// changes the stage set or the output contracts.
func (g *Generator) Generate(ctx context.Context, structuredText string, focus types.OutputFocus) (*types.GenerateResponse, error) {
	summaryRaw, err := g.client.Complete(ctx, summaryMessages(structuredText, focus))
	if err != nil {
		return nil, &StageError{Stage: StageSummary, Cause: err}
	}
	summary := ParseSummary(summaryRaw)

	hypothesisRaw, err := g.client.Complete(ctx, hypothesisMessages(summary.SummaryBusiness, focus))
	if err != nil {
		return nil, &StageError{Stage: StageHypothesis, Cause: err}
	}
	segments, err := ParseHypothesis(hypothesisRaw)
	if err != nil {
		return nil, err
	}

	letter, err := g.client.Complete(ctx, letterMessages(summary.SummaryBusiness, segments, focus))
	if err != nil {
		return nil, &StageError{Stage: StageLetter, Cause: err}
	}

	return &types.GenerateResponse{
		SummaryBusiness:    summary.SummaryBusiness,
		Industry:           summary.Industry,
		EmployeeScale:      summary.EmployeeScale,
		DecisionMakerName:  summary.DecisionMakerName,
		IRSummary:          summary.IRSummary,
		HypothesisSegments: segments,
		LetterDraft:        letter,
	}, nil
}

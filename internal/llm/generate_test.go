package llm

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kamon-Tahara-504/HypoFrame/internal/types"
)

// scriptedClient returns canned responses per call, recording the prompts.
type scriptedClient struct {
	responses []string
	errs      []error
	calls     [][]Message
}

func (c *scriptedClient) Complete(_ context.Context, messages []Message) (string, error) {
	idx := len(c.calls)
	c.calls = append(c.calls, messages)
	if idx < len(c.errs) && c.errs[idx] != nil {
		return "", c.errs[idx]
	}
	if idx >= len(c.responses) {
		return "", fmt.Errorf("unexpected call %d", idx)
	}
	return c.responses[idx], nil
}

const validHypothesisJSON = `{"segments": ["現状。", "課題。", "背景。", "介入。", "提案。"]}`

func TestGenerateRunsThreeStagesInOrder(t *testing.T) {
	client := &scriptedClient{responses: []string{
		`{"summaryBusiness": "クラウド事業。", "industry": "IT"}`,
		validHypothesisJSON,
		"提案文の下書きです。",
	}}

	got, err := NewGenerator(client).Generate(context.Background(), "## 本文\n\n構造化テキスト", "")
	require.NoError(t, err)
	require.Len(t, client.calls, 3)

	assert.Equal(t, "クラウド事業。", got.SummaryBusiness)
	require.NotNil(t, got.Industry)
	assert.Equal(t, "IT", *got.Industry)
	assert.Equal(t, "現状。", got.HypothesisSegments[0])
	assert.Equal(t, "提案。", got.HypothesisSegments[4])
	assert.Equal(t, "提案文の下書きです。", got.LetterDraft)

	// Stage 1 sees the structured text; stages 2 and 3 build on the summary.
	assert.Contains(t, client.calls[0][1].Content, "構造化テキスト")
	assert.Contains(t, client.calls[1][1].Content, "クラウド事業。")
	assert.Contains(t, client.calls[2][1].Content, "クラウド事業。")
	assert.Contains(t, client.calls[2][1].Content, "現状。")
}

func TestGenerateSummaryStageNeverFailsOnBadJSON(t *testing.T) {
	client := &scriptedClient{responses: []string{
		"構造化されていないただの要約文。",
		validHypothesisJSON,
		"手紙。",
	}}

	got, err := NewGenerator(client).Generate(context.Background(), "text", "")
	require.NoError(t, err)
	assert.Equal(t, "構造化されていないただの要約文。", got.SummaryBusiness)
	assert.Nil(t, got.Industry)
}

func TestGenerateHypothesisContractViolationFails(t *testing.T) {
	client := &scriptedClient{responses: []string{
		`{"summaryBusiness": "要約。"}`,
		`{"segments": ["一つ", "二つ", "三つ"]}`,
	}}

	_, err := NewGenerator(client).Generate(context.Background(), "text", "")
	var contractErr *ContractError
	require.ErrorAs(t, err, &contractErr)
	assert.Equal(t, StageHypothesis, contractErr.Stage)
	// The letter stage must never run after a contract failure.
	assert.Len(t, client.calls, 2)
}

func TestGenerateTransportFailureCarriesStage(t *testing.T) {
	transportErr := &TransportError{StatusCode: 500, Message: "boom"}

	tests := []struct {
		name  string
		errs  []error
		stage Stage
		calls int
	}{
		{"summary", []error{transportErr}, StageSummary, 1},
		{"hypothesis", []error{nil, transportErr}, StageHypothesis, 2},
		{"letter", []error{nil, nil, transportErr}, StageLetter, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &scriptedClient{
				responses: []string{`{"summaryBusiness": "要約。"}`, validHypothesisJSON, "手紙。"},
				errs:      tt.errs,
			}
			_, err := NewGenerator(client).Generate(context.Background(), "text", "")

			var stageErr *StageError
			require.ErrorAs(t, err, &stageErr)
			assert.Equal(t, tt.stage, stageErr.Stage)
			assert.Len(t, client.calls, tt.calls)
		})
	}
}

func TestGenerateFocusReachesOnlyItsStage(t *testing.T) {
	client := &scriptedClient{responses: []string{
		`{"summaryBusiness": "要約。"}`,
		validHypothesisJSON,
		"手紙。",
	}}

	_, err := NewGenerator(client).Generate(context.Background(), "text", types.FocusHypothesis)
	require.NoError(t, err)

	systemOf := func(i int) string { return client.calls[i][0].Content }
	assert.False(t, strings.Contains(systemOf(0), "重点的"), "summary stage must not carry the hypothesis focus")
	assert.Contains(t, systemOf(1), "仮説5段を中心に")
	assert.False(t, strings.Contains(systemOf(2), "仕上げに集中"), "letter stage must not carry the hypothesis focus")
}

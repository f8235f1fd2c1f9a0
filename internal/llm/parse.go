package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/Kamon-Tahara-504/HypoFrame/internal/types"
)

// summaryFallback is the placeholder when even the raw text is empty.
const summaryFallback = "(要約を取得できませんでした)"

// hypothesisSchema is the output contract of stage 2, checked after repair
// and before decoding. Elements may be any type; they are coerced to strings.
const hypothesisSchema = `{
	"type": "object",
	"required": ["segments"],
	"properties": {
		"segments": {
			"type": "array",
			"minItems": 5,
			"maxItems": 5
		}
	}
}`

var hypothesisSchemaLoader = gojsonschema.NewStringLoader(hypothesisSchema)

// Summary is the parsed stage-1 output. Only SummaryBusiness is guaranteed.
type Summary struct {
	SummaryBusiness   string  `json:"summaryBusiness"`
	Industry          *string `json:"industry"`
	EmployeeScale     *string `json:"employeeScale"`
	DecisionMakerName *string `json:"decisionMakerName"`
	IRSummary         *string `json:"irSummary"`
}

// ParseSummary parses the stage-1 JSON. This stage degrades gracefully and
// never fails: on any parse problem or missing summaryBusiness the raw
// trimmed text becomes the summary and every optional field is absent.
func ParseSummary(raw string) Summary {
	cleaned := StripCodeFence(raw)

	var parsed struct {
		SummaryBusiness   string  `json:"summaryBusiness"`
		Industry          *string `json:"industry"`
		EmployeeScale     *string `json:"employeeScale"`
		DecisionMakerName *string `json:"decisionMakerName"`
		IRSummary         *string `json:"irSummary"`
	}
	if err := json.Unmarshal([]byte(cleaned), &parsed); err == nil {
		if business := strings.TrimSpace(parsed.SummaryBusiness); business != "" {
			return Summary{
				SummaryBusiness:   business,
				Industry:          trimOptional(parsed.Industry),
				EmployeeScale:     trimOptional(parsed.EmployeeScale),
				DecisionMakerName: trimOptional(parsed.DecisionMakerName),
				IRSummary:         trimOptional(parsed.IRSummary),
			}
		}
	}

	fallback := strings.TrimSpace(raw)
	if fallback == "" {
		fallback = summaryFallback
	}
	return Summary{SummaryBusiness: fallback}
}

// ParseHypothesis parses the stage-2 output into the five fixed slots.
// Unlike stage 1 there is no silent fallback: a hypothesis chain that cannot
// be repaired into exactly five segments must not be fabricated, so any
// remaining contract violation is an error.
func ParseHypothesis(raw string) (types.HypothesisSegments, error) {
	var segments types.HypothesisSegments

	repaired := SanitizeJSON(raw)

	validation, err := gojsonschema.Validate(hypothesisSchemaLoader, gojsonschema.NewStringLoader(repaired))
	if err != nil {
		return segments, &ContractError{Stage: StageHypothesis, Message: "invalid hypothesis JSON", Cause: err}
	}
	if !validation.Valid() {
		details := make([]string, 0, len(validation.Errors()))
		for _, verr := range validation.Errors() {
			details = append(details, verr.String())
		}
		return segments, &ContractError{
			Stage:   StageHypothesis,
			Message: "hypothesis output violates contract: " + strings.Join(details, "; "),
		}
	}

	var parsed struct {
		Segments []any `json:"segments"`
	}
	if err := json.Unmarshal([]byte(repaired), &parsed); err != nil {
		return segments, &ContractError{Stage: StageHypothesis, Message: "invalid hypothesis JSON", Cause: err}
	}
	if len(parsed.Segments) != 5 {
		return segments, &ContractError{
			Stage:   StageHypothesis,
			Message: fmt.Sprintf("expected 5 segments, got %d", len(parsed.Segments)),
		}
	}

	for i, v := range parsed.Segments {
		if s, ok := v.(string); ok {
			segments[i] = s
		} else {
			segments[i] = fmt.Sprint(v)
		}
	}
	return segments, nil
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// Package types defines the shared data structures for the HypoFrame API.
package types

// OutputFocus is an optional hint steering which generation stage gets more
// elaborate phrasing instructions. It never changes the stage set or schema.
type OutputFocus string

const (
	// FocusSummary asks for a slightly more detailed business summary.
	FocusSummary OutputFocus = "summary"
	// FocusHypothesis asks for more carefully argued hypothesis segments.
	FocusHypothesis OutputFocus = "hypothesis"
	// FocusLetter asks for a more polished letter draft.
	FocusLetter OutputFocus = "letter"
)

// ValidFocus reports whether s is one of the known focus values.
func ValidFocus(s string) bool {
	switch OutputFocus(s) {
	case FocusSummary, FocusHypothesis, FocusLetter:
		return true
	}
	return false
}

// HypothesisSegments holds the five hypothesis stages in fixed order:
// 1=current state, 2=latent issue, 3=background factor, 4=intervention point,
// 5=proposal hypothesis. The order is significant and never reordered.
type HypothesisSegments [5]string

// GenerateRequest is the body of POST /api/generate.
type GenerateRequest struct {
	URL         string `json:"url" validate:"required"`
	CompanyName string `json:"companyName,omitempty"`
	OutputFocus string `json:"outputFocus,omitempty"`
}

// GenerateResponse is the success body of POST /api/generate.
type GenerateResponse struct {
	SummaryBusiness    string             `json:"summaryBusiness"`
	Industry           *string            `json:"industry"`
	EmployeeScale      *string            `json:"employeeScale"`
	DecisionMakerName  *string            `json:"decisionMakerName"`
	IRSummary          *string            `json:"irSummary"`
	HypothesisSegments HypothesisSegments `json:"hypothesisSegments"`
	LetterDraft        string             `json:"letterDraft"`
}

// APIErrorCode is the closed set of top-level failure codes.
type APIErrorCode string

const (
	// CodeTimeout is returned when the 90-second race is lost to the timer.
	CodeTimeout APIErrorCode = "TIMEOUT"
	// CodeCrawlForbidden covers blocked, unreachable or non-2xx start pages.
	CodeCrawlForbidden APIErrorCode = "CRAWL_FORBIDDEN"
	// CodeCrawlEmpty means the page was reachable but yielded too little text.
	CodeCrawlEmpty APIErrorCode = "CRAWL_EMPTY"
	// CodeLLMError covers generation transport and contract failures.
	CodeLLMError APIErrorCode = "LLM_ERROR"
)

// APIError is the JSON body returned on any generation failure.
type APIError struct {
	Error string       `json:"error"`
	Code  APIErrorCode `json:"code"`
}

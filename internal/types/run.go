package types

import (
	"time"

	"github.com/google/uuid"
)

// Run is one persisted generation result plus its regeneration counter.
type Run struct {
	ID                 uuid.UUID  `json:"id"`
	InputURL           string     `json:"inputUrl"`
	CompanyName        *string    `json:"companyName"`
	SummaryBusiness    string     `json:"summaryBusiness"`
	Industry           *string    `json:"industry"`
	EmployeeScale      *string    `json:"employeeScale"`
	DecisionMakerName  *string    `json:"decisionMakerName"`
	IRSummary          *string    `json:"irSummary"`
	HypothesisSegment1 string     `json:"hypothesisSegment1"`
	HypothesisSegment2 string     `json:"hypothesisSegment2"`
	HypothesisSegment3 string     `json:"hypothesisSegment3"`
	HypothesisSegment4 string     `json:"hypothesisSegment4"`
	HypothesisSegment5 string     `json:"hypothesisSegment5"`
	LetterDraft        string     `json:"letterDraft"`
	RegeneratedCount   int        `json:"regeneratedCount"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// Segments returns the five hypothesis columns in slot order.
func (r *Run) Segments() HypothesisSegments {
	return HypothesisSegments{
		r.HypothesisSegment1,
		r.HypothesisSegment2,
		r.HypothesisSegment3,
		r.HypothesisSegment4,
		r.HypothesisSegment5,
	}
}

// RunListItem is the sidebar-history projection of a run.
type RunListItem struct {
	ID          uuid.UUID `json:"id"`
	InputURL    string    `json:"inputUrl"`
	CompanyName *string   `json:"companyName"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// RunInsert is the body of POST /api/runs.
type RunInsert struct {
	InputURL           string  `json:"inputUrl" validate:"required,url"`
	CompanyName        *string `json:"companyName"`
	SummaryBusiness    string  `json:"summaryBusiness" validate:"required"`
	Industry           *string `json:"industry"`
	EmployeeScale      *string `json:"employeeScale"`
	DecisionMakerName  *string `json:"decisionMakerName"`
	IRSummary          *string `json:"irSummary"`
	HypothesisSegment1 string  `json:"hypothesisSegment1" validate:"required"`
	HypothesisSegment2 string  `json:"hypothesisSegment2" validate:"required"`
	HypothesisSegment3 string  `json:"hypothesisSegment3" validate:"required"`
	HypothesisSegment4 string  `json:"hypothesisSegment4" validate:"required"`
	HypothesisSegment5 string  `json:"hypothesisSegment5" validate:"required"`
	LetterDraft        string  `json:"letterDraft" validate:"required"`
	RegeneratedCount   int     `json:"regeneratedCount"`
}

// RunPatch is the body of PATCH /api/runs/{id}. Only user-editable fields may
// be patched; nil means "leave unchanged".
type RunPatch struct {
	HypothesisSegment1 *string `json:"hypothesisSegment1"`
	HypothesisSegment2 *string `json:"hypothesisSegment2"`
	HypothesisSegment3 *string `json:"hypothesisSegment3"`
	HypothesisSegment4 *string `json:"hypothesisSegment4"`
	HypothesisSegment5 *string `json:"hypothesisSegment5"`
	LetterDraft        *string `json:"letterDraft"`
}

// Empty reports whether the patch carries no changes at all.
func (p *RunPatch) Empty() bool {
	return p.HypothesisSegment1 == nil &&
		p.HypothesisSegment2 == nil &&
		p.HypothesisSegment3 == nil &&
		p.HypothesisSegment4 == nil &&
		p.HypothesisSegment5 == nil &&
		p.LetterDraft == nil
}

// EditLog is one audit-trail row recording a field-level edit. Rows are only
// ever appended, never overwritten.
type EditLog struct {
	ID          uuid.UUID `json:"id"`
	RunID       uuid.UUID `json:"runId"`
	TargetField string    `json:"targetField"`
	Before      string    `json:"before"`
	After       string    `json:"after"`
	CreatedAt   time.Time `json:"createdAt"`
}

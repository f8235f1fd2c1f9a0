package types

// ExportRow is the payload for exporting one result to a spreadsheet. It
// mirrors the generated fields of a run with the input URL attached.
type ExportRow struct {
	CompanyName        *string            `json:"companyName"`
	InputURL           string             `json:"inputUrl" validate:"required,url"`
	Industry           *string            `json:"industry"`
	EmployeeScale      *string            `json:"employeeScale"`
	DecisionMakerName  *string            `json:"decisionMakerName"`
	IRSummary          *string            `json:"irSummary"`
	SummaryBusiness    string             `json:"summaryBusiness" validate:"required"`
	HypothesisSegments HypothesisSegments `json:"hypothesisSegments"`
	LetterDraft        string             `json:"letterDraft" validate:"required"`
}

// DocExportRequest is the payload for exporting a letter draft to a document.
type DocExportRequest struct {
	CompanyName *string `json:"companyName"`
	LetterDraft string  `json:"letterDraft" validate:"required"`
}

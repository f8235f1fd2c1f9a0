// Package export assembles result text and writes it to Google Docs and
// Sheets on the user's behalf.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/Kamon-Tahara-504/HypoFrame/internal/llm"
	"github.com/Kamon-Tahara-504/HypoFrame/internal/types"
)

// DefaultCompanyName substitutes for a missing company name in file names and
// spreadsheet rows.
const DefaultCompanyName = "不明"

// SheetHeaders is the header row written above an exported result row.
var SheetHeaders = []string{
	"会社名", "入力URL", "業種", "従業員規模", "決裁者名",
	"事業要約", "IR要約",
	"仮説1", "仮説2", "仮説3", "仮説4", "仮説5",
	"提案文下書き",
}

// BuildExportText assembles the summary, the five labeled hypothesis segments
// and the letter draft into one plain-text document. Industry and employee
// scale, when present, form a single header line.
func BuildExportText(summaryBusiness string, segments types.HypothesisSegments, letterDraft string, industry, employeeScale *string) string {
	var parts []string

	var header []string
	if v := deref(industry); v != "" {
		header = append(header, "業種: "+v)
	}
	if v := deref(employeeScale); v != "" {
		header = append(header, "従業員規模: "+v)
	}
	if len(header) > 0 {
		parts = append(parts, strings.Join(header, " / "), "")
	}

	parts = append(parts, "■ 事業要約", "", summaryBusiness, "", "■ 仮説", "")
	for i, label := range llm.SegmentLabels {
		parts = append(parts, label, "", segments[i], "")
	}
	parts = append(parts, "■ 提案文下書き", "", letterDraft)

	return strings.Join(parts, "\n")
}

// FileName builds the export file name 仮説_<会社名>_YYYYMMDD.txt, falling
// back to 不明 when the company name is absent.
func FileName(companyName *string, now time.Time) string {
	name := deref(companyName)
	if name == "" {
		name = DefaultCompanyName
	}
	return fmt.Sprintf("仮説_%s_%s.txt", name, now.Format("20060102"))
}

// SheetRow flattens an export payload into the 13 columns of SheetHeaders.
func SheetRow(row *types.ExportRow) []string {
	name := deref(row.CompanyName)
	if name == "" {
		name = DefaultCompanyName
	}
	return []string{
		name,
		row.InputURL,
		deref(row.Industry),
		deref(row.EmployeeScale),
		deref(row.DecisionMakerName),
		row.SummaryBusiness,
		deref(row.IRSummary),
		row.HypothesisSegments[0],
		row.HypothesisSegments[1],
		row.HypothesisSegments[2],
		row.HypothesisSegments[3],
		row.HypothesisSegments[4],
		row.LetterDraft,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

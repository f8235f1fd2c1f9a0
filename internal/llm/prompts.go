package llm

import (
	"fmt"
	"strings"

	"github.com/Kamon-Tahara-504/HypoFrame/internal/types"
)

// SegmentLabels are the fixed Japanese labels of the five hypothesis slots,
// in slot order. Shared with the export text builder.
var SegmentLabels = [5]string{
	"企業の現在状況整理",
	"潜在課題の仮説",
	"課題の背景要因",
	"改善機会（介入ポイント）",
	"提案仮説",
}

// commonInstructions applies to every stage: HP-only sourcing, no assertions.
const commonInstructions = "情報源は企業の公式HPのみです。断定を避け、推測であることを示す表現にしてください。"

// lineBreakAfterPeriod keeps the output readable in document exports.
const lineBreakAfterPeriod = "各文の終わりの「。」の直後に改行を入れてください。"

// summaryMessages builds the stage-1 prompt. The service must answer with a
// single JSON object; summaryBusiness is the only required field.
func summaryMessages(structuredText string, focus types.OutputFocus) []Message {
	focusHint := ""
	if focus == types.FocusSummary {
		focusHint = " ユーザーが事業要約を重点的に確認したいと指定しているため、やや詳しめに（3〜5文程度）まとめてください。"
	}
	return []Message{
		{
			Role:    "system",
			Content: "あなたは企業の事業内容を要約するアシスタントです。" + commonInstructions + focusHint,
		},
		{
			Role: "user",
			Content: `以下の企業HPから取得したテキストをもとに、次のJSON形式のみで出力してください。他に説明は付けないでください。
{"summaryBusiness": "事業要約（事実ベースで2〜4文程度）", "industry": "業種・事業内容（1行、不明ならnull）", "employeeScale": "従業員規模（不明ならnull）", "decisionMakerName": "代表者名（分かる範囲で1名、不明ならnull）", "irSummary": "IR資料のポイント（無ければnull）"}

---

` + structuredText,
		},
	}
}

// hypothesisMessages builds the stage-2 prompt. The service must answer with
// {"segments": [5 strings]} in fixed slot order.
func hypothesisMessages(summary string, focus types.OutputFocus) []Message {
	focusHint := ""
	if focus == types.FocusHypothesis {
		focusHint = " ユーザーが仮説5段を中心に編集したいと指定しているため、各段の論理の流れが明確になるよう、やや丁寧に書いてください。"
	}
	return []Message{
		{
			Role:    "system",
			Content: "あなたは営業仮説を構造化するアシスタントです。" + commonInstructions + " 各段は2〜4文程度で書いてください。" + focusHint,
		},
		{
			Role: "user",
			Content: fmt.Sprintf(`以下の事業要約をもとに、次の5段の仮説を順番に作成してください。各段のラベルと出力内容は以下に従います。

1. %s: 事業内容・主力製品・強み・直近の動き（HP要約ベース。事実ベースで簡潔に）
2. %s: 「〜のような課題が考えられる」と控えめに。根拠となる情報があれば1行で。
3. %s: 「背景には〜が考えられる」。推測であることを示す表現にする。
4. %s: 「〜のようなアプローチが有効かもしれない」。押し付けない表現。
5. %s: 自社の打ち手と結びつけた提案の方向性。仮説であることを明示する。

%s
出力は以下のJSON形式のみとし、他に説明は付けないでください。
{"segments": ["1段目の本文", "2段目の本文", "3段目の本文", "4段目の本文", "5段目の本文"]}

--- 事業要約 ---

%s`,
				SegmentLabels[0], SegmentLabels[1], SegmentLabels[2], SegmentLabels[3], SegmentLabels[4],
				lineBreakAfterPeriod, summary),
		},
	}
}

// letterMessages builds the stage-3 prompt. Free text, no parsing contract.
func letterMessages(summary string, segments types.HypothesisSegments, focus types.OutputFocus) []Message {
	var sb strings.Builder
	for i, s := range segments {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "%d. %s\n%s", i+1, SegmentLabels[i], s)
	}

	focusHint := ""
	if focus == types.FocusLetter {
		focusHint = " ユーザーが提案文の仕上げに集中したいと指定しているため、トーンと表現を整えやすいよう、やや丁寧に書いてください。"
	}
	return []Message{
		{
			Role:    "system",
			Content: "あなたは営業向けの提案文を下書きするアシスタントです。" + commonInstructions + " 出力は仮説に基づく下書きであることを明示してください。" + focusHint,
		},
		{
			Role: "user",
			Content: fmt.Sprintf(`以下の事業要約と仮説5段をもとに、受託営業向けの提案文を1本作成してください。仮説に基づく下書きであることを文中または文末で示し、断定を避けた表現にしてください。%s

--- 事業要約 ---

%s

--- 仮説5段 ---

%s`, lineBreakAfterPeriod, summary, sb.String()),
		},
	}
}

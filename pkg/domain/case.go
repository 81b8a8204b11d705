package domain

import "strings"

// CaseInput は解析対象となる事件資料のテキスト本文です。
// 取り込み（OCRや要約）は上流の責務であり、ここでは生成済みのテキストを不変値として扱います。
type CaseInput struct {
	text   string
	source string
}

// NewCaseInput は資料テキストと入力元ラベルから CaseInput を生成します。
func NewCaseInput(text, source string) CaseInput {
	return CaseInput{text: text, source: source}
}

// Text は資料本文を返します。
func (c CaseInput) Text() string { return c.text }

// Source は入力元（ファイルパスやURL等）のラベルを返します。
func (c CaseInput) Source() string { return c.source }

// IsEmpty は本文が空白のみかどうかを返します。
func (c CaseInput) IsEmpty() bool { return strings.TrimSpace(c.text) == "" }

// Hints は解析の重点を指示する任意パラメータです。
// すべて空でも解析は実行できます。
type Hints struct {
	EvidenceTypes []string `json:"evidence_types"`
	FocusAreas    []string `json:"focus_areas"`
	CustomPrompt  string   `json:"custom_prompt"`
}

// EvidenceFocus は証拠種別フィルタをプロンプト注入用の一文に整形するのだ。
func (h Hints) EvidenceFocus() string {
	if len(h.EvidenceTypes) == 0 {
		return ""
	}
	return " Focus on these evidence types: " + strings.Join(h.EvidenceTypes, ", ") + "."
}

// AreaFocus は注目領域フィルタをプロンプト注入用の一文に整形するのだ。
func (h Hints) AreaFocus() string {
	if len(h.FocusAreas) == 0 {
		return ""
	}
	return " Pay special attention to: " + strings.Join(h.FocusAreas, ", ") + "."
}

// CustomInstructions は自由記述の追加指示をプロンプト注入用に整形するのだ。
func (h Hints) CustomInstructions() string {
	if strings.TrimSpace(h.CustomPrompt) == "" {
		return ""
	}
	return " Additional instructions: " + h.CustomPrompt
}

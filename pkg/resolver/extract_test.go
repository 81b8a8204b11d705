package resolver

import (
	"testing"

	"github.com/shouni/go-caseviz-kit/pkg/domain"
	"github.com/shouni/go-caseviz-kit/pkg/stages"
)

const validForensicJSON = `{
	"case_summary": "Break-in at a suburban residence with a single victim.",
	"evidence_items": [
		{
			"type": "Physical",
			"description": "Broken window glass",
			"location": "Kitchen floor",
			"condition": "Fragmented",
			"relevance": "Point of entry",
			"chain_of_custody": "Collected by unit 12"
		}
	],
	"scene_layout": {
		"description": "Single story house, entry through kitchen",
		"dimensions": {"kitchen": "4m x 5m"},
		"key_elements": ["window", "door"],
		"camera_angles": ["overhead"],
		"lighting_conditions": "dim interior lighting",
		"environmental_factors": ["rain"]
	},
	"timeline": [],
	"characters": []
}`

func mustStage(t *testing.T, kind domain.StageKind) stages.Stage {
	t.Helper()
	stage, err := stages.ByKind(kind)
	if err != nil {
		t.Fatalf("ステージ定義の取得に失敗しました: %v", err)
	}
	return stage
}

func TestExtractStageResult(t *testing.T) {
	forensic := mustStage(t, domain.StageForensicAnalysis)

	t.Run("構造化済みオブジェクトが最優先されること", func(t *testing.T) {
		attached := &domain.ForensicAnalysis{CaseSummary: "already structured"}
		result := ExtractStageResult(forensic, attached, `{"case_summary": "ignored"}`)

		if !result.IsStructured() {
			t.Fatal("構造化結果になるべきです")
		}
		if got := result.Structured.(*domain.ForensicAnalysis).CaseSummary; got != "already structured" {
			t.Errorf("添付済みオブジェクトが優先されるべきですが、%q が返りました", got)
		}
	})

	t.Run("生テキストが有効なJSONなら検証とデコードを経て構造化されること", func(t *testing.T) {
		result := ExtractStageResult(forensic, nil, validForensicJSON)

		if !result.IsStructured() {
			t.Fatal("スキーマに適合するJSONは構造化されるべきです")
		}
		analysis, ok := result.Structured.(*domain.ForensicAnalysis)
		if !ok {
			t.Fatalf("成果物の型が不正です: %T", result.Structured)
		}
		if len(analysis.EvidenceItems) != 1 {
			t.Errorf("証拠品数の期待値 1, 実際の値 %d", len(analysis.EvidenceItems))
		}
		if result.RawText == "" {
			t.Error("構造化に成功しても原文は保持されるべきです")
		}
	})

	t.Run("Markdownコードフェンスが剥がされること", func(t *testing.T) {
		fenced := "```json\n" + validForensicJSON + "\n```"
		result := ExtractStageResult(forensic, nil, fenced)

		if !result.IsStructured() {
			t.Error("フェンス付きJSONも構造化されるべきです")
		}
	})

	t.Run("スキーマ違反のJSONは生テキストへフォールバックすること", func(t *testing.T) {
		invalid := `{"case_summary": "missing required fields"}`
		result := ExtractStageResult(forensic, nil, invalid)

		if result.IsStructured() {
			t.Error("必須フィールド欠落のJSONが構造化されてしまいました")
		}
		if result.RawText != invalid {
			t.Error("フォールバック時は原文がそのまま保持されるべきです")
		}
	})

	t.Run("JSONですらないテキストは劣化結果として保持されること", func(t *testing.T) {
		prose := "The analysis could not be completed in structured form."
		result := ExtractStageResult(forensic, nil, prose)

		if result.IsStructured() {
			t.Error("プレーンテキストが構造化扱いになりました")
		}
		if result.Stage != domain.StageForensicAnalysis {
			t.Errorf("ステージ識別子が失われました: %s", result.Stage)
		}
		if result.RawText != prose {
			t.Error("原文が保持されていません")
		}
	})
}

func TestCleanJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"jsonフェンス付き", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"言語指定なしフェンス", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"フェンスなし", `  {"a":1}  `, `{"a":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CleanJSON(tc.in); got != tc.want {
				t.Errorf("期待値 %q, 実際の値 %q", tc.want, got)
			}
		})
	}
}

package domain

import (
	"encoding/json"
	"testing"
)

func TestGenerationPlan_JSON(t *testing.T) {
	// 1. 正常系：AIが返す形の計画JSONからドメインモデルが生成されること
	jsonInput := []byte(`{
		"total_images": 2,
		"narrative_flow": "From the entry point to the evidence close-up.",
		"visual_consistency": {"style": "forensic illustration"},
		"image_specifications": [
			{
				"image_number": 1,
				"title": "Entry Hall Overview",
				"angle_description": "wide angle from the doorway",
				"focus_elements": ["footprints", "broken lock"],
				"generation_prompt": "Wide shot of the entry hall",
				"purpose": "establish the scene",
				"lighting_notes": "dim interior lighting",
				"evidence_highlighted": ["footprints"],
				"scene_context": "night of the incident"
			},
			{
				"image_number": 2,
				"title": "Evidence Close-up",
				"generation_prompt": "Close-up of the broken lock"
			}
		],
		"technical_requirements": {"resolution": "high"}
	}`)

	var plan GenerationPlan
	if err := json.Unmarshal(jsonInput, &plan); err != nil {
		t.Fatalf("正常なJSONでエラーが発生しました: %v", err)
	}

	if plan.TotalImages != 2 {
		t.Errorf("期待値 2, 実際の値 %d", plan.TotalImages)
	}
	if plan.SpecCount() != 2 {
		t.Errorf("SpecCount の期待値 2, 実際の値 %d", plan.SpecCount())
	}
	if plan.ImageSpecifications[0].Title != "Entry Hall Overview" {
		t.Errorf("タイトルが読み込めていません: %s", plan.ImageSpecifications[0].Title)
	}
	if len(plan.ImageSpecifications[0].FocusElements) != 2 {
		t.Error("focus_elements が読み込めていません")
	}

	// 2. 部分的なJSONでも省略フィールドはゼロ値で埋まること
	if plan.ImageSpecifications[1].LightingNotes != "" {
		t.Error("省略フィールドがゼロ値になっていません")
	}
}

func TestGenerationPlan_SpecCount(t *testing.T) {
	t.Run("nilレシーバでも安全に0を返すこと", func(t *testing.T) {
		var plan *GenerationPlan
		if got := plan.SpecCount(); got != 0 {
			t.Errorf("期待値 0, 実際の値 %d", got)
		}
	})
}

func TestHints(t *testing.T) {
	t.Run("全指定時はそれぞれの追記文が組み立てられること", func(t *testing.T) {
		h := Hints{
			EvidenceTypes: []string{"Physical", "Digital"},
			FocusAreas:    []string{"timeline"},
			CustomPrompt:  "Keep a neutral tone.",
		}
		if h.EvidenceFocus() != " Focus on these evidence types: Physical, Digital." {
			t.Errorf("EvidenceFocus が不正です: %q", h.EvidenceFocus())
		}
		if h.AreaFocus() != " Pay special attention to: timeline." {
			t.Errorf("AreaFocus が不正です: %q", h.AreaFocus())
		}
		if h.CustomInstructions() != " Additional instructions: Keep a neutral tone." {
			t.Errorf("CustomInstructions が不正です: %q", h.CustomInstructions())
		}
	})

	t.Run("未指定時は空文字が返ること", func(t *testing.T) {
		var h Hints
		if h.EvidenceFocus() != "" || h.AreaFocus() != "" || h.CustomInstructions() != "" {
			t.Error("空のヒントから追記文が生成されました")
		}
	})
}

func TestAnalysisReport_FinalArtifact(t *testing.T) {
	t.Run("成功レポートからは最終ステージ成果物が取り出せること", func(t *testing.T) {
		report := AnalysisReport{
			Success: true,
			Artifacts: []StageResult{
				NewRawTextResult(StageForensicAnalysis, "a"),
				NewRawTextResult(StageVisualDirection, "b"),
			},
		}
		final, ok := report.FinalArtifact()
		if !ok {
			t.Fatal("最終成果物が取得できるべきです")
		}
		if final.Stage != StageVisualDirection {
			t.Errorf("最終ステージの期待値 %s, 実際の値 %s", StageVisualDirection, final.Stage)
		}
	})

	t.Run("失敗レポートからは取り出せないこと", func(t *testing.T) {
		report := AnalysisReport{Success: false}
		if _, ok := report.FinalArtifact(); ok {
			t.Error("失敗レポートから成果物が取得できてしまいました")
		}
	})
}

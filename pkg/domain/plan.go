package domain

// ImageSpec は生成すべき1枚の画像に対する指示書です。
// ImageNumber は 1 始まりの連番が期待されますが、乱れていても
// 生成側は順序インデックスへフォールバックして処理を続けます。
type ImageSpec struct {
	ImageNumber         int      `json:"image_number"`
	Title               string   `json:"title"`
	AngleDescription    string   `json:"angle_description"`
	FocusElements       []string `json:"focus_elements"`
	GenerationPrompt    string   `json:"generation_prompt"`
	Purpose             string   `json:"purpose"`
	LightingNotes       string   `json:"lighting_notes,omitempty"`
	EvidenceHighlighted []string `json:"evidence_highlighted,omitempty"`
	SceneContext        string   `json:"scene_context,omitempty"`
}

// GenerationPlan は最終ステージ（ビジュアル・ディレクション）が出力する画像生成計画です。
// ImageSpecifications の並び順がそのまま提示順になります。
// TotalImages が実際の件数と食い違っていても件数側を正とし、診断ログに留めます。
type GenerationPlan struct {
	TotalImages           int            `json:"total_images"`
	NarrativeFlow         string         `json:"narrative_flow"`
	VisualConsistency     map[string]any `json:"visual_consistency,omitempty"`
	ImageSpecifications   []ImageSpec    `json:"image_specifications"`
	TechnicalRequirements map[string]any `json:"technical_requirements,omitempty"`
}

// SpecCount は計画に含まれる画像指示の実数を返します。こちらが常に正なのだ。
func (p *GenerationPlan) SpecCount() int {
	if p == nil {
		return 0
	}
	return len(p.ImageSpecifications)
}

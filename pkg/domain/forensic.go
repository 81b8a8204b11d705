package domain

// EvidenceItem は現場から採取・記録された個々の証拠品です。
type EvidenceItem struct {
	Type           string            `json:"type"`
	Description    string            `json:"description"`
	Location       string            `json:"location"`
	Measurements   map[string]string `json:"measurements,omitempty"`
	Condition      string            `json:"condition"`
	Relevance      string            `json:"relevance"`
	ChainOfCustody string            `json:"chain_of_custody"`
}

// SceneLayout は現場の空間構成と撮影条件を保持します。
type SceneLayout struct {
	Description          string            `json:"description"`
	Dimensions           map[string]string `json:"dimensions"`
	KeyElements          []string          `json:"key_elements"`
	CameraAngles         []string          `json:"camera_angles"`
	LightingConditions   string            `json:"lighting_conditions"`
	EnvironmentalFactors []string          `json:"environmental_factors"`
}

// CharacterProfile は事件関係者の視覚的一貫性を保つためのプロファイルです。
type CharacterProfile struct {
	Name                string   `json:"name"`
	Role                string   `json:"role"`
	PhysicalDescription string   `json:"physical_description,omitempty"`
	Clothing            string   `json:"clothing,omitempty"`
	Positioning         string   `json:"positioning,omitempty"`
	Actions             []string `json:"actions"`
}

// TimelineEvent は時系列上の1イベントです。
type TimelineEvent struct {
	Timestamp       string   `json:"timestamp"`
	Description     string   `json:"description"`
	Participants    []string `json:"participants"`
	Location        string   `json:"location"`
	EvidenceCreated []string `json:"evidence_created"`
}

// ForensicAnalysis は第1ステージ（法医学的解析）の成果物です。
type ForensicAnalysis struct {
	CaseSummary             string             `json:"case_summary"`
	EvidenceItems           []EvidenceItem     `json:"evidence_items"`
	SceneLayout             *SceneLayout       `json:"scene_layout"`
	Timeline                []TimelineEvent    `json:"timeline"`
	Characters              []CharacterProfile `json:"characters"`
	VisualRequirements      map[string]string  `json:"visual_requirements,omitempty"`
	LegalNotes              []string           `json:"legal_notes,omitempty"`
	TechnicalSpecifications map[string]any     `json:"technical_specifications,omitempty"`
	Recommendations         []string           `json:"recommendations,omitempty"`
}

// SceneReconstruction は第2ステージ（現場再構成）の成果物です。
type SceneReconstruction struct {
	SpatialAnalysis         map[string]any  `json:"spatial_analysis"`
	Timeline                []TimelineEvent `json:"timeline"`
	VisualRequirements      []string        `json:"visual_requirements"`
	TechnicalSpecifications map[string]any  `json:"technical_specifications,omitempty"`
	EnvironmentalFactors    []string        `json:"environmental_factors"`
}

// CharacterConsistency は第3ステージ（人物・物品の一貫性解析）の成果物です。
type CharacterConsistency struct {
	CharacterProfiles    []CharacterProfile  `json:"character_profiles"`
	ObjectSpecifications []map[string]string `json:"object_specifications,omitempty"`
	VisualConsistency    map[string]any      `json:"visual_consistency,omitempty"`
	LegalAccuracy        map[string]any      `json:"legal_accuracy,omitempty"`
}

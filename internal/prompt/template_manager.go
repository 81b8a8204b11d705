package prompt

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/shouni/go-caseviz-kit/pkg/domain"
)

var (
	//go:embed forensic.md
	forensicPrompt string
	//go:embed scene.md
	scenePrompt string
	//go:embed character.md
	characterPrompt string
	//go:embed visual.md
	visualPrompt string
)

// stageTemplates はステージとテンプレート文字列を紐づけるマップなのだ。
var stageTemplates = map[domain.StageKind]string{
	domain.StageForensicAnalysis:     forensicPrompt,
	domain.StageSceneReconstruction:  scenePrompt,
	domain.StageCharacterConsistency: characterPrompt,
	domain.StageVisualDirection:      visualPrompt,
}

// TemplateData は各ステージのプロンプトテンプレートに渡すデータ構造です。
type TemplateData struct {
	CaseText           string // 事件資料の本文
	Context            string // 前段ステージ成果物の連結（第1ステージでは空）
	EvidenceFocus      string // 証拠タイプ指定から組み立てた追記文
	AreaFocus          string // 重点領域指定から組み立てた追記文
	CustomInstructions string // 利用者の自由指示から組み立てた追記文
}

// Builder はステージごとのプロンプト構成を管理します。
type Builder struct {
	templates map[domain.StageKind]*template.Template
}

// NewBuilder は全ステージのテンプレートを解析して Builder を初期化します。
func NewBuilder() (*Builder, error) {
	parsed := make(map[domain.StageKind]*template.Template)
	for stage, content := range stageTemplates {
		if content == "" {
			return nil, fmt.Errorf("プロンプトテンプレート '%s' (go:embed) の読み込みに失敗しました: 内容が空です", stage)
		}

		tmpl, err := template.New(string(stage)).Parse(content)
		if err != nil {
			return nil, fmt.Errorf("プロンプト '%s' の解析に失敗: %w", stage, err)
		}
		parsed[stage] = tmpl
	}

	return &Builder{templates: parsed}, nil
}

// Build は、指定されたステージに対応するプロンプトを構築します。
func (b *Builder) Build(stage domain.StageKind, data TemplateData) (string, error) {
	tmpl, ok := b.templates[stage]
	if !ok {
		return "", fmt.Errorf("不明なステージです: '%s'", stage)
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("プロンプトテンプレートの実行に失敗しました: %w", err)
	}

	return sb.String(), nil
}

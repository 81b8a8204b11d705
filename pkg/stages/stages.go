package stages

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shouni/go-caseviz-kit/pkg/domain"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Stage は解析パイプラインの1ステージ定義です。
// JSONスキーマによる検証と、型付き成果物へのデコードをこの単位で抱えます。
type Stage struct {
	Kind   domain.StageKind
	Title  string
	schema string
	decode func([]byte) (any, error)
}

// All は固定実行順のステージ定義一覧を返すのだ。
// 後段のプロンプトは前段までの成果物を文脈として受け取るため、順序の入れ替えは禁止なのだ。
func All() [4]Stage {
	return [4]Stage{
		{
			Kind:   domain.StageForensicAnalysis,
			Title:  "Forensic Analysis",
			schema: mustSchema("forensic_analysis"),
			decode: decodeInto[domain.ForensicAnalysis],
		},
		{
			Kind:   domain.StageSceneReconstruction,
			Title:  "Scene Reconstruction",
			schema: mustSchema("scene_reconstruction"),
			decode: decodeInto[domain.SceneReconstruction],
		},
		{
			Kind:   domain.StageCharacterConsistency,
			Title:  "Character Consistency",
			schema: mustSchema("character_consistency"),
			decode: decodeInto[domain.CharacterConsistency],
		},
		{
			Kind:   domain.StageVisualDirection,
			Title:  "Visual Direction",
			schema: mustSchema("visual_direction"),
			decode: decodeInto[domain.GenerationPlan],
		},
	}
}

// ByKind は指定ステージの定義を返します。
func ByKind(kind domain.StageKind) (Stage, error) {
	for _, s := range All() {
		if s.Kind == kind {
			return s, nil
		}
	}
	return Stage{}, fmt.Errorf("unknown stage %q", kind)
}

// Validate はJSONバイト列をステージのスキーマで検証します。
// 不一致は通常エラーとして返り、呼び出し側（Result Extractor）が生テキストへフォールバックします。
func (s Stage) Validate(raw []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(s.schema),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return fmt.Errorf("schema validation for %s: %w", s.Kind, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return fmt.Errorf("schema violation for %s: %s", s.Kind, strings.Join(msgs, "; "))
	}
	return nil
}

// Decode はスキーマ検証済みのJSONを型付き成果物へ変換します。
func (s Stage) Decode(raw []byte) (any, error) {
	artifact, err := s.decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s artifact: %w", s.Kind, err)
	}
	return artifact, nil
}

func decodeInto[T any](raw []byte) (any, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func mustSchema(name string) string {
	data, err := schemaFS.ReadFile("schemas/" + name + ".json")
	if err != nil {
		// embed対象の欠落はビルド構成の誤りなので即時に落とすのだ
		panic(fmt.Sprintf("embedded schema %s missing: %v", name, err))
	}
	return string(data)
}

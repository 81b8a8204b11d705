package resolver

import (
	"encoding/json"
	"log/slog"

	"github.com/shouni/go-caseviz-kit/pkg/domain"
)

// Branch は Plan Resolver のどの探索分岐で計画が見つかったかを示します。
// 観測用の診断情報であり、制御フローには使いません。
type Branch string

const (
	BranchDirect     Branch = "direct"              // 型付き成果物が計画そのもの
	BranchPlanKey    Branch = "plan_key"            // マップ内の既知キー image_generation_plan
	BranchStructured Branch = "structured_analysis" // ネストした構造化サブオブジェクト
	BranchRawResult  Branch = "raw_result"          // raw/structured ペアの構造化側
	BranchText       Branch = "text"                // プレーンテキストのJSONデコード
	BranchNone       Branch = ""
)

// マップ形状の探索で使う既知キーなのだ
const (
	keyPlan           = "image_generation_plan"
	keyStructured     = "structured_analysis"
	keyRawResult      = "raw_result"
	keyPairStructured = "structured"
	keySpecs          = "image_specifications"
)

// ResolvePlan は最終ステージの成果物（またはその入れ物）から画像生成計画を特定します。
// 5つの分岐を厳密な順序で試し、前の分岐が何も返さなかった場合のみ次へ進みます。
// すべて失敗した場合は ErrNoPlanFound を包んだ PlanResolutionFailure を返し、
// 呼び出し側が計画を推測することは許されません。
func ResolvePlan(value any) (*domain.GenerationPlan, Branch, error) {
	plan, branch := locate(value)
	if plan == nil {
		return nil, BranchNone, &domain.PlanResolutionFailure{Err: domain.ErrNoPlanFound}
	}
	if plan.SpecCount() == 0 {
		// 空の計画は部分的にも受け入れられない。画像フェーズの終端失敗なのだ。
		return nil, branch, &domain.PlanResolutionFailure{Err: domain.ErrEmptyPlan}
	}
	if plan.TotalImages != plan.SpecCount() {
		// 宣言数の不一致は非致命の診断に留め、実件数を正とする
		slog.Warn("計画の宣言画像数が実件数と一致しません。実件数を採用します",
			"declared", plan.TotalImages, "actual", plan.SpecCount())
	}
	slog.Info("画像生成計画を特定しました", "branch", branch, "images", plan.SpecCount())
	return plan, branch, nil
}

func locate(value any) (*domain.GenerationPlan, Branch) {
	switch v := value.(type) {
	case nil:
		return nil, BranchNone

	case *domain.GenerationPlan:
		if v == nil {
			return nil, BranchNone
		}
		return v, BranchDirect

	case domain.GenerationPlan:
		copied := v
		return &copied, BranchDirect

	case domain.StageResult:
		return locateFromStageResult(v)

	case *domain.StageResult:
		if v == nil {
			return nil, BranchNone
		}
		return locateFromStageResult(*v)

	case map[string]any:
		return locateFromMap(v)

	case string:
		return locateFromText(v)
	}
	return nil, BranchNone
}

// locateFromStageResult は正規化済みのステージ結果を入れ物として解きます。
func locateFromStageResult(r domain.StageResult) (*domain.GenerationPlan, Branch) {
	if r.IsStructured() {
		return locate(r.Structured)
	}
	return locate(r.RawText)
}

func locateFromMap(m map[string]any) (*domain.GenerationPlan, Branch) {
	// マップ自身が計画の形（image_specifications を直接持つ）をしている場合
	if _, ok := m[keySpecs]; ok {
		if plan := coercePlan(m); plan != nil {
			return plan, BranchDirect
		}
	}

	// 既知キーに計画が格納されている場合
	if value, ok := m[keyPlan]; ok {
		if plan := coercePlan(value); plan != nil {
			return plan, BranchPlanKey
		}
	}

	// ネストした構造化サブオブジェクトを持つ場合
	if value, ok := m[keyStructured]; ok {
		if plan, _ := locate(value); plan != nil {
			return plan, BranchStructured
		}
	}

	// raw/structured ペアの構造化側を持つ場合
	if value, ok := m[keyRawResult]; ok {
		if pair, ok := value.(map[string]any); ok {
			if structured, ok := pair[keyPairStructured]; ok {
				if plan, _ := locate(structured); plan != nil {
					return plan, BranchRawResult
				}
			}
		}
	}

	return nil, BranchNone
}

func locateFromText(raw string) (*domain.GenerationPlan, Branch) {
	cleaned := CleanJSON(raw)
	if !looksLikeObject(cleaned) {
		return nil, BranchNone
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(cleaned), &m); err != nil {
		return nil, BranchNone
	}
	if plan, _ := locateFromMap(m); plan != nil {
		return plan, BranchText
	}
	return nil, BranchNone
}

// coercePlan は任意の値をJSON経由で GenerationPlan へ詰め替えます。
// マップ・構造体どちらの形で来ても同じ経路で正規化できるのだ。
func coercePlan(value any) *domain.GenerationPlan {
	switch v := value.(type) {
	case *domain.GenerationPlan:
		return v
	case domain.GenerationPlan:
		copied := v
		return &copied
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil
	}
	var plan domain.GenerationPlan
	if err := json.Unmarshal(raw, &plan); err != nil {
		return nil
	}
	if len(plan.ImageSpecifications) == 0 && plan.NarrativeFlow == "" && plan.TotalImages == 0 {
		// 何も詰まらなかったものは計画と見なさない
		return nil
	}
	return &plan
}

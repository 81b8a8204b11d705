package domain

// StageKind は解析パイプラインの各ステージを識別します。
type StageKind string

// ステージは必ずこの順で実行されます。後段は前段の成果物を読み取るだけで、変更はしません。
const (
	StageForensicAnalysis     StageKind = "forensic_analysis"
	StageSceneReconstruction  StageKind = "scene_reconstruction"
	StageCharacterConsistency StageKind = "character_consistency"
	StageVisualDirection      StageKind = "visual_direction"
)

// StageOrder は全ステージの固定実行順です。
var StageOrder = [4]StageKind{
	StageForensicAnalysis,
	StageSceneReconstruction,
	StageCharacterConsistency,
	StageVisualDirection,
}

// StageResult はステージ出力の正規化済み表現です。
// 構造化に成功した場合は Structured に型付き成果物が入り、
// 失敗した場合でも RawText に原文が必ず残ります（出力を捨てない）。
// 生成は Result Extractor のみが行い、下流はこの型だけを受け取ります。
type StageResult struct {
	Stage      StageKind
	Structured any
	RawText    string
}

// NewStructuredResult は構造化成果物を持つ StageResult を生成します。
func NewStructuredResult(stage StageKind, artifact any, raw string) StageResult {
	return StageResult{Stage: stage, Structured: artifact, RawText: raw}
}

// NewRawTextResult はテキストのみの（劣化したが有効な）StageResult を生成します。
func NewRawTextResult(stage StageKind, raw string) StageResult {
	return StageResult{Stage: stage, RawText: raw}
}

// IsStructured は構造化成果物を保持しているかを返します。
func (r StageResult) IsStructured() bool { return r.Structured != nil }

// AnalysisReport は解析パイプライン全体の結果です。
// Success が true のとき Artifacts はステージ順に必ず4件です。
// false のときは Artifacts は公開されず、Diagnostics のみが参考情報として残ります。
type AnalysisReport struct {
	Success     bool
	Artifacts   []StageResult
	Timestamp   string
	Diagnostics []string
}

// FinalArtifact は最終ステージの成果物を返します。未完了の場合は第2戻り値が false です。
func (r AnalysisReport) FinalArtifact() (StageResult, bool) {
	if !r.Success || len(r.Artifacts) == 0 {
		return StageResult{}, false
	}
	return r.Artifacts[len(r.Artifacts)-1], true
}

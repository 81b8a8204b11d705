package config

import (
	"time"

	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義なのだ
const (
	DefaultModel       = "gemini-2.5-flash"
	DefaultImageModel  = "gemini-2.5-flash-image-preview"
	DefaultHTTPTimeout = 30 * time.Second

	// 画像生成リトライまわりの規定値なのだ
	DefaultMaxAttempts = 3               // 1枚あたりの最大試行回数
	DefaultRetryDelay  = 2 * time.Second // 失敗した試行の間に挟む待機時間
	DefaultRateLimit   = 10 * time.Second

	// 解析結果の検証ゲート用の閾値なのだ
	DefaultMinAnalysisLength = 100

	DefaultLocalPlanFile    = "output/generation_plan.json" // 解析フェーズの成果物（計画JSON）の保存先
	DefaultLocalReportFile  = "output/case_report.md"       // 最終レポートの保存先
	DefaultLocalImageDir    = "output/scenes"               // 生成された画像の保存先
	DefaultAnalysisDumpFile = "output/analysis_result.json" // 計画を特定できなかったときの解析成果の退避先
	DefaultErrorLogName     = "caseviz_errors.log"
)

// Config はアプリケーション全体の環境設定（APIキーやクラウド設定）を保持する構造体なのだ。
type Config struct {
	ProjectID        string
	LocationID       string
	GeminiAPIKey     string
	GeminiModel      string
	GeminiImageModel string

	Options RunOptions
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
func LoadConfig() *Config {
	cfg := &Config{
		ProjectID:        envutil.GetEnv("PROJECT_ID", ""),
		LocationID:       envutil.GetEnv("REGION", ""),
		GeminiAPIKey:     envutil.GetEnv("GEMINI_API_KEY", ""),
		GeminiModel:      envutil.GetEnv("GEMINI_MODEL", DefaultModel),
		GeminiImageModel: envutil.GetEnv("IMAGE_GEMINI_MODEL", DefaultImageModel),
	}
	return cfg
}

// RunOptions は CLI フラグから渡される実行時のパラメータなのだ。
type RunOptions struct {
	// ソース入力関連
	CaseURL  string // --case-url
	CaseFile string // --case-file

	// 出力関連
	PlanFile   string // --plan-file
	ReportFile string // --report-file
	ImageDir   string // --image-dir

	// AI挙動設定
	AIModel     string        // --model
	ImageModel  string        // --image-model
	HTTPTimeout time.Duration // --http-timeout

	// 解析のフォーカス指定（原文のまま各ステージのプロンプトへ渡される）
	EvidenceTypes []string // --evidence-types
	FocusAreas    []string // --focus-areas
	CustomPrompt  string   // --custom-prompt
}

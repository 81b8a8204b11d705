package cmd

import (
	"fmt"
	"os"

	"github.com/shouni/go-caseviz-kit/internal/config"

	clibase "github.com/shouni/go-cli-base"
	"github.com/spf13/cobra"
)

// opts は全サブコマンドで共有される実行時オプションなのだ。
var opts config.RunOptions

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	// --- ソース入力関連 ---
	rootCmd.PersistentFlags().StringVarP(&opts.CaseURL, "case-url", "u", "", "Webページから事件資料を取得するためのURLなのだ。")
	rootCmd.PersistentFlags().StringVarP(&opts.CaseFile, "case-file", "f", "", "事件資料ファイルのパス（ローカル or gs://...）なのだ。")

	// --- 生成結果の出力設定 ---
	rootCmd.PersistentFlags().StringVar(&opts.PlanFile, "plan-file", config.DefaultLocalPlanFile, "画像生成計画JSONの保存パス（ローカル or gs://...）なのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.ReportFile, "report-file", config.DefaultLocalReportFile, "事件レポートの保存パス（ローカル or gs://...）なのだ。")
	rootCmd.PersistentFlags().StringVarP(&opts.ImageDir, "image-dir", "i", config.DefaultLocalImageDir, "生成された画像を保存するディレクトリ（ローカル or gs://...）なのだ。")

	// --- AIモデル・挙動設定 ---
	rootCmd.PersistentFlags().StringVar(&opts.AIModel, "model", config.DefaultModel, "解析に使用する Gemini モデル名なのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.ImageModel, "image-model", config.DefaultImageModel, "画像生成に使用する Gemini モデル名なのだ。")
	rootCmd.PersistentFlags().DurationVar(&opts.HTTPTimeout, "http-timeout", config.DefaultHTTPTimeout, "Webリクエストのタイムアウトなのだ。")

	// --- 解析フォーカス指定 ---
	rootCmd.PersistentFlags().StringSliceVar(&opts.EvidenceTypes, "evidence-types", nil, "重点的に解析する証拠タイプ（カンマ区切り）なのだ。")
	rootCmd.PersistentFlags().StringSliceVar(&opts.FocusAreas, "focus-areas", nil, "重点的に解析する領域（カンマ区切り）なのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.CustomPrompt, "custom-prompt", "", "解析に追加する自由記述の指示なのだ。")
}

// preRunAppE は、コマンド実行前に環境変数などの必須チェックを行うのだ。
func preRunAppE(cmd *cobra.Command, args []string) error {
	// Gemini APIを利用するため、APIキーの存在チェックは欠かせないのだ！
	if os.Getenv("GEMINI_API_KEY") == "" {
		return fmt.Errorf("エラー: 環境変数 GEMINI_API_KEY が設定されていません。Gemini APIの利用には必須なのだ")
	}

	return nil
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	clibase.Execute(
		"caseviz",
		addAppFlags,
		preRunAppE,
		visualizeCmd,
		analyzeCmd,
		imageCmd,
	)
}

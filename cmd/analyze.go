package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-caseviz-kit/internal/config"
	"github.com/shouni/go-caseviz-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// analyzeCmd は、解析（計画JSON出力）のみを実行するのだ。
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "事件資料の解析と計画JSONの保存のみを行うのだ。",
	Long: `事件資料を4段階（法医学解析、現場再構成、人物一貫性、映像設計）で解析し、
画像生成計画をJSON形式で出力するのだ。画像生成は行わないのだよ。`,
	RunE: analyzeCommand,
}

func analyzeCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// 1. 入力ソースの必須チェック (opts は addAppFlags で紐付け済みと想定)
	if opts.CaseURL == "" && opts.CaseFile == "" {
		return fmt.Errorf("事件資料（--case-url または --case-file）を指定してほしいのだ")
	}

	// 2. 設定のロード
	cfg := config.LoadConfig()
	cfg.Options = opts
	cfg.GeminiModel = opts.AIModel

	slog.Info("解析モードを起動するのだ！",
		"text_model", cfg.GeminiModel,
		"plan", cfg.Options.PlanFile)

	// 3. 実行
	if err := pipeline.ExecuteAnalyzeOnly(ctx, cfg); err != nil {
		return fmt.Errorf("解析中にエラーが発生したのだ: %w", err)
	}

	slog.Info("計画（JSON）の生成が完了したのだ！", "plan_file", opts.PlanFile)
	return nil
}

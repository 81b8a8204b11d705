package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-caseviz-kit/internal/config"
	"github.com/shouni/go-caseviz-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// visualizeCmd は、事件資料の解析からシーン画像の生成・レポート保存までを一気に実行するのだ。
var visualizeCmd = &cobra.Command{
	Use:   "visualize",
	Short: "事件資料を解析してシーン画像一式を生成するのだ。",
	Long: `事件資料を4段階で解析し、画像生成計画を組み立て、法廷提示用のシーン画像と
事件レポートを出力するのだ。途中成果の計画JSONも保存されるのだよ。`,
	RunE: visualizeCommand,
}

func visualizeCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// 1. 必須チェック
	if opts.CaseURL == "" && opts.CaseFile == "" {
		return fmt.Errorf("事件資料（--case-url または --case-file）を指定してほしいのだ")
	}

	// 2. 環境変数等から基本設定をロードするのだ
	cfg := config.LoadConfig()
	cfg.GeminiModel = opts.AIModel
	cfg.GeminiImageModel = opts.ImageModel
	cfg.Options = opts

	slog.Info("事件ビジュアライズパイプラインを起動するのだ！",
		"text_model", cfg.GeminiModel,
		"image_model", cfg.GeminiImageModel,
		"report", opts.ReportFile,
		"image_dir", opts.ImageDir)

	// 3. 更新した config を考慮しつつパイプラインを実行するのだ
	if err := pipeline.Execute(ctx, cfg); err != nil {
		return fmt.Errorf("パイプライン実行中にエラーが発生したのだ: %w", err)
	}

	slog.Info("すべての生成工程が完了したのだ！")
	return nil
}

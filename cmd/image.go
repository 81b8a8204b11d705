package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-caseviz-kit/internal/config"
	"github.com/shouni/go-caseviz-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// imageCmd は、既存の計画JSONファイルを読み込んで画像生成フェーズを実行するためのサブコマンドなのだ。
// 解析をスキップして、画像生成（Phase 2）とレポート保存（Phase 3）のみを行うのだ。
var imageCmd = &cobra.Command{
	Use:   "image",
	Short: "計画JSONからシーン画像を生成して保存するのだ。",
	Long: `すでに生成・修正済みの画像生成計画JSONを読み込み、シーン画像の生成と保存を実行するのだ。
テキスト解析のコストを抑えつつ、画像の再生成や調整を行いたい場合に便利なのだ。`,
	RunE: imageCommand,
}

// imageCommand は、image サブコマンドの実行ロジック本体なのだ。
// 設定のバリデーションを行い、pipeline.ExecuteImageOnly を呼び出して一連の処理をキックするのだ。
func imageCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// 必須となる入力ファイルの存在チェック
	if opts.PlanFile == "" {
		return fmt.Errorf("読み込む計画JSON（--plan-file）を指定してほしいのだ")
	}

	// 1. 環境変数から基本設定をロード
	cfg := config.LoadConfig()

	// 2. コマンドライン引数の値を反映
	cfg.Options = opts
	cfg.GeminiImageModel = opts.ImageModel

	slog.Info("画像生成モードを起動するのだ！",
		"input_json", cfg.Options.PlanFile,
		"image_dir", cfg.Options.ImageDir,
		"image_model", cfg.GeminiImageModel)

	// 3. パイプライン実行
	return pipeline.ExecuteImageOnly(ctx, cfg)
}

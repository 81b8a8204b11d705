package runner

import (
	"context"
	"log/slog"

	"github.com/shouni/go-caseviz-kit/pkg/domain"
	"github.com/shouni/go-caseviz-kit/pkg/generator"
)

// SceneImageRunner は、画像生成計画をオーケストレーターへ引き渡す薄いランナーなのだ。
type SceneImageRunner struct {
	orchestrator *generator.Orchestrator
}

// NewSceneImageRunner は、SceneImageRunnerの新しいインスタンスを生成して返すのだ。
func NewSceneImageRunner(orchestrator *generator.Orchestrator) *SceneImageRunner {
	return &SceneImageRunner{orchestrator: orchestrator}
}

// Run は計画の全画像を生成し、集計結果を返すのだ。
func (ir *SceneImageRunner) Run(ctx context.Context, plan *domain.GenerationPlan) (domain.GenerationResult, error) {
	return ir.orchestrator.Run(ctx, plan)
}

// LogObserver は進捗イベントを構造化ログへ流す標準の購読者です。
// CLI実行ではこれが唯一のUIになります。
type LogObserver struct{}

// Notify は進捗イベントをログ出力します。
func (LogObserver) Notify(event generator.ProgressEvent) {
	if event.Attempt > 0 {
		slog.Debug("生成試行",
			"image", event.ImageNumber,
			"attempt", event.Attempt,
			"strategy", event.Strategy,
			"success", event.Success,
		)
		return
	}
	slog.Info("画像処理が完了しました",
		"image", event.ImageNumber,
		"progress", event.Processed,
		"total", event.Total,
		"success", event.Success,
	)
}

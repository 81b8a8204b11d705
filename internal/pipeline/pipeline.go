package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/shouni/go-caseviz-kit/internal/builder"
	"github.com/shouni/go-caseviz-kit/internal/config"
	"github.com/shouni/go-caseviz-kit/internal/runlog"
	"github.com/shouni/go-caseviz-kit/pkg/domain"
	"github.com/shouni/go-caseviz-kit/pkg/publisher"
	"github.com/shouni/go-caseviz-kit/pkg/resolver"

	"github.com/shouni/go-http-kit/httpkit"
	gcsfactory "github.com/shouni/go-remote-io/remoteio/gcs"
	"github.com/shouni/go-remote-io/remoteio"
)

// Execute は解析から画像生成、レポート保存までの全フェーズを一気に実行するのだ。
func Execute(ctx context.Context, cfg *config.Config) error {
	appCtx, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	// --- Phase 1: Analysis Phase (4ステージ解析) ---
	report, plan, err := runAnalysisStep(ctx, appCtx)
	if err != nil {
		recordFailure("ANALYSIS", err)
		// 計画が特定できなくても、完了済みの解析成果は検分用に必ず残すのだ
		persistAnalysisArtifacts(ctx, appCtx.Writer, report)
		return err
	}

	// 解析成果（計画JSON）は再実行できるように必ず保存しておくのだ
	if err := writePlan(ctx, appCtx, plan); err != nil {
		return err
	}

	// --- Phase 2: Image Phase (シーン画像生成) ---
	generated, err := runImageStep(ctx, appCtx, plan)
	if err != nil {
		recordFailure("IMAGE", err)
		return err
	}

	// --- Phase 3: Publish Phase (レポート保存) ---
	if err := runPublishStep(ctx, appCtx, report, plan, generated); err != nil {
		recordFailure("PUBLISH", err)
		return err
	}

	slog.Info("事件ビジュアライズの全工程が完了したのだ！",
		"images", len(generated.SavedPaths), "failures", generated.Failures)
	return nil
}

// ExecuteAnalyzeOnly は解析フェーズのみを実行し、画像生成計画JSONを保存するのだ。
func ExecuteAnalyzeOnly(ctx context.Context, cfg *config.Config) error {
	appCtx, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	report, plan, err := runAnalysisStep(ctx, appCtx)
	if err != nil {
		recordFailure("ANALYSIS", err)
		persistAnalysisArtifacts(ctx, appCtx.Writer, report)
		return err
	}

	if err := writePlan(ctx, appCtx, plan); err != nil {
		return err
	}

	slog.Info("解析が完了し、計画を保存したのだ", "path", cfg.Options.PlanFile, "images", plan.SpecCount())
	return nil
}

// ExecuteImageOnly は、保存済みの計画JSONを読み込み、
// 画像生成とレポート保存（Phase 2 & 3）を実行するのだ。
func ExecuteImageOnly(ctx context.Context, cfg *config.Config) error {
	appCtx, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	// 計画JSONの読み込み
	rc, err := appCtx.Reader.Open(ctx, cfg.Options.PlanFile)
	if err != nil {
		return fmt.Errorf("計画ファイル '%s' の読み込みに失敗しました: %w", cfg.Options.PlanFile, err)
	}
	defer rc.Close()

	var plan domain.GenerationPlan
	if err := json.NewDecoder(rc).Decode(&plan); err != nil {
		return fmt.Errorf("計画ファイル '%s' のデコードに失敗しました: %w", cfg.Options.PlanFile, err)
	}

	generated, err := runImageStep(ctx, appCtx, &plan)
	if err != nil {
		recordFailure("IMAGE", err)
		return err
	}

	if err := runPublishStep(ctx, appCtx, domain.AnalysisReport{}, &plan, generated); err != nil {
		recordFailure("PUBLISH", err)
		return err
	}

	slog.Info("画像生成とレポート保存が完了したのだ！")
	return nil
}

// setupAppContext は、提供された設定と共有コンポーネントを使用して、アプリケーションコンテキストを初期化して返すのだ。
func setupAppContext(ctx context.Context, cfg *config.Config) (*builder.AppContext, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, &domain.ConfigurationError{Missing: "GEMINI_API_KEY"}
	}

	timeout := cfg.Options.HTTPTimeout
	if timeout <= 0 {
		timeout = config.DefaultHTTPTimeout
	}
	httpClient := httpkit.New(timeout)

	aiClient, err := builder.InitializeAIClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create ai client: %w", err)
	}

	gcsFactory, err := gcsfactory.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client factory: %w", err)
	}

	reader, err := gcsFactory.InputReader()
	if err != nil {
		return nil, err
	}
	writer, err := gcsFactory.OutputWriter()
	if err != nil {
		return nil, err
	}

	appCtx := builder.NewAppContext(cfg, httpClient, aiClient, reader, writer)
	return &appCtx, nil
}

// runAnalysisStep は4ステージ解析を実行し、最終成果物から画像生成計画を特定するのだ。
func runAnalysisStep(ctx context.Context, appCtx *builder.AppContext) (domain.AnalysisReport, *domain.GenerationPlan, error) {
	slog.Info("Phase 1: 事件資料の解析を開始するのだ...")
	analysisRunner, err := builder.BuildAnalysisRunner(ctx, appCtx)
	if err != nil {
		return domain.AnalysisReport{}, nil, fmt.Errorf("AnalysisRunnerの構築に失敗したのだ: %w", err)
	}

	report, err := analysisRunner.Run(ctx)
	if err != nil {
		return report, nil, fmt.Errorf("解析に失敗したのだ: %w", err)
	}

	final, ok := report.FinalArtifact()
	if !ok {
		return report, nil, fmt.Errorf("解析は完了しましたが最終成果物がありません")
	}

	plan, branch, err := resolver.ResolvePlan(final)
	if err != nil {
		return report, nil, fmt.Errorf("画像生成計画を特定できなかったのだ: %w", err)
	}
	slog.Info("Phase 1 完了", "branch", branch, "images", plan.SpecCount())
	return report, plan, nil
}

// runImageStep は SceneImageRunner を使ってシーン画像を順次生成するのだ
func runImageStep(ctx context.Context, appCtx *builder.AppContext, plan *domain.GenerationPlan) (domain.GenerationResult, error) {
	slog.Info("Phase 2: 画像生成を開始するのだ...", "images", plan.SpecCount())
	imageRunner, err := builder.BuildImageRunner(ctx, appCtx)
	if err != nil {
		return domain.GenerationResult{}, fmt.Errorf("ImageRunnerの構築に失敗したのだ: %w", err)
	}

	generated, err := imageRunner.Run(ctx, plan)
	if err != nil {
		return generated, fmt.Errorf("画像生成に失敗したのだ: %w", err)
	}
	return generated, nil
}

// runPublishStep は CaseReportPublisher を使って最終レポートを保存するのだ
func runPublishStep(ctx context.Context, appCtx *builder.AppContext, report domain.AnalysisReport, plan *domain.GenerationPlan, generated domain.GenerationResult) error {
	slog.Info("Phase 3: レポート保存を開始するのだ...")
	pub := builder.BuildPublisher(appCtx)

	_, err := pub.Publish(ctx, report, plan, generated, publisher.Options{
		ReportPath: appCtx.Options.ReportFile,
	})
	if err != nil {
		return fmt.Errorf("レポート保存に失敗したのだ: %w", err)
	}
	return nil
}

// writePlan は画像生成計画をJSONとして保存するのだ。
func writePlan(ctx context.Context, appCtx *builder.AppContext, plan *domain.GenerationPlan) error {
	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return fmt.Errorf("計画のシリアライズに失敗しました: %w", err)
	}

	path := appCtx.Options.PlanFile
	if err := appCtx.Writer.Write(ctx, path, bytes.NewReader(data), "application/json"); err != nil {
		return fmt.Errorf("計画ファイルの書き込みに失敗しました: %w", err)
	}
	return nil
}

// persistAnalysisArtifacts は解析フェーズの失敗後でも、完了済みのステージ成果物を保存するのだ。
// 計画の特定に失敗しただけなら4ステージ分の解析は無傷であり、捨ててはいけない。
// 退避の失敗は警告に留め、元のエラーの報告を妨げない。
func persistAnalysisArtifacts(ctx context.Context, writer remoteio.OutputWriter, report domain.AnalysisReport) {
	if len(report.Artifacts) == 0 {
		return
	}
	path := config.DefaultAnalysisDumpFile
	if err := writeAnalysisDump(ctx, writer, path, report); err != nil {
		slog.Warn("解析成果の退避に失敗しました", "error", err)
		return
	}
	slog.Info("解析成果を退避したのだ。計画を修正して image コマンドから再開できます", "path", path)
}

// writeAnalysisDump は解析成果をステージ順のJSONとして書き出すのだ。
func writeAnalysisDump(ctx context.Context, writer remoteio.OutputWriter, path string, report domain.AnalysisReport) error {
	type stageDump struct {
		Stage      domain.StageKind `json:"stage"`
		Structured any              `json:"structured,omitempty"`
		RawText    string           `json:"raw_text,omitempty"`
	}
	dump := struct {
		Timestamp string      `json:"timestamp"`
		Stages    []stageDump `json:"stages"`
	}{Timestamp: report.Timestamp}
	for _, a := range report.Artifacts {
		dump.Stages = append(dump.Stages, stageDump{Stage: a.Stage, Structured: a.Structured, RawText: a.RawText})
	}

	data, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return fmt.Errorf("解析成果のシリアライズに失敗しました: %w", err)
	}
	if err := writer.Write(ctx, path, bytes.NewReader(data), "application/json"); err != nil {
		return fmt.Errorf("解析成果の書き込みに失敗しました: %w", err)
	}
	return nil
}

// recordFailure は致命的エラーをローカルの実行ログへ追記する。記録の失敗は警告に留める。
func recordFailure(kind string, failure error) {
	if err := runlog.Append(config.DefaultErrorLogName, kind, failure.Error()); err != nil {
		slog.Warn("実行ログへの記録に失敗しました", "error", err)
	}
}

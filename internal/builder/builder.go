package builder

import (
	"context"
	"fmt"

	"github.com/shouni/go-caseviz-kit/internal/config"
	"github.com/shouni/go-caseviz-kit/internal/prompt"
	"github.com/shouni/go-caseviz-kit/internal/runner"
	"github.com/shouni/go-caseviz-kit/pkg/generator"
	"github.com/shouni/go-caseviz-kit/pkg/publisher"

	"github.com/shouni/go-ai-client/v2/pkg/ai/gemini"
	"github.com/shouni/go-web-exact/v2/extract"
	"google.golang.org/genai"
)

// BuildAnalysisRunner は4ステージ解析を担当する Runner を構築します。
func BuildAnalysisRunner(ctx context.Context, appCtx *AppContext) (*runner.CaseAnalysisRunner, error) {
	extractor, err := extract.NewExtractor(appCtx.httpClient)
	if err != nil {
		return nil, fmt.Errorf("エクストラクタの初期化に失敗しました: %w", err)
	}

	promptBuilder, err := prompt.NewBuilder()
	if err != nil {
		return nil, fmt.Errorf("プロンプトビルダーの初期化に失敗しました: %w", err)
	}

	return runner.NewCaseAnalysisRunner(
		*appCtx.Config,
		extractor,
		promptBuilder,
		newTextGenerator(appCtx.aiClient, appCtx.Config.GeminiModel),
		appCtx.Reader,
	), nil
}

// BuildImageRunner はシーン画像生成を担当する Runner を構築します。
func BuildImageRunner(ctx context.Context, appCtx *AppContext) (*runner.SceneImageRunner, error) {
	imageClient, err := generator.NewGeminiImageClient(ctx, appCtx.Config.GeminiAPIKey, appCtx.Config.GeminiImageModel)
	if err != nil {
		return nil, fmt.Errorf("画像クライアントの初期化に失敗したのだ: %w", err)
	}

	saver := generator.NewRemoteArtifactSaver(appCtx.Writer, appCtx.Options.ImageDir)
	orchestrator := generator.NewOrchestrator(imageClient, saver, generator.Options{
		MaxAttempts:  config.DefaultMaxAttempts,
		RetryDelay:   config.DefaultRetryDelay,
		RateInterval: config.DefaultRateLimit,
		Observer:     runner.LogObserver{},
	})

	return runner.NewSceneImageRunner(orchestrator), nil
}

// BuildPublisher はレポート保存を行うパブリッシャーを構築します。
func BuildPublisher(appCtx *AppContext) *publisher.CaseReportPublisher {
	return publisher.NewCaseReportPublisher(appCtx.Writer)
}

// InitializeAIClient は gemini クライアントを初期化します。
func InitializeAIClient(ctx context.Context, apiKey string) (gemini.GenerativeModel, error) {
	// 法医学用途では出力の再現性を優先して温度を低く抑えるのだ
	const defaultGeminiTemperature = float32(0.1)
	clientConfig := gemini.Config{
		APIKey:      apiKey,
		Temperature: genai.Ptr(defaultGeminiTemperature),
	}
	aiClient, err := gemini.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}
	return aiClient, nil
}

// geminiTextGenerator は gemini クライアントを runner.TextGenerator へ適合させます。
type geminiTextGenerator struct {
	client gemini.GenerativeModel
	model  string
}

func newTextGenerator(client gemini.GenerativeModel, model string) runner.TextGenerator {
	return &geminiTextGenerator{client: client, model: model}
}

func (g *geminiTextGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.GenerateContent(ctx, prompt, g.model)
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

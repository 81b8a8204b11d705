package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/shouni/go-caseviz-kit/internal/config"
	"github.com/shouni/go-caseviz-kit/internal/prompt"
	"github.com/shouni/go-caseviz-kit/pkg/domain"
	"github.com/shouni/go-caseviz-kit/pkg/resolver"
	"github.com/shouni/go-caseviz-kit/pkg/stages"

	gocache "github.com/patrickmn/go-cache"
	"github.com/shouni/go-remote-io/remoteio"
	"github.com/shouni/go-web-exact/v2/extract"
)

// TextGenerator はテキスト生成AIとの最小の契約です。
// テストではこのインターフェースをスタブして差し替えるのだ。
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// 検証ゲートが数えるドメインキーワードです。2語以上の出現で解析は実質的とみなします。
var analysisKeywords = []string{"evidence", "scene", "timeline", "character", "visual"}

// CaseAnalysisRunner は、事件資料から画像生成計画までの4ステージ解析を順に実行する核となる構造体なのだ。
type CaseAnalysisRunner struct {
	cfg           config.Config      // 実行時のコマンドライン引数や設定
	extractor     *extract.Extractor // Webサイトから本文を抽出するエクストラクター
	promptBuilder *prompt.Builder    // AIに渡すプロンプトを構築するビルダー
	ai            TextGenerator      // Gemini APIと通信するクライアント
	reader        remoteio.InputReader
	urlCache      *gocache.Cache // URL抽出テキストのTTLキャッシュ。再実行時の再取得を省くのだ
	minLength     int
}

// NewCaseAnalysisRunner は、CaseAnalysisRunnerの新しいインスタンスを生成して返すのだ。
func NewCaseAnalysisRunner(
	cfg config.Config,
	ext *extract.Extractor,
	pb *prompt.Builder,
	ai TextGenerator,
	r remoteio.InputReader,
) *CaseAnalysisRunner {
	return &CaseAnalysisRunner{
		cfg:           cfg,
		extractor:     ext,
		promptBuilder: pb,
		ai:            ai,
		reader:        r,
		urlCache:      gocache.New(15*time.Minute, 30*time.Minute),
		minLength:     config.DefaultMinAnalysisLength,
	}
}

// Run は、入力ソースの読み込み、4ステージの逐次解析、検証ゲートまでを一気に行うのだ。
// いずれかのステージ呼び出しが失敗した時点でパイプライン全体が失敗します。
func (ar *CaseAnalysisRunner) Run(ctx context.Context) (domain.AnalysisReport, error) {
	input, err := ar.readCaseContent(ctx)
	if err != nil {
		return domain.AnalysisReport{}, err
	}
	if input.IsEmpty() {
		return domain.AnalysisReport{}, fmt.Errorf("事件資料が空です (source=%s)", input.Source())
	}

	hints := domain.Hints{
		EvidenceTypes: ar.cfg.Options.EvidenceTypes,
		FocusAreas:    ar.cfg.Options.FocusAreas,
		CustomPrompt:  ar.cfg.Options.CustomPrompt,
	}

	artifacts := make([]domain.StageResult, 0, len(stages.All()))
	var contextText strings.Builder

	for _, stage := range stages.All() {
		slog.Info("解析ステージを開始するのだ", "stage", stage.Kind, "title", stage.Title)

		data := prompt.TemplateData{
			CaseText:           input.Text(),
			Context:            contextText.String(),
			EvidenceFocus:      hints.EvidenceFocus(),
			AreaFocus:          hints.AreaFocus(),
			CustomInstructions: hints.CustomInstructions(),
		}
		promptContent, err := ar.promptBuilder.Build(stage.Kind, data)
		if err != nil {
			return domain.AnalysisReport{}, &domain.StageFailure{Stage: stage.Kind, Err: err}
		}

		raw, err := ar.ai.Generate(ctx, promptContent)
		if err != nil {
			return domain.AnalysisReport{}, &domain.StageFailure{Stage: stage.Kind, Err: err}
		}

		result := resolver.ExtractStageResult(stage, nil, raw)
		artifacts = append(artifacts, result)

		// 後段ステージの文脈として成果物を積み上げる。構造化済みならJSON、劣化なら原文なのだ
		contextText.WriteString("### " + stage.Title + "\n\n")
		contextText.WriteString(serializeArtifact(result))
		contextText.WriteString("\n\n")
	}

	if err := ar.validate(artifacts); err != nil {
		return domain.AnalysisReport{
			Diagnostics: []string{err.Error()},
			Timestamp:   time.Now().Format(time.RFC3339),
		}, err
	}

	return domain.AnalysisReport{
		Success:   true,
		Artifacts: artifacts,
		Timestamp: time.Now().Format(time.RFC3339),
	}, nil
}

// readCaseContent は、URLまたはパスの設定に基づいて適切な方法で事件資料を取得するのだ。
func (ar *CaseAnalysisRunner) readCaseContent(ctx context.Context) (domain.CaseInput, error) {
	// URLが指定されている場合は、Webスクレイピングを実行するのだ
	if url := ar.cfg.Options.CaseURL; url != "" {
		if cached, ok := ar.urlCache.Get(url); ok {
			slog.Info("URL抽出キャッシュにヒットしました", "url", url)
			return domain.NewCaseInput(cached.(string), url), nil
		}

		text, _, err := ar.extractor.FetchAndExtractText(ctx, url)
		if err != nil {
			return domain.CaseInput{}, fmt.Errorf("URLからの本文抽出に失敗しました: %w", err)
		}
		ar.urlCache.Set(url, text, gocache.DefaultExpiration)
		return domain.NewCaseInput(text, url), nil
	}

	// ファイルパスが指定されている場合は、リーダーを使って開くのだ（GCS等も対応！）
	path := ar.cfg.Options.CaseFile
	rc, err := ar.reader.Open(ctx, path)
	if err != nil {
		return domain.CaseInput{}, fmt.Errorf("事件資料ファイルを開けませんでした: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return domain.CaseInput{}, fmt.Errorf("事件資料ファイルの読み込みに失敗しました: %w", err)
	}
	return domain.NewCaseInput(string(data), path), nil
}

// validate は解析全体の成果物に対する検証ゲートです。
// 3つの検査のうち最初に落ちたものが ValidationFailure として返ります。
func (ar *CaseAnalysisRunner) validate(artifacts []domain.StageResult) error {
	var combined strings.Builder
	for _, a := range artifacts {
		combined.WriteString(serializeArtifact(a))
		combined.WriteString("\n")
	}
	text := combined.String()

	// 1. 出力が短すぎる解析は実体がないとみなす
	if len(text) < ar.minLength {
		return &domain.ValidationFailure{
			Check:  "min_length",
			Detail: fmt.Sprintf("解析出力が %d 文字未満です (actual=%d)", ar.minLength, len(text)),
		}
	}

	// 2. 法医学解析が構造化できていて、かつ証拠や現場配置を欠くのは矛盾
	for _, a := range artifacts {
		if a.Stage != domain.StageForensicAnalysis {
			continue
		}
		analysis, ok := a.Structured.(*domain.ForensicAnalysis)
		if !ok {
			continue
		}
		if len(analysis.EvidenceItems) == 0 {
			return &domain.ValidationFailure{
				Check:  "evidence_items",
				Detail: "法医学解析に証拠品が1件も含まれていません",
			}
		}
		if analysis.SceneLayout == nil {
			return &domain.ValidationFailure{
				Check:  "scene_layout",
				Detail: "法医学解析に現場レイアウトが含まれていません",
			}
		}
	}

	// 3. ドメインキーワードの出現数で解析の実質を確認する
	lower := strings.ToLower(text)
	found := 0
	for _, kw := range analysisKeywords {
		if strings.Contains(lower, kw) {
			found++
		}
	}
	if found < 2 {
		return &domain.ValidationFailure{
			Check:  "keywords",
			Detail: fmt.Sprintf("ドメインキーワードの出現が不足しています (found=%d, required=2)", found),
		}
	}

	return nil
}

// serializeArtifact は成果物を後段プロンプトやレポートで使えるテキストに直します。
func serializeArtifact(result domain.StageResult) string {
	if result.IsStructured() {
		if data, err := json.MarshalIndent(result.Structured, "", "  "); err == nil {
			return string(data)
		}
	}
	return result.RawText
}

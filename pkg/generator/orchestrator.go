package generator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/go-caseviz-kit/pkg/domain"

	"golang.org/x/time/rate"
)

// Strategy は1回の試行の中で使われる生成方式を識別します。
type Strategy string

const (
	// StrategyStreaming はチャンク到着順にペイロードを取り出す方式で、常に先に試されます。
	StrategyStreaming Strategy = "streaming"
	// StrategyBlocking は応答全体を受けてから抽出するフォールバック方式です。
	StrategyBlocking Strategy = "blocking"
)

// ProgressEvent はオーケストレーターが発行する不変の進捗イベントです。
// Attempt が 0 より大きいものは試行単位、0 のものは画像単位の完了通知です。
type ProgressEvent struct {
	ImageIndex  int      // バッチ内の 0 始まりの位置
	ImageNumber int      // 計画上の画像番号（乱れていれば順序インデックスで補正済み）
	Total       int      // バッチの総画像数
	Attempt     int      // 1 始まりの試行番号。画像完了イベントでは 0
	Strategy    Strategy // 試行イベントのみ。完了イベントでは空
	Processed   int      // 完了イベントのみ。処理済み枚数（単調増加で最終的に Total に一致）
	Success     bool
}

// Observer は進捗イベントの購読者です。コアはUIへの依存を持ちません。
type Observer interface {
	Notify(event ProgressEvent)
}

// Options はオーケストレーターの動作パラメータです。ゼロ値は既定値に補正されます。
type Options struct {
	MaxAttempts  int           // 1枚あたりの最大試行回数（既定 3）
	RetryDelay   time.Duration // 失敗した試行の間の待機（既定 2s。最終試行の後には入らない）
	RateInterval time.Duration // 画像リクエスト間の流量制限。0 なら制限なし
	Observer     Observer

	// テストから時間を差し替えるためのフックなのだ
	Sleep func(time.Duration)
	Now   func() time.Time
}

// Orchestrator は画像生成計画を1枚ずつ順番に処理する司令塔です。
// 個々の画像の失敗は記録されるだけでバッチを止めません。
// 実行は単一ゴルーチンで完結し、共有状態への並行書き込みは存在しません。
type Orchestrator struct {
	client      ImageClient
	saver       ArtifactSaver
	observer    Observer
	maxAttempts int
	retryDelay  time.Duration
	limiter     *rate.Limiter
	sleep       func(time.Duration)
	now         func() time.Time
	artifactSeq int
}

// NewOrchestrator は依存と動作パラメータを受け取りオーケストレーターを構築します。
func NewOrchestrator(client ImageClient, saver ArtifactSaver, opts Options) *Orchestrator {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 2 * time.Second
	}
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	var limiter *rate.Limiter
	if opts.RateInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(opts.RateInterval), 1)
	}

	return &Orchestrator{
		client:      client,
		saver:       saver,
		observer:    opts.Observer,
		maxAttempts: opts.MaxAttempts,
		retryDelay:  opts.RetryDelay,
		limiter:     limiter,
		sleep:       opts.Sleep,
		now:         opts.Now,
	}
}

// Run は計画の全画像指示を順番に処理し、集計結果を返します。
// 致命的でない失敗はすべて結果に折り畳まれ、エラーとしては返りません。
func (o *Orchestrator) Run(ctx context.Context, plan *domain.GenerationPlan) (domain.GenerationResult, error) {
	var result domain.GenerationResult
	if plan.SpecCount() == 0 {
		return result, fmt.Errorf("画像生成を開始できません: %w", domain.ErrEmptyPlan)
	}

	total := plan.SpecCount()
	slog.Info("画像生成バッチを開始するのだ", "images", total, "max_attempts", o.maxAttempts)

	for i, spec := range plan.ImageSpecifications {
		if o.limiter != nil {
			if err := o.limiter.Wait(ctx); err != nil {
				return result, err
			}
		}

		number := spec.ImageNumber
		if number <= 0 {
			// 番号の乱れはクラッシュさせず、順序インデックスへフォールバックする
			number = i + 1
			slog.Warn("画像番号が不正のため順序インデックスを採用します", "index", i, "number", number)
		}

		outcome := o.generateOne(ctx, i, number, total, spec)
		result.Append(outcome)

		// 成否に関わらず、画像1枚ごとに必ず進捗を1つ進める
		o.notify(ProgressEvent{
			ImageIndex:  i,
			ImageNumber: number,
			Total:       total,
			Processed:   i + 1,
			Success:     outcome.Success,
		})
		slog.Info("進捗", "processed", i+1, "total", total, "success", outcome.Success)
	}

	slog.Info("画像生成バッチが完了したのだ", "saved", len(result.SavedPaths), "failures", result.Failures)
	return result, nil
}

// generateOne は1枚の画像に対するリトライつき状態機械を回します。
// 試行ごとにプロンプトの言い回しを巡回させ、同一試行内で
// ストリーミング→ブロッキングの順に2戦略を試すのだ。
func (o *Orchestrator) generateOne(ctx context.Context, index, number, total int, spec domain.ImageSpec) domain.ImageOutcome {
	variants := BuildVariants(spec)
	prefix := fmt.Sprintf("image_%02d_%s", number, slugify(spec.Title))

	var saved []string
	var lastErr error
	attempts := 0

	for attempt := 0; attempt < o.maxAttempts; attempt++ {
		attempts = attempt + 1
		prompt := variants[attempt%len(variants)]
		slog.Info("画像を生成中...", "image", number, "title", spec.Title, "attempt", attempts, "max", o.maxAttempts)

		paths, err := o.tryStreaming(ctx, prompt, prefix)
		if err != nil {
			lastErr = err
			slog.Warn("ストリーミング生成が失敗しました", "image", number, "attempt", attempts, "error", err)
		}
		o.notify(ProgressEvent{ImageIndex: index, ImageNumber: number, Total: total, Attempt: attempts, Strategy: StrategyStreaming, Success: len(paths) > 0})
		if len(paths) > 0 {
			saved = append(saved, paths...)
			break
		}

		// ストリーミングが1件も産まなければ、同じ試行の中でブロッキングに切り替える
		paths, err = o.tryBlocking(ctx, prompt, prefix)
		if err != nil {
			lastErr = err
			slog.Warn("ブロッキング生成が失敗しました", "image", number, "attempt", attempts, "error", err)
		}
		o.notify(ProgressEvent{ImageIndex: index, ImageNumber: number, Total: total, Attempt: attempts, Strategy: StrategyBlocking, Success: len(paths) > 0})
		if len(paths) > 0 {
			saved = append(saved, paths...)
			break
		}

		// 最終試行の後には待機を入れない
		if attempt < o.maxAttempts-1 {
			o.sleep(o.retryDelay)
		}
	}

	outcome := domain.ImageOutcome{
		ImageNumber: number,
		Title:       spec.Title,
		SavedPaths:  saved,
		Attempts:    attempts,
		Success:     len(saved) > 0,
	}
	if !outcome.Success {
		failure := &domain.ImageGenerationFailure{ImageNumber: number, Attempts: attempts, Err: lastErr}
		outcome.LastError = failure.Error()
		slog.Error("全試行が失敗しました。この画像は諦めて次へ進むのだ", "image", number, "attempts", attempts, "error", failure)
	}
	return outcome
}

// tryStreaming はチャンクに現れたペイロードを到着と同時に保存します。
func (o *Orchestrator) tryStreaming(ctx context.Context, prompt, prefix string) ([]string, error) {
	var paths []string
	for payload, err := range o.client.GenerateStream(ctx, prompt) {
		if err != nil {
			// それまでに保存できた分は成果として残す
			return paths, err
		}
		path, saveErr := o.saveArtifact(ctx, prefix, payload)
		if saveErr != nil {
			slog.Warn("ペイロードの保存に失敗しました", "error", saveErr)
			continue
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// tryBlocking は応答全体を受け取ってから全ペイロードを保存します。
func (o *Orchestrator) tryBlocking(ctx context.Context, prompt, prefix string) ([]string, error) {
	payloads, err := o.client.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, payload := range payloads {
		path, saveErr := o.saveArtifact(ctx, prefix, payload)
		if saveErr != nil {
			slog.Warn("ペイロードの保存に失敗しました", "error", saveErr)
			continue
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// saveArtifact は実行全体で衝突しない名前を組み立てて保存します。
// タイムスタンプが同一秒に揃っても、通し番号が一意性を保証するのだ。
func (o *Orchestrator) saveArtifact(ctx context.Context, prefix string, payload Payload) (string, error) {
	o.artifactSeq++
	name := fmt.Sprintf("%s_%s_%d%s",
		prefix,
		o.now().Format("20060102_150405"),
		o.artifactSeq,
		extensionForMime(payload.MimeType),
	)
	return o.saver.Save(ctx, name, payload)
}

func (o *Orchestrator) notify(event ProgressEvent) {
	if o.observer != nil {
		o.observer.Notify(event)
	}
}

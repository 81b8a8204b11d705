package domain

import (
	"errors"
	"fmt"
)

// ErrNoPlanFound は解析結果のどこからも画像生成計画を特定できなかったことを示します。
// 呼び出し側が計画を推測・捏造してはいけません。
var ErrNoPlanFound = errors.New("no image generation plan found in analysis result")

// ErrEmptyPlan は計画は見つかったものの画像指示が0件だったことを示します。
var ErrEmptyPlan = errors.New("generation plan contains no image specifications")

// ConfigurationError は必須の認証情報や機能が欠けている致命的エラーです。リトライしません。
type ConfigurationError struct {
	Missing string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s is required", e.Missing)
}

// StageFailure は解析ステージの呼び出し失敗です。パイプライン実行全体が失敗します。
type StageFailure struct {
	Stage StageKind
	Err   error
}

func (e *StageFailure) Error() string {
	return fmt.Sprintf("stage %s failed: %v", e.Stage, e.Err)
}

func (e *StageFailure) Unwrap() error { return e.Err }

// ValidationFailure は解析結果が完全性ゲートを通過できなかったことを示します。
// どの検査に引っかかったかを Check として保持します。
type ValidationFailure struct {
	Check  string
	Detail string
}

func (e *ValidationFailure) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("validation failed: %s", e.Check)
	}
	return fmt.Sprintf("validation failed: %s (%s)", e.Check, e.Detail)
}

// ImageGenerationFailure は1枚の画像について全試行・全戦略が尽きたことを示します。
// バッチ全体を止めることはなく、結果に記録されるだけです。
type ImageGenerationFailure struct {
	ImageNumber int
	Attempts    int
	Err         error
}

func (e *ImageGenerationFailure) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("image %d: all %d attempts produced no artifacts", e.ImageNumber, e.Attempts)
	}
	return fmt.Sprintf("image %d: all %d attempts failed: %v", e.ImageNumber, e.Attempts, e.Err)
}

func (e *ImageGenerationFailure) Unwrap() error { return e.Err }

// PlanResolutionFailure は画像生成フェーズのみを中断するエラーです。
// 解析結果そのものは呼び出し元へ返され、検分に使えます。
type PlanResolutionFailure struct {
	Err error
}

func (e *PlanResolutionFailure) Error() string {
	return fmt.Sprintf("plan resolution failed: %v", e.Err)
}

func (e *PlanResolutionFailure) Unwrap() error { return e.Err }

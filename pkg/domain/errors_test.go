package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorTaxonomy(t *testing.T) {
	t.Run("StageFailure は原因エラーを包んで伝播すること", func(t *testing.T) {
		cause := errors.New("api quota exceeded")
		var err error = &StageFailure{Stage: StageSceneReconstruction, Err: cause}

		if !errors.Is(err, cause) {
			t.Error("Unwrap で原因エラーへ辿れるべきです")
		}

		var failure *StageFailure
		if !errors.As(err, &failure) || failure.Stage != StageSceneReconstruction {
			t.Error("StageFailure として取り出せるべきです")
		}
	})

	t.Run("PlanResolutionFailure は番兵エラーを包むこと", func(t *testing.T) {
		var err error = &PlanResolutionFailure{Err: ErrNoPlanFound}
		wrapped := fmt.Errorf("pipeline: %w", err)

		if !errors.Is(wrapped, ErrNoPlanFound) {
			t.Error("多段ラップ越しに ErrNoPlanFound へ辿れるべきです")
		}
	})

	t.Run("ValidationFailure は検査名をメッセージに含むこと", func(t *testing.T) {
		err := &ValidationFailure{Check: "min_length", Detail: "too short"}
		want := "validation failed: min_length (too short)"
		if err.Error() != want {
			t.Errorf("期待値 %q, 実際の値 %q", want, err.Error())
		}
	})

	t.Run("ImageGenerationFailure は原因の有無でメッセージを変えること", func(t *testing.T) {
		cause := errors.New("stream aborted")
		withCause := &ImageGenerationFailure{ImageNumber: 2, Attempts: 3, Err: cause}
		if !errors.Is(withCause, cause) {
			t.Error("Unwrap で原因エラーへ辿れるべきです")
		}
		want := "image 2: all 3 attempts failed: stream aborted"
		if withCause.Error() != want {
			t.Errorf("期待値 %q, 実際の値 %q", want, withCause.Error())
		}

		silent := &ImageGenerationFailure{ImageNumber: 1, Attempts: 3}
		want = "image 1: all 3 attempts produced no artifacts"
		if silent.Error() != want {
			t.Errorf("期待値 %q, 実際の値 %q", want, silent.Error())
		}
	})

	t.Run("ConfigurationError は欠落項目を特定できること", func(t *testing.T) {
		var err error = &ConfigurationError{Missing: "GEMINI_API_KEY"}
		var cfgErr *ConfigurationError
		if !errors.As(err, &cfgErr) || cfgErr.Missing != "GEMINI_API_KEY" {
			t.Error("ConfigurationError として取り出せるべきです")
		}
	})
}

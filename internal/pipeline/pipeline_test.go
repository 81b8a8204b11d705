package pipeline

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/shouni/go-caseviz-kit/internal/config"
	"github.com/shouni/go-caseviz-kit/pkg/domain"
)

// captureWriter は書き込まれた内容を記録するスタブなのだ。
type captureWriter struct {
	writes   int
	path     string
	mimeType string
	content  string
	err      error
}

func (w *captureWriter) Write(ctx context.Context, path string, r io.Reader, mimeType string) error {
	if w.err != nil {
		return w.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	w.writes++
	w.path = path
	w.mimeType = mimeType
	w.content = string(data)
	return nil
}

func degradedReport() domain.AnalysisReport {
	return domain.AnalysisReport{
		Success:   true,
		Timestamp: "2025-06-01T12:00:00Z",
		Artifacts: []domain.StageResult{
			domain.NewStructuredResult(domain.StageForensicAnalysis, &domain.ForensicAnalysis{
				CaseSummary: "Break-in through the kitchen window.",
				EvidenceItems: []domain.EvidenceItem{
					{Type: "Physical", Location: "Kitchen floor", Description: "Broken window glass"},
				},
			}, "raw forensic text"),
			domain.NewRawTextResult(domain.StageSceneReconstruction, "The window faces the garden."),
			domain.NewRawTextResult(domain.StageCharacterConsistency, "Two residents, one investigator."),
			domain.NewRawTextResult(domain.StageVisualDirection, "no plan could be parsed here"),
		},
	}
}

func TestPersistAnalysisArtifacts(t *testing.T) {
	ctx := context.Background()

	t.Run("計画を特定できなくても解析成果が退避されること", func(t *testing.T) {
		writer := &captureWriter{}
		persistAnalysisArtifacts(ctx, writer, degradedReport())

		if writer.writes != 1 {
			t.Fatalf("書き込み回数の期待値 1, 実際の値 %d", writer.writes)
		}
		if writer.path != config.DefaultAnalysisDumpFile {
			t.Errorf("退避先の期待値 %q, 実際の値 %q", config.DefaultAnalysisDumpFile, writer.path)
		}
		if writer.mimeType != "application/json" {
			t.Errorf("MIMEタイプの期待値 'application/json', 実際の値 %q", writer.mimeType)
		}
		for _, want := range []string{
			`"stage": "forensic_analysis"`,
			`"stage": "scene_reconstruction"`,
			`"stage": "character_consistency"`,
			`"stage": "visual_direction"`,
			"Break-in through the kitchen window.",
			"no plan could be parsed here",
			"2025-06-01T12:00:00Z",
		} {
			if !strings.Contains(writer.content, want) {
				t.Errorf("退避JSONに %q が含まれるべきです", want)
			}
		}
	})

	t.Run("成果物が空のレポートは何も書き込まないこと", func(t *testing.T) {
		writer := &captureWriter{}
		persistAnalysisArtifacts(ctx, writer, domain.AnalysisReport{Diagnostics: []string{"stage failed"}})

		if writer.writes != 0 {
			t.Errorf("書き込み回数の期待値 0, 実際の値 %d", writer.writes)
		}
	})

	t.Run("退避の失敗はパニックせず警告に留まること", func(t *testing.T) {
		writer := &captureWriter{err: errors.New("bucket unavailable")}
		persistAnalysisArtifacts(ctx, writer, degradedReport())

		if writer.writes != 0 {
			t.Errorf("書き込み回数の期待値 0, 実際の値 %d", writer.writes)
		}
	})
}

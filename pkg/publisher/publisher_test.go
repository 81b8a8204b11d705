package publisher

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/shouni/go-caseviz-kit/pkg/domain"
)

// captureWriter は書き込まれた内容を記録するスタブなのだ。
type captureWriter struct {
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
	w.path = path
	w.mimeType = mimeType
	w.content = string(data)
	return nil
}

func sampleReport() domain.AnalysisReport {
	return domain.AnalysisReport{
		Success:   true,
		Timestamp: "2025-06-01T12:00:00Z",
		Artifacts: []domain.StageResult{
			domain.NewStructuredResult(domain.StageForensicAnalysis, &domain.ForensicAnalysis{
				CaseSummary: "Break-in through the kitchen window.",
				EvidenceItems: []domain.EvidenceItem{
					{Type: "Physical", Location: "Kitchen floor", Description: "Broken window glass"},
				},
			}, "raw"),
		},
	}
}

func TestCaseReportPublisher_Publish(t *testing.T) {
	ctx := context.Background()

	plan := &domain.GenerationPlan{
		TotalImages:   2,
		NarrativeFlow: "From the entry point to the evidence close-up.",
		ImageSpecifications: []domain.ImageSpec{
			{ImageNumber: 1, Title: "Overview"},
			{ImageNumber: 2, Title: "Close-up"},
		},
	}

	generated := domain.GenerationResult{}
	generated.Append(domain.ImageOutcome{
		ImageNumber: 1, Title: "Overview", Success: true, Attempts: 1,
		SavedPaths: []string{"output/scenes/image_01_overview_20250601_120000_1.png"},
	})
	generated.Append(domain.ImageOutcome{
		ImageNumber: 2, Title: "Close-up", Success: false, Attempts: 3,
		LastError: "service unavailable",
	})

	t.Run("解析と生成結果が1本のレポートにまとまること", func(t *testing.T) {
		writer := &captureWriter{}
		pub := NewCaseReportPublisher(writer)

		result, err := pub.Publish(ctx, sampleReport(), plan, generated, Options{
			ReportPath: "output/case_report.md",
		})
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if result.ReportPath != "output/case_report.md" {
			t.Errorf("レポートパスが不正です: %s", result.ReportPath)
		}
		if writer.mimeType != "text/markdown; charset=utf-8" {
			t.Errorf("MIMEタイプが不正です: %s", writer.mimeType)
		}

		for _, want := range []string{
			"Break-in through the kitchen window.",
			"Broken window glass",
			"From the entry point to the evidence close-up.",
			"### Image 1: Overview",
			"image_01_overview_20250601_120000_1.png",
			"### Image 2: Close-up",
			"FAILED after 3 attempts: service unavailable",
			"Total saved: 1 / Failures: 1",
		} {
			if !strings.Contains(writer.content, want) {
				t.Errorf("レポートに %q がありません", want)
			}
		}
	})

	t.Run("劣化成果物は抜粋として掲載されること", func(t *testing.T) {
		writer := &captureWriter{}
		pub := NewCaseReportPublisher(writer)

		degraded := domain.AnalysisReport{
			Success: true,
			Artifacts: []domain.StageResult{
				domain.NewRawTextResult(domain.StageForensicAnalysis, strings.Repeat("long analysis text ", 50)),
			},
		}
		if _, err := pub.Publish(ctx, degraded, plan, generated, Options{ReportPath: "r.md"}); err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if !strings.Contains(writer.content, "long analysis text") {
			t.Error("劣化成果物の抜粋がありません")
		}
		if !strings.Contains(writer.content, "...") {
			t.Error("長い原文が切り詰められていません")
		}
	})

	t.Run("書き込み失敗はエラーとして返ること", func(t *testing.T) {
		writer := &captureWriter{err: errors.New("permission denied")}
		pub := NewCaseReportPublisher(writer)

		if _, err := pub.Publish(ctx, sampleReport(), plan, generated, Options{ReportPath: "r.md"}); err == nil {
			t.Error("書き込み失敗でエラーが発生しませんでした")
		}
	})
}

func TestResolveOutputPath(t *testing.T) {
	t.Run("ローカルパスはfilepathで結合されること", func(t *testing.T) {
		got, err := ResolveOutputPath("output/scenes", "image.png")
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if !strings.HasSuffix(got, "image.png") {
			t.Errorf("結合結果が不正です: %s", got)
		}
	})

	t.Run("GCS URIはスキームを保ったまま結合されること", func(t *testing.T) {
		got, err := ResolveOutputPath("gs://bucket/cases", "report.md")
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if got != "gs://bucket/cases/report.md" {
			t.Errorf("期待値 'gs://bucket/cases/report.md', 実際の値 %q", got)
		}
	})
}

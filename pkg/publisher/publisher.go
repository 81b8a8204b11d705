package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shouni/go-caseviz-kit/pkg/domain"

	"github.com/shouni/go-remote-io/remoteio"
)

// Options はパブリッシュ動作を制御する設定項目です。
type Options struct {
	ReportPath string // 事件レポート Markdown の出力先
}

// PublishResult はパブリッシュ処理の結果として生成されたファイルの情報を保持します。
type PublishResult struct {
	ReportPath string   // 生成された事件レポートのパス
	ImagePaths []string // 保存済みの全シーン画像のパスリスト
}

// CaseReportPublisher は解析成果と生成画像を1本の事件レポートにまとめて永続化します。
type CaseReportPublisher struct {
	writer remoteio.OutputWriter
}

// NewCaseReportPublisher creates and returns a new instance of CaseReportPublisher with the specified writer.
func NewCaseReportPublisher(writer remoteio.OutputWriter) *CaseReportPublisher {
	return &CaseReportPublisher{writer: writer}
}

// Publish はレポートMarkdownの構築と書き出しを実行し、生成されたファイル情報を返却するのだ！
func (p *CaseReportPublisher) Publish(ctx context.Context, report domain.AnalysisReport, plan *domain.GenerationPlan, generated domain.GenerationResult, opts Options) (PublishResult, error) {
	result := PublishResult{
		ReportPath: opts.ReportPath,
		ImagePaths: generated.SavedPaths,
	}

	content := p.buildMarkdown(report, plan, generated)

	slog.Info("事件レポートを書き出します", "path", opts.ReportPath, "images", len(generated.SavedPaths))
	if err := p.writer.Write(ctx, opts.ReportPath, strings.NewReader(content), "text/markdown; charset=utf-8"); err != nil {
		return result, fmt.Errorf("レポートファイルの書き込みに失敗しました: %w", err)
	}

	return result, nil
}

// buildMarkdown returns the Markdown content for the case report.
func (p *CaseReportPublisher) buildMarkdown(report domain.AnalysisReport, plan *domain.GenerationPlan, generated domain.GenerationResult) string {
	var sb strings.Builder
	sb.WriteString("# Crime Scene Visualization Report\n\n")
	if report.Timestamp != "" {
		sb.WriteString(fmt.Sprintf("Generated: %s\n\n", report.Timestamp))
	}

	p.writeSummary(&sb, report)

	if plan != nil {
		sb.WriteString("## Visual Direction\n\n")
		if plan.NarrativeFlow != "" {
			sb.WriteString(plan.NarrativeFlow + "\n\n")
		}
		sb.WriteString(fmt.Sprintf("Planned images: %d\n\n", plan.SpecCount()))
	}

	p.writeOutcomes(&sb, generated)
	return sb.String()
}

// writeSummary は法医学解析ステージの要約セクションを書き込みます。
// 構造化成果物が得られなかったステージは原文の冒頭を抜粋として載せるのだ。
func (p *CaseReportPublisher) writeSummary(sb *strings.Builder, report domain.AnalysisReport) {
	sb.WriteString("## Forensic Analysis\n\n")

	for _, artifact := range report.Artifacts {
		if artifact.Stage != domain.StageForensicAnalysis {
			continue
		}
		if analysis, ok := artifact.Structured.(*domain.ForensicAnalysis); ok && analysis != nil {
			if analysis.CaseSummary != "" {
				sb.WriteString(analysis.CaseSummary + "\n\n")
			}
			if len(analysis.EvidenceItems) > 0 {
				sb.WriteString("### Evidence\n\n")
				for _, item := range analysis.EvidenceItems {
					sb.WriteString(fmt.Sprintf("- **%s** (%s): %s\n", item.Type, item.Location, item.Description))
				}
				sb.WriteString("\n")
			}
			return
		}
		sb.WriteString(excerpt(artifact.RawText) + "\n\n")
		return
	}
}

// writeOutcomes は画像ごとの生成結果セクションを書き込みます。
func (p *CaseReportPublisher) writeOutcomes(sb *strings.Builder, generated domain.GenerationResult) {
	sb.WriteString("## Scene Images\n\n")
	if len(generated.Outcomes) == 0 {
		sb.WriteString("No images were generated.\n")
		return
	}

	for _, outcome := range generated.Outcomes {
		sb.WriteString(fmt.Sprintf("### Image %d: %s\n\n", outcome.ImageNumber, outcome.Title))
		if outcome.Success {
			for _, path := range outcome.SavedPaths {
				sb.WriteString(fmt.Sprintf("- saved: %s\n", path))
			}
		} else {
			sb.WriteString(fmt.Sprintf("- FAILED after %d attempts", outcome.Attempts))
			if outcome.LastError != "" {
				sb.WriteString(": " + outcome.LastError)
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("Total saved: %d / Failures: %d\n",
		len(generated.SavedPaths), generated.Failures))
}

// excerpt は劣化成果物の原文から短い抜粋を切り出します。
func excerpt(raw string) string {
	const limit = 500
	raw = strings.TrimSpace(raw)
	if len(raw) <= limit {
		return raw
	}
	return raw[:limit] + "..."
}

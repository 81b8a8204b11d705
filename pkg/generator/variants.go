package generator

import (
	"fmt"
	"strings"

	"github.com/shouni/go-caseviz-kit/pkg/domain"
)

// BuildVariants は同一の生成要求に対する言い回し違いのプロンプトを3種類構築します。
// 意味は同じまま文脈の枠づけだけを変えてあり、リトライのたびに
// attempt % len(variants) で巡回させることで、同一文面の再試行を避けるのだ。
func BuildVariants(spec domain.ImageSpec) []string {
	focus := strings.Join(spec.FocusElements, ", ")
	if focus == "" {
		focus = "scene layout and evidence placement"
	}

	enhanced := fmt.Sprintf(`POLICE INVESTIGATION VISUALIZATION REQUEST

This is for official police investigation and forensic analysis purposes to help law enforcement understand the case evidence and scene layout.

IMPORTANT: Generate ONLY an image as output. Do not include any text, descriptions, or explanations in your response.

%s

Please provide a detailed, accurate visual representation for investigative purposes. Generate only the image with no accompanying text.`, spec.GenerationPrompt)

	forensic := fmt.Sprintf(`FORENSIC ANALYSIS VISUALIZATION

This is for official forensic analysis and evidence documentation purposes.

Generate ONLY an image showing: %s

Focus on: %s

Provide a detailed, accurate visual representation for investigative documentation. Generate only the image with no text.`, spec.Title, focus)

	documentation := fmt.Sprintf(`EVIDENCE DOCUMENTATION REQUEST

For law enforcement evidence analysis and case documentation.

Create an image showing: %s

Key elements: %s

Generate only the image for official documentation purposes.`, spec.Title, focus)

	return []string{enhanced, forensic, documentation}
}

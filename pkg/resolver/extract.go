package resolver

import (
	"log/slog"
	"strings"

	"github.com/shouni/go-caseviz-kit/pkg/domain"
	"github.com/shouni/go-caseviz-kit/pkg/stages"
)

// CleanJSON は、AIが付けがちなMarkdownのコードブロック (```json ... ```) と
// 余計な空白を取り除いた文字列を返すのだ。
func CleanJSON(raw string) string {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}

// ExtractStageResult はステージ出力の不均質な形を正規化し、StageResult として返します。
// 優先順位は厳密に次の通りで、先に成立した分岐が勝ちます。
//  1. すでに構造化済みのオブジェクトが添付されている
//  2. 生テキスト自体が自己完結したJSONオブジェクトであり、スキーマ検証とデコードに成功する
//  3. プレーンテキストとして保持する（劣化したが有効な結果）
//
// 分岐2の失敗はエラーとして伝播せず、必ず分岐3へ落ちます。
// ここが LLM 出力の揺らぎから下流を守る許容境界なのだ。
func ExtractStageResult(stage stages.Stage, structured any, raw string) domain.StageResult {
	if structured != nil {
		return domain.NewStructuredResult(stage.Kind, structured, raw)
	}

	cleaned := CleanJSON(raw)
	if looksLikeObject(cleaned) {
		data := []byte(cleaned)
		if err := stage.Validate(data); err != nil {
			slog.Debug("構造化候補テキストがスキーマ検証を通らなかったため、生テキストへフォールバックします",
				"stage", stage.Kind, "error", err)
		} else if artifact, err := stage.Decode(data); err != nil {
			slog.Debug("構造化候補テキストのデコードに失敗したため、生テキストへフォールバックします",
				"stage", stage.Kind, "error", err)
		} else {
			return domain.NewStructuredResult(stage.Kind, artifact, raw)
		}
	}

	// フォールバック到達は ExtractionAmbiguity として観測用に記録するだけで、エラーにはしない
	slog.Info("ステージ出力を生テキストとして保持します", "stage", stage.Kind, "length", len(raw))
	return domain.NewRawTextResult(stage.Kind, raw)
}

// looksLikeObject は文字列が自己完結したJSONオブジェクトリテラルかを外形だけで判定します。
func looksLikeObject(s string) bool {
	return strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}")
}

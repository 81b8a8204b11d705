package generator

import (
	"context"
	"iter"
)

// Payload は生成サービスから取り出した1件の埋め込みバイナリです。
type Payload struct {
	Data     []byte
	MimeType string
}

// ImageClient は画像生成サービスへの能力インターフェースです。
// オーケストレーターはこの抽象だけに依存し、実体（Gemini等）を知りません。
type ImageClient interface {
	// Generate はブロッキング呼び出しを行い、応答全体から埋め込みペイロードを全件取り出します。
	Generate(ctx context.Context, prompt string) ([]Payload, error)

	// GenerateStream はストリーミング呼び出しを行い、チャンクに現れたペイロードを
	// 到着順に逐次返します。エラーはシーケンスの最後に1度だけ流れます。
	GenerateStream(ctx context.Context, prompt string) iter.Seq2[Payload, error]
}

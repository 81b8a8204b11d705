package generator

import (
	"context"
	"fmt"
	"iter"

	"google.golang.org/genai"
)

// GeminiImageClient は google.golang.org/genai を使った ImageClient の実装です。
// 画像＋テキストの応答モダリティを指定し、inline_data のバイナリを取り出します。
type GeminiImageClient struct {
	client *genai.Client
	model  string
}

// NewGeminiImageClient はAPIキーとモデル名からクライアントを初期化します。
func NewGeminiImageClient(ctx context.Context, apiKey, model string) (*GeminiImageClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("画像生成クライアントの初期化に失敗しました: %w", err)
	}
	return &GeminiImageClient{client: client, model: model}, nil
}

func (c *GeminiImageClient) generateConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
	}
}

// Generate は単発のブロッキング呼び出しで応答全体からペイロードを抽出します。
func (c *GeminiImageClient) Generate(ctx context.Context, prompt string) ([]Payload, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), c.generateConfig())
	if err != nil {
		return nil, fmt.Errorf("画像生成の呼び出しに失敗しました: %w", err)
	}
	return extractPayloads(resp), nil
}

// GenerateStream はストリーミング応答のチャンクからペイロードを逐次取り出すのだ。
func (c *GeminiImageClient) GenerateStream(ctx context.Context, prompt string) iter.Seq2[Payload, error] {
	return func(yield func(Payload, error) bool) {
		for resp, err := range c.client.Models.GenerateContentStream(ctx, c.model, genai.Text(prompt), c.generateConfig()) {
			if err != nil {
				yield(Payload{}, fmt.Errorf("ストリーミング生成に失敗しました: %w", err))
				return
			}
			for _, p := range extractPayloads(resp) {
				if !yield(p, nil) {
					return
				}
			}
		}
	}
}

// extractPayloads は応答の全候補・全パートを走査し、埋め込みバイナリを収集します。
func extractPayloads(resp *genai.GenerateContentResponse) []Payload {
	if resp == nil {
		return nil
	}
	var payloads []Payload
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			payloads = append(payloads, Payload{
				Data:     part.InlineData.Data,
				MimeType: part.InlineData.MIMEType,
			})
		}
	}
	return payloads
}

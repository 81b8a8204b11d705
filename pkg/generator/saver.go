package generator

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"path"
	"regexp"
	"strings"

	"github.com/shouni/go-remote-io/remoteio"
)

// ArtifactSaver は生成ペイロードの永続化を抽象化します。
// 戻り値の識別子（パス）が成果の正であり、書き込み自体は副作用です。
type ArtifactSaver interface {
	Save(ctx context.Context, name string, payload Payload) (string, error)
}

// RemoteArtifactSaver は remoteio.OutputWriter を使ってローカルまたは gs:// へ保存する実装です。
type RemoteArtifactSaver struct {
	writer  remoteio.OutputWriter
	baseDir string
}

// NewRemoteArtifactSaver は保存先ディレクトリを固定した Saver を生成します。
func NewRemoteArtifactSaver(writer remoteio.OutputWriter, baseDir string) *RemoteArtifactSaver {
	return &RemoteArtifactSaver{writer: writer, baseDir: baseDir}
}

// Save はペイロードを書き込み、完全なパスを返します。
func (s *RemoteArtifactSaver) Save(ctx context.Context, name string, payload Payload) (string, error) {
	fullPath := path.Join(s.baseDir, name)
	mimeType := payload.MimeType
	if mimeType == "" {
		mimeType = "image/png"
	}
	if err := s.writer.Write(ctx, fullPath, bytes.NewReader(payload.Data), mimeType); err != nil {
		return "", fmt.Errorf("画像の書き込みに失敗しました %s: %w", fullPath, err)
	}
	return fullPath, nil
}

var slugRegex = regexp.MustCompile(`[^a-z0-9]+`)

// slugify はタイトルをファイル名に安全な形へ変換するのだ。
func slugify(title string) string {
	slug := slugRegex.ReplaceAllString(strings.ToLower(title), "_")
	slug = strings.Trim(slug, "_")
	if slug == "" {
		return "untitled"
	}
	return slug
}

// extensionForMime はMIMEタイプから保存用の拡張子を決定します。不明なら .png を使います。
func extensionForMime(mimeType string) string {
	switch mimeType {
	case "image/png", "":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	}
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".png"
}

package runlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "errors.log")

	t.Run("1行ずつ追記されること", func(t *testing.T) {
		if err := Append(path, "ANALYSIS", "stage scene_reconstruction failed"); err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if err := Append(path, "IMAGE", "all attempts exhausted"); err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("ログファイルを読めませんでした: %v", err)
		}
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 2 {
			t.Fatalf("行数の期待値 2, 実際の値 %d", len(lines))
		}

		fields := strings.Split(lines[0], "\t")
		if len(fields) != 3 {
			t.Fatalf("フィールド数の期待値 3, 実際の値 %d", len(fields))
		}
		if _, err := time.Parse(time.RFC3339, fields[0]); err != nil {
			t.Errorf("タイムスタンプがRFC3339ではありません: %q", fields[0])
		}
		if fields[1] != "ANALYSIS" {
			t.Errorf("種別の期待値 'ANALYSIS', 実際の値 %q", fields[1])
		}
	})

	t.Run("開けないパスはエラーを返すこと", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "missing", "errors.log")
		if err := Append(bad, "X", "y"); err == nil {
			t.Error("存在しないディレクトリ配下への追記でエラーが発生しませんでした")
		}
	})
}

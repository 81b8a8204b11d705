package runlog

import (
	"fmt"
	"os"
	"time"
)

// Append は実行時の致命的イベントをローカルのログファイルへ1行追記するのだ。
// 形式は「RFC3339 タイムスタンプ \t 種別 \t メッセージ」の固定です。
// 記録自体の失敗で本処理を止めたくないため、エラーは返すだけで呼び出し側が握りつぶします。
func Append(path, kind, message string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("実行ログを開けませんでした: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("%s\t%s\t%s\n", time.Now().Format(time.RFC3339), kind, message)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("実行ログへの追記に失敗しました: %w", err)
	}
	return nil
}

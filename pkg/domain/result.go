package domain

// ImageOutcome は1枚の画像に対する生成結果です。
// 全試行が失敗しても Outcome として記録され、バッチ全体は継続します。
type ImageOutcome struct {
	ImageNumber int      `json:"image_number"`
	Title       string   `json:"title"`
	SavedPaths  []string `json:"saved_paths"`
	Attempts    int      `json:"attempts"`
	Success     bool     `json:"success"`
	LastError   string   `json:"last_error,omitempty"`
}

// GenerationResult は画像生成バッチ全体の集計結果です。
// SavedPaths が正であり、ディスク上のファイルは副産物という扱いなのだ。
type GenerationResult struct {
	Outcomes   []ImageOutcome `json:"outcomes"`
	SavedPaths []string       `json:"saved_paths"`
	Failures   int            `json:"failures"`
}

// Append は1枚分の結果を取り込みます。
func (r *GenerationResult) Append(o ImageOutcome) {
	r.Outcomes = append(r.Outcomes, o)
	r.SavedPaths = append(r.SavedPaths, o.SavedPaths...)
	if !o.Success {
		r.Failures++
	}
}

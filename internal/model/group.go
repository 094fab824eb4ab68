// internal/model/group.go
package model

// Word は1つの単語と3種類の訳語を表します
type Word struct {
	ID               string `json:"id"`
	Term             string `json:"term"`             // 学習対象の単語
	MeaningCn        string `json:"meaningCn"`        // 中国語訳
	MeaningEn        string `json:"meaningEn"`        // 英語の定義
	MeaningJp        string `json:"meaningJp"`        // 日本語訳
	MeaningJpReading string `json:"meaningJpReading"` // ふりがな (ひらがな)
}

// IsBlank は term と訳語がすべて空かどうかを返します
func (w Word) IsBlank() bool {
	return w.Term == "" && w.MeaningCn == "" && w.MeaningEn == "" &&
		w.MeaningJp == "" && w.MeaningJpReading == ""
}

// Group は日付ごとの単語のまとまり (通常10語) です
type Group struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	CreatedAt int64    `json:"createdAt"` // ミリ秒のUNIX時刻
	ImageURL  string   `json:"imageUrl,omitempty"`
	ImageURLs []string `json:"imageUrls,omitempty"`
	Passed    bool     `json:"passed"`
	LastScore *int     `json:"lastScore,omitempty"`
	Words     []Word   `json:"words"`
}

// Clone は slice を共有しないコピーを返します
func (g *Group) Clone() *Group {
	c := *g
	if g.ImageURLs != nil {
		c.ImageURLs = append([]string{}, g.ImageURLs...)
	}
	if g.Words != nil {
		c.Words = append([]Word{}, g.Words...)
	}
	if g.LastScore != nil {
		s := *g.LastScore
		c.LastScore = &s
	}
	return &c
}

// WordInput は受信した単語。フィールドはどれも省略可能。
type WordInput struct {
	ID               *string `json:"id,omitempty"`
	Term             *string `json:"term,omitempty"`
	MeaningCn        *string `json:"meaningCn,omitempty"`
	MeaningEn        *string `json:"meaningEn,omitempty"`
	MeaningJp        *string `json:"meaningJp,omitempty"`
	MeaningJpReading *string `json:"meaningJpReading,omitempty"`
}

// グループ作成・更新リクエストDTO (部分的なGroup)
// 未知のフィールドは無視する。ブラウザはGroup全体をそのまま送ってくるため。
type GroupInput struct {
	ID        *string      `json:"id,omitempty"`
	Title     *string      `json:"title,omitempty"`
	CreatedAt *int64       `json:"createdAt,omitempty"`
	Passed    *bool        `json:"passed,omitempty"`
	LastScore *int         `json:"lastScore,omitempty"`
	Words     *[]WordInput `json:"words,omitempty"`
	ImageURL  *string      `json:"imageUrl,omitempty"`
	ImageURLs *[]string    `json:"imageUrls,omitempty"` // 指定された場合はリスト全体を置き換える
}

// インポートリクエストDTO
type ImportGroupRequest struct {
	Title string       `json:"title" validate:"required"`
	Words *[]WordInput `json:"words" validate:"required"`
}

// 画像追加リクエストDTO
type AddImageRequest struct {
	Image string `json:"image" validate:"required,startswith=data:image/"`
}

// DeleteGroupResponse は削除成功時のレスポンス
type DeleteGroupResponse struct {
	Success bool `json:"success"`
}

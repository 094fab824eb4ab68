package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go_toon_vocab/internal/model"
)

const day = 24 * time.Hour

// SeedTarget は Seed が必要とするドキュメントストアの操作です
type SeedTarget interface {
	Exists(ctx context.Context) (bool, error)
	SaveAll(ctx context.Context, groups []*model.Group) error
}

// Seed はドキュメントが存在しない場合だけ初期データを書き込みます。
// 空のリストでもファイルがあれば何もしない。書き込んだ場合は true を返す。
func Seed(ctx context.Context, target SeedTarget, now time.Time, logger *slog.Logger) (bool, error) {
	if logger == nil {
		logger = slog.Default()
	}
	exists, err := target.Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("repository.Seed: %w", err)
	}
	if exists {
		logger.Debug("Document already exists, skipping seed")
		return false, nil
	}

	groups := SeedGroups(now)
	if err := target.SaveAll(ctx, groups); err != nil {
		return false, fmt.Errorf("repository.Seed: %w", err)
	}
	logger.Info("Data file initialized with seed data", slog.Int("groups", len(groups)))
	return true, nil
}

// SeedGroups は now を基準にした3日分のグループを返します (2日前, 1日前, 今日)
func SeedGroups(now time.Time) []*model.Group {
	return []*model.Group{
		{
			ID:        "seed-day-1",
			Title:     "Day 1",
			CreatedAt: now.Add(-2 * day).UnixMilli(),
			Words: []model.Word{
				{ID: "d1-1", Term: "prominent", MeaningCn: "卓越的，显著的", MeaningEn: "important or famous", MeaningJp: "傑出した", MeaningJpReading: "けっしゅつした"},
				{ID: "d1-2", Term: "inadequate", MeaningCn: "不充分的", MeaningEn: "not good enough", MeaningJp: "不十分な", MeaningJpReading: "ふじゅうぶんな"},
				{ID: "d1-3", Term: "ambiguous", MeaningCn: "模棱两可的", MeaningEn: "open to more than one interpretation", MeaningJp: "曖昧な", MeaningJpReading: "あいまいな"},
				{ID: "d1-4", Term: "inherent", MeaningCn: "固有的", MeaningEn: "existing as a permanent attribute", MeaningJp: "固有の", MeaningJpReading: "こゆうの"},
				{ID: "d1-5", Term: "viable", MeaningCn: "可行的", MeaningEn: "capable of working successfully", MeaningJp: "実行可能な", MeaningJpReading: "じっこうかのうな"},
				{ID: "d1-6", Term: "plausible", MeaningCn: "看似合理的", MeaningEn: "seeming reasonable or probable", MeaningJp: "もっともらしい", MeaningJpReading: ""},
				{ID: "d1-7", Term: "naive", MeaningCn: "天真的", MeaningEn: "showing a lack of experience", MeaningJp: "世間知らずな", MeaningJpReading: "せけんしらずな"},
				{ID: "d1-8", Term: "strive", MeaningCn: "努力", MeaningEn: "make great efforts to achieve", MeaningJp: "努力する", MeaningJpReading: "どりょくする"},
				{ID: "d1-9", Term: "abundance", MeaningCn: "丰富", MeaningEn: "a very large quantity of something", MeaningJp: "豊富", MeaningJpReading: "ほうふ"},
				{ID: "d1-10", Term: "deployment", MeaningCn: "部署", MeaningEn: "bringing resources into effective action", MeaningJp: "配備", MeaningJpReading: "はいび"},
			},
		},
		{
			ID:        "seed-day-2",
			Title:     "Day 2",
			CreatedAt: now.Add(-1 * day).UnixMilli(),
			Words: []model.Word{
				{ID: "d2-1", Term: "intuition", MeaningCn: "直觉", MeaningEn: "ability to understand immediately", MeaningJp: "直感", MeaningJpReading: "ちょっかん"},
				{ID: "d2-2", Term: "prejudice", MeaningCn: "偏见", MeaningEn: "preconceived opinion not based on reason", MeaningJp: "偏見", MeaningJpReading: "へんけん"},
				{ID: "d2-3", Term: "frail", MeaningCn: "脆弱的", MeaningEn: "weak and delicate", MeaningJp: "虚弱な", MeaningJpReading: "きょじゃくな"},
				{ID: "d2-4", Term: "scramble", MeaningCn: "争夺，攀登", MeaningEn: "make one's way quickly or awkwardly", MeaningJp: "よじ登る", MeaningJpReading: "よじのぼる"},
				{ID: "d2-5", Term: "disconnect", MeaningCn: "断开", MeaningEn: "break the connection", MeaningJp: "切断", MeaningJpReading: "せつだん"},
				{ID: "d2-6", Term: "deficiency", MeaningCn: "缺乏", MeaningEn: "a lack or shortage", MeaningJp: "欠乏", MeaningJpReading: "けつぼう"},
				{ID: "d2-7", Term: "animated", MeaningCn: "生机勃勃的", MeaningEn: "full of life or excitement", MeaningJp: "生き生きとした", MeaningJpReading: "いきいきとした"},
				{ID: "d2-8", Term: "abstract", MeaningCn: "抽象的", MeaningEn: "existing in thought but not physical", MeaningJp: "抽象的な", MeaningJpReading: "ちゅうしょうてきな"},
				{ID: "d2-9", Term: "analogy", MeaningCn: "类比", MeaningEn: "a comparison between two things", MeaningJp: "類推", MeaningJpReading: "るいすい"},
				{ID: "d2-10", Term: "adequate", MeaningCn: "足够的", MeaningEn: "satisfactory or acceptable", MeaningJp: "十分な", MeaningJpReading: "じゅうぶんな"},
			},
		},
		{
			ID:        "seed-day-3",
			Title:     "Day 3",
			CreatedAt: now.UnixMilli(),
			Words: []model.Word{
				{ID: "d3-1", Term: "fundamental", MeaningCn: "基础的", MeaningEn: "forming a necessary base or core", MeaningJp: "基本的な", MeaningJpReading: "きほんてきな"},
				{ID: "d3-2", Term: "comprehend", MeaningCn: "理解", MeaningEn: "grasp mentally; understand", MeaningJp: "理解する", MeaningJpReading: "りかいする"},
				{ID: "d3-3", Term: "distinguish", MeaningCn: "区分", MeaningEn: "recognize as different", MeaningJp: "区別する", MeaningJpReading: "くべつする"},
				{ID: "d3-4", Term: "discipline", MeaningCn: "纪律", MeaningEn: "practice of training people to obey rules", MeaningJp: "規律", MeaningJpReading: "きりつ"},
				{ID: "d3-5", Term: "capability", MeaningCn: "能力", MeaningEn: "the power or ability to do something", MeaningJp: "能力", MeaningJpReading: "のうりょく"},
				{ID: "d3-6", Term: "merit", MeaningCn: "优点", MeaningEn: "quality of being particularly good", MeaningJp: "メリット", MeaningJpReading: ""},
				{ID: "d3-7", Term: "contradict", MeaningCn: "反驳", MeaningEn: "deny the truth by asserting the opposite", MeaningJp: "矛盾する", MeaningJpReading: "むじゅんする"},
				{ID: "d3-8", Term: "regulation", MeaningCn: "规定", MeaningEn: "a rule or directive", MeaningJp: "規制", MeaningJpReading: "きせい"},
				{ID: "d3-9", Term: "execution", MeaningCn: "执行", MeaningEn: "the carrying out of a plan", MeaningJp: "実行", MeaningJpReading: "じっこう"},
				{ID: "d3-10", Term: "domain", MeaningCn: "领域", MeaningEn: "an area of territory owned or controlled", MeaningJp: "領域", MeaningJpReading: "りょういき"},
			},
		},
	}
}

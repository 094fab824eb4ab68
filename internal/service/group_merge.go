package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go_toon_vocab/internal/model"

	"golang.org/x/sync/errgroup"
)

// merge は既存レコードに許可されたフィールドだけを上書きします。
// id は常に既存のものを使う。画像フィールドは呼び出し側で扱う。
func (s *groupService) merge(existing *model.Group, req *model.GroupInput) *model.Group {
	updated := existing.Clone()
	if req.Title != nil {
		updated.Title = *req.Title
	}
	if req.CreatedAt != nil {
		updated.CreatedAt = *req.CreatedAt
	}
	if req.Passed != nil {
		updated.Passed = *req.Passed
	}
	if req.LastScore != nil {
		score := *req.LastScore
		updated.LastScore = &score
	}
	if req.Words != nil {
		updated.Words = s.normalizeWords(*req.Words)
	}
	if updated.Words == nil {
		updated.Words = []model.Word{}
	}
	return updated
}

// normalizeWords は5つの文字列フィールドを必ず埋め、id が無ければ採番します
func (s *groupService) normalizeWords(in []model.WordInput) []model.Word {
	words := make([]model.Word, 0, len(in))
	for _, w := range in {
		word := model.Word{
			ID:               deref(w.ID),
			Term:             deref(w.Term),
			MeaningCn:        deref(w.MeaningCn),
			MeaningEn:        deref(w.MeaningEn),
			MeaningJp:        deref(w.MeaningJp),
			MeaningJpReading: deref(w.MeaningJpReading),
		}
		if word.ID == "" {
			word.ID = s.newID()
		}
		words = append(words, word)
	}
	return words
}

// resolveImage は画像フィールドの値を解釈します。
// data URI は保存して新しいURLを返す (fresh=true)。それ以外はそのまま。
func (s *groupService) resolveImage(ctx context.Context, key, value string) (string, bool, error) {
	if !s.vault.IsDataURI(value) {
		return value, false, nil
	}
	url, err := s.vault.Save(ctx, key, value)
	if err != nil {
		return "", false, imageError(err)
	}
	return url, true, nil
}

// resolveImageList は imageUrls の各要素を並行して処理します。
// 要素 i の data URI は "<key>_img<i>" をキーに保存する。空文字は捨てる。
func (s *groupService) resolveImageList(ctx context.Context, key string, values []string) ([]string, []string, error) {
	results := make([]string, len(values))
	isData := make([]bool, len(values))

	g, gctx := errgroup.WithContext(ctx)
	for i, v := range values {
		if !s.vault.IsDataURI(v) {
			results[i] = v
			continue
		}
		isData[i] = true
		i, v := i, v // go 1.21 ではループ変数が共有されるためコピーする
		g.Go(func() error {
			url, err := s.vault.Save(gctx, fmt.Sprintf("%s_img%d", key, i), v)
			if err != nil {
				return err
			}
			results[i] = url
			return nil
		})
	}
	err := g.Wait()

	var fresh []string
	for i, url := range results {
		if isData[i] && url != "" {
			fresh = append(fresh, url)
		}
	}
	if err != nil {
		s.discard(ctx, fresh)
		return nil, nil, imageError(err)
	}

	urls := make([]string, 0, len(results))
	for _, url := range results {
		if url != "" {
			urls = append(urls, url)
		}
	}
	return urls, fresh, nil
}

// discard は画像ファイルを消します (保持ポリシーは vault 側で判定)。
// 失敗してもドキュメントは既に確定しているので、ログに残すだけ。
func (s *groupService) discard(ctx context.Context, urls []string) {
	for _, url := range urls {
		if err := s.vault.Remove(ctx, url); err != nil {
			s.log(ctx, "discard").Warn("Failed to remove image", slog.String("url", url), slog.Any("error", err))
		}
	}
}

func imageError(err error) error {
	if errors.Is(err, model.ErrInvalidImageEncoding) {
		return model.NewAppError("INVALID_IMAGE", "Invalid image data", "image", err)
	}
	return fmt.Errorf("groupService: store image: %w", err)
}

// missingFrom は old にあって current に無いURLを返します
func missingFrom(old, current []string) []string {
	keep := make(map[string]struct{}, len(current))
	for _, u := range current {
		keep[u] = struct{}{}
	}
	var gone []string
	for _, u := range old {
		if _, ok := keep[u]; !ok && u != "" {
			gone = append(gone, u)
		}
	}
	return gone
}

// imagesOf はグループが参照する画像URL (imageUrl と imageUrls) を返します
func imagesOf(g *model.Group) []string {
	images := make([]string, 0, len(g.ImageURLs)+1)
	if g.ImageURL != "" {
		images = append(images, g.ImageURL)
	}
	return append(images, g.ImageURLs...)
}

// validID はファイル名の一部に使える id かどうかを返します
func validID(id string) bool {
	return id != "" && !strings.ContainsAny(id, `/\`) && id != "." && id != ".."
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

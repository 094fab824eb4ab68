package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"go_toon_vocab/internal/config"
	"go_toon_vocab/internal/furigana"
	"go_toon_vocab/internal/middleware"
	"go_toon_vocab/internal/model"
	"go_toon_vocab/internal/repository"

	"github.com/google/uuid"
)

const defaultGroupTitle = "New Day"

var (
	errGroupNotFound = model.NewAppError("GROUP_NOT_FOUND", "Group not found", "", model.ErrNotFound)
	errInvalidIndex  = model.NewAppError("INVALID_IMAGE_INDEX", "Invalid image index", "index", model.ErrInvalidInput)
	errInvalidImage  = model.NewAppError("INVALID_IMAGE", "Invalid image data", "image", model.ErrInvalidInput)
	errImportFormat  = model.NewAppError("INVALID_FORMAT", "Invalid format. Expected: { title: string, words: [...] }", "", model.ErrInvalidInput)
	errInvalidID     = model.NewAppError("INVALID_ID", "Invalid group id", "id", model.ErrInvalidInput)
)

type GroupService interface {
	ListGroups(ctx context.Context) ([]*model.Group, error)
	GetGroup(ctx context.Context, id string) (*model.Group, error)
	CreateGroup(ctx context.Context, req *model.GroupInput) (*model.Group, error)
	UpdateGroup(ctx context.Context, id string, req *model.GroupInput) (*model.Group, error)
	DeleteGroup(ctx context.Context, id string) error
	AddImage(ctx context.Context, id, dataURI string) (*model.Group, error)
	RemoveImage(ctx context.Context, id string, index int) (*model.Group, error)
	ImportGroup(ctx context.Context, req *model.ImportGroupRequest) (*model.Group, error)
}

type groupService struct {
	repo   repository.GroupRepository
	vault  repository.ImageVault
	logger *slog.Logger

	now      func() time.Time
	newID    func() string
	reader   furigana.Reader // nil なら読みの自動補完はしない
	minWords int

	// ドキュメントの read-modify-write を直列化する
	mu sync.Mutex
}

// Option は groupService の設定を変更します
type Option func(*groupService)

func WithClock(now func() time.Time) Option {
	return func(s *groupService) { s.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *groupService) { s.newID = newID }
}

func WithReadingFiller(r furigana.Reader) Option {
	return func(s *groupService) { s.reader = r }
}

func WithMinWords(n int) Option {
	return func(s *groupService) { s.minWords = n }
}

func NewGroupService(repo repository.GroupRepository, vault repository.ImageVault, logger *slog.Logger, opts ...Option) GroupService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &groupService{
		repo:     repo,
		vault:    vault,
		logger:   logger,
		now:      time.Now,
		newID:    NewID,
		minWords: config.DefaultMinWords,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewID は128bitのランダムなUUIDを返します
func NewID() string {
	return uuid.NewString()
}

func (s *groupService) log(ctx context.Context, op string) *slog.Logger {
	return middleware.GetLogger(ctx).With(slog.String("service", "GroupService"), slog.String("op", op))
}

// ListGroups は createdAt の降順で返します。同じ時刻は保存順を保つ。
func (s *groupService) ListGroups(ctx context.Context) ([]*model.Group, error) {
	groups, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("groupService.ListGroups: %w", err)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].CreatedAt > groups[j].CreatedAt
	})
	return groups, nil
}

func (s *groupService) GetGroup(ctx context.Context, id string) (*model.Group, error) {
	group, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, errGroupNotFound
		}
		return nil, fmt.Errorf("groupService.GetGroup: %w", err)
	}
	return group, nil
}

func (s *groupService) CreateGroup(ctx context.Context, req *model.GroupInput) (*model.Group, error) {
	logger := s.log(ctx, "CreateGroup")

	group := &model.Group{
		ID:        s.newID(),
		Title:     defaultGroupTitle,
		CreatedAt: s.now().UnixMilli(),
		Words:     []model.Word{},
	}
	if req.ID != nil && *req.ID != "" {
		if !validID(*req.ID) {
			return nil, errInvalidID
		}
		group.ID = *req.ID
	}
	if req.Title != nil && *req.Title != "" {
		group.Title = *req.Title
	}
	if req.CreatedAt != nil && *req.CreatedAt != 0 {
		group.CreatedAt = *req.CreatedAt
	}
	if req.Passed != nil {
		group.Passed = *req.Passed
	}
	if req.LastScore != nil {
		score := *req.LastScore
		group.LastScore = &score
	}
	if req.Words != nil {
		group.Words = s.normalizeWords(*req.Words)
	}

	// 画像ファイルの書き込みはロックの外で行う
	var written []string
	if req.ImageURL != nil && *req.ImageURL != "" {
		url, fresh, err := s.resolveImage(ctx, group.ID, *req.ImageURL)
		if err != nil {
			return nil, err
		}
		group.ImageURL = url
		if fresh {
			written = append(written, url)
		}
	}
	if req.ImageURLs != nil {
		urls, fresh, err := s.resolveImageList(ctx, group.ID, *req.ImageURLs)
		if err != nil {
			s.discard(ctx, written)
			return nil, err
		}
		group.ImageURLs = urls
		written = append(written, fresh...)
	}

	// 同じ id のグループがあれば置き換える。新しいレコードが参照しない古い画像は後で消す
	s.mu.Lock()
	var stale []string
	existing, err := s.repo.FindByID(ctx, group.ID)
	switch {
	case err == nil:
		stale = missingFrom(imagesOf(existing), imagesOf(group))
	case !errors.Is(err, model.ErrNotFound):
		s.mu.Unlock()
		s.discard(ctx, written)
		return nil, fmt.Errorf("groupService.CreateGroup: %w", err)
	}
	if err := s.repo.Upsert(ctx, group); err != nil {
		s.mu.Unlock()
		s.discard(ctx, written)
		return nil, fmt.Errorf("groupService.CreateGroup: %w", err)
	}
	s.mu.Unlock()

	s.discard(ctx, stale)
	logger.Info("Group created", slog.String("group_id", group.ID), slog.Int("words", len(group.Words)),
		slog.Bool("replaced", existing != nil), slog.Int("images_replaced", len(stale)))
	return group, nil
}

func (s *groupService) UpdateGroup(ctx context.Context, id string, req *model.GroupInput) (*model.Group, error) {
	logger := s.log(ctx, "UpdateGroup").With(slog.String("group_id", id))

	// 存在確認してから画像を書き込む
	if _, err := s.GetGroup(ctx, id); err != nil {
		return nil, err
	}

	var written []string
	var newImageURL *string
	if req.ImageURL != nil && *req.ImageURL != "" {
		url, fresh, err := s.resolveImage(ctx, id, *req.ImageURL)
		if err != nil {
			return nil, err
		}
		newImageURL = &url
		if fresh {
			written = append(written, url)
		}
	}
	var newImageURLs []string
	if req.ImageURLs != nil {
		urls, fresh, err := s.resolveImageList(ctx, id, *req.ImageURLs)
		if err != nil {
			s.discard(ctx, written)
			return nil, err
		}
		newImageURLs = urls
		written = append(written, fresh...)
	}

	s.mu.Lock()
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.mu.Unlock()
		s.discard(ctx, written)
		if errors.Is(err, model.ErrNotFound) {
			return nil, errGroupNotFound
		}
		return nil, fmt.Errorf("groupService.UpdateGroup: %w", err)
	}

	updated := s.merge(existing, req)
	var stale []string
	if newImageURL != nil {
		if existing.ImageURL != "" && existing.ImageURL != *newImageURL {
			stale = append(stale, existing.ImageURL)
		}
		updated.ImageURL = *newImageURL
	}
	if req.ImageURLs != nil {
		stale = append(stale, missingFrom(existing.ImageURLs, newImageURLs)...)
		updated.ImageURLs = newImageURLs
	}

	if err := s.repo.Upsert(ctx, updated); err != nil {
		s.mu.Unlock()
		s.discard(ctx, written)
		return nil, fmt.Errorf("groupService.UpdateGroup: %w", err)
	}
	s.mu.Unlock()

	// 置き換えられた古い画像は保存が確定してから消す
	s.discard(ctx, stale)
	logger.Info("Group updated", slog.Int("images_written", len(written)), slog.Int("images_replaced", len(stale)))
	return updated, nil
}

func (s *groupService) DeleteGroup(ctx context.Context, id string) error {
	logger := s.log(ctx, "DeleteGroup").With(slog.String("group_id", id))

	s.mu.Lock()
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.mu.Unlock()
		if errors.Is(err, model.ErrNotFound) {
			return errGroupNotFound
		}
		return fmt.Errorf("groupService.DeleteGroup: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("groupService.DeleteGroup: %w", err)
	}
	s.mu.Unlock()

	images := imagesOf(existing)
	s.discard(ctx, images)
	logger.Info("Group deleted", slog.Int("images", len(images)))
	return nil
}

func (s *groupService) AddImage(ctx context.Context, id, dataURI string) (*model.Group, error) {
	logger := s.log(ctx, "AddImage").With(slog.String("group_id", id))

	if _, err := s.GetGroup(ctx, id); err != nil {
		return nil, err
	}
	if !s.vault.IsDataURI(dataURI) {
		return nil, errInvalidImage
	}
	url, err := s.vault.Save(ctx, id, dataURI)
	if err != nil {
		return nil, imageError(err)
	}

	s.mu.Lock()
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.mu.Unlock()
		s.discard(ctx, []string{url})
		if errors.Is(err, model.ErrNotFound) {
			return nil, errGroupNotFound
		}
		return nil, fmt.Errorf("groupService.AddImage: %w", err)
	}
	updated := existing.Clone()
	updated.ImageURLs = append(updated.ImageURLs, url)
	if err := s.repo.Upsert(ctx, updated); err != nil {
		s.mu.Unlock()
		s.discard(ctx, []string{url})
		return nil, fmt.Errorf("groupService.AddImage: %w", err)
	}
	s.mu.Unlock()

	logger.Info("Image added", slog.String("url", url), slog.Int("images", len(updated.ImageURLs)))
	return updated, nil
}

func (s *groupService) RemoveImage(ctx context.Context, id string, index int) (*model.Group, error) {
	logger := s.log(ctx, "RemoveImage").With(slog.String("group_id", id), slog.Int("index", index))

	s.mu.Lock()
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.mu.Unlock()
		if errors.Is(err, model.ErrNotFound) {
			return nil, errGroupNotFound
		}
		return nil, fmt.Errorf("groupService.RemoveImage: %w", err)
	}
	if index < 0 || index >= len(existing.ImageURLs) {
		s.mu.Unlock()
		return nil, errInvalidIndex
	}

	updated := existing.Clone()
	removed := updated.ImageURLs[index]
	updated.ImageURLs = append(updated.ImageURLs[:index], updated.ImageURLs[index+1:]...)
	if err := s.repo.Upsert(ctx, updated); err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("groupService.RemoveImage: %w", err)
	}
	s.mu.Unlock()

	s.discard(ctx, []string{removed})
	logger.Info("Image removed", slog.String("url", removed))
	return updated, nil
}

func (s *groupService) ImportGroup(ctx context.Context, req *model.ImportGroupRequest) (*model.Group, error) {
	logger := s.log(ctx, "ImportGroup")

	if req == nil || strings.TrimSpace(req.Title) == "" || req.Words == nil {
		return nil, errImportFormat
	}

	words := s.normalizeWords(*req.Words)
	if s.reader != nil {
		for i := range words {
			if words[i].MeaningJp != "" && words[i].MeaningJpReading == "" {
				words[i].MeaningJpReading = s.reader.Reading(words[i].MeaningJp)
			}
		}
	}
	for len(words) < s.minWords {
		words = append(words, model.Word{ID: s.newID()})
	}

	group := &model.Group{
		ID:        s.newID(),
		Title:     req.Title,
		CreatedAt: s.now().UnixMilli(),
		Passed:    false,
		Words:     words,
	}

	s.mu.Lock()
	err := s.repo.Upsert(ctx, group)
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("groupService.ImportGroup: %w", err)
	}

	logger.Info("Group imported", slog.String("group_id", group.ID),
		slog.Int("words_in", len(*req.Words)), slog.Int("words", len(group.Words)))
	return group, nil
}

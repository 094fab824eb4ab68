package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go_toon_vocab/internal/config"
	"go_toon_vocab/internal/model"
	"go_toon_vocab/internal/repository"
	"go_toon_vocab/internal/repository/mocks"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	pngURI  = "data:image/png;base64,iVBORw0KGgo="
	jpegURI = "data:image/jpeg;base64,/9j/2wBDAA=="
)

var fixedNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ptr[T any](v T) *T { return &v }

// sequentialIDs は "id-1", "id-2", ... を返す
func sequentialIDs() func() string {
	var n atomic.Int64
	return func() string { return fmt.Sprintf("id-%d", n.Add(1)) }
}

type fixture struct {
	svc  GroupService
	repo *repository.FileGroupRepository
	fs   afero.Fs
}

// newFixture は MemMapFs 上の実リポジトリと実 vault でサービスを組み立てます
func newFixture(t *testing.T, retention string, opts ...Option) *fixture {
	t.Helper()
	fsys := afero.NewMemMapFs()
	repo := repository.NewFileGroupRepository(fsys, "data.json")
	vault, err := repository.NewFileImageVault(fsys, "images", "/images", retention, testLogger(),
		repository.WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)

	base := []Option{WithClock(func() time.Time { return fixedNow }), WithIDGenerator(sequentialIDs())}
	svc := NewGroupService(repo, vault, testLogger(), append(base, opts...)...)
	return &fixture{svc: svc, repo: repo, fs: fsys}
}

func (f *fixture) fileExists(t *testing.T, url string) bool {
	t.Helper()
	ok, err := afero.Exists(f.fs, "images/"+strings.TrimPrefix(url, "/images/"))
	require.NoError(t, err)
	return ok
}

func (f *fixture) imageCount(t *testing.T) int {
	t.Helper()
	entries, err := afero.ReadDir(f.fs, "images")
	require.NoError(t, err)
	return len(entries)
}

type fakeReader map[string]string

func (r fakeReader) Reading(text string) string { return r[text] }

// --- ListGroups ---

func Test_groupService_ListGroups(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		stored    []*model.Group
		repoErr   error
		wantOrder []string
		wantErr   error
	}{
		{
			name: "正常系: createdAt の降順、同時刻は保存順",
			stored: []*model.Group{
				{ID: "a", CreatedAt: 100},
				{ID: "b", CreatedAt: 300},
				{ID: "c", CreatedAt: 200},
				{ID: "d", CreatedAt: 300},
			},
			wantOrder: []string{"b", "d", "c", "a"},
		},
		{
			name:      "正常系: 空",
			stored:    []*model.Group{},
			wantOrder: []string{},
		},
		{
			name:    "異常系: ストレージ読み込み失敗",
			repoErr: model.ErrStorageUnavailable,
			wantErr: model.ErrStorageUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewGroupRepository(t)
			vault := mocks.NewImageVault(t)
			repo.On("FindAll", ctx).Return(tt.stored, tt.repoErr).Once()

			svc := NewGroupService(repo, vault, testLogger())
			groups, err := svc.ListGroups(ctx)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			ids := make([]string, 0, len(groups))
			for _, g := range groups {
				ids = append(ids, g.ID)
			}
			assert.Equal(t, tt.wantOrder, ids)
		})
	}
}

// --- GetGroup ---

func Test_groupService_GetGroup(t *testing.T) {
	ctx := context.Background()

	t.Run("正常系: 取得成功", func(t *testing.T) {
		repo := mocks.NewGroupRepository(t)
		want := &model.Group{ID: "g1", Title: "Day 1", Words: []model.Word{}}
		repo.On("FindByID", ctx, "g1").Return(want, nil).Once()

		got, err := NewGroupService(repo, mocks.NewImageVault(t), testLogger()).GetGroup(ctx, "g1")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("異常系: 存在しない", func(t *testing.T) {
		repo := mocks.NewGroupRepository(t)
		repo.On("FindByID", ctx, "missing").Return(nil, model.ErrNotFound).Once()

		_, err := NewGroupService(repo, mocks.NewImageVault(t), testLogger()).GetGroup(ctx, "missing")
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrNotFound)
		var appErr *model.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, "Group not found", appErr.Message)
	})
}

// --- CreateGroup ---

func Test_groupService_CreateGroup_Defaults(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, config.RetentionReplace)

	g, err := f.svc.CreateGroup(ctx, &model.GroupInput{})
	require.NoError(t, err)
	assert.Equal(t, "id-1", g.ID)
	assert.Equal(t, "New Day", g.Title)
	assert.Equal(t, fixedNow.UnixMilli(), g.CreatedAt)
	assert.False(t, g.Passed)
	assert.NotNil(t, g.Words)
	assert.Empty(t, g.Words)
	assert.Empty(t, g.ImageURL)

	// createdAt: 0 は現在時刻で置き換える
	g2, err := f.svc.CreateGroup(ctx, &model.GroupInput{Title: ptr("Day 2"), CreatedAt: ptr(int64(0))})
	require.NoError(t, err)
	assert.Equal(t, "Day 2", g2.Title)
	assert.Equal(t, fixedNow.UnixMilli(), g2.CreatedAt)

	stored, err := f.repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func Test_groupService_CreateGroup_WithImages(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, config.RetentionReplace)

	g, err := f.svc.CreateGroup(ctx, &model.GroupInput{
		ID:        ptr("g1"),
		Title:     ptr("Pictures"),
		ImageURL:  ptr(pngURI),
		ImageURLs: ptr([]string{pngURI, "", "/images/kept.png", jpegURI}),
		Words:     ptr([]model.WordInput{{Term: ptr("apple")}}),
	})
	require.NoError(t, err)

	assert.Equal(t, "g1", g.ID)
	assert.Equal(t, fmt.Sprintf("/images/g1_%d.png", fixedNow.UnixMilli()), g.ImageURL)
	require.Len(t, g.ImageURLs, 3)
	assert.True(t, strings.HasPrefix(g.ImageURLs[0], "/images/g1_img0_"), g.ImageURLs[0])
	assert.True(t, strings.HasSuffix(g.ImageURLs[0], ".png"))
	assert.Equal(t, "/images/kept.png", g.ImageURLs[1])
	assert.True(t, strings.HasPrefix(g.ImageURLs[2], "/images/g1_img3_"), g.ImageURLs[2])
	assert.True(t, strings.HasSuffix(g.ImageURLs[2], ".jpg"))

	assert.True(t, f.fileExists(t, g.ImageURL))
	assert.True(t, f.fileExists(t, g.ImageURLs[0]))
	assert.True(t, f.fileExists(t, g.ImageURLs[2]))
	assert.Equal(t, 3, f.imageCount(t))

	// 単語は5フィールドが埋まり id が採番される
	require.Len(t, g.Words, 1)
	assert.Equal(t, model.Word{ID: "id-2", Term: "apple"}, g.Words[0])
}

func Test_groupService_CreateGroup_InvalidImage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, config.RetentionReplace)

	_, err := f.svc.CreateGroup(ctx, &model.GroupInput{ImageURL: ptr("data:image/png;base64,!!!!")})
	require.Error(t, err)
	var appErr *model.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "Invalid image data", appErr.Message)
	assert.ErrorIs(t, err, model.ErrInvalidImageEncoding)

	stored, err := f.repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func Test_groupService_CreateGroup_InvalidID(t *testing.T) {
	f := newFixture(t, config.RetentionReplace)
	_, err := f.svc.CreateGroup(context.Background(), &model.GroupInput{ID: ptr("../etc")})
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func Test_groupService_CreateGroup_UpsertFailureDiscardsImage(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewGroupRepository(t)
	vault := mocks.NewImageVault(t)

	vault.On("IsDataURI", pngURI).Return(true).Once()
	vault.On("Save", ctx, "g1", pngURI).Return("/images/g1_1.png", nil).Once()
	repo.On("FindByID", ctx, "g1").Return(nil, model.ErrNotFound).Once()
	repo.On("Upsert", ctx, mock.AnythingOfType("*model.Group")).Return(model.ErrIOFailure).Once()
	vault.On("Remove", ctx, "/images/g1_1.png").Return(nil).Once()

	svc := NewGroupService(repo, vault, testLogger())
	_, err := svc.CreateGroup(ctx, &model.GroupInput{ID: ptr("g1"), ImageURL: ptr(pngURI)})
	assert.ErrorIs(t, err, model.ErrIOFailure)
}

func Test_groupService_CreateGroup_ExistingIDReplacesImages(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		retention    string
		wantOldGone  bool
		wantFilesEnd int
	}{
		{name: "正常系: replace なら置き換えた古い画像を消す", retention: config.RetentionReplace, wantOldGone: true, wantFilesEnd: 0},
		{name: "正常系: preserve なら古い画像を残す", retention: config.RetentionPreserve, wantOldGone: false, wantFilesEnd: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.retention)

			first, err := f.svc.CreateGroup(ctx, &model.GroupInput{
				ID:        ptr("dup"),
				ImageURL:  ptr(pngURI),
				ImageURLs: ptr([]string{pngURI, jpegURI}),
			})
			require.NoError(t, err)
			kept := first.ImageURLs[1]

			// 2回目: imageUrl は新しい画像、imageUrls は1枚だけ送り返す
			second, err := f.svc.CreateGroup(ctx, &model.GroupInput{
				ID:        ptr("dup"),
				Title:     ptr("again"),
				ImageURL:  ptr(jpegURI),
				ImageURLs: ptr([]string{kept}),
			})
			require.NoError(t, err)
			assert.Equal(t, []string{kept}, second.ImageURLs)

			assert.Equal(t, !tt.wantOldGone, f.fileExists(t, first.ImageURL))
			assert.Equal(t, !tt.wantOldGone, f.fileExists(t, first.ImageURLs[0]))
			assert.True(t, f.fileExists(t, kept), "送り返した画像は残す")
			assert.True(t, f.fileExists(t, second.ImageURL))

			stored, err := f.repo.FindAll(ctx)
			require.NoError(t, err)
			require.Len(t, stored, 1)
			assert.Equal(t, "again", stored[0].Title)

			require.NoError(t, f.svc.DeleteGroup(ctx, "dup"))
			assert.Equal(t, tt.wantFilesEnd, f.imageCount(t))
		})
	}
}

func Test_groupService_CreateGroup_LookupFailureDiscardsImage(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewGroupRepository(t)
	vault := mocks.NewImageVault(t)

	vault.On("IsDataURI", pngURI).Return(true).Once()
	vault.On("Save", ctx, "g1", pngURI).Return("/images/g1_1.png", nil).Once()
	repo.On("FindByID", ctx, "g1").Return(nil, model.ErrStorageUnavailable).Once()
	vault.On("Remove", ctx, "/images/g1_1.png").Return(nil).Once()

	svc := NewGroupService(repo, vault, testLogger())
	_, err := svc.CreateGroup(ctx, &model.GroupInput{ID: ptr("g1"), ImageURL: ptr(pngURI)})
	assert.ErrorIs(t, err, model.ErrStorageUnavailable)
	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

// --- UpdateGroup ---

func Test_groupService_UpdateGroup(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, config.RetentionReplace)

	created, err := f.svc.CreateGroup(ctx, &model.GroupInput{ID: ptr("g1"), Title: ptr("Day 1"), ImageURL: ptr(pngURI)})
	require.NoError(t, err)
	oldURL := created.ImageURL

	updated, err := f.svc.UpdateGroup(ctx, "g1", &model.GroupInput{
		ID:        ptr("other"),
		Passed:    ptr(true),
		LastScore: ptr(8),
		ImageURL:  ptr(jpegURI),
	})
	require.NoError(t, err)

	assert.Equal(t, "g1", updated.ID, "パスの id が優先される")
	assert.Equal(t, "Day 1", updated.Title, "省略したフィールドは保持")
	assert.True(t, updated.Passed)
	require.NotNil(t, updated.LastScore)
	assert.Equal(t, 8, *updated.LastScore)
	assert.True(t, strings.HasSuffix(updated.ImageURL, ".jpg"))
	assert.NotEqual(t, oldURL, updated.ImageURL)

	assert.False(t, f.fileExists(t, oldURL), "置き換えられた画像は削除")
	assert.True(t, f.fileExists(t, updated.ImageURL))

	_, err = f.repo.FindByID(ctx, "other")
	assert.ErrorIs(t, err, model.ErrNotFound)
	stored, err := f.repo.FindByID(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, updated, stored)
}

func Test_groupService_UpdateGroup_PreserveKeepsOldImage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, config.RetentionPreserve)

	created, err := f.svc.CreateGroup(ctx, &model.GroupInput{ID: ptr("g1"), ImageURL: ptr(pngURI)})
	require.NoError(t, err)

	updated, err := f.svc.UpdateGroup(ctx, "g1", &model.GroupInput{ImageURL: ptr(jpegURI)})
	require.NoError(t, err)
	assert.True(t, f.fileExists(t, created.ImageURL))
	assert.True(t, f.fileExists(t, updated.ImageURL))
}

func Test_groupService_UpdateGroup_ImageFieldNoChange(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, config.RetentionReplace)

	created, err := f.svc.CreateGroup(ctx, &model.GroupInput{ID: ptr("g1"), ImageURL: ptr(pngURI)})
	require.NoError(t, err)

	for _, in := range []*model.GroupInput{
		{Title: ptr("renamed")},
		{ImageURL: ptr("")},
		{ImageURL: ptr(created.ImageURL)},
	} {
		updated, err := f.svc.UpdateGroup(ctx, "g1", in)
		require.NoError(t, err)
		assert.Equal(t, created.ImageURL, updated.ImageURL)
		assert.True(t, f.fileExists(t, created.ImageURL))
	}
	assert.Equal(t, 1, f.imageCount(t))
}

func Test_groupService_UpdateGroup_ImageURLs(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, config.RetentionReplace)

	created, err := f.svc.CreateGroup(ctx, &model.GroupInput{ID: ptr("g1"), ImageURLs: ptr([]string{pngURI, jpegURI})})
	require.NoError(t, err)
	require.Len(t, created.ImageURLs, 2)
	first, second := created.ImageURLs[0], created.ImageURLs[1]

	// 既存URLを送り返したものは残り、外したものだけ消える
	updated, err := f.svc.UpdateGroup(ctx, "g1", &model.GroupInput{ImageURLs: ptr([]string{second, pngURI})})
	require.NoError(t, err)
	require.Len(t, updated.ImageURLs, 2)
	assert.Equal(t, second, updated.ImageURLs[0])
	assert.True(t, strings.HasPrefix(updated.ImageURLs[1], "/images/g1_img1_"))

	assert.False(t, f.fileExists(t, first))
	assert.True(t, f.fileExists(t, second))
	assert.True(t, f.fileExists(t, updated.ImageURLs[1]))
}

func Test_groupService_UpdateGroup_NotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, config.RetentionReplace)

	_, err := f.svc.UpdateGroup(ctx, "ghost", &model.GroupInput{ImageURL: ptr(pngURI)})
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.Equal(t, 0, f.imageCount(t), "存在しないグループの画像は書かない")
}

func Test_groupService_UpdateGroup_UpsertFailureDiscardsNewImage(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewGroupRepository(t)
	vault := mocks.NewImageVault(t)
	existing := &model.Group{ID: "g1", ImageURL: "/images/g1_old.png", Words: []model.Word{}}

	repo.On("FindByID", ctx, "g1").Return(existing, nil).Twice()
	vault.On("IsDataURI", jpegURI).Return(true).Once()
	vault.On("Save", ctx, "g1", jpegURI).Return("/images/g1_new.jpg", nil).Once()
	repo.On("Upsert", ctx, mock.AnythingOfType("*model.Group")).Return(model.ErrIOFailure).Once()
	// 新しいファイルだけ消し、古いファイルは残す
	vault.On("Remove", ctx, "/images/g1_new.jpg").Return(nil).Once()

	svc := NewGroupService(repo, vault, testLogger())
	_, err := svc.UpdateGroup(ctx, "g1", &model.GroupInput{ImageURL: ptr(jpegURI)})
	assert.ErrorIs(t, err, model.ErrIOFailure)
	vault.AssertNotCalled(t, "Remove", ctx, "/images/g1_old.png")
}

// --- DeleteGroup ---

func Test_groupService_DeleteGroup(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, config.RetentionReplace)

	created, err := f.svc.CreateGroup(ctx, &model.GroupInput{
		ID:        ptr("g1"),
		ImageURL:  ptr(pngURI),
		ImageURLs: ptr([]string{pngURI, jpegURI}),
	})
	require.NoError(t, err)
	require.Equal(t, 3, f.imageCount(t))

	require.NoError(t, f.svc.DeleteGroup(ctx, "g1"))
	assert.Equal(t, 0, f.imageCount(t))
	assert.False(t, f.fileExists(t, created.ImageURL))

	_, err = f.svc.GetGroup(ctx, "g1")
	assert.ErrorIs(t, err, model.ErrNotFound)

	err = f.svc.DeleteGroup(ctx, "g1")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

// --- AddImage / RemoveImage ---

func Test_groupService_AddImage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, config.RetentionReplace)
	_, err := f.svc.CreateGroup(ctx, &model.GroupInput{ID: ptr("g1")})
	require.NoError(t, err)

	tests := []struct {
		name    string
		id      string
		image   string
		wantErr error
		wantMsg string
		wantLen int
	}{
		{name: "正常系: 1枚目", id: "g1", image: pngURI, wantLen: 1},
		{name: "正常系: 2枚目は末尾に追加", id: "g1", image: jpegURI, wantLen: 2},
		{name: "異常系: 存在しないグループ", id: "ghost", image: pngURI, wantErr: model.ErrNotFound, wantMsg: "Group not found"},
		{name: "異常系: data URI ではない", id: "g1", image: "https://example.com/a.png", wantErr: model.ErrInvalidInput, wantMsg: "Invalid image data"},
		{name: "異常系: base64 が壊れている", id: "g1", image: "data:image/png;base64,!!!!", wantErr: model.ErrInvalidImageEncoding, wantMsg: "Invalid image data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := f.svc.AddImage(ctx, tt.id, tt.image)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				var appErr *model.AppError
				require.True(t, errors.As(err, &appErr))
				assert.Equal(t, tt.wantMsg, appErr.Message)
				return
			}
			require.NoError(t, err)
			require.Len(t, g.ImageURLs, tt.wantLen)
			last := g.ImageURLs[len(g.ImageURLs)-1]
			assert.True(t, strings.HasPrefix(last, "/images/g1_"), last)
			assert.True(t, f.fileExists(t, last))
		})
	}
}

func Test_groupService_RemoveImage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, config.RetentionReplace)
	created, err := f.svc.CreateGroup(ctx, &model.GroupInput{ID: ptr("g1"), ImageURLs: ptr([]string{pngURI, jpegURI})})
	require.NoError(t, err)
	first, second := created.ImageURLs[0], created.ImageURLs[1]

	for _, idx := range []int{-1, 2, 99} {
		_, err := f.svc.RemoveImage(ctx, "g1", idx)
		require.Error(t, err, "index %d", idx)
		assert.ErrorIs(t, err, model.ErrInvalidInput)
		var appErr *model.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, "Invalid image index", appErr.Message)
	}
	assert.Equal(t, 2, f.imageCount(t))

	g, err := f.svc.RemoveImage(ctx, "g1", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{second}, g.ImageURLs)
	assert.False(t, f.fileExists(t, first))
	assert.True(t, f.fileExists(t, second))

	g, err = f.svc.RemoveImage(ctx, "g1", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{}, g.ImageURLs)
	assert.Equal(t, 0, f.imageCount(t))

	_, err = f.svc.RemoveImage(ctx, "ghost", 0)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

// --- ImportGroup ---

func Test_groupService_ImportGroup(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		req       *model.ImportGroupRequest
		wantErr   bool
		wantWords int
	}{
		{
			name: "正常系: 10語未満は空の単語で埋める",
			req: &model.ImportGroupRequest{Title: "Day 9", Words: ptr([]model.WordInput{
				{Term: ptr("apple"), MeaningJp: ptr("りんご")},
				{Term: ptr("banana")},
				{Term: ptr("cherry")},
			})},
			wantWords: 10,
		},
		{
			name:      "正常系: 空リスト",
			req:       &model.ImportGroupRequest{Title: "Empty", Words: ptr([]model.WordInput{})},
			wantWords: 10,
		},
		{
			name: "正常系: 10語以上はそのまま",
			req: func() *model.ImportGroupRequest {
				words := make([]model.WordInput, 12)
				for i := range words {
					words[i] = model.WordInput{Term: ptr(fmt.Sprintf("w%d", i))}
				}
				return &model.ImportGroupRequest{Title: "Big", Words: &words}
			}(),
			wantWords: 12,
		},
		{name: "異常系: タイトルなし", req: &model.ImportGroupRequest{Words: ptr([]model.WordInput{})}, wantErr: true},
		{name: "異常系: 空白だけのタイトル", req: &model.ImportGroupRequest{Title: "  ", Words: ptr([]model.WordInput{})}, wantErr: true},
		{name: "異常系: words なし", req: &model.ImportGroupRequest{Title: "Day 9"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, config.RetentionReplace)
			g, err := f.svc.ImportGroup(ctx, tt.req)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, model.ErrInvalidInput)
				var appErr *model.AppError
				require.True(t, errors.As(err, &appErr))
				assert.Equal(t, "Invalid format. Expected: { title: string, words: [...] }", appErr.Message)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.req.Title, g.Title)
			assert.Equal(t, fixedNow.UnixMilli(), g.CreatedAt)
			assert.False(t, g.Passed)
			require.Len(t, g.Words, tt.wantWords)

			ids := map[string]struct{}{g.ID: {}}
			for i, w := range g.Words {
				assert.NotEmpty(t, w.ID)
				ids[w.ID] = struct{}{}
				if i >= len(*tt.req.Words) {
					assert.True(t, w.IsBlank(), "padding word %d", i)
				} else {
					assert.Equal(t, *(*tt.req.Words)[i].Term, w.Term)
				}
			}
			assert.Len(t, ids, tt.wantWords+1, "id は重複しない")

			stored, err := f.repo.FindByID(ctx, g.ID)
			require.NoError(t, err)
			assert.Equal(t, g, stored)
		})
	}
}

func Test_groupService_ImportGroup_FillsReading(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, config.RetentionReplace,
		WithReadingFiller(fakeReader{"理解する": "りかいする"}), WithMinWords(0))

	g, err := f.svc.ImportGroup(ctx, &model.ImportGroupRequest{Title: "Day", Words: ptr([]model.WordInput{
		{Term: ptr("understand"), MeaningJp: ptr("理解する")},
		{Term: ptr("grasp"), MeaningJp: ptr("理解する"), MeaningJpReading: ptr("つかむ")},
		{Term: ptr("blank")},
	})})
	require.NoError(t, err)
	require.Len(t, g.Words, 3)
	assert.Equal(t, "りかいする", g.Words[0].MeaningJpReading)
	assert.Equal(t, "つかむ", g.Words[1].MeaningJpReading, "既存の読みは上書きしない")
	assert.Empty(t, g.Words[2].MeaningJpReading)
}

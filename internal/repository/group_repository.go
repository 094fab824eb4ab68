//go:generate mockery --name GroupRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"

	"go_toon_vocab/internal/middleware"
	"go_toon_vocab/internal/model"

	"github.com/spf13/afero"
)

// GroupRepository はグループ一覧を1つのJSONドキュメントとして永続化します。
// 並び替えはしない (サービス層の責務)。
type GroupRepository interface {
	FindAll(ctx context.Context) ([]*model.Group, error)
	FindByID(ctx context.Context, id string) (*model.Group, error)
	Upsert(ctx context.Context, group *model.Group) error
	Delete(ctx context.Context, id string) error
}

// FileGroupRepository は afero.Fs 上の data.json を読み書きする実装
type FileGroupRepository struct {
	fs   afero.Fs
	path string
	// 読み込みは並行可、書き込みは排他
	mu sync.RWMutex
}

func NewFileGroupRepository(fsys afero.Fs, path string) *FileGroupRepository {
	return &FileGroupRepository{fs: fsys, path: path}
}

func (r *FileGroupRepository) FindAll(ctx context.Context) ([]*model.Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.readAll(ctx)
}

func (r *FileGroupRepository) FindByID(ctx context.Context, id string) (*model.Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	groups, err := r.readAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, g := range groups {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, model.ErrNotFound
}

// Upsert は同じIDのグループを置き換え、無ければ末尾に追加します
func (r *FileGroupRepository) Upsert(ctx context.Context, group *model.Group) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	groups, err := r.readAll(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i, g := range groups {
		if g.ID == group.ID {
			groups[i] = group
			replaced = true
			break
		}
	}
	if !replaced {
		groups = append(groups, group)
	}
	return r.writeAll(ctx, groups)
}

// Delete は該当グループを取り除きます。存在しなければ何もしない。
func (r *FileGroupRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	groups, err := r.readAll(ctx)
	if err != nil {
		return err
	}
	kept := groups[:0]
	for _, g := range groups {
		if g.ID != id {
			kept = append(kept, g)
		}
	}
	if len(kept) == len(groups) {
		return nil
	}
	return r.writeAll(ctx, kept)
}

// Exists はドキュメントファイルが存在するかを返します (Seed用)
func (r *FileGroupRepository) Exists(ctx context.Context) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ok, err := afero.Exists(r.fs, r.path)
	if err != nil {
		return false, fmt.Errorf("FileGroupRepository.Exists: %w: %v", model.ErrStorageUnavailable, err)
	}
	return ok, nil
}

// SaveAll はドキュメント全体を置き換えます
func (r *FileGroupRepository) SaveAll(ctx context.Context, groups []*model.Group) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writeAll(ctx, groups)
}

// Ping はドキュメントが読めるかを確認します (ヘルスチェック用)
func (r *FileGroupRepository) Ping(ctx context.Context) error {
	_, err := r.FindAll(ctx)
	return err
}

func (r *FileGroupRepository) readAll(ctx context.Context) ([]*model.Group, error) {
	logger := middleware.GetLogger(ctx)

	data, err := afero.ReadFile(r.fs, r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// まだ一度も書かれていない (Seed前) 場合は空のドキュメント扱い
			return []*model.Group{}, nil
		}
		logger.Error("Error reading document", "error", err, "path", r.path)
		return nil, fmt.Errorf("FileGroupRepository.readAll: %w: %v", model.ErrStorageUnavailable, err)
	}

	var groups []*model.Group
	if err := json.Unmarshal(data, &groups); err != nil {
		logger.Error("Error parsing document", "error", err, "path", r.path)
		return nil, fmt.Errorf("FileGroupRepository.readAll: parse %s: %w", r.path, err)
	}
	if groups == nil {
		groups = []*model.Group{}
	}
	return groups, nil
}

// writeAll は一時ファイルに書いて fsync してから rename する。
// 途中で落ちても data.json が壊れた状態で見えることはない。
func (r *FileGroupRepository) writeAll(ctx context.Context, groups []*model.Group) error {
	logger := middleware.GetLogger(ctx)
	if groups == nil {
		groups = []*model.Group{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(groups); err != nil {
		return fmt.Errorf("FileGroupRepository.writeAll: encode: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := r.fs.MkdirAll(dir, 0o755); err != nil {
		logger.Error("Error creating document directory", "error", err, "dir", dir)
		return fmt.Errorf("FileGroupRepository.writeAll: %w: %v", model.ErrIOFailure, err)
	}

	tmp, err := afero.TempFile(r.fs, dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		logger.Error("Error creating temp document", "error", err, "dir", dir)
		return fmt.Errorf("FileGroupRepository.writeAll: %w: %v", model.ErrIOFailure, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = r.fs.Remove(tmpName) }

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		cleanup()
		logger.Error("Error writing temp document", "error", err, "path", tmpName)
		return fmt.Errorf("FileGroupRepository.writeAll: %w: %v", model.ErrIOFailure, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		logger.Error("Error syncing temp document", "error", err, "path", tmpName)
		return fmt.Errorf("FileGroupRepository.writeAll: %w: %v", model.ErrIOFailure, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("FileGroupRepository.writeAll: %w: %v", model.ErrIOFailure, err)
	}
	if err := r.fs.Rename(tmpName, r.path); err != nil {
		cleanup()
		logger.Error("Error renaming temp document", "error", err, "from", tmpName, "to", r.path)
		return fmt.Errorf("FileGroupRepository.writeAll: %w: %v", model.ErrIOFailure, err)
	}

	logger.Debug("Document written", "path", r.path, "groups", len(groups))
	return nil
}

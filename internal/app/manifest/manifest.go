// Package manifest перечисляет архивные файлы пака в хранилище с хешем и размером.
//
// Каждый вызов заново читает хранилище. Кеш (если задан) используется только в List
// и сбрасывается при загрузке файлов через Invalidate.
package manifest

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"iter"
	"panel/internal/app/storage"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
)

var ErrPackNotFound = errors.New("pack not found in content store")

// MissingPolicy что делать, если у пака нет каталога в хранилище
type MissingPolicy string

const (
	// MissingAsEmpty пак без файлов, пустой список
	MissingAsEmpty MissingPolicy = "empty"
	// MissingAsError ErrPackNotFound
	MissingAsError MissingPolicy = "error"
)

// ParseMissingPolicy разбирает значение из конфигурации, пустая строка - MissingAsEmpty
func ParseMissingPolicy(s string) (MissingPolicy, error) {
	switch MissingPolicy(s) {
	case "", MissingAsEmpty:
		return MissingAsEmpty, nil
	case MissingAsError:
		return MissingAsError, nil
	}
	return "", fmt.Errorf("unknown missing pack policy %q", s)
}

// FileEntry один файл пака
type FileEntry struct {
	Name  string `json:"name"`
	Hash  string `json:"hash"`
	Size  string `json:"size"`
	Bytes int64  `json:"bytes"`
}

// ContentStore хранилище файлов паков, ключ - UUID пака
type ContentStore interface {
	List(ctx context.Context, key string) ([]storage.Object, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// Cache кеш готовых манифестов
type Cache interface {
	GetManifest(ctx context.Context, uuid string) ([]FileEntry, bool, error)
	SetManifest(ctx context.Context, uuid string, files []FileEntry) error
	DeleteManifest(ctx context.Context, uuid string) error
}

type Manifest struct {
	store   ContentStore
	missing MissingPolicy
	cache   Cache
}

type Option func(*Manifest)

func WithMissingPolicy(p MissingPolicy) Option {
	return func(m *Manifest) { m.missing = p }
}

func WithCache(c Cache) Option {
	return func(m *Manifest) { m.cache = c }
}

func New(store ContentStore, opts ...Option) *Manifest {
	m := &Manifest{store: store, missing: MissingAsEmpty}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Files получает список файлов сразу, а хеширует их лениво, по мере итерации.
// Ошибка чтения файла отдаётся вместе с записью, в которой заполнено только Name.
func (m *Manifest) Files(ctx context.Context, uuid string) (iter.Seq2[FileEntry, error], error) {
	objects, err := m.store.List(ctx, uuid)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("list pack %s: %w", uuid, err)
		}
		if m.missing == MissingAsError {
			return nil, fmt.Errorf("%w: %s", ErrPackNotFound, uuid)
		}
		objects = nil
	}

	return func(yield func(FileEntry, error) bool) {
		for _, obj := range objects {
			entry, err := m.describe(ctx, obj)
			if !yield(entry, err) {
				return
			}
		}
	}, nil
}

// List собирает Files в срез. Первая ошибка прерывает обход.
func (m *Manifest) List(ctx context.Context, uuid string) ([]FileEntry, error) {
	if m.cache != nil {
		files, ok, err := m.cache.GetManifest(ctx, uuid)
		if err != nil {
			logrus.Warnf("manifest cache read for %s: %v", uuid, err)
		} else if ok {
			return files, nil
		}
	}

	seq, err := m.Files(ctx, uuid)
	if err != nil {
		return nil, err
	}

	files := []FileEntry{}
	for entry, err := range seq {
		if err != nil {
			return nil, err
		}
		files = append(files, entry)
	}

	if m.cache != nil {
		if err := m.cache.SetManifest(ctx, uuid, files); err != nil {
			logrus.Warnf("manifest cache write for %s: %v", uuid, err)
		}
	}
	return files, nil
}

// Invalidate сбрасывает кеш манифеста пака
func (m *Manifest) Invalidate(ctx context.Context, uuid string) error {
	if m.cache == nil {
		return nil
	}
	return m.cache.DeleteManifest(ctx, uuid)
}

func (m *Manifest) describe(ctx context.Context, obj storage.Object) (FileEntry, error) {
	entry := FileEntry{Name: obj.Name}

	rc, err := m.store.Open(ctx, obj.Path)
	if err != nil {
		return entry, fmt.Errorf("open %s: %w", obj.Name, err)
	}
	defer rc.Close()

	h := sha1.New()
	n, err := io.Copy(h, rc)
	if err != nil {
		return entry, fmt.Errorf("hash %s: %w", obj.Name, err)
	}

	entry.Hash = hex.EncodeToString(h.Sum(nil))
	entry.Bytes = n
	entry.Size = humanize.Bytes(uint64(n))
	return entry, nil
}

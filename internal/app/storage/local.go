package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// LocalStore хранит файлы паков в <root>/packs/<uuid>/
type LocalStore struct {
	fs   afero.Fs
	root string
}

func NewLocalStore(fs afero.Fs, root string) *LocalStore {
	return &LocalStore{fs: fs, root: root}
}

func (s *LocalStore) packDir(key string) string {
	return filepath.Join(s.root, packsDir, key)
}

// List возвращает файлы пака, отсортированные по имени. Каталоги пропускаются.
func (s *LocalStore) List(ctx context.Context, key string) ([]Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateName(key); err != nil {
		return nil, err
	}

	dir := s.packDir(key)
	infos, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	objects := make([]Object, 0, len(infos))
	for _, info := range infos {
		if info.IsDir() {
			continue
		}
		objects = append(objects, Object{
			Name: info.Name(),
			Path: filepath.Join(dir, info.Name()),
			Size: info.Size(),
		})
	}
	return objects, nil
}

func (s *LocalStore) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := s.fs.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, nil
}

// Put записывает файл пака, создавая каталог при необходимости
func (s *LocalStore) Put(ctx context.Context, key, name string, r io.Reader, _ int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ValidateName(key); err != nil {
		return err
	}
	if err := ValidateName(name); err != nil {
		return err
	}

	dir := s.packDir(key)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	if err := afero.WriteReader(s.fs, filepath.Join(dir, name), r); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	logrus.Infof("File %s stored in pack %s", name, key)
	return nil
}

// Remove удаляет каталог пака целиком
func (s *LocalStore) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ValidateName(key); err != nil {
		return err
	}
	if err := s.fs.RemoveAll(s.packDir(key)); err != nil {
		return fmt.Errorf("failed to delete pack %s: %w", key, err)
	}

	logrus.Infof("Pack %s files deleted successfully", key)
	return nil
}

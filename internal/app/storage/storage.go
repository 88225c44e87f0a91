package storage

import (
	"errors"
	"path"
	"strings"
)

var (
	ErrNotFound    = errors.New("content not found")
	ErrInvalidName = errors.New("invalid content name")
)

// packsDir каталог паков внутри хранилища
const packsDir = "packs"

// Object файл пака в хранилище. Path понимает только то хранилище, которое его вернуло.
type Object struct {
	Name string
	Path string
	Size int64
}

// ValidateName имя пака или файла должно быть одним сегментом пути
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || path.Base(name) != name {
		return ErrInvalidName
	}
	return nil
}

// contentType тип содержимого по расширению архива
func contentType(filename string) string {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"), strings.HasSuffix(lower, ".gz"):
		return "application/gzip"
	case strings.HasSuffix(lower, ".tar"):
		return "application/x-tar"
	case strings.HasSuffix(lower, ".zip"):
		return "application/zip"
	case strings.HasSuffix(lower, ".json"):
		return "application/json"
	}
	return "application/octet-stream"
}

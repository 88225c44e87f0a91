package api

import (
	"context"
	"fmt"
	"panel/internal/app/config"
	"panel/internal/app/dsn"
	"panel/internal/app/handler"
	"panel/internal/app/manifest"
	"panel/internal/app/redis"
	"panel/internal/app/repository"
	"panel/internal/app/storage"
	"panel/internal/pkg"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// ContentStore хранилище файлов паков: чтение для манифеста и запись для API
type ContentStore interface {
	manifest.ContentStore
	handler.FileStore
}

// NewContentStore выбирает хранилище по конфигурации
func NewContentStore(ctx context.Context, cfg config.StorageConfig) (ContentStore, error) {
	switch cfg.Driver {
	case config.StorageMinIO:
		client, err := storage.NewMinIOClient(ctx, cfg.MinIO.Endpoint, cfg.MinIO.AccessKey,
			cfg.MinIO.SecretKey, cfg.MinIO.Bucket, cfg.MinIO.UseSSL)
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.StorageLocal:
		return storage.NewLocalStore(afero.NewOsFs(), cfg.Root), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}

// NewManifest собирает манифест с политикой и кешем из конфигурации.
// Возвращает функцию закрытия кеша.
func NewManifest(ctx context.Context, cfg *config.Config, store manifest.ContentStore) (*manifest.Manifest, func(), error) {
	policy, err := manifest.ParseMissingPolicy(cfg.Manifest.MissingPack)
	if err != nil {
		return nil, nil, err
	}

	opts := []manifest.Option{manifest.WithMissingPolicy(policy)}
	closeCache := func() {}

	if cfg.Redis.Enabled() {
		cache, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, manifest.WithCache(cache))
		closeCache = func() {
			if err := cache.Close(); err != nil {
				logrus.Warn("redis close: ", err)
			}
		}
		logrus.Info("manifest cache enabled")
	}

	return manifest.New(store, opts...), closeCache, nil
}

func StartServer() {
	logrus.Info("Starting server")
	ctx := context.Background()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal("ошибка чтения конфигурации: ", err)
	}

	repo, err := repository.New(dsn.FromEnv())
	if err != nil {
		logrus.Fatal("ошибка инициализации репозитория: ", err)
	}

	store, err := NewContentStore(ctx, cfg.Storage)
	if err != nil {
		logrus.Fatal("ошибка инициализации хранилища: ", err)
	}

	m, closeCache, err := NewManifest(ctx, cfg, store)
	if err != nil {
		logrus.Fatal("ошибка инициализации манифеста: ", err)
	}
	defer closeCache()

	h := handler.NewHandler(repo, store, m)
	app := pkg.NewApp(cfg, gin.Default(), h)
	app.RunApp()

	logrus.Info("Server down")
}

package repository

import (
	"context"
	"fmt"
	"panel/internal/app/ds"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

// Models все таблицы панели, в порядке миграции
var Models = []interface{}{
	&ds.ServiceOption{},
	&ds.Pack{},
	&ds.ServiceVariable{},
	&ds.Server{},
	&ds.ServerVariable{},
}

func New(dsn string) (*Repository, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Автоматическая миграция всех таблиц
	err = db.AutoMigrate(Models...)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return NewWithDB(db), nil
}

func NewWithDB(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// таблицы, для которых разрешена проверка существования
var existsModels = map[string]interface{}{
	"service_options":   &ds.ServiceOption{},
	"packs":             &ds.Pack{},
	"service_variables": &ds.ServiceVariable{},
	"servers":           &ds.Server{},
}

// Exists проверка ссылочной целостности для правил валидации
func (r *Repository) Exists(ctx context.Context, table string, id uint) (bool, error) {
	model, ok := existsModels[table]
	if !ok {
		return false, fmt.Errorf("exists: unknown table %q", table)
	}

	var count int64
	err := r.db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

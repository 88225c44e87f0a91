package repository

import (
	"context"
	"errors"
	"panel/internal/app/ds"

	"gorm.io/gorm"
)

// Методы для работы с паками

// Получить все паки
func (r *Repository) GetAllPacks(ctx context.Context) ([]ds.Pack, error) {
	var packs []ds.Pack
	err := r.db.WithContext(ctx).Order("id").Find(&packs).Error
	if err != nil {
		return nil, err
	}
	return packs, nil
}

// Поиск паков по имени, UUID, версии и данным варианта сервиса
func (r *Repository) SearchPacks(ctx context.Context, query string) ([]ds.Pack, error) {
	like := "%" + query + "%"

	var packs []ds.Pack
	err := r.db.WithContext(ctx).
		Select("packs.*").
		Joins("LEFT JOIN service_options ON service_options.id = packs.option_id").
		Where("packs.name ILIKE ? OR packs.uuid ILIKE ? OR packs.version ILIKE ? OR "+
			"service_options.name ILIKE ? OR service_options.tag ILIKE ? OR service_options.docker_image ILIKE ?",
			like, like, like, like, like, like).
		Order("packs.id").
		Find(&packs).Error
	if err != nil {
		return nil, err
	}
	return packs, nil
}

// Получить паки варианта сервиса
func (r *Repository) GetPacksByOption(ctx context.Context, optionID uint) ([]ds.Pack, error) {
	var packs []ds.Pack
	err := r.db.WithContext(ctx).Where("option_id = ?", optionID).Order("id").Find(&packs).Error
	if err != nil {
		return nil, err
	}
	return packs, nil
}

// Получить пак по ID
func (r *Repository) GetPackByID(ctx context.Context, id uint) (*ds.Pack, error) {
	var pack ds.Pack
	err := r.db.WithContext(ctx).First(&pack, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPackNotFound
	}
	if err != nil {
		return nil, err
	}
	return &pack, nil
}

func (r *Repository) CreatePack(ctx context.Context, pack *ds.Pack) error {
	return r.db.WithContext(ctx).Create(pack).Error
}

// UpdatePack сохраняет все поля, включая false и nil
func (r *Repository) UpdatePack(ctx context.Context, pack *ds.Pack) error {
	return r.db.WithContext(ctx).Save(pack).Error
}

// DeletePack не удаляет пак, пока на нем есть серверы
func (r *Repository) DeletePack(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var servers int64
		if err := tx.Model(&ds.Server{}).Where("pack_id = ?", id).Count(&servers).Error; err != nil {
			return err
		}
		if servers > 0 {
			return ErrPackInUse
		}

		result := tx.Delete(&ds.Pack{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrPackNotFound
		}
		return nil
	})
}

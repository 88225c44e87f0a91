package repository

import (
	"context"
	"errors"
	"panel/internal/app/ds"

	"gorm.io/gorm"
)

// Методы для переменных сервиса

func (r *Repository) GetVariablesByOption(ctx context.Context, optionID uint) ([]ds.ServiceVariable, error) {
	var variables []ds.ServiceVariable
	err := r.db.WithContext(ctx).Where("option_id = ?", optionID).Order("id").Find(&variables).Error
	if err != nil {
		return nil, err
	}
	return variables, nil
}

func (r *Repository) GetVariableByID(ctx context.Context, id uint) (*ds.ServiceVariable, error) {
	var variable ds.ServiceVariable
	err := r.db.WithContext(ctx).First(&variable, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrVariableNotFound
	}
	if err != nil {
		return nil, err
	}
	return &variable, nil
}

func (r *Repository) CreateVariable(ctx context.Context, variable *ds.ServiceVariable) error {
	return r.db.WithContext(ctx).Create(variable).Error
}

func (r *Repository) UpdateVariable(ctx context.Context, variable *ds.ServiceVariable) error {
	return r.db.WithContext(ctx).Save(variable).Error
}

// DeleteVariable удаляет переменную вместе со значениями на серверах
func (r *Repository) DeleteVariable(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("variable_id = ?", id).Delete(&ds.ServerVariable{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&ds.ServiceVariable{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrVariableNotFound
		}
		return nil
	})
}

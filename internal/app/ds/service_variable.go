package ds

import (
	"panel/internal/app/rules"
	"time"
)

// ServiceVariable описание переменной окружения, которую видит пользователь
// при настройке сервиса
type ServiceVariable struct {
	ID           uint      `gorm:"primaryKey"`
	OptionID     uint      `gorm:"not null;index"`
	Name         string    `gorm:"type:varchar(255);not null"`
	Description  *string   `gorm:"type:text"` // Nullable
	EnvVariable  string    `gorm:"type:varchar(255);not null"`
	DefaultValue string    `gorm:"type:text;not null;default:''"`
	Rules        string    `gorm:"type:text;not null"`
	UserViewable bool      `gorm:"type:boolean;default:false;not null"`
	UserEditable bool      `gorm:"type:boolean;default:false;not null"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`

	Option          ServiceOption    `gorm:"foreignKey:OptionID"`
	ServerVariables []ServerVariable `gorm:"foreignKey:VariableID"`
}

// Required вычисляется из Rules, в базе не хранится
func (v ServiceVariable) Required() bool {
	return rules.IsRequired(v.Rules)
}

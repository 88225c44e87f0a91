package ds

import "time"

// Pack набор архивных файлов, применяемый при создании сервера.
// UUID является ключом каталога в хранилище файлов.
type Pack struct {
	ID          uint      `gorm:"primaryKey"`
	OptionID    uint      `gorm:"not null;index"`
	UUID        string    `gorm:"type:char(36);uniqueIndex;not null"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Version     string    `gorm:"type:varchar(255);not null"`
	Description *string   `gorm:"type:text"` // Nullable
	Selectable  bool      `gorm:"type:boolean;not null"`
	Visible     bool      `gorm:"type:boolean;not null"`
	Locked      bool      `gorm:"type:boolean;default:false;not null"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`

	Option  ServiceOption `gorm:"foreignKey:OptionID"`
	Servers []Server      `gorm:"foreignKey:PackID"`
}

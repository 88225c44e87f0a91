package ds

// ServiceOption вариант сервиса, владеет паками и переменными.
// Управляется вне этого модуля, здесь нужен только для ссылок по ID.
type ServiceOption struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"type:varchar(255);not null"`
	Tag         string `gorm:"type:varchar(255)"`
	DockerImage string `gorm:"type:varchar(255)"`

	Packs     []Pack            `gorm:"foreignKey:OptionID"`
	Variables []ServiceVariable `gorm:"foreignKey:OptionID"`
}

package ds

// Server минимальная запись сервера: нужна для связи с паком
type Server struct {
	ID     uint   `gorm:"primaryKey"`
	UUID   string `gorm:"type:char(36);uniqueIndex;not null"`
	Name   string `gorm:"type:varchar(255);not null"`
	PackID *uint  `gorm:"index"`
}

// ServerVariable конкретное значение ServiceVariable для сервера
type ServerVariable struct {
	ID            uint   `gorm:"primaryKey"`
	ServerID      uint   `gorm:"not null;index;uniqueIndex:idx_server_variable"`
	VariableID    uint   `gorm:"not null;index;uniqueIndex:idx_server_variable"`
	VariableValue string `gorm:"type:text"`

	Server   Server          `gorm:"foreignKey:ServerID"`
	Variable ServiceVariable `gorm:"foreignKey:VariableID"`
}

package dto

import "time"

// ============ Общие структуры ============

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type SuccessResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type FieldErrorResponse struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"` // only for env_variable
}

type ValidationErrorResponse struct {
	Status  string               `json:"status"`
	Message string               `json:"message"`
	Errors  []FieldErrorResponse `json:"errors"`
}

// ============ Паки (Packs) ============

// PackRequest используется и для создания, и для изменения.
// nil означает, что поле не передано.
type PackRequest struct {
	OptionID    *uint   `json:"option_id"`
	Name        *string `json:"name"`
	Version     *string `json:"version"`
	Description *string `json:"description"`
	Selectable  *bool   `json:"selectable"`
	Visible     *bool   `json:"visible"`
	Locked      *bool   `json:"locked"`
}

type PackResponse struct {
	ID          uint      `json:"id"`
	OptionID    uint      `json:"option_id"`
	UUID        string    `json:"uuid"`
	Name        string    `json:"name"`
	Version     string    `json:"version"`
	Description *string   `json:"description"`
	Selectable  bool      `json:"selectable"`
	Visible     bool      `json:"visible"`
	Locked      bool      `json:"locked"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type PackListResponse struct {
	Packs []PackResponse `json:"packs"`
	Total int            `json:"total"`
}

type PackFileResponse struct {
	Name  string `json:"name"`
	Hash  string `json:"hash"`
	Size  string `json:"size"`
	Bytes int64  `json:"bytes"`
}

type PackFileListResponse struct {
	Files []PackFileResponse `json:"files"`
	Total int                `json:"total"`
}

// ============ Переменные (Service Variables) ============

type ServiceVariableRequest struct {
	OptionID     *uint   `json:"option_id"`
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	EnvVariable  *string `json:"env_variable"`
	DefaultValue *string `json:"default_value"`
	Rules        *string `json:"rules"`
	UserViewable *bool   `json:"user_viewable"`
	UserEditable *bool   `json:"user_editable"`
}

type ServiceVariableResponse struct {
	ID           uint      `json:"id"`
	OptionID     uint      `json:"option_id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description"`
	EnvVariable  string    `json:"env_variable"`
	DefaultValue string    `json:"default_value"`
	Rules        string    `json:"rules"`
	Required     bool      `json:"required"`
	UserViewable bool      `json:"user_viewable"`
	UserEditable bool      `json:"user_editable"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ServiceVariableListResponse struct {
	Variables []ServiceVariableResponse `json:"variables"`
	Total     int                       `json:"total"`
}

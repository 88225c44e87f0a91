package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"panel/internal/app/ds"
	"panel/internal/app/dto"
	"panel/internal/app/manifest"
	"panel/internal/app/repository"
	"panel/internal/app/validation"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Repository хранилище паков и переменных
type Repository interface {
	validation.EntityStore

	GetAllPacks(ctx context.Context) ([]ds.Pack, error)
	SearchPacks(ctx context.Context, query string) ([]ds.Pack, error)
	GetPackByID(ctx context.Context, id uint) (*ds.Pack, error)
	CreatePack(ctx context.Context, pack *ds.Pack) error
	UpdatePack(ctx context.Context, pack *ds.Pack) error
	DeletePack(ctx context.Context, id uint) error

	GetVariablesByOption(ctx context.Context, optionID uint) ([]ds.ServiceVariable, error)
	GetVariableByID(ctx context.Context, id uint) (*ds.ServiceVariable, error)
	CreateVariable(ctx context.Context, variable *ds.ServiceVariable) error
	UpdateVariable(ctx context.Context, variable *ds.ServiceVariable) error
	DeleteVariable(ctx context.Context, id uint) error
}

// FileStore запись файлов паков в хранилище
type FileStore interface {
	Put(ctx context.Context, key, name string, r io.Reader, size int64) error
	Remove(ctx context.Context, key string) error
}

type Handler struct {
	Repository Repository
	Files      FileStore
	Manifest   *manifest.Manifest

	packPolicy     *validation.Policy[dto.PackRequest]
	variablePolicy *validation.Policy[dto.ServiceVariableRequest]
}

func NewHandler(r Repository, files FileStore, m *manifest.Manifest) *Handler {
	return &Handler{
		Repository:     r,
		Files:          files,
		Manifest:       m,
		packPolicy:     validation.NewPackPolicy(r),
		variablePolicy: validation.NewServiceVariablePolicy(r),
	}
}

// Регистрация маршрутов
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")

	// ============ Паки (Packs) ============
	packs := api.Group("/packs")
	{
		packs.GET("", h.GetPacks)
		packs.GET("/:id", h.GetPack)
		packs.POST("", h.CreatePack)
		packs.PUT("/:id", h.UpdatePack)
		packs.DELETE("/:id", h.DeletePack)
		packs.GET("/:id/files", h.GetPackFiles)
		packs.POST("/:id/files", h.UploadPackFile)
	}

	// ============ Переменные (Service Variables) ============
	options := api.Group("/options")
	{
		options.GET("/:id/variables", h.GetOptionVariables)
		options.POST("/:id/variables", h.CreateVariable)
	}

	variables := api.Group("/variables")
	{
		variables.GET("/:id", h.GetVariable)
		variables.PUT("/:id", h.UpdateVariable)
		variables.DELETE("/:id", h.DeleteVariable)
	}

	router.GET("/ping", h.Ping)
}

// Ping проверяет работоспособность API
// @Summary Проверка работоспособности
// @Description Возвращает простой ответ для проверки работы сервера
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /ping [get]
func (h *Handler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// ============ Вспомогательные функции ============

func (h *Handler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, dto.ErrorResponse{
		Status:  "fail",
		Message: message,
	})
}

func (h *Handler) successResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	response := dto.SuccessResponse{
		Status:  "success",
		Message: message,
	}
	if data != nil {
		response.Data = data
	}
	c.JSON(statusCode, response)
}

// bindCandidate разбирает JSON тело. Поле неверного типа не прерывает запрос:
// оно возвращается как ошибка поля и попадает в общий ответ 422.
// false означает, что ответ 400 уже отправлен.
func (h *Handler) bindCandidate(c *gin.Context, req any) (validation.Errors, bool) {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return nil, true
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return validation.Errors{{
			Field:   typeErr.Field,
			Rule:    "type",
			Message: fmt.Sprintf("must be of type %s", typeErr.Type),
		}}, true
	}

	h.errorResponse(c, http.StatusBadRequest, "Неверные данные: "+err.Error())
	return nil, false
}

// rejectInvalid отвечает 422 со списком ошибок полей или 500 при сбое проверки
func (h *Handler) rejectInvalid(c *gin.Context, err error) {
	var errs validation.Errors
	if !errors.As(err, &errs) {
		logrus.Error("Error validating candidate: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка проверки данных")
		return
	}

	response := dto.ValidationErrorResponse{
		Status:  "fail",
		Message: "Данные не прошли проверку",
		Errors:  make([]dto.FieldErrorResponse, len(errs)),
	}
	for i, fe := range errs {
		response.Errors[i] = dto.FieldErrorResponse{
			Field:   fe.Field,
			Rule:    fe.Rule,
			Message: fe.Message,
			Reason:  string(fe.Reason),
		}
	}
	c.JSON(http.StatusUnprocessableEntity, response)
}

// storeError переводит ошибки репозитория в HTTP статусы
func (h *Handler) storeError(c *gin.Context, err error, notFound string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		h.errorResponse(c, http.StatusNotFound, notFound)
	case errors.Is(err, repository.ErrInUse):
		h.errorResponse(c, http.StatusConflict, err.Error())
	default:
		logrus.Error(err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка базы данных")
	}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

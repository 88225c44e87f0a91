package handler

import (
	"errors"
	"net/http"
	"panel/internal/app/ds"
	"panel/internal/app/dto"
	"panel/internal/app/manifest"
	"panel/internal/app/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func packResponse(p ds.Pack) dto.PackResponse {
	return dto.PackResponse{
		ID:          p.ID,
		OptionID:    p.OptionID,
		UUID:        p.UUID,
		Name:        p.Name,
		Version:     p.Version,
		Description: p.Description,
		Selectable:  p.Selectable,
		Visible:     p.Visible,
		Locked:      p.Locked,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// packCandidate текущие значения пака поверх которых накладывается запрос
func packCandidate(p ds.Pack, req dto.PackRequest) dto.PackRequest {
	merged := dto.PackRequest{
		OptionID:    &p.OptionID,
		Name:        &p.Name,
		Version:     &p.Version,
		Description: p.Description,
		Selectable:  &p.Selectable,
		Visible:     &p.Visible,
		Locked:      &p.Locked,
	}
	if req.OptionID != nil {
		merged.OptionID = req.OptionID
	}
	if req.Name != nil {
		merged.Name = req.Name
	}
	if req.Version != nil {
		merged.Version = req.Version
	}
	if req.Description != nil {
		merged.Description = req.Description
	}
	if req.Selectable != nil {
		merged.Selectable = req.Selectable
	}
	if req.Visible != nil {
		merged.Visible = req.Visible
	}
	if req.Locked != nil {
		merged.Locked = req.Locked
	}
	return merged
}

// applyPack переносит проверенного кандидата в запись. Пустое описание сохраняется как NULL.
func applyPack(p *ds.Pack, c dto.PackRequest) {
	p.OptionID = *c.OptionID
	p.Name = *c.Name
	p.Version = *c.Version
	p.Description = c.Description
	if p.Description != nil && *p.Description == "" {
		p.Description = nil
	}
	if c.Selectable != nil {
		p.Selectable = *c.Selectable
	}
	if c.Visible != nil {
		p.Visible = *c.Visible
	}
	if c.Locked != nil {
		p.Locked = *c.Locked
	}
}

// GetPacks получает список паков
// @Summary Получение списка паков
// @Description Возвращает все паки, с поиском по названию, UUID, версии и варианту сервиса
// @Tags Packs
// @Produce json
// @Param query query string false "Строка поиска"
// @Success 200 {object} dto.PackListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/packs [get]
func (h *Handler) GetPacks(c *gin.Context) {
	searchQuery := c.Query("query")

	var packs []ds.Pack
	var err error

	if searchQuery == "" {
		packs, err = h.Repository.GetAllPacks(c.Request.Context())
	} else {
		packs, err = h.Repository.SearchPacks(c.Request.Context(), searchQuery)
	}

	if err != nil {
		logrus.Error("Error getting packs: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка получения паков")
		return
	}

	response := dto.PackListResponse{
		Packs: make([]dto.PackResponse, len(packs)),
		Total: len(packs),
	}
	for i, p := range packs {
		response.Packs[i] = packResponse(p)
	}

	c.JSON(http.StatusOK, response)
}

// GetPack получает один пак
// @Summary Получение пака по ID
// @Tags Packs
// @Produce json
// @Param id path int true "ID пака"
// @Success 200 {object} dto.PackResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/packs/{id} [get]
func (h *Handler) GetPack(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID пака")
		return
	}

	pack, err := h.Repository.GetPackByID(c.Request.Context(), id)
	if err != nil {
		h.storeError(c, err, "Пак не найден")
		return
	}

	c.JSON(http.StatusOK, packResponse(*pack))
}

// CreatePack создает пак
// @Summary Создание пака
// @Description UUID пака генерируется сервером и служит ключом каталога файлов
// @Tags Packs
// @Accept json
// @Produce json
// @Param request body dto.PackRequest true "Данные пака"
// @Success 201 {object} dto.PackResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ValidationErrorResponse
// @Router /api/packs [post]
func (h *Handler) CreatePack(c *gin.Context) {
	var req dto.PackRequest
	decodeErrs, ok := h.bindCandidate(c, &req)
	if !ok {
		return
	}

	if err := h.packPolicy.ValidateDecoded(c.Request.Context(), req, decodeErrs); err != nil {
		h.rejectInvalid(c, err)
		return
	}

	pack := ds.Pack{
		UUID:       uuid.NewString(),
		Selectable: true,
		Visible:    true,
	}
	applyPack(&pack, req)

	if err := h.Repository.CreatePack(c.Request.Context(), &pack); err != nil {
		logrus.Error("Error creating pack: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка создания пака")
		return
	}

	logrus.Infof("Pack %s (%s) created", pack.UUID, pack.Name)
	c.JSON(http.StatusCreated, packResponse(pack))
}

// UpdatePack изменяет пак
// @Summary Изменение пака
// @Description Переданные поля накладываются на текущие значения, результат проверяется целиком
// @Tags Packs
// @Accept json
// @Produce json
// @Param id path int true "ID пака"
// @Param request body dto.PackRequest true "Изменяемые поля"
// @Success 200 {object} dto.PackResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ValidationErrorResponse
// @Router /api/packs/{id} [put]
func (h *Handler) UpdatePack(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID пака")
		return
	}

	var req dto.PackRequest
	decodeErrs, ok := h.bindCandidate(c, &req)
	if !ok {
		return
	}

	pack, err := h.Repository.GetPackByID(c.Request.Context(), id)
	if err != nil {
		h.storeError(c, err, "Пак не найден")
		return
	}

	candidate := packCandidate(*pack, req)
	if err := h.packPolicy.ValidateDecoded(c.Request.Context(), candidate, decodeErrs); err != nil {
		h.rejectInvalid(c, err)
		return
	}
	applyPack(pack, candidate)

	if err := h.Repository.UpdatePack(c.Request.Context(), pack); err != nil {
		logrus.Error("Error updating pack: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка изменения пака")
		return
	}

	c.JSON(http.StatusOK, packResponse(*pack))
}

// DeletePack удаляет пак вместе с файлами
// @Summary Удаление пака
// @Description Пак, на котором есть серверы, удалить нельзя
// @Tags Packs
// @Produce json
// @Param id path int true "ID пака"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/packs/{id} [delete]
func (h *Handler) DeletePack(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID пака")
		return
	}

	ctx := c.Request.Context()
	pack, err := h.Repository.GetPackByID(ctx, id)
	if err != nil {
		h.storeError(c, err, "Пак не найден")
		return
	}

	if err := h.Repository.DeletePack(ctx, id); err != nil {
		h.storeError(c, err, "Пак не найден")
		return
	}

	// Запись уже удалена, ошибки хранилища только логируем
	if err := h.Files.Remove(ctx, pack.UUID); err != nil {
		logrus.Warnf("Failed to delete files of pack %s: %v", pack.UUID, err)
	}
	if err := h.Manifest.Invalidate(ctx, pack.UUID); err != nil {
		logrus.Warnf("Failed to invalidate manifest of pack %s: %v", pack.UUID, err)
	}

	h.successResponse(c, http.StatusOK, "Пак успешно удален", nil)
}

// GetPackFiles возвращает архивные файлы пака
// @Summary Файлы пака
// @Description Имя, SHA-1 и размер каждого файла из хранилища
// @Tags Packs
// @Produce json
// @Param id path int true "ID пака"
// @Success 200 {object} dto.PackFileListResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/packs/{id}/files [get]
func (h *Handler) GetPackFiles(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID пака")
		return
	}

	pack, err := h.Repository.GetPackByID(c.Request.Context(), id)
	if err != nil {
		h.storeError(c, err, "Пак не найден")
		return
	}

	files, err := h.Manifest.List(c.Request.Context(), pack.UUID)
	if errors.Is(err, manifest.ErrPackNotFound) {
		h.errorResponse(c, http.StatusNotFound, "Файлы пака не найдены")
		return
	}
	if err != nil {
		logrus.Error("Error listing pack files: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка чтения файлов пака")
		return
	}

	response := dto.PackFileListResponse{
		Files: make([]dto.PackFileResponse, len(files)),
		Total: len(files),
	}
	for i, f := range files {
		response.Files[i] = dto.PackFileResponse{
			Name:  f.Name,
			Hash:  f.Hash,
			Size:  f.Size,
			Bytes: f.Bytes,
		}
	}

	c.JSON(http.StatusOK, response)
}

// UploadPackFile загружает архив в пак
// @Summary Загрузка файла пака
// @Tags Packs
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "ID пака"
// @Param file formData file true "Архив"
// @Success 201 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/packs/{id}/files [post]
func (h *Handler) UploadPackFile(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID пака")
		return
	}

	ctx := c.Request.Context()
	pack, err := h.Repository.GetPackByID(ctx, id)
	if err != nil {
		h.storeError(c, err, "Пак не найден")
		return
	}

	// Получаем файл из запроса
	file, err := c.FormFile("file")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Файл не найден в запросе")
		return
	}

	openedFile, err := file.Open()
	if err != nil {
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка чтения файла")
		return
	}
	defer openedFile.Close()

	err = h.Files.Put(ctx, pack.UUID, file.Filename, openedFile, file.Size)
	if errors.Is(err, storage.ErrInvalidName) {
		h.errorResponse(c, http.StatusBadRequest, "Недопустимое имя файла")
		return
	}
	if err != nil {
		logrus.Error("Error uploading pack file: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка загрузки файла")
		return
	}

	if err := h.Manifest.Invalidate(ctx, pack.UUID); err != nil {
		logrus.Warnf("Failed to invalidate manifest of pack %s: %v", pack.UUID, err)
	}

	h.successResponse(c, http.StatusCreated, "Файл успешно загружен", gin.H{
		"name": file.Filename,
	})
}

package handler

import (
	"net/http"
	"panel/internal/app/ds"
	"panel/internal/app/dto"
	"panel/internal/app/validation"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func variableResponse(v ds.ServiceVariable) dto.ServiceVariableResponse {
	return dto.ServiceVariableResponse{
		ID:           v.ID,
		OptionID:     v.OptionID,
		Name:         v.Name,
		Description:  v.Description,
		EnvVariable:  v.EnvVariable,
		DefaultValue: v.DefaultValue,
		Rules:        v.Rules,
		Required:     v.Required(),
		UserViewable: v.UserViewable,
		UserEditable: v.UserEditable,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

func variableCandidate(v ds.ServiceVariable, req dto.ServiceVariableRequest) dto.ServiceVariableRequest {
	merged := dto.ServiceVariableRequest{
		OptionID:     &v.OptionID,
		Name:         &v.Name,
		Description:  v.Description,
		EnvVariable:  &v.EnvVariable,
		DefaultValue: &v.DefaultValue,
		Rules:        &v.Rules,
		UserViewable: &v.UserViewable,
		UserEditable: &v.UserEditable,
	}
	if req.Name != nil {
		merged.Name = req.Name
	}
	if req.Description != nil {
		merged.Description = req.Description
	}
	if req.EnvVariable != nil {
		merged.EnvVariable = req.EnvVariable
	}
	if req.DefaultValue != nil {
		merged.DefaultValue = req.DefaultValue
	}
	if req.Rules != nil {
		merged.Rules = req.Rules
	}
	if req.UserViewable != nil {
		merged.UserViewable = req.UserViewable
	}
	if req.UserEditable != nil {
		merged.UserEditable = req.UserEditable
	}
	return merged
}

// applyVariable переносит проверенного кандидата в запись. user_viewable и user_editable по умолчанию false.
func applyVariable(v *ds.ServiceVariable, c dto.ServiceVariableRequest) {
	v.OptionID = *c.OptionID
	v.Name = *c.Name
	v.EnvVariable = *c.EnvVariable
	v.Rules = *c.Rules
	v.Description = c.Description
	if v.Description != nil && *v.Description == "" {
		v.Description = nil
	}
	v.DefaultValue = ""
	if c.DefaultValue != nil {
		v.DefaultValue = *c.DefaultValue
	}
	v.UserViewable = c.UserViewable != nil && *c.UserViewable
	v.UserEditable = c.UserEditable != nil && *c.UserEditable
}

// GetOptionVariables список переменных варианта сервиса
// @Summary Переменные варианта сервиса
// @Tags Variables
// @Produce json
// @Param id path int true "ID варианта сервиса"
// @Success 200 {object} dto.ServiceVariableListResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/options/{id}/variables [get]
func (h *Handler) GetOptionVariables(c *gin.Context) {
	optionID, ok := parseID(c)
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID варианта сервиса")
		return
	}

	ctx := c.Request.Context()
	exists, err := h.Repository.Exists(ctx, validation.TableServiceOptions, optionID)
	if err != nil {
		h.storeError(c, err, "")
		return
	}
	if !exists {
		h.errorResponse(c, http.StatusNotFound, "Вариант сервиса не найден")
		return
	}

	variables, err := h.Repository.GetVariablesByOption(ctx, optionID)
	if err != nil {
		logrus.Error("Error getting variables: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка получения переменных")
		return
	}

	response := dto.ServiceVariableListResponse{
		Variables: make([]dto.ServiceVariableResponse, len(variables)),
		Total:     len(variables),
	}
	for i, v := range variables {
		response.Variables[i] = variableResponse(v)
	}

	c.JSON(http.StatusOK, response)
}

// CreateVariable создает переменную варианта сервиса
// @Summary Создание переменной
// @Description option_id берется из пути; env_variable не может совпадать с зарезервированными именами
// @Tags Variables
// @Accept json
// @Produce json
// @Param id path int true "ID варианта сервиса"
// @Param request body dto.ServiceVariableRequest true "Данные переменной"
// @Success 201 {object} dto.ServiceVariableResponse
// @Failure 422 {object} dto.ValidationErrorResponse
// @Router /api/options/{id}/variables [post]
func (h *Handler) CreateVariable(c *gin.Context) {
	optionID, ok := parseID(c)
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID варианта сервиса")
		return
	}

	var req dto.ServiceVariableRequest
	decodeErrs, ok := h.bindCandidate(c, &req)
	if !ok {
		return
	}
	req.OptionID = &optionID

	if err := h.variablePolicy.ValidateDecoded(c.Request.Context(), req, decodeErrs.Without("option_id")); err != nil {
		h.rejectInvalid(c, err)
		return
	}

	var variable ds.ServiceVariable
	applyVariable(&variable, req)

	if err := h.Repository.CreateVariable(c.Request.Context(), &variable); err != nil {
		logrus.Error("Error creating variable: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка создания переменной")
		return
	}

	c.JSON(http.StatusCreated, variableResponse(variable))
}

// GetVariable получает переменную
// @Summary Получение переменной по ID
// @Tags Variables
// @Produce json
// @Param id path int true "ID переменной"
// @Success 200 {object} dto.ServiceVariableResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/variables/{id} [get]
func (h *Handler) GetVariable(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID переменной")
		return
	}

	variable, err := h.Repository.GetVariableByID(c.Request.Context(), id)
	if err != nil {
		h.storeError(c, err, "Переменная не найдена")
		return
	}

	c.JSON(http.StatusOK, variableResponse(*variable))
}

// UpdateVariable изменяет переменную
// @Summary Изменение переменной
// @Description Вариант сервиса у переменной не меняется
// @Tags Variables
// @Accept json
// @Produce json
// @Param id path int true "ID переменной"
// @Param request body dto.ServiceVariableRequest true "Изменяемые поля"
// @Success 200 {object} dto.ServiceVariableResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ValidationErrorResponse
// @Router /api/variables/{id} [put]
func (h *Handler) UpdateVariable(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID переменной")
		return
	}

	var req dto.ServiceVariableRequest
	decodeErrs, ok := h.bindCandidate(c, &req)
	if !ok {
		return
	}

	variable, err := h.Repository.GetVariableByID(c.Request.Context(), id)
	if err != nil {
		h.storeError(c, err, "Переменная не найдена")
		return
	}

	candidate := variableCandidate(*variable, req)
	if err := h.variablePolicy.ValidateDecoded(c.Request.Context(), candidate, decodeErrs.Without("option_id")); err != nil {
		h.rejectInvalid(c, err)
		return
	}
	applyVariable(variable, candidate)

	if err := h.Repository.UpdateVariable(c.Request.Context(), variable); err != nil {
		logrus.Error("Error updating variable: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка изменения переменной")
		return
	}

	c.JSON(http.StatusOK, variableResponse(*variable))
}

// DeleteVariable удаляет переменную и ее значения на серверах
// @Summary Удаление переменной
// @Tags Variables
// @Produce json
// @Param id path int true "ID переменной"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/variables/{id} [delete]
func (h *Handler) DeleteVariable(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID переменной")
		return
	}

	if err := h.Repository.DeleteVariable(c.Request.Context(), id); err != nil {
		h.storeError(c, err, "Переменная не найдена")
		return
	}

	h.successResponse(c, http.StatusOK, "Переменная успешно удалена", nil)
}

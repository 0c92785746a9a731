// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков и отображения ошибок
// бизнес-логики в HTTP-статусы.
package response

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lifeflow/internal/models"
)

// Response описывает стандартную структуру JSON‑ответа сервера.
// Поле Status — статус запроса ("OK" или "Error").
// Поле Error — текст ошибки (при неуспехе), Fields — ошибки отдельных полей формы.
// Поле Data — данные ответа (при успехе).
type Response struct {
	Status string              `json:"status"`
	Error  string              `json:"error,omitempty"`
	Fields []models.FieldError `json:"fields,omitempty"`
	Data   any                 `json:"data,omitempty"`
}

// ErrorResponse — структура ошибки для Swagger-документации.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
}

const (
	// StatusOK — значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError — значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// OKWithData возвращает успешный Response с переданными данными.
func OKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает Response с ошибкой и переданным сообщением.
func Error(msg string) Response {
	return Response{
		Status: StatusError,
		Error:  msg,
	}
}

// ValidationError формирует Response по ошибкам валидации формы.
func ValidationError(verr *models.ValidationError) Response {
	return Response{
		Status: StatusError,
		Error:  verr.Error(),
		Fields: verr.Fields,
	}
}

// StatusCode подбирает HTTP-статус для ошибки бизнес-логики.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrDuplicatePhone), errors.Is(err, models.ErrDuplicateEmail):
		return http.StatusConflict
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// RenderError пишет ответ с ошибкой бизнес-логики. Внутренние детали наружу не выдаются.
func RenderError(w http.ResponseWriter, r *http.Request, err error) {
	code := StatusCode(err)
	render.Status(r, code)

	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		render.JSON(w, r, ValidationError(verr))
	case errors.Is(err, models.ErrDuplicatePhone):
		render.JSON(w, r, Error(models.ErrDuplicatePhone.Error()))
	case errors.Is(err, models.ErrDuplicateEmail):
		render.JSON(w, r, Error(models.ErrDuplicateEmail.Error()))
	case errors.Is(err, models.ErrNotFound):
		render.JSON(w, r, Error(models.ErrNotFound.Error()))
	case errors.Is(err, models.ErrStorageUnavailable):
		render.JSON(w, r, Error(models.ErrStorageUnavailable.Error()))
	default:
		render.JSON(w, r, Error("internal error"))
	}
}

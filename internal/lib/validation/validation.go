// Package validation собирает валидатор go-playground с тегами предметной области
// (bloodtype, role, status) и переводит его ошибки в models.ValidationError.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/lifeflow/internal/models"
)

// New возвращает валидатор с зарегистрированными тегами предметной области.
// Имена полей в ошибках берутся из json-тегов.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// Ошибки регистрации возможны только при пустом имени тега.
	_ = v.RegisterValidation("bloodtype", func(fl validator.FieldLevel) bool {
		_, ok := models.ParseBloodType(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		r := models.Role(fl.Field().String())
		return r == models.RoleAdmin || r == models.RoleUser
	})
	_ = v.RegisterValidation("status", func(fl validator.FieldLevel) bool {
		s := models.Status(fl.Field().String())
		return s == models.StatusActive || s == models.StatusInactive
	})
	return v
}

// Struct проверяет структуру и возвращает *models.ValidationError либо nil.
func Struct(v *validator.Validate, s any) *models.ValidationError {
	verr := &models.ValidationError{}
	err := v.Struct(s)
	if err == nil {
		return verr
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		verr.Add("_", err.Error())
		return verr
	}
	for _, fe := range errs {
		verr.Add(fe.Field(), reason(fe))
	}
	return verr
}

func reason(fe validator.FieldError) string {
	switch fe.ActualTag() {
	case "required":
		return "is a required field"
	case "email":
		return "must be a valid email address"
	case "bloodtype":
		return "must be one of A+, A-, B+, B-, AB+, AB-, O+, O-"
	case "role":
		return "must be admin or user"
	case "status":
		return "must be active or inactive"
	default:
		return "is not valid"
	}
}

package domain

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// requestValidator is shared by every request.
var requestValidator = mustValidator()

type UsernameChange struct {
	Username string `json:"username" validate:"required,max=64,notBlank"`
}

type ToggleRequest struct {
	Category Category `json:"category" validate:"required,category"`
	Label    string   `json:"label" validate:"required,max=128,notBlank"`
}

func (change *UsernameChange) Validate() error {
	return requestValidator.Struct(change)
}

func (request *ToggleRequest) Validate() error {
	return requestValidator.Struct(request)
}

func newValidator() (*validator.Validate, error) {
	validate := validator.New()
	if err := validate.RegisterValidation("category", knownCategoryField); err != nil {
		return nil, err
	}
	if err := validate.RegisterValidation("notBlank", notBlankField); err != nil {
		return nil, err
	}
	return validate, nil
}

func mustValidator() *validator.Validate {
	validate, err := newValidator()
	if err != nil {
		panic(err)
	}
	return validate
}

func knownCategoryField(fl validator.FieldLevel) bool {
	return Category(fl.Field().String()).Valid()
}

func notBlankField(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

package handler

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/yourusername/tutorconnect-api/internal/domain/entity"
)

const (
	roleTag       = "role"
	difficultyTag = "difficulty"
)

// RegisterValidators регистрирует пользовательские теги в валидаторе gin
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected gin validator engine %T", binding.Validator.Engine())
	}
	if err := v.RegisterValidation(roleTag, roleValidation); err != nil {
		return err
	}
	return v.RegisterValidation(difficultyTag, difficultyValidation)
}

func roleValidation(fl validator.FieldLevel) bool {
	return entity.IsValidRole(fl.Field().String())
}

func difficultyValidation(fl validator.FieldLevel) bool {
	return entity.IsValidDifficulty(fl.Field().String())
}

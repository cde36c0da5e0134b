package dto

import (
	"github.com/yourusername/tutorconnect-api/internal/domain/entity"
	"github.com/yourusername/tutorconnect-api/internal/service"
)

// RegisterRequest представляет запрос на регистрацию
type RegisterRequest struct {
	Email        string   `json:"email" binding:"required,email"`
	Password     string   `json:"password" binding:"required,min=6"`
	Role         string   `json:"role" binding:"omitempty,role"`
	Subjects     []string `json:"subjects" binding:"omitempty,dive,max=100"`
	Availability []string `json:"availability" binding:"omitempty,dive,max=100"`
	Bio          string   `json:"bio" binding:"max=1000"`
	HourlyRate   *float64 `json:"hourlyRate" binding:"omitempty,min=0"`
}

// LoginRequest представляет запрос на вход
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest - частичное обновление профиля. Отсутствующие поля не меняются.
type UpdateProfileRequest struct {
	Role         *string  `json:"role" binding:"omitempty,role"`
	Subjects     []string `json:"subjects" binding:"omitempty,dive,max=100"`
	Availability []string `json:"availability" binding:"omitempty,dive,max=100"`
	Bio          *string  `json:"bio" binding:"omitempty,max=1000"`
	HourlyRate   *float64 `json:"hourlyRate" binding:"omitempty,min=0"`
}

// ProfileResponse - профиль и признак демо-режима
type ProfileResponse struct {
	Profile  *entity.UserProfile `json:"profile"`
	DemoMode bool                `json:"demo_mode"`
}

// ToRegisterInput преобразует запрос в параметры сервиса
func (r *RegisterRequest) ToRegisterInput() service.RegisterInput {
	return service.RegisterInput{
		Email:        r.Email,
		Password:     r.Password,
		Role:         r.Role,
		Subjects:     r.Subjects,
		Availability: r.Availability,
		Bio:          r.Bio,
		HourlyRate:   r.HourlyRate,
	}
}

// ToProfileUpdate преобразует запрос в частичное обновление
func (r *UpdateProfileRequest) ToProfileUpdate() entity.ProfileUpdate {
	return entity.ProfileUpdate{
		Role:         r.Role,
		Subjects:     r.Subjects,
		Availability: r.Availability,
		Bio:          r.Bio,
		HourlyRate:   r.HourlyRate,
	}
}

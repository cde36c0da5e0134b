package entity

import (
	"fmt"
	"time"
)

// Роли пользователя
const (
	RoleTutor   = "tutor"
	RoleLearner = "learner"
)

// IsValidRole проверяет, входит ли роль в перечисление
func IsValidRole(role string) bool {
	return role == RoleTutor || role == RoleLearner
}

// UserProfile описывает роль, предметы, доступность и ставку пользователя.
// JSON-теги совпадают с форматом локального хранилища (ключ tutorapp_user).
type UserProfile struct {
	ID           string      `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string      `gorm:"size:100;not null" json:"email"`
	Role         string      `gorm:"size:20;not null;default:'learner'" json:"role"`
	Subjects     StringArray `gorm:"type:jsonb;not null" json:"subjects"`
	Availability StringArray `gorm:"type:jsonb;not null" json:"availability"`
	Bio          string      `gorm:"size:1000;not null;default:''" json:"bio,omitempty"`
	HourlyRate   *float64    `gorm:"column:hourly_rate" json:"hourlyRate,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"-"`
}

// TableName определяет имя таблицы для GORM
func (UserProfile) TableName() string {
	return "profiles"
}

// Normalize приводит профиль к инвариантам: роль по умолчанию learner, множества без дубликатов
func (p *UserProfile) Normalize() {
	if p.Role == "" {
		p.Role = RoleLearner
	}
	p.Subjects = p.Subjects.Set()
	p.Availability = p.Availability.Set()
}

// Validate проверяет роль и ставку
func (p *UserProfile) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("profile id is required")
	}
	if !IsValidRole(p.Role) {
		return fmt.Errorf("invalid role %q", p.Role)
	}
	if p.HourlyRate != nil && *p.HourlyRate < 0 {
		return fmt.Errorf("hourly rate must be non-negative")
	}
	return nil
}

// IsTutor возвращает true для роли tutor
func (p *UserProfile) IsTutor() bool {
	return p.Role == RoleTutor
}

// ProfileUpdate - частичное обновление профиля. nil означает "не менять".
type ProfileUpdate struct {
	Role         *string
	Subjects     []string
	Availability []string
	Bio          *string
	HourlyRate   *float64
}

// Apply применяет частичное обновление к копии профиля
func (u ProfileUpdate) Apply(p UserProfile) UserProfile {
	if u.Role != nil {
		p.Role = *u.Role
	}
	if u.Subjects != nil {
		p.Subjects = StringArray(u.Subjects)
	}
	if u.Availability != nil {
		p.Availability = StringArray(u.Availability)
	}
	if u.Bio != nil {
		p.Bio = *u.Bio
	}
	if u.HourlyRate != nil {
		rate := *u.HourlyRate
		p.HourlyRate = &rate
	}
	p.Normalize()
	return p
}

// Columns возвращает карту колонок для точечного UPDATE в удаленной таблице
func (u ProfileUpdate) Columns(p UserProfile) map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Role != nil {
		updates["role"] = p.Role
	}
	if u.Subjects != nil {
		updates["subjects"] = p.Subjects
	}
	if u.Availability != nil {
		updates["availability"] = p.Availability
	}
	if u.Bio != nil {
		updates["bio"] = p.Bio
	}
	if u.HourlyRate != nil {
		updates["hourly_rate"] = p.HourlyRate
	}
	return updates
}

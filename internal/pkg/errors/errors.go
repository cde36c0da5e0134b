package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены (викторина, результат, профиль).
	// Для вызывающего кода это "нечего показать", а не фатальная ошибка.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется для ошибок авторизации (неверный токен, неверный пароль).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden используется, когда у пользователя недостаточно прав для действия.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")

	// ErrConflict используется для конфликтов состояния (например, email уже зарегистрирован).
	ErrConflict = errors.New("resource state conflict")

	// ErrExternalService используется, когда внешний сервис (reward ledger, профильный бэкенд) вернул ошибку.
	// Повторные попытки остаются на стороне вызывающего кода.
	ErrExternalService = errors.New("external service failure")

	// ErrPersistenceUnavailable означает, что хранилище вернуло битые или отсутствующие данные.
	// Читающие операции трактуют его как пустую коллекцию.
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
)

package repository

import "time"

// CacheRepository - кеш с TTL, в нем хранятся отозванные токены
type CacheRepository interface {
	Set(key string, value interface{}, expiration time.Duration) error
	Exists(key string) (bool, error)
}

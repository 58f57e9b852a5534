package handler

import (
	"gorm.io/gorm"

	"storiny/backend/internal/cache"
	"storiny/backend/internal/friends"
	"storiny/backend/internal/lifecycle"
)

// Shared handler dependencies, wired once at startup.
var (
	Lifecycle *lifecycle.Manager
	Friends   *friends.Service
	Cache     *cache.RedisCache
)

// Init wires the services the handlers depend on.
func Init(db *gorm.DB, redisCache *cache.RedisCache) {
	Lifecycle = lifecycle.NewManager(db)
	Friends = friends.NewService(db)
	Cache = redisCache
}

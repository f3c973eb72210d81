package ratelimit

import (
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/storage/redis"

	"github.com/Joelferreira98/SisFin/internal/pkg/cache"
	"github.com/Joelferreira98/SisFin/internal/pkg/env"
)

var storage fiber.Storage

// NewStorage builds a Redis-backed limiter storage from the existing cache
// connection so counters survive restarts and are shared between instances.
// Uses database 1, the cache client stays on database 0.
func NewStorage() fiber.Storage {
	cacheClient := cache.GetClient()
	host := "localhost"
	port := 6379
	password := env.GetEnv("CACHE_PASSWORD", "")
	if cacheClient != nil {
		addr := cacheClient.Options().Addr
		if h, p, err := net.SplitHostPort(addr); err == nil {
			host = h
			if v, err := strconv.Atoi(p); err == nil {
				port = v
			}
		}
		if p := cacheClient.Options().Password; p != "" {
			password = p
		}
	}

	storage = redis.New(redis.Config{
		Host:     host,
		Port:     port,
		Password: password,
		Database: 1,
		Reset:    false,
	})
	return storage
}

// PublicLimiter throttles the unauthenticated confirmation endpoints. The
// token in the URL is guessable only by brute force, so keep the window
// tight per client IP.
func PublicLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Minute,
		Storage:    storage,
	})
}

// APILimiter is the general per-IP throttle for the API group.
func APILimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		Storage:    storage,
	})
}

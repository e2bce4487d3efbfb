package services

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/tbourn/go-exitpage-backend/internal/domain"
	"github.com/tbourn/go-exitpage-backend/internal/repo"
)

// CacheContextRunes is how much of the context text takes part in the key.
const CacheContextRunes = 20

// CacheKey builds the message cache key from sanitized request fields.
func CacheKey(name string, mood domain.Mood, relationship, context string) string {
	if utf8.RuneCountInString(context) > CacheContextRunes {
		context = string([]rune(context)[:CacheContextRunes])
	}
	return fmt.Sprintf("farewell_%s_%s_%s_%s", name, mood, relationship, context)
}

// MessageCache stores generated messages in a session-scoped KV. Entries are
// never invalidated; they live as long as the session store keeps them.
// Store failures are logged and treated as misses.
type MessageCache struct {
	Store repo.KV
	Log   zerolog.Logger
}

// Get returns the cached message for key.
func (c *MessageCache) Get(ctx context.Context, key string) (string, bool) {
	if c == nil || c.Store == nil {
		return "", false
	}
	v, ok, err := c.Store.Get(ctx, key)
	if err != nil {
		c.Log.Warn().Err(err).Str("key", key).Msg("message cache read failed")
		return "", false
	}
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Put stores value under key.
func (c *MessageCache) Put(ctx context.Context, key, value string) {
	if c == nil || c.Store == nil {
		return
	}
	if err := c.Store.Set(ctx, key, value); err != nil {
		c.Log.Warn().Err(err).Str("key", key).Msg("message cache write failed")
	}
}

package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"foodstore_back_end/internal/database"
	"foodstore_back_end/internal/response"
)

const (
	LoginMaxAttempts = 5
	LoginCooldown    = 15 * time.Minute
)

// LoginRateLimit limite les tentatives de connexion par username via Redis.
// Le compteur est purgé par RecordLoginSuccess après une connexion réussie.
func LoginRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Lire le body sans le consommer
		bodyBytes, _ := io.ReadAll(c.Request.Body)

		var input struct {
			Username string `json:"username"`
		}

		if err := json.Unmarshal(bodyBytes, &input); err != nil || input.Username == "" {
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
			c.Next()
			return
		}

		// Remettre le body pour les handlers suivants
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		ctx := context.Background()
		attemptsKey := "login_attempts:" + input.Username
		cooldownKey := "login_cooldown:" + input.Username

		if database.Redis.Exists(ctx, cooldownKey).Val() > 0 {
			ttl := database.Redis.TTL(ctx, cooldownKey).Val()
			response.Abort(c, http.StatusTooManyRequests,
				fmt.Sprintf("Too many login attempts. Try again in %d minutes.", int(ttl.Minutes())+1))
			return
		}

		attempts, _ := database.Redis.Incr(ctx, attemptsKey).Result()
		if attempts == 1 {
			database.Redis.Expire(ctx, attemptsKey, LoginCooldown)
		}

		if attempts > LoginMaxAttempts {
			database.Redis.Set(ctx, cooldownKey, "1", LoginCooldown)
			database.Redis.Del(ctx, attemptsKey)
			response.Abort(c, http.StatusTooManyRequests,
				fmt.Sprintf("Too many login attempts. Try again in %d minutes.", int(LoginCooldown.Minutes())))
			return
		}

		c.Next()
	}
}

// RecordLoginSuccess remet le compteur à zéro après une connexion réussie.
func RecordLoginSuccess(username string) {
	ctx := context.Background()
	database.Redis.Del(ctx, "login_attempts:"+username)
	database.Redis.Del(ctx, "login_cooldown:"+username)
}

package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"foodstore_back_end/internal/database"
	"foodstore_back_end/internal/models"
)

const (
	UserCacheTTL    = 5 * time.Minute
	ProductCacheTTL = time.Hour

	productListKey = "products:all"
)

// GetUserFromCache récupère un utilisateur depuis Redis ou, à défaut, ScyllaDB
func GetUserFromCache(userID string) (*models.User, error) {
	ctx := context.Background()
	key := "user:" + userID

	// 1. Essayer le cache Redis
	data, err := database.Redis.Get(ctx, key).Result()
	if err == nil {
		var user models.User
		if json.Unmarshal([]byte(data), &user) == nil {
			return &user, nil
		}
	}

	// 2. Récupérer de ScyllaDB
	session, err := database.GetUsersSession()
	if err != nil {
		return nil, err
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}
	userUUID := gocql.UUID(uid)

	user := models.User{ID: userUUID}
	if err := session.Query(`SELECT username, email, role, is_approved, created_at, updated_at
		FROM users WHERE user_id = ?`, userUUID).Scan(
		&user.Username, &user.Email, &user.Role, &user.IsApproved, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return nil, err
	}

	// 3. Mettre en cache pour les prochains appels
	if encoded, err := json.Marshal(user); err == nil {
		database.Redis.Set(ctx, key, encoded, UserCacheTTL)
	}

	return &user, nil
}

// InvalidateUser purge l'entrée cache d'un utilisateur
func InvalidateUser(userID string) {
	database.Redis.Del(context.Background(), "user:"+userID)
}

// GetCachedProductList retourne la liste de produits en cache, ou nil
func GetCachedProductList(ctx context.Context) []models.Product {
	val, err := database.Redis.Get(ctx, productListKey).Result()
	if err != nil || val == "" {
		return nil
	}
	var products []models.Product
	if err := json.Unmarshal([]byte(val), &products); err != nil {
		return nil
	}
	return products
}

// SetCachedProductList met la liste de produits en cache
func SetCachedProductList(ctx context.Context, products []models.Product) {
	if data, err := json.Marshal(products); err == nil {
		database.Redis.Set(ctx, productListKey, data, ProductCacheTTL)
	}
}

// InvalidateProductList purge le cache liste après une mutation du catalogue
func InvalidateProductList(ctx context.Context) {
	database.Redis.Del(ctx, productListKey)
}

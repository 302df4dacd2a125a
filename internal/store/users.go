package store

import (
	"context"

	"github.com/gocql/gocql"

	"foodstore_back_end/internal/cache"
)

// ScyllaUserStore implémente services.UserStore. Passe par le cache Redis
// (fallback ScyllaDB) car le nom d'affichage est relu pour chaque commande
// enrichie.
type ScyllaUserStore struct{}

func NewScyllaUserStore() *ScyllaUserStore {
	return &ScyllaUserStore{}
}

func (s *ScyllaUserStore) DisplayName(ctx context.Context, id gocql.UUID) (string, error) {
	user, err := cache.GetUserFromCache(id.String())
	if err != nil {
		return "", err
	}
	return user.Username, nil
}

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gocql/gocql"

	"foodstore_back_end/internal/database"
	"foodstore_back_end/internal/models"
	"foodstore_back_end/internal/services"
)

// ScyllaProductStore implémente services.ProductStore sur le keyspace
// products. La décrémentation de stock passe par une transaction légère
// (LWT) : la condition IF stock = ? garantit qu'aucune écriture concurrente
// ne s'est glissée entre la lecture et la mise à jour.
type ScyllaProductStore struct{}

func NewScyllaProductStore() *ScyllaProductStore {
	return &ScyllaProductStore{}
}

// Nombre de tentatives CAS avant d'abandonner sous forte contention.
const maxCASAttempts = 8

func (s *ScyllaProductStore) GetByID(ctx context.Context, id gocql.UUID) (*models.Product, error) {
	session, err := database.GetProductsSession()
	if err != nil {
		return nil, err
	}

	var p models.Product
	p.ID = id
	err = session.Query(`SELECT name, description, price, stock, category, rating, image_url, created_at, updated_at
		FROM products WHERE product_id = ?`, id).WithContext(ctx).
		Scan(&p.Name, &p.Description, &p.Price, &p.Stock, &p.Category, &p.Rating, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, gocql.ErrNotFound) {
			return nil, services.ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

// DecrementStock retire qty du stock, seulement si le stock courant suffit.
// Boucle lecture → UPDATE ... IF stock = ? : si la condition échoue parce
// qu'un autre acheteur est passé entre-temps, ScanCAS nous rend la valeur
// fraîche et on réessaie avec elle.
func (s *ScyllaProductStore) DecrementStock(ctx context.Context, id gocql.UUID, qty int) (int, error) {
	session, err := database.GetProductsSession()
	if err != nil {
		return 0, err
	}

	var stock int
	if err := session.Query(`SELECT stock FROM products WHERE product_id = ?`, id).
		WithContext(ctx).Scan(&stock); err != nil {
		if errors.Is(err, gocql.ErrNotFound) {
			return 0, services.ErrProductNotFound
		}
		return 0, err
	}

	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		if stock < qty {
			return 0, &services.InsufficientStockError{Available: stock}
		}

		newStock := stock - qty
		applied, err := session.Query(`UPDATE products SET stock = ?, updated_at = ? WHERE product_id = ? IF stock = ?`,
			newStock, time.Now().UTC(), id, stock).WithContext(ctx).ScanCAS(&stock)
		if err != nil {
			return 0, err
		}
		if applied {
			return newStock, nil
		}
		// Condition refusée : stock contient maintenant la valeur courante.
	}

	return 0, fmt.Errorf("contention trop forte sur le stock du produit %s", id)
}

// AddStock restitue qty unités (compensation). Même discipline CAS que la
// décrémentation pour ne pas écraser une écriture concurrente.
func (s *ScyllaProductStore) AddStock(ctx context.Context, id gocql.UUID, qty int) error {
	session, err := database.GetProductsSession()
	if err != nil {
		return err
	}

	var stock int
	if err := session.Query(`SELECT stock FROM products WHERE product_id = ?`, id).
		WithContext(ctx).Scan(&stock); err != nil {
		if errors.Is(err, gocql.ErrNotFound) {
			return services.ErrProductNotFound
		}
		return err
	}

	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		applied, err := session.Query(`UPDATE products SET stock = ?, updated_at = ? WHERE product_id = ? IF stock = ?`,
			stock+qty, time.Now().UTC(), id, stock).WithContext(ctx).ScanCAS(&stock)
		if err != nil {
			return err
		}
		if applied {
			return nil
		}
	}

	return fmt.Errorf("contention trop forte sur le stock du produit %s", id)
}

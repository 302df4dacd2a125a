package store

import (
	"context"
	"errors"
	"time"

	"github.com/gocql/gocql"

	"foodstore_back_end/internal/database"
	"foodstore_back_end/internal/models"
	"foodstore_back_end/internal/services"
)

// ScyllaOrderStore implémente services.OrderStore sur le keyspace orders.
// Les commandes ne sont jamais contendues entre elles : une seule écriture à
// la création, puis des mises à jour ciblées par order_id.
type ScyllaOrderStore struct{}

func NewScyllaOrderStore() *ScyllaOrderStore {
	return &ScyllaOrderStore{}
}

const orderColumns = `order_id, user_id, product_id, quantity, total_price, status, note, created_at, updated_at`

func (s *ScyllaOrderStore) Insert(ctx context.Context, o *models.Order) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	return session.Query(`INSERT INTO orders (`+orderColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.UserID, o.ProductID, o.Quantity, o.TotalPrice, string(o.Status), o.Note, o.CreatedAt, o.UpdatedAt).
		WithContext(ctx).Exec()
}

func (s *ScyllaOrderStore) GetByID(ctx context.Context, id gocql.UUID) (*models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	var o models.Order
	var status string
	err = session.Query(`SELECT `+orderColumns+` FROM orders WHERE order_id = ?`, id).WithContext(ctx).
		Scan(&o.ID, &o.UserID, &o.ProductID, &o.Quantity, &o.TotalPrice, &status, &o.Note, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, gocql.ErrNotFound) {
			return nil, services.ErrOrderNotFound
		}
		return nil, err
	}
	o.Status = models.OrderStatus(status)
	return &o, nil
}

func (s *ScyllaOrderStore) ListAll(ctx context.Context) ([]models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT ` + orderColumns + ` FROM orders`).WithContext(ctx).Iter()
	return scanOrders(iter)
}

func (s *ScyllaOrderStore) ListByProduct(ctx context.Context, productID gocql.UUID) ([]models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT `+orderColumns+` FROM orders WHERE product_id = ? ALLOW FILTERING`, productID).
		WithContext(ctx).Iter()
	return scanOrders(iter)
}

func (s *ScyllaOrderStore) UpdateStatus(ctx context.Context, id gocql.UUID, status models.OrderStatus, updatedAt time.Time) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	return session.Query(`UPDATE orders SET status = ?, updated_at = ? WHERE order_id = ?`,
		string(status), updatedAt, id).WithContext(ctx).Exec()
}

func (s *ScyllaOrderStore) Delete(ctx context.Context, id gocql.UUID) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	return session.Query(`DELETE FROM orders WHERE order_id = ?`, id).WithContext(ctx).Exec()
}

func scanOrders(iter *gocql.Iter) ([]models.Order, error) {
	var orders []models.Order
	var o models.Order
	var status string

	for iter.Scan(&o.ID, &o.UserID, &o.ProductID, &o.Quantity, &o.TotalPrice, &status, &o.Note, &o.CreatedAt, &o.UpdatedAt) {
		o.Status = models.OrderStatus(status)
		orders = append(orders, o)
		o = models.Order{} // Reset pour la prochaine itération
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return orders, nil
}

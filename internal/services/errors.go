package services

import (
	"errors"
	"fmt"
	"strings"

	"foodstore_back_end/internal/models"
)

// Erreurs métier remontées par les services. Les handlers les traduisent en
// codes HTTP ; tout le reste est considéré comme une erreur interne (500).
var (
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrMissingUser     = errors.New("user id is required")
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrDuplicateName   = errors.New("product name already in use")
)

// InsufficientStockError signale un stock trop faible pour la quantité
// demandée, en précisant la quantité encore disponible.
type InsufficientStockError struct {
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock. Available: %d", e.Available)
}

// InvalidStatusError signale un statut hors de l'énumération, en rappelant
// les valeurs acceptées.
type InvalidStatusError struct {
	Status string
}

func (e *InvalidStatusError) Error() string {
	allowed := make([]string, 0, len(models.AllStatuses()))
	for _, s := range models.AllStatuses() {
		allowed = append(allowed, string(s))
	}
	return fmt.Sprintf("Invalid status %q. Allowed: %s", e.Status, strings.Join(allowed, ", "))
}

// TransitionError signale une transition refusée par la politique en place.
type TransitionError struct {
	From, To models.OrderStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("Status transition %s -> %s not allowed", e.From, e.To)
}

package models

import (
	"time"

	"github.com/gocql/gocql"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusInProgress OrderStatus = "in_progress"
	StatusCompleted  OrderStatus = "completed"
	StatusCanceled   OrderStatus = "canceled"
)

// AllStatuses liste les statuts acceptés, dans l'ordre d'affichage.
func AllStatuses() []OrderStatus {
	return []OrderStatus{StatusPending, StatusInProgress, StatusCompleted, StatusCanceled}
}

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCanceled:
		return true
	}
	return false
}

// TransitionPolicy décide si un changement de statut est autorisé.
// La politique par défaut accepte n'importe quelle transition entre statuts
// valides ; brancher une autre implémentation pour imposer un workflow.
type TransitionPolicy interface {
	CanTransition(from, to OrderStatus) bool
}

// PermissiveTransitions : tout statut valide peut succéder à tout autre.
type PermissiveTransitions struct{}

func (PermissiveTransitions) CanTransition(from, to OrderStatus) bool {
	return from.Valid() && to.Valid()
}

// ForwardOnlyTransitions : exemple de politique stricte (pending →
// in_progress → completed, annulation possible avant completed). Non branchée
// par défaut.
type ForwardOnlyTransitions struct{}

var forwardNext = map[OrderStatus]map[OrderStatus]bool{
	StatusPending:    {StatusInProgress: true, StatusCanceled: true},
	StatusInProgress: {StatusCompleted: true, StatusCanceled: true},
	StatusCompleted:  {},
	StatusCanceled:   {},
}

func (ForwardOnlyTransitions) CanTransition(from, to OrderStatus) bool {
	return forwardNext[from][to]
}

type Order struct {
	ID         gocql.UUID  `json:"id" db:"order_id"`
	UserID     gocql.UUID  `json:"user_id" db:"user_id"`
	ProductID  gocql.UUID  `json:"product_id" db:"product_id"`
	Quantity   int         `json:"quantity" db:"quantity"`
	TotalPrice float64     `json:"total_price" db:"total_price"`
	Status     OrderStatus `json:"status" db:"status"`
	Note       string      `json:"note,omitempty" db:"note"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at" db:"updated_at"`
}

// OrderDetails : commande enrichie à la lecture avec les infos produit et
// utilisateur (jointure au moment de la requête, rien n'est recopié en base).
type OrderDetails struct {
	Order
	ProductName  string  `json:"product_name,omitempty"`
	ProductPrice float64 `json:"product_price,omitempty"`
	Username     string  `json:"username,omitempty"`
}

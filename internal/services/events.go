package services

import (
	"context"
	"encoding/json"
	"log"

	"foodstore_back_end/internal/database"
	"foodstore_back_end/internal/models"
)

// OrderEvent : message publié sur Redis à chaque création ou changement de
// statut d'une commande. Relu par les clients websocket.
type OrderEvent struct {
	Type   string             `json:"type"` // "order_created" | "status_changed"
	Order  models.Order       `json:"order"`
	Status models.OrderStatus `json:"status"`
}

// OrderChannel : canal Redis pub/sub d'une commande.
func OrderChannel(orderID string) string {
	return "orders:" + orderID
}

// PublishOrderEvent publie un événement de commande (fire-and-forget).
func PublishOrderEvent(event OrderEvent) {
	if database.Redis == nil {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return
	}

	ctx := context.Background()
	if err := database.Redis.Publish(ctx, OrderChannel(event.Order.ID.String()), payload).Err(); err != nil {
		log.Printf("⚠️ Échec publication événement commande %s: %v", event.Order.ID, err)
	}
}

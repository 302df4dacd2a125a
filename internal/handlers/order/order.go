package order

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"foodstore_back_end/internal/cache"
	"foodstore_back_end/internal/models"
	"foodstore_back_end/internal/response"
	"foodstore_back_end/internal/services"
	"foodstore_back_end/internal/utils"
)

var svc *services.OrderService

// Init branche le service de commandes utilisé par les handlers.
func Init(s *services.OrderService) {
	svc = s
}

// writeServiceError traduit les erreurs métier en enveloppe HTTP. Les
// erreurs inattendues sont loggées côté serveur et masquées au client.
func writeServiceError(c *gin.Context, err error) {
	var insufficientStock *services.InsufficientStockError
	var invalidStatus *services.InvalidStatusError
	var transition *services.TransitionError

	switch {
	case errors.Is(err, services.ErrInvalidQuantity):
		response.Error(c, http.StatusBadRequest, "Invalid quantity")
	case errors.Is(err, services.ErrMissingUser):
		response.Error(c, http.StatusBadRequest, "User ID is required")
	case errors.Is(err, services.ErrProductNotFound):
		response.Error(c, http.StatusNotFound, "Product not found")
	case errors.Is(err, services.ErrOrderNotFound):
		response.Error(c, http.StatusNotFound, "Order not found")
	case errors.As(err, &insufficientStock):
		response.Error(c, http.StatusBadRequest, insufficientStock.Error())
	case errors.As(err, &invalidStatus):
		response.Error(c, http.StatusBadRequest, invalidStatus.Error())
	case errors.As(err, &transition):
		response.Error(c, http.StatusBadRequest, transition.Error())
	default:
		log.Printf("❌ Erreur service commandes: %v", err)
		response.Error(c, http.StatusInternalServerError, "Server error")
	}
}

// actingUserID extrait l'identité résolue par le middleware JWT. L'identité
// ne vient jamais du corps de la requête.
func actingUserID(c *gin.Context) (gocql.UUID, bool) {
	raw := c.GetString("user_id")
	if raw == "" {
		return gocql.UUID{}, false
	}
	uid, err := uuid.Parse(raw)
	if err != nil {
		return gocql.UUID{}, false
	}
	return gocql.UUID(uid), true
}

// PlaceOrder crée une commande sur le produit de l'URL pour l'utilisateur
// authentifié. POST /products/:id/orders
func PlaceOrder(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusNotFound, "Product not found")
		return
	}

	userID, ok := actingUserID(c)
	if !ok {
		response.Error(c, http.StatusBadRequest, "User ID is required")
		return
	}

	var input struct {
		Quantity int    `json:"quantity"`
		Note     string `json:"note"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid quantity")
		return
	}

	order, err := svc.PlaceOrder(c.Request.Context(), userID, productID, input.Quantity, input.Note)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	// Notifications fire-and-forget : e-mail + événement temps réel.
	go notifyOrderCreated(*order)

	response.JSON(c, http.StatusCreated, "Order placed successfully", order)
}

// GetOrders liste toutes les commandes, enrichies. GET /orders
func GetOrders(c *gin.Context) {
	orders, err := svc.ListOrders(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "Orders fetched successfully.", orders)
}

// GetOrderByID retourne une commande enrichie. GET /orders/:id
func GetOrderByID(c *gin.Context) {
	orderID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusNotFound, "Order not found")
		return
	}

	order, err := svc.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "Order fetched successfully.", order)
}

// GetProductOrders liste les commandes d'un produit. GET /products/:id/orders
func GetProductOrders(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusNotFound, "Product not found")
		return
	}

	orders, err := svc.ListProductOrders(c.Request.Context(), productID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "Orders fetched successfully.", orders)
}

// UpdateOrderStatus fait passer la commande au statut demandé.
// PUT /orders/:id
func UpdateOrderStatus(c *gin.Context) {
	orderID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusNotFound, "Order not found")
		return
	}

	var input struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		writeServiceError(c, &services.InvalidStatusError{Status: ""})
		return
	}

	order, err := svc.SetStatus(c.Request.Context(), orderID, models.OrderStatus(input.Status))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	go notifyStatusChanged(*order)

	response.JSON(c, http.StatusOK, "Order status updated successfully.", order)
}

// DeleteOrder supprime une commande. Le stock n'est pas restitué.
// DELETE /orders/:id
func DeleteOrder(c *gin.Context) {
	orderID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusNotFound, "Order not found")
		return
	}

	if err := svc.DeleteOrder(c.Request.Context(), orderID); err != nil {
		writeServiceError(c, err)
		return
	}

	utils.LogAction(c, "delete", "order", orderID.String(), nil, nil)

	response.JSON(c, http.StatusOK, "Order deleted successfully.", nil)
}

func notifyOrderCreated(o models.Order) {
	services.PublishOrderEvent(services.OrderEvent{
		Type:   "order_created",
		Order:  o,
		Status: o.Status,
	})

	user, err := cache.GetUserFromCache(o.UserID.String())
	if err != nil {
		log.Printf("⚠️ E-mail de confirmation non envoyé, utilisateur %s introuvable: %v", o.UserID, err)
		return
	}

	details := models.OrderDetails{Order: o}
	if product, perr := svc.Products.GetByID(context.Background(), o.ProductID); perr == nil {
		details.ProductName = product.Name
		details.ProductPrice = product.Price
	}
	utils.SendOrderConfirmationEmail(user.Email, details)
}

func notifyStatusChanged(o models.Order) {
	services.PublishOrderEvent(services.OrderEvent{
		Type:   "status_changed",
		Order:  o,
		Status: o.Status,
	})

	user, err := cache.GetUserFromCache(o.UserID.String())
	if err != nil {
		log.Printf("⚠️ E-mail de statut non envoyé, utilisateur %s introuvable: %v", o.UserID, err)
		return
	}
	utils.SendOrderStatusEmail(user.Email, o)
}

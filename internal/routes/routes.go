package routes

import (
	"github.com/gin-gonic/gin"

	"foodstore_back_end/internal/handlers/order"
	"foodstore_back_end/internal/handlers/product"
	"foodstore_back_end/internal/handlers/user"
	"foodstore_back_end/internal/middleware"
)

func RegisterRoutes(r *gin.Engine) {
	// Auth
	r.POST("/register", user.Register)
	r.POST("/login", middleware.LoginRateLimit(), user.Login)

	// Users (admin)
	users := r.Group("/users", middleware.AuthRequired(), middleware.AuthorizeRoles("admin"))
	{
		users.GET("", user.GetUsers)
		users.GET("/:id", user.GetUserByID)
		users.PUT("/:id/approve", user.ApproveUser)
		users.DELETE("/:id", user.DeleteUser)
	}

	// Products
	products := r.Group("/products", middleware.AuthRequired())
	{
		products.GET("", product.GetAllProducts)
		products.GET("/search", product.SearchProducts)
		products.GET("/:id", product.GetProductByID)
		products.POST("", product.CreateProduct)
		products.PUT("/:id", product.UpdateProduct)
		products.DELETE("/:id", product.DeleteProduct)

		// Commandes d'un produit
		products.GET("/:id/orders", order.GetProductOrders)
		products.POST("/:id/orders", order.PlaceOrder)
	}

	// Orders
	orders := r.Group("/orders", middleware.AuthRequired())
	{
		orders.GET("", order.GetOrders)
		orders.GET("/:id", order.GetOrderByID)
		orders.PUT("/:id", order.UpdateOrderStatus)
		orders.DELETE("/:id", order.DeleteOrder)
		orders.GET("/:id/ws", order.OrderWebSocket)
	}
}

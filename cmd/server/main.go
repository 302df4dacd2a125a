package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"foodstore_back_end/internal/config"
	"foodstore_back_end/internal/database"
	"foodstore_back_end/internal/handlers/order"
	"foodstore_back_end/internal/routes"
	"foodstore_back_end/internal/services"
	"foodstore_back_end/internal/store"
)

func main() {
	config.Load()

	database.ConnectDatabases()
	defer database.CloseScylla()

	// ✅ Initialiser les prepared statements pour améliorer les performances
	database.InitPreparedStatements()

	// ✅ Pré-chauffer le cache Redis
	warmupRedisCache()

	// Service de commandes branché sur les stores ScyllaDB
	order.Init(&services.OrderService{
		Products: store.NewScyllaProductStore(),
		Orders:   store.NewScyllaOrderStore(),
		Users:    store.NewScyllaUserStore(),
	})

	r := gin.Default()
	r.Use(cors.Default())
	routes.RegisterRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("🚀 Serveur Foodstore lancé sur le port", port)
	r.Run(":" + port)
}

// warmupRedisCache pré-chauffe la connexion Redis pour éviter la latence du
// premier appel
func warmupRedisCache() {
	ctx := context.Background()
	if err := database.Redis.Ping(ctx).Err(); err == nil {
		log.Println("✅ Cache Redis pré-chauffé")
	}
}

package product

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"foodstore_back_end/internal/cache"
	"foodstore_back_end/internal/database"
	"foodstore_back_end/internal/models"
	"foodstore_back_end/internal/response"
	"foodstore_back_end/internal/services"
	"foodstore_back_end/internal/utils"
)

const productColumns = `product_id, name, description, price, stock, category, rating, image_url, created_at, updated_at`

// CreateProduct ajoute un produit au catalogue. Le nom est unique : la
// réservation passe par la table products_by_name en insertion
// conditionnelle.
func CreateProduct(c *gin.Context) {
	var input struct {
		Name        string  `json:"name"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
		Stock       int     `json:"stock"`
		Category    string  `json:"category"`
		Rating      float64 `json:"rating"`
		ImageURL    string  `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if input.Name == "" {
		response.Error(c, http.StatusBadRequest, "Missing required field: name.")
		return
	}
	if input.Price < 0 || input.Stock < 0 || input.Rating < 0 {
		response.Error(c, http.StatusBadRequest, "price, stock and rating must not be negative")
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		log.Printf("❌ Erreur connexion base de données: %v", err)
		response.Error(c, http.StatusInternalServerError, "Server error")
		return
	}

	p := models.Product{
		ID:          gocql.TimeUUID(),
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		Category:    input.Category,
		Rating:      input.Rating,
		ImageURL:    input.ImageURL,
		CreatedAt:   time.Now().UTC(),
	}
	p.UpdatedAt = p.CreatedAt

	applied, err := session.Query(`INSERT INTO products_by_name (name, product_id) VALUES (?, ?) IF NOT EXISTS`,
		p.Name, p.ID).WithContext(c.Request.Context()).ScanCAS()
	if err != nil {
		log.Printf("❌ Erreur réservation nom produit: %v", err)
		response.Error(c, http.StatusInternalServerError, "Server error")
		return
	}
	if !applied {
		response.Error(c, http.StatusBadRequest, "This menu name is already in use. Please choose a different name.")
		return
	}

	if err := session.Query(`INSERT INTO products (`+productColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, p.Price, p.Stock, p.Category, p.Rating, p.ImageURL, p.CreatedAt, p.UpdatedAt).
		WithContext(c.Request.Context()).Exec(); err != nil {
		log.Printf("❌ Erreur création produit: %v", err)
		response.Error(c, http.StatusInternalServerError, "Server error")
		return
	}

	cache.InvalidateProductList(c.Request.Context())
	utils.LogAction(c, "create", "product", p.ID.String(), nil, p)

	// 🔄 Indexation Elasticsearch
	go services.IndexProduct(p)

	response.JSON(c, http.StatusCreated, "Product created successfully.", p)
}

// GetAllProducts liste le catalogue, avec cache Redis.
func GetAllProducts(c *gin.Context) {
	ctx := c.Request.Context()

	// ✅ Vérifie le cache Redis
	if cached := cache.GetCachedProductList(ctx); cached != nil {
		response.JSON(c, http.StatusOK, "Products fetched successfully.", cached)
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		log.Printf("❌ Erreur connexion base de données: %v", err)
		response.Error(c, http.StatusInternalServerError, "Server error")
		return
	}

	iter := session.Query(`SELECT ` + productColumns + ` FROM products`).WithContext(ctx).Iter()

	var products []models.Product
	var p models.Product

	for iter.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Category, &p.Rating, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt) {
		products = append(products, p)
		p = models.Product{}
	}

	if err := iter.Close(); err != nil {
		log.Printf("❌ Erreur lecture produits: %v", err)
		response.Error(c, http.StatusInternalServerError, "Server error")
		return
	}

	cache.SetCachedProductList(ctx, products)

	response.JSON(c, http.StatusOK, "Products fetched successfully.", products)
}

// GetProductByID retourne un produit par id.
func GetProductByID(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid product id")
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		log.Printf("❌ Erreur connexion base de données: %v", err)
		response.Error(c, http.StatusInternalServerError, "Server error")
		return
	}

	var p models.Product
	err = session.Query(`SELECT `+productColumns+` FROM products WHERE product_id = ?`, productID).
		WithContext(c.Request.Context()).
		Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Category, &p.Rating, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, gocql.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "Product not found.")
			return
		}
		log.Printf("❌ Erreur lecture produit %s: %v", productID, err)
		response.Error(c, http.StatusInternalServerError, "Server error")
		return
	}

	response.JSON(c, http.StatusOK, "Product fetched successfully.", p)
}

// productUpdateInput porte des pointeurs : un champ absent du corps de la
// requête reste nil et ne touche pas la valeur existante.
type productUpdateInput struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	Category    *string  `json:"category"`
	Rating      *float64 `json:"rating"`
	ImageURL    *string  `json:"image_url"`
}

// mergeProductUpdate applique les champs fournis sur le produit existant.
// Les champs omis gardent leur valeur, un zéro explicite est appliqué.
func mergeProductUpdate(existing models.Product, input productUpdateInput, now time.Time) models.Product {
	updated := existing
	if input.Name != nil && *input.Name != "" {
		updated.Name = *input.Name
	}
	if input.Description != nil {
		updated.Description = *input.Description
	}
	if input.Price != nil {
		updated.Price = *input.Price
	}
	if input.Stock != nil {
		updated.Stock = *input.Stock
	}
	if input.Category != nil {
		updated.Category = *input.Category
	}
	if input.Rating != nil {
		updated.Rating = *input.Rating
	}
	if input.ImageURL != nil {
		updated.ImageURL = *input.ImageURL
	}
	updated.UpdatedAt = now
	return updated
}

// UpdateProduct met à jour les champs du catalogue. Les commandes existantes
// ne sont jamais retouchées : leur prix total reste celui du moment de
// l'achat.
func UpdateProduct(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid product id")
		return
	}

	var input productUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if (input.Price != nil && *input.Price < 0) ||
		(input.Stock != nil && *input.Stock < 0) ||
		(input.Rating != nil && *input.Rating < 0) {
		response.Error(c, http.StatusBadRequest, "price, stock and rating must not be negative")
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		log.Printf("❌ Erreur connexion base de données: %v", err)
		response.Error(c, http.StatusInternalServerError, "Server error")
		return
	}

	var existing models.Product
	err = session.Query(`SELECT `+productColumns+` FROM products WHERE product_id = ?`, productID).
		WithContext(c.Request.Context()).
		Scan(&existing.ID, &existing.Name, &existing.Description, &existing.Price, &existing.Stock,
			&existing.Category, &existing.Rating, &existing.ImageURL, &existing.CreatedAt, &existing.UpdatedAt)
	if err != nil {
		if errors.Is(err, gocql.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "Product not found.")
			return
		}
		log.Printf("❌ Erreur lecture produit %s: %v", productID, err)
		response.Error(c, http.StatusInternalServerError, "Server error")
		return
	}

	// Changement de nom : réserver le nouveau avant de libérer l'ancien.
	if input.Name != nil && *input.Name != "" && *input.Name != existing.Name {
		applied, err := session.Query(`INSERT INTO products_by_name (name, product_id) VALUES (?, ?) IF NOT EXISTS`,
			*input.Name, productID).WithContext(c.Request.Context()).ScanCAS()
		if err != nil {
			log.Printf("❌ Erreur réservation nom produit: %v", err)
			response.Error(c, http.StatusInternalServerError, "Server error")
			return
		}
		if !applied {
			response.Error(c, http.StatusBadRequest, "This menu name is already in use. Please choose a different name.")
			return
		}
		session.Query(`DELETE FROM products_by_name WHERE name = ?`, existing.Name).Exec()
	}

	updated := mergeProductUpdate(existing, input, time.Now().UTC())

	if err := session.Query(`UPDATE products SET name = ?, description = ?, price = ?, stock = ?, category = ?, rating = ?, image_url = ?, updated_at = ? WHERE product_id = ?`,
		updated.Name, updated.Description, updated.Price, updated.Stock, updated.Category, updated.Rating,
		updated.ImageURL, updated.UpdatedAt, productID).WithContext(c.Request.Context()).Exec(); err != nil {
		log.Printf("❌ Erreur mise à jour produit %s: %v", productID, err)
		response.Error(c, http.StatusInternalServerError, "Server error")
		return
	}

	cache.InvalidateProductList(c.Request.Context())
	utils.LogAction(c, "update", "product", productID.String(), existing, updated)

	// 🔄 Ré-indexation Elasticsearch
	go services.IndexProduct(updated)

	response.JSON(c, http.StatusOK, "Product updated successfully.", updated)
}

// DeleteProduct retire un produit du catalogue. Les commandes qui le
// référencent sont conservées telles quelles (références orphelines
// tolérées).
func DeleteProduct(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid product id")
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		log.Printf("❌ Erreur connexion base de données: %v", err)
		response.Error(c, http.StatusInternalServerError, "Server error")
		return
	}

	var name string
	err = session.Query(`SELECT name FROM products WHERE product_id = ?`, productID).
		WithContext(c.Request.Context()).Scan(&name)
	if err != nil {
		if errors.Is(err, gocql.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "Product not found.")
			return
		}
		log.Printf("❌ Erreur lecture produit %s: %v", productID, err)
		response.Error(c, http.StatusInternalServerError, "Server error")
		return
	}

	if err := session.Query(`DELETE FROM products WHERE product_id = ?`, productID).
		WithContext(c.Request.Context()).Exec(); err != nil {
		log.Printf("❌ Erreur suppression produit %s: %v", productID, err)
		response.Error(c, http.StatusInternalServerError, "Server error")
		return
	}
	session.Query(`DELETE FROM products_by_name WHERE name = ?`, name).Exec()

	cache.InvalidateProductList(c.Request.Context())
	utils.LogAction(c, "delete", "product", productID.String(), gin.H{"name": name}, nil)

	go services.RemoveProductFromIndex(productID.String())

	response.JSON(c, http.StatusOK, "Product deleted successfully.", nil)
}

// SearchProducts cherche via Elasticsearch, avec repli ScyllaDB en mémoire.
func SearchProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		response.Error(c, http.StatusBadRequest, "Missing query parameter 'q'")
		return
	}

	// 🔎 1️⃣ Recherche dans Elasticsearch (prioritaire)
	results, err := services.SearchProductsIndex(query)
	if err == nil && len(results) > 0 {
		response.JSON(c, http.StatusOK, "Products fetched successfully.", results)
		return
	}

	// 🔁 2️⃣ Fallback ScyllaDB si ES vide (scan complet, filtre en mémoire)
	session, err := database.GetProductsSession()
	if err != nil {
		log.Printf("❌ Erreur connexion base de données: %v", err)
		response.Error(c, http.StatusInternalServerError, "Server error")
		return
	}

	iter := session.Query(`SELECT ` + productColumns + ` FROM products`).WithContext(c.Request.Context()).Iter()

	var products []models.Product
	var p models.Product

	for iter.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Category, &p.Rating, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt) {
		if containsIgnoreCase(p.Name, query) || containsIgnoreCase(p.Description, query) || containsIgnoreCase(p.Category, query) {
			products = append(products, p)
		}
		p = models.Product{}
	}

	if err := iter.Close(); err != nil {
		log.Printf("❌ Erreur recherche produits: %v", err)
		response.Error(c, http.StatusInternalServerError, "Server error")
		return
	}

	response.JSON(c, http.StatusOK, "Products fetched successfully.", products)
}

func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

package user

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"foodstore_back_end/internal/database"
	"foodstore_back_end/internal/middleware"
	"foodstore_back_end/internal/models"
	"foodstore_back_end/internal/response"
	"foodstore_back_end/internal/utils"
)

// ================== AUTH LOCALE ==================

// Register crée un compte local. Le compte démarre non approuvé : un admin
// doit valider avant que le login soit possible.
func Register(c *gin.Context) {
	var input struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	var missing []string
	if input.Username == "" {
		missing = append(missing, "username")
	}
	if input.Email == "" {
		missing = append(missing, "email")
	}
	if input.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		label := "field"
		if len(missing) > 1 {
			label = "fields"
		}
		response.Error(c, http.StatusBadRequest, "Missing required "+label+": "+strings.Join(missing, ", ")+".")
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		log.Printf("❌ Erreur connexion base de données: %v", err)
		response.Error(c, http.StatusInternalServerError, "Server error")
		return
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		log.Printf("❌ Erreur hash mot de passe: %v", err)
		response.Error(c, http.StatusInternalServerError, "Server error")
		return
	}

	// Pré-vérification rapide de l'email ; la réservation LWT dans
	// createAccount reste l'arbitre en cas de course.
	var existingID gocql.UUID
	if err := database.GetPreparedGetUserIDByEmail().Bind(input.Email).
		WithContext(c.Request.Context()).Scan(&existingID); err == nil {
		response.Error(c, http.StatusBadRequest, "Username or Email already exists.")
		return
	}

	now := time.Now().UTC()
	user := models.User{
		ID:         gocql.TimeUUID(),
		Username:   input.Username,
		Email:      input.Email,
		Password:   hashedPassword,
		Role:       "user",
		IsApproved: false,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := createAccount(c.Request.Context(), scyllaSignup{session: session}, user); err != nil {
		if errors.Is(err, errDuplicateAccount) {
			response.Error(c, http.StatusBadRequest, "Username or Email already exists.")
			return
		}
		log.Printf("❌ Erreur création utilisateur: %v", err)
		response.Error(c, http.StatusInternalServerError, "Server error")
		return
	}

	response.JSON(c, http.StatusCreated, "Registered successfully.", gin.H{
		"id":          user.ID,
		"username":    user.Username,
		"email":       user.Email,
		"is_approved": user.IsApproved,
		"created_at":  user.CreatedAt,
	})
}

// Login authentifie par username + mot de passe et délivre un JWT.
func Login(c *gin.Context) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Username == "" || input.Password == "" {
		response.Error(c, http.StatusBadRequest, "Invalid username or password.")
		return
	}

	var userID gocql.UUID
	err := database.GetPreparedGetUserIDByUsername().Bind(input.Username).
		WithContext(c.Request.Context()).Scan(&userID)
	if err != nil {
		if errors.Is(err, gocql.ErrNotFound) {
			response.Error(c, http.StatusBadRequest, "Invalid username or password.")
			return
		}
		log.Printf("❌ Erreur lookup username: %v", err)
		response.Error(c, http.StatusInternalServerError, "Server error")
		return
	}

	user := models.User{ID: userID}
	if err := database.GetPreparedGetUserByID().Bind(userID).WithContext(c.Request.Context()).
		Scan(&user.Username, &user.Email, &user.Password, &user.Role, &user.IsApproved, &user.CreatedAt, &user.UpdatedAt); err != nil {
		log.Printf("❌ Erreur lecture utilisateur %s: %v", userID, err)
		response.Error(c, http.StatusInternalServerError, "Server error")
		return
	}

	ok, err := utils.VerifyPassword(input.Password, user.Password)
	if err != nil || !ok {
		response.Error(c, http.StatusBadRequest, "Invalid username or password.")
		return
	}

	if !user.IsApproved {
		response.Error(c, http.StatusUnauthorized, "User not approved.")
		return
	}

	token, err := utils.GenerateJWT(user)
	if err != nil {
		log.Printf("❌ Erreur génération JWT: %v", err)
		response.Error(c, http.StatusInternalServerError, "Server error")
		return
	}

	middleware.RecordLoginSuccess(input.Username)

	c.JSON(http.StatusOK, gin.H{
		"status":       http.StatusOK,
		"message":      "Login successfully.",
		"access_token": token,
		"data": gin.H{
			"id":          user.ID,
			"username":    user.Username,
			"email":       user.Email,
			"is_approved": user.IsApproved,
		},
	})
}

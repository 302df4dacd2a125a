package user

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"foodstore_back_end/internal/cache"
	"foodstore_back_end/internal/database"
	"foodstore_back_end/internal/models"
	"foodstore_back_end/internal/response"
	"foodstore_back_end/internal/utils"
)

// ================== GESTION UTILISATEURS (ADMIN) ==================

// GetUsers liste tous les utilisateurs (sans les mots de passe).
func GetUsers(c *gin.Context) {
	session, err := database.GetUsersSession()
	if err != nil {
		log.Printf("❌ Erreur connexion base de données: %v", err)
		response.Error(c, http.StatusInternalServerError, "Server error")
		return
	}

	iter := session.Query(`SELECT user_id, username, email, role, is_approved, created_at, updated_at FROM users`).
		WithContext(c.Request.Context()).Iter()

	var users []models.User
	var u models.User

	for iter.Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.IsApproved, &u.CreatedAt, &u.UpdatedAt) {
		users = append(users, u)
		u = models.User{}
	}

	if err := iter.Close(); err != nil {
		log.Printf("❌ Erreur lecture utilisateurs: %v", err)
		response.Error(c, http.StatusInternalServerError, "Server error")
		return
	}

	response.JSON(c, http.StatusOK, "Users fetched successfully.", users)
}

// GetUserByID retourne un utilisateur par id.
func GetUserByID(c *gin.Context) {
	userID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	u := models.User{ID: userID}
	err = database.GetPreparedGetUserByID().Bind(userID).WithContext(c.Request.Context()).
		Scan(&u.Username, &u.Email, &u.Password, &u.Role, &u.IsApproved, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, gocql.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "User not found.")
			return
		}
		log.Printf("❌ Erreur lecture utilisateur %s: %v", userID, err)
		response.Error(c, http.StatusInternalServerError, "Server error")
		return
	}

	response.JSON(c, http.StatusOK, "User fetched successfully.", u)
}

// ApproveUser bascule le drapeau d'approbation d'un compte.
func ApproveUser(c *gin.Context) {
	userID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	var input struct {
		IsApproved bool `json:"is_approved"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		log.Printf("❌ Erreur connexion base de données: %v", err)
		response.Error(c, http.StatusInternalServerError, "Server error")
		return
	}

	u := models.User{ID: userID}
	err = database.GetPreparedGetUserByID().Bind(userID).WithContext(c.Request.Context()).
		Scan(&u.Username, &u.Email, &u.Password, &u.Role, &u.IsApproved, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, gocql.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "User not found.")
			return
		}
		log.Printf("❌ Erreur lecture utilisateur %s: %v", userID, err)
		response.Error(c, http.StatusInternalServerError, "Server error")
		return
	}

	wasApproved := u.IsApproved

	if err := session.Query(`UPDATE users SET is_approved = ?, updated_at = toTimestamp(now()) WHERE user_id = ?`,
		input.IsApproved, userID).WithContext(c.Request.Context()).Exec(); err != nil {
		log.Printf("❌ Erreur approbation utilisateur %s: %v", userID, err)
		response.Error(c, http.StatusInternalServerError, "Server error")
		return
	}

	cache.InvalidateUser(userID.String())
	utils.LogAction(c, "approve", "user", userID.String(),
		gin.H{"is_approved": wasApproved}, gin.H{"is_approved": input.IsApproved})

	response.JSON(c, http.StatusOK, "User approved successfully.", gin.H{
		"id":          u.ID,
		"username":    u.Username,
		"email":       u.Email,
		"is_approved": input.IsApproved,
	})
}

// DeleteUser supprime un compte et ses entrées de lookup.
func DeleteUser(c *gin.Context) {
	userID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		log.Printf("❌ Erreur connexion base de données: %v", err)
		response.Error(c, http.StatusInternalServerError, "Server error")
		return
	}

	u := models.User{ID: userID}
	err = database.GetPreparedGetUserByID().Bind(userID).WithContext(c.Request.Context()).
		Scan(&u.Username, &u.Email, &u.Password, &u.Role, &u.IsApproved, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, gocql.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "User not found.")
			return
		}
		log.Printf("❌ Erreur lecture utilisateur %s: %v", userID, err)
		response.Error(c, http.StatusInternalServerError, "Server error")
		return
	}

	if err := session.Query(`DELETE FROM users WHERE user_id = ?`, userID).
		WithContext(c.Request.Context()).Exec(); err != nil {
		log.Printf("❌ Erreur suppression utilisateur %s: %v", userID, err)
		response.Error(c, http.StatusInternalServerError, "Server error")
		return
	}
	session.Query(`DELETE FROM users_by_username WHERE username = ?`, u.Username).Exec()
	session.Query(`DELETE FROM users_by_email WHERE email = ?`, u.Email).Exec()

	cache.InvalidateUser(userID.String())
	utils.LogAction(c, "delete", "user", userID.String(), gin.H{"username": u.Username}, nil)

	response.JSON(c, http.StatusOK, "User deleted successfully.", nil)
}

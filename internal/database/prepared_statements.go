package database

import (
	"log"
	"sync"

	"github.com/gocql/gocql"
)

var (
	// Prepared statements pour les requêtes fréquentes
	stmtGetUserIDByUsername *gocql.Query
	stmtGetUserIDByEmail    *gocql.Query
	stmtGetUserByID         *gocql.Query
	stmtInsertUser          *gocql.Query

	preparedOnce sync.Once
)

// InitPreparedStatements initialise les prepared statements
func InitPreparedStatements() {
	preparedOnce.Do(func() {
		session, err := GetUsersSession()
		if err != nil {
			log.Printf("⚠️ Impossible d'initialiser les prepared statements: %v", err)
			return
		}

		stmtGetUserIDByUsername = session.Query("SELECT user_id FROM users_by_username WHERE username = ?")

		stmtGetUserIDByEmail = session.Query("SELECT user_id FROM users_by_email WHERE email = ?")

		stmtGetUserByID = session.Query(`SELECT username, email, password, role, is_approved, created_at, updated_at
			FROM users WHERE user_id = ?`)

		stmtInsertUser = session.Query(`INSERT INTO users (user_id, username, email, password, role, is_approved, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)

		log.Println("✅ Prepared statements initialisés")
	})
}

func GetPreparedGetUserIDByUsername() *gocql.Query {
	return stmtGetUserIDByUsername
}

func GetPreparedGetUserIDByEmail() *gocql.Query {
	return stmtGetUserIDByEmail
}

func GetPreparedGetUserByID() *gocql.Query {
	return stmtGetUserByID
}

func GetPreparedInsertUser() *gocql.Query {
	return stmtInsertUser
}

package user

import (
	"context"
	"errors"

	"github.com/gocql/gocql"

	"foodstore_back_end/internal/database"
	"foodstore_back_end/internal/models"
)

var errDuplicateAccount = errors.New("username or email already exists")

// signupStore isole les écritures d'inscription : réservations LWT des tables
// de lookup puis écriture du compte.
type signupStore interface {
	ReserveUsername(ctx context.Context, username string, id gocql.UUID) (bool, error)
	ReserveEmail(ctx context.Context, email string, id gocql.UUID) (bool, error)
	ReleaseUsername(username string)
	ReleaseEmail(email string)
	InsertUser(ctx context.Context, u models.User) error
}

// createAccount réserve le username puis l'email, puis écrit le compte.
// Chaque étape qui échoue après une réservation libère ce qui a été réservé :
// une ligne de lookup orpheline bloquerait définitivement le username ou
// l'email pour toutes les inscriptions suivantes.
func createAccount(ctx context.Context, store signupStore, u models.User) error {
	applied, err := store.ReserveUsername(ctx, u.Username, u.ID)
	if err != nil {
		return err
	}
	if !applied {
		return errDuplicateAccount
	}

	applied, err = store.ReserveEmail(ctx, u.Email, u.ID)
	if err != nil {
		store.ReleaseUsername(u.Username)
		return err
	}
	if !applied {
		store.ReleaseUsername(u.Username)
		return errDuplicateAccount
	}

	if err := store.InsertUser(ctx, u); err != nil {
		store.ReleaseUsername(u.Username)
		store.ReleaseEmail(u.Email)
		return err
	}

	return nil
}

// scyllaSignup implémente signupStore sur le keyspace users. L'unicité
// username/email passe par les tables de lookup : l'insertion conditionnelle
// échoue si la ligne existe déjà.
type scyllaSignup struct {
	session *gocql.Session
}

func (s scyllaSignup) ReserveUsername(ctx context.Context, username string, id gocql.UUID) (bool, error) {
	return s.session.Query(`INSERT INTO users_by_username (username, user_id) VALUES (?, ?) IF NOT EXISTS`,
		username, id).WithContext(ctx).ScanCAS()
}

func (s scyllaSignup) ReserveEmail(ctx context.Context, email string, id gocql.UUID) (bool, error) {
	return s.session.Query(`INSERT INTO users_by_email (email, user_id) VALUES (?, ?) IF NOT EXISTS`,
		email, id).WithContext(ctx).ScanCAS()
}

func (s scyllaSignup) ReleaseUsername(username string) {
	s.session.Query(`DELETE FROM users_by_username WHERE username = ?`, username).Exec()
}

func (s scyllaSignup) ReleaseEmail(email string) {
	s.session.Query(`DELETE FROM users_by_email WHERE email = ?`, email).Exec()
}

func (s scyllaSignup) InsertUser(ctx context.Context, u models.User) error {
	return database.GetPreparedInsertUser().Bind(
		u.ID, u.Username, u.Email, u.Password, u.Role, u.IsApproved, u.CreatedAt, u.UpdatedAt,
	).WithContext(ctx).Exec()
}

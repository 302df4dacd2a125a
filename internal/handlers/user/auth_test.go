package user

import (
	"context"
	"errors"
	"testing"

	"github.com/gocql/gocql"

	"foodstore_back_end/internal/models"
)

type fakeSignupStore struct {
	usernames map[string]bool
	emails    map[string]bool

	emailErr  error
	insertErr error
}

func newFakeSignupStore() *fakeSignupStore {
	return &fakeSignupStore{
		usernames: make(map[string]bool),
		emails:    make(map[string]bool),
	}
}

func (f *fakeSignupStore) ReserveUsername(_ context.Context, username string, _ gocql.UUID) (bool, error) {
	if f.usernames[username] {
		return false, nil
	}
	f.usernames[username] = true
	return true, nil
}

func (f *fakeSignupStore) ReserveEmail(_ context.Context, email string, _ gocql.UUID) (bool, error) {
	if f.emailErr != nil {
		return false, f.emailErr
	}
	if f.emails[email] {
		return false, nil
	}
	f.emails[email] = true
	return true, nil
}

func (f *fakeSignupStore) ReleaseUsername(username string) {
	delete(f.usernames, username)
}

func (f *fakeSignupStore) ReleaseEmail(email string) {
	delete(f.emails, email)
}

func (f *fakeSignupStore) InsertUser(_ context.Context, _ models.User) error {
	return f.insertErr
}

func newAccount(username, email string) models.User {
	return models.User{
		ID:       gocql.TimeUUID(),
		Username: username,
		Email:    email,
		Password: "$argon2id$...",
		Role:     "user",
	}
}

func TestCreateAccount(t *testing.T) {
	store := newFakeSignupStore()

	if err := createAccount(context.Background(), store, newAccount("alice", "alice@example.com")); err != nil {
		t.Fatalf("createAccount() error = %v", err)
	}
	if !store.usernames["alice"] || !store.emails["alice@example.com"] {
		t.Error("username/email not reserved after successful signup")
	}
}

func TestCreateAccountUsernameTaken(t *testing.T) {
	store := newFakeSignupStore()
	store.usernames["alice"] = true

	err := createAccount(context.Background(), store, newAccount("alice", "alice@example.com"))
	if !errors.Is(err, errDuplicateAccount) {
		t.Fatalf("createAccount() error = %v, want errDuplicateAccount", err)
	}
	if store.emails["alice@example.com"] {
		t.Error("email reserved although the username was already taken")
	}
}

func TestCreateAccountEmailTakenReleasesUsername(t *testing.T) {
	store := newFakeSignupStore()
	store.emails["alice@example.com"] = true

	err := createAccount(context.Background(), store, newAccount("alice", "alice@example.com"))
	if !errors.Is(err, errDuplicateAccount) {
		t.Fatalf("createAccount() error = %v, want errDuplicateAccount", err)
	}
	if store.usernames["alice"] {
		t.Error("username still reserved after email conflict")
	}

	// Le username doit rester inscriptible avec un autre email.
	if err := createAccount(context.Background(), store, newAccount("alice", "alice@food.example")); err != nil {
		t.Fatalf("retry with free email failed: %v", err)
	}
}

func TestCreateAccountEmailErrorReleasesUsername(t *testing.T) {
	store := newFakeSignupStore()
	store.emailErr = errors.New("write timeout")

	err := createAccount(context.Background(), store, newAccount("alice", "alice@example.com"))
	if err == nil || errors.Is(err, errDuplicateAccount) {
		t.Fatalf("createAccount() error = %v, want the storage error", err)
	}
	if store.usernames["alice"] {
		t.Error("username still reserved after email reservation failure")
	}
}

func TestCreateAccountInsertFailureReleasesReservations(t *testing.T) {
	store := newFakeSignupStore()
	store.insertErr = errors.New("write timeout")

	err := createAccount(context.Background(), store, newAccount("alice", "alice@example.com"))
	if err == nil || errors.Is(err, errDuplicateAccount) {
		t.Fatalf("createAccount() error = %v, want the storage error", err)
	}
	if store.usernames["alice"] {
		t.Error("username still reserved after failed user insert")
	}
	if store.emails["alice@example.com"] {
		t.Error("email still reserved after failed user insert")
	}

	// Une nouvelle tentative avec les mêmes identifiants doit réussir.
	store.insertErr = nil
	if err := createAccount(context.Background(), store, newAccount("alice", "alice@example.com")); err != nil {
		t.Fatalf("retry after failed insert: %v", err)
	}
}

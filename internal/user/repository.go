package user

import (
	"database/sql"
	"errors"

	"github.com/sirupsen/logrus"
)

var ErrUserNotFound = errors.New("user not found")

// Querier is satisfied by both *sql.DB and *sql.Tx; the admin count runs
// inside the setup transaction and standalone for the setup-state check.
type Querier interface {
	QueryRow(query string, args ...any) *sql.Row
}

type UserRepository struct{}

type UserRepositoryInterface interface {
	Create(tx *sql.Tx, user *User) (int, error)
	GetByUsername(db *sql.DB, username string) (*User, error)
	Count(q Querier) (int, error)
}

func NewUserRepository() UserRepositoryInterface {
	return &UserRepository{}
}

// Create inserts a new administrator account
func (r *UserRepository) Create(tx *sql.Tx, user *User) (int, error) {
	query := `
		INSERT INTO users (
			username, password, created_at
		)
		VALUES ($1, $2, NOW())
		RETURNING id
	`

	var id int
	err := tx.QueryRow(
		query,
		user.Username,
		user.Password,
	).Scan(&id)

	if err != nil {
		logrus.WithError(err).Error("Failed to create user")
		return 0, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id":  id,
		"username": user.Username,
	}).Info("Administrator created successfully")

	return id, nil
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(db *sql.DB, username string) (*User, error) {
	query := `
		SELECT id, username, password, created_at
		FROM users
		WHERE username = $1
	`

	user := &User{}
	err := db.QueryRow(query, username).Scan(
		&user.ID,
		&user.Username,
		&user.Password,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		logrus.WithError(err).Error("Failed to get user by username")
		return nil, err
	}

	return user, nil
}

// Count returns the number of administrator accounts
func (r *UserRepository) Count(q Querier) (int, error) {
	var count int
	err := q.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count)
	if err != nil {
		logrus.WithError(err).Error("Failed to count users")
		return 0, err
	}

	return count, nil
}

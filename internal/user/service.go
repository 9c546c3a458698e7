package user

import (
	"database/sql"
	"errors"
	"metalscale/internal/auth"
	"metalscale/internal/utils"

	"github.com/sirupsen/logrus"
)

var (
	ErrAdminExists        = errors.New("an administrator already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type UserService struct {
	repo UserRepositoryInterface
	db   *sql.DB
}

type UserServiceInterface interface {
	IsFirstTime() (bool, error)
	Setup(username, password, jwtSecret string) (string, error)
	Login(username, password, jwtSecret string) (string, error)
}

func NewUserService(repo UserRepositoryInterface, db *sql.DB) UserServiceInterface {
	return &UserService{
		repo: repo,
		db:   db,
	}
}

// IsFirstTime reports whether no administrator exists yet
func (s *UserService) IsFirstTime() (bool, error) {
	count, err := s.repo.Count(s.db)
	if err != nil {
		return false, err
	}

	return count == 0, nil
}

// Setup creates the sole administrator account and returns a session token.
// The count check and the insert share one transaction so the singleton
// holds even if two setup requests race.
func (s *UserService) Setup(username, password, jwtSecret string) (string, error) {
	hashedPassword, err := auth.GeneratePasswordHash(password)
	if err != nil {
		logrus.WithError(err).Error("Failed to hash password")
		return "", err
	}

	newUser := &User{
		Username: username,
		Password: hashedPassword,
	}

	if err := utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		count, err := s.repo.Count(tx)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrAdminExists
		}

		_, err = s.repo.Create(tx, newUser)
		return err
	}); err != nil {
		return "", err
	}

	return auth.GenerateToken(username, jwtSecret)
}

// Login validates credentials and returns a fresh session token.
// Unknown user and wrong password produce the same error so responses
// never reveal which one failed.
func (s *UserService) Login(username, password, jwtSecret string) (string, error) {
	account, err := s.repo.GetByUsername(s.db, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := auth.ComparePasswordHash([]byte(account.Password), password); err != nil {
		return "", ErrInvalidCredentials
	}

	return auth.GenerateToken(account.Username, jwtSecret)
}

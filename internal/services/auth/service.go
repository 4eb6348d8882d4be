package auth

import (
	"context"
	"errors"
	"log"

	"ledgerpay/internal/repositories"
	"ledgerpay/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// SigninOutput carries the issued token and its lifetime in seconds.
type SigninOutput struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}

type Service interface {
	Signin(ctx context.Context, username, password string) (*SigninOutput, error)
}

type service struct {
	userRepo repositories.UserRepository
}

func NewService(userRepo repositories.UserRepository) Service {
	return &service{
		userRepo: userRepo,
	}
}

func (s *service) Signin(ctx context.Context, username, password string) (*SigninOutput, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		log.Printf("signin failed: incorrect password for user %s", user.ID)
		return nil, ErrInvalidCredentials
	}

	token, expiresIn, err := utils.GenerateToken(user)
	if err != nil {
		log.Println("error generating token:", err)
		return nil, errors.New("error generating token")
	}

	return &SigninOutput{Token: token, ExpiresIn: expiresIn}, nil
}

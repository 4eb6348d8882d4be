package user

import (
	"context"
	"errors"
	"fmt"

	"ledgerpay/internal/models"
	"ledgerpay/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

var ErrUserExists = errors.New("user already exists")

// SignupInput carries a validated signup request.
type SignupInput struct {
	Username  string
	Password  string
	Birthdate string
}

// FindManyInput selects a page of users, optionally restricted to ids.
type FindManyInput struct {
	IDs  []string
	Skip int
	Take int
}

// FindManyOutput is the paginated listing result.
type FindManyOutput struct {
	Users       []models.User `json:"users"`
	HasNextPage bool          `json:"hasNextPage"`
	TotalCount  int64         `json:"totalCount"`
}

type Service interface {
	Signup(ctx context.Context, input SignupInput) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	FindMany(ctx context.Context, input FindManyInput) (*FindManyOutput, error)
}

type service struct {
	repo repositories.UserRepository
}

func NewService(repo repositories.UserRepository) Service {
	return &service{
		repo: repo,
	}
}

// Signup creates a new account with the starting balance grant.
func (s *service) Signup(ctx context.Context, input SignupInput) (*models.User, error) {
	existing, _ := s.repo.GetByUsername(ctx, input.Username)
	if existing != nil {
		return nil, ErrUserExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	user := &models.User{
		Username:  input.Username,
		Password:  string(hashedPassword),
		Birthdate: input.Birthdate,
		Balance:   models.StartingBalance,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

// FindMany returns a page of users together with pagination metadata.
func (s *service) FindMany(ctx context.Context, input FindManyInput) (*FindManyOutput, error) {
	if input.Take <= 0 {
		input.Take = 10
	}
	if input.Skip < 0 {
		input.Skip = 0
	}

	users, err := s.repo.FindMany(ctx, input.IDs, input.Take, input.Skip)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	totalCount, err := s.repo.Count(ctx, input.IDs)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	return &FindManyOutput{
		Users:       users,
		HasNextPage: int64(input.Skip+input.Take) < totalCount,
		TotalCount:  totalCount,
	}, nil
}

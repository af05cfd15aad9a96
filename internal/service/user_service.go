package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/lshigami/mbti-compass/internal/dto"
	"github.com/lshigami/mbti-compass/internal/model"
	"github.com/lshigami/mbti-compass/internal/repository"
	"github.com/rs/zerolog/log"
)

type UserService interface {
	Create(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error)
	Get(ctx context.Context, userID uint) (*dto.UserResponse, error)
}

type userService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) Create(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	user := model.User{
		Name:  strings.TrimSpace(req.Name),
		Email: strings.ToLower(strings.TrimSpace(req.Email)),
	}
	if user.Name == "" || user.Email == "" {
		return nil, fmt.Errorf("%w: name and email are required", ErrInvalidInput)
	}

	exists, err := s.repo.ExistsByEmail(ctx, user.Email)
	if err != nil {
		log.Error().Err(err).Msg("Failed to check email uniqueness")
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: email %s is already registered", ErrConflict, user.Email)
	}
	if err := s.repo.Create(ctx, &user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: email %s is already registered", ErrConflict, user.Email)
		}
		log.Error().Err(err).Msg("Failed to create user")
		return nil, fmt.Errorf("create user: %w", err)
	}
	log.Info().Uint("userID", user.ID).Msg("User registered")

	var resp dto.UserResponse
	if err := copier.Copy(&resp, &user); err != nil {
		return nil, fmt.Errorf("error preparing user response: %w", err)
	}
	return &resp, nil
}

func (s *userService) Get(ctx context.Context, userID uint) (*dto.UserResponse, error) {
	user, err := findUser(ctx, s.repo, userID)
	if err != nil {
		return nil, err
	}
	var resp dto.UserResponse
	if err := copier.Copy(&resp, user); err != nil {
		return nil, fmt.Errorf("error preparing user response: %w", err)
	}
	return &resp, nil
}

func findUser(ctx context.Context, repo repository.UserRepository, userID uint) (*model.User, error) {
	user, err := repo.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("Failed to load user")
		return nil, fmt.Errorf("load user %d: %w", userID, err)
	}
	return user, nil
}

func ensureUser(ctx context.Context, repo repository.UserRepository, userID uint) error {
	_, err := findUser(ctx, repo, userID)
	return err
}

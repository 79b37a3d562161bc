package services

import (
	"context"

	apperrors "task-tracker.com/task-tracker/internal/errors"
	model "task-tracker.com/task-tracker/internal/models"
	repository "task-tracker.com/task-tracker/internal/repositories"
)

type UserService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Login returns the user whose email and password both match exactly.
func (s *UserService) Login(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.repo.FindByEmailAndPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrLoginFailed
	}
	return user, nil
}

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sakif/news-api/internal/apperror"
	"github.com/sakif/news-api/internal/model"
)

func (s *NewsService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

func (s *NewsService) GetUser(ctx context.Context, username string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperror.UserNotFound(username)
	}
	return s.repo.GetUser(ctx, username)
}

package services

import (
	"context"
	"errors"
	"strings"

	"cafe-backend/entity"
	"cafe-backend/pkg/apperr"
	"cafe-backend/pkg/paging"
	"cafe-backend/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ReviewService struct {
	Repo  *repository.ReviewRepository
	Items *repository.MenuItemRepository
	Log   *zap.Logger
}

func NewReviewService(repo *repository.ReviewRepository, items *repository.MenuItemRepository, log *zap.Logger) *ReviewService {
	return &ReviewService{Repo: repo, Items: items, Log: log}
}

type ReviewInput struct {
	MenuItemID uint   `json:"menuItemId"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}

func validateRating(r int) error {
	if r < entity.MinRating || r > entity.MaxRating {
		return apperr.Validation("rating", "Rating must be between 1 and 5")
	}
	return nil
}

// List is public; reviews of every customer are visible.
func (s *ReviewService) List(ctx context.Context, menuItemID uint, p paging.Params) ([]entity.Review, int64, error) {
	return s.Repo.List(ctx, repository.ReviewFilter{MenuItemID: menuItemID}, p)
}

func (s *ReviewService) Get(ctx context.Context, id uint) (*entity.Review, error) {
	return s.Repo.FindByID(ctx, id, nil)
}

// Create allows one review per customer and menu item.
func (s *ReviewService) Create(ctx context.Context, actor Actor, in ReviewInput) (*entity.Review, error) {
	if err := validateRating(in.Rating); err != nil {
		return nil, err
	}
	if _, err := s.Items.FindByID(ctx, in.MenuItemID); err != nil {
		return nil, err
	}
	exists, err := s.Repo.Exists(ctx, actor.ID, in.MenuItemID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Validation("menuItemId", "You have already reviewed this item")
	}

	rv := &entity.Review{
		CustomerID: actor.ID,
		MenuItemID: in.MenuItemID,
		Rating:     in.Rating,
		Comment:    strings.TrimSpace(in.Comment),
	}
	if err := s.Repo.Create(ctx, rv); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Validation("menuItemId", "You have already reviewed this item")
		}
		return nil, err
	}
	s.Log.Info("review created", zap.String("user", actor.Username), zap.Uint("menu_item_id", in.MenuItemID))
	return rv, nil
}

// Update lets the author change rating and comment. The reviewed item is fixed.
func (s *ReviewService) Update(ctx context.Context, actor Actor, id uint, in ReviewInput) (*entity.Review, error) {
	rv, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := validateRating(in.Rating); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, rv, map[string]any{"rating": in.Rating, "comment": strings.TrimSpace(in.Comment)}); err != nil {
		return nil, err
	}
	return s.Repo.FindByID(ctx, id, nil)
}

func (s *ReviewService) Delete(ctx context.Context, actor Actor, id uint) error {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, id)
}

func (s *ReviewService) owned(ctx context.Context, actor Actor, id uint) (*entity.Review, error) {
	rv, err := s.Repo.FindByID(ctx, id, nil)
	if err != nil {
		return nil, err
	}
	if rv.CustomerID != actor.ID {
		return nil, apperr.Permission("you can only change your own reviews")
	}
	return rv, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/landseek/backend/internal/model"
	"github.com/landseek/backend/internal/repository"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not found")
var ErrForbidden = errors.New("forbidden")

type ListingService interface {
	Create(ctx context.Context, ownerID uint64, title, description string, price uint) (*model.Listing, error)
	Get(ctx context.Context, id uint64) (*model.Listing, error)
	List(ctx context.Context, limit, offset int) ([]model.Listing, int64, error)
	ListMine(ctx context.Context, ownerID uint64) ([]model.Listing, error)
}

type listingService struct {
	repo repository.ListingRepository
}

func NewListingService(repo repository.ListingRepository) ListingService {
	return &listingService{repo: repo}
}

func (s *listingService) Create(ctx context.Context, ownerID uint64, title, description string, price uint) (*model.Listing, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if ownerID == 0 {
		return nil, fmt.Errorf("%w: owner is required", ErrInvalidInput)
	}
	if title == "" || len(title) > 120 {
		return nil, fmt.Errorf("%w: invalid title", ErrInvalidInput)
	}

	listing := &model.Listing{
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Price:       price,
		Status:      model.ListingStatusAvailable,
	}
	if err := s.repo.Create(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

func (s *listingService) Get(ctx context.Context, id uint64) (*model.Listing, error) {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return listing, nil
}

func (s *listingService) List(ctx context.Context, limit, offset int) ([]model.Listing, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

func (s *listingService) ListMine(ctx context.Context, ownerID uint64) ([]model.Listing, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"slotskolan.se/forum/internal/entity"
	"slotskolan.se/forum/internal/modules/category/dto"
	"slotskolan.se/forum/internal/modules/category/repository"
	"slotskolan.se/forum/pkg/apperror"
	"slotskolan.se/forum/pkg/slug"
)

// DefaultCategories are created on startup when missing.
var DefaultCategories = []dto.CreateCategoryRequest{
	{Name: "Allmänt", Description: "Allt som inte passar någon annanstans", Order: 1},
	{Name: "Casinon", Description: "Erfarenheter av casinon och uttag", Order: 2},
	{Name: "Bonusar", Description: "Omsättningskrav, free spins och erbjudanden", Order: 3},
	{Name: "Slots", Description: "Spelautomater, RTP och volatilitet", Order: 4},
	{Name: "Strategi", Description: "Bankroll, odds och spelstrategier", Order: 5},
	{Name: "Ansvarsfullt spelande", Description: "Gränser, paus och stöd", Order: 6},
}

type CategoryService interface {
	CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	GetAllCategories(ctx context.Context) ([]dto.CategoryResponse, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*entity.ForumCategory, error)
	SeedDefaults(ctx context.Context) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperror.BadRequest("Namnet får inte vara tomt")
	}

	categorySlug := slug.Make(name)
	if _, err := s.repo.FindBySlug(ctx, categorySlug); err == nil {
		return nil, apperror.Conflict("Kategorin finns redan")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	category := &entity.ForumCategory{
		Name:        name,
		Slug:        categorySlug,
		Description: strings.TrimSpace(req.Description),
		Order:       req.Order,
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, err
	}

	res := toResponse(category)
	return &res, nil
}

func (s *categoryService) GetAllCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]dto.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		res = append(res, toResponse(category))
	}
	return res, nil
}

func (s *categoryService) GetCategory(ctx context.Context, id uuid.UUID) (*entity.ForumCategory, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Kategorin hittades inte")
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) SeedDefaults(ctx context.Context) error {
	for _, req := range DefaultCategories {
		_, err := s.CreateCategory(ctx, req)
		if err == nil {
			log.Printf("Seeded category %s", req.Name)
			continue
		}
		if errors.Is(err, apperror.ErrConflict) {
			continue
		}
		return err
	}
	return nil
}

func toResponse(category *entity.ForumCategory) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Slug:        category.Slug,
		Description: category.Description,
		Order:       category.Order,
	}
}

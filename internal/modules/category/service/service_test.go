package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"slotskolan.se/forum/internal/modules/category/dto"
	"slotskolan.se/forum/internal/modules/category/repository"
	"slotskolan.se/forum/internal/testutil"
	"slotskolan.se/forum/pkg/apperror"
)

func TestCreateCategory(t *testing.T) {
	svc := NewCategoryService(repository.NewCategoryRepository(testutil.NewDB(t)))
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "Spelstrategi för nybörjare"})
	if err != nil {
		t.Fatalf("CreateCategory() error: %v", err)
	}
	if created.Slug != "spelstrategi-for-nyborjare" {
		t.Errorf("slug = %q", created.Slug)
	}

	_, err = svc.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "Spelstrategi för Nybörjare"})
	if apperror.MapErrorToStatus(err) != http.StatusConflict {
		t.Errorf("expected 409 for duplicate slug, got %v", err)
	}

	_, err = svc.GetCategory(ctx, uuid.New())
	if apperror.MapErrorToStatus(err) != http.StatusNotFound {
		t.Errorf("expected 404 for unknown category, got %v", err)
	}
}

func TestSeedDefaultsIsIdempotent(t *testing.T) {
	svc := NewCategoryService(repository.NewCategoryRepository(testutil.NewDB(t)))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := svc.SeedDefaults(ctx); err != nil {
			t.Fatalf("SeedDefaults() run %d error: %v", i, err)
		}
	}

	categories, err := svc.GetAllCategories(ctx)
	if err != nil {
		t.Fatalf("GetAllCategories() error: %v", err)
	}
	if len(categories) != len(DefaultCategories) {
		t.Fatalf("got %d categories, want %d", len(categories), len(DefaultCategories))
	}
	for i := 1; i < len(categories); i++ {
		if categories[i-1].Order > categories[i].Order {
			t.Errorf("categories not ordered: %v", categories)
		}
	}
}

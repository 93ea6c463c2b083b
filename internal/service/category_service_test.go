package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/financy/financy-backend/internal/domain"
	"github.com/financy/financy-backend/internal/testutil"
	"github.com/financy/financy-backend/internal/websocket"
	"github.com/google/uuid"
)

func newTestCategoryService() (*CategoryService, *testutil.MockCategoryRepository) {
	categoryRepo := testutil.NewMockCategoryRepository()
	return NewCategoryService(categoryRepo, &websocket.NoOpPublisher{}), categoryRepo
}

func TestCreateCategory_Success(t *testing.T) {
	categoryService, _ := newTestCategoryService()
	userID := uuid.New()

	category, err := categoryService.CreateCategory(userID, CreateCategoryInput{
		Name:        "Groceries",
		Description: "Food and household",
		Icon:        "cart",
		Color:       "#00aa55",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if category.Name != "Groceries" {
		t.Errorf("Expected name 'Groceries', got %s", category.Name)
	}
	if category.UserID != userID {
		t.Errorf("Expected owner %s, got %s", userID, category.UserID)
	}
}

func TestCreateCategory_Validation(t *testing.T) {
	categoryService, _ := newTestCategoryService()
	userID := uuid.New()

	if _, err := categoryService.CreateCategory(userID, CreateCategoryInput{Name: "   "}); !errors.Is(err, domain.ErrNameRequired) {
		t.Errorf("Expected ErrNameRequired, got %v", err)
	}

	long := strings.Repeat("x", domain.MaxCategoryNameLength+1)
	if _, err := categoryService.CreateCategory(userID, CreateCategoryInput{Name: long}); !errors.Is(err, domain.ErrNameTooLong) {
		t.Errorf("Expected ErrNameTooLong, got %v", err)
	}
}

func TestCreateCategory_DuplicateName(t *testing.T) {
	categoryService, _ := newTestCategoryService()
	userID := uuid.New()

	if _, err := categoryService.CreateCategory(userID, CreateCategoryInput{Name: "Groceries"}); err != nil {
		t.Fatalf("First create failed: %v", err)
	}
	if _, err := categoryService.CreateCategory(userID, CreateCategoryInput{Name: "Groceries"}); !errors.Is(err, domain.ErrCategoryNameTaken) {
		t.Errorf("Expected ErrCategoryNameTaken, got %v", err)
	}
}

func TestCreateCategory_SameNameDifferentUsers(t *testing.T) {
	categoryService, _ := newTestCategoryService()

	if _, err := categoryService.CreateCategory(uuid.New(), CreateCategoryInput{Name: "Groceries"}); err != nil {
		t.Fatalf("First user's create failed: %v", err)
	}
	if _, err := categoryService.CreateCategory(uuid.New(), CreateCategoryInput{Name: "Groceries"}); err != nil {
		t.Errorf("Expected per-user uniqueness, got %v", err)
	}
}

func TestGetCategories_ScopedAndSorted(t *testing.T) {
	categoryService, _ := newTestCategoryService()
	userID := uuid.New()
	otherID := uuid.New()

	for _, name := range []string{"Transport", "Groceries", "Rent"} {
		if _, err := categoryService.CreateCategory(userID, CreateCategoryInput{Name: name}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	if _, err := categoryService.CreateCategory(otherID, CreateCategoryInput{Name: "Other user's"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	categories, err := categoryService.GetCategories(userID)
	if err != nil {
		t.Fatalf("GetCategories failed: %v", err)
	}
	if len(categories) != 3 {
		t.Fatalf("Expected 3 categories, got %d", len(categories))
	}
	for i, want := range []string{"Groceries", "Rent", "Transport"} {
		if categories[i].Name != want {
			t.Errorf("Expected categories[%d] = %s, got %s", i, want, categories[i].Name)
		}
	}
}

func TestGetCategoryByID_CrossUser(t *testing.T) {
	categoryService, _ := newTestCategoryService()
	ownerID := uuid.New()

	category, err := categoryService.CreateCategory(ownerID, CreateCategoryInput{Name: "Groceries"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := categoryService.GetCategoryByID(uuid.New(), category.ID); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Errorf("Expected ErrCategoryNotFound for non-owner, got %v", err)
	}
}

func TestUpdateCategory_PartialUpdate(t *testing.T) {
	categoryService, _ := newTestCategoryService()
	userID := uuid.New()

	category, err := categoryService.CreateCategory(userID, CreateCategoryInput{
		Name:        "Groceries",
		Description: "Food",
		Icon:        "cart",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	newDescription := "Food and household"
	updated, err := categoryService.UpdateCategory(userID, category.ID, &domain.CategoryChanges{
		Description: &newDescription,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if updated.Description != "Food and household" {
		t.Errorf("Expected updated description, got %s", updated.Description)
	}
	// Untouched fields keep their stored values
	if updated.Name != "Groceries" {
		t.Errorf("Expected name to be untouched, got %s", updated.Name)
	}
	if updated.Icon != "cart" {
		t.Errorf("Expected icon to be untouched, got %s", updated.Icon)
	}
}

func TestUpdateCategory_ExplicitEmptyClearsField(t *testing.T) {
	categoryService, _ := newTestCategoryService()
	userID := uuid.New()

	category, err := categoryService.CreateCategory(userID, CreateCategoryInput{Name: "Groceries", Icon: "cart"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	empty := ""
	updated, err := categoryService.UpdateCategory(userID, category.ID, &domain.CategoryChanges{Icon: &empty})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Icon != "" {
		t.Errorf("Expected icon cleared, got %q", updated.Icon)
	}
}

func TestUpdateCategory_EmptyChangesReturnsCurrent(t *testing.T) {
	categoryService, _ := newTestCategoryService()
	userID := uuid.New()

	category, err := categoryService.CreateCategory(userID, CreateCategoryInput{Name: "Groceries"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := categoryService.UpdateCategory(userID, category.ID, &domain.CategoryChanges{})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got.ID != category.ID || got.Name != "Groceries" {
		t.Errorf("Expected the unchanged category back, got %+v", got)
	}
}

func TestUpdateCategory_BlankName(t *testing.T) {
	categoryService, _ := newTestCategoryService()
	userID := uuid.New()

	category, err := categoryService.CreateCategory(userID, CreateCategoryInput{Name: "Groceries"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	blank := "   "
	if _, err := categoryService.UpdateCategory(userID, category.ID, &domain.CategoryChanges{Name: &blank}); !errors.Is(err, domain.ErrNameRequired) {
		t.Errorf("Expected ErrNameRequired, got %v", err)
	}
}

func TestUpdateCategory_CrossUser(t *testing.T) {
	categoryService, _ := newTestCategoryService()
	ownerID := uuid.New()

	category, err := categoryService.CreateCategory(ownerID, CreateCategoryInput{Name: "Groceries"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	name := "Hijacked"
	if _, err := categoryService.UpdateCategory(uuid.New(), category.ID, &domain.CategoryChanges{Name: &name}); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Errorf("Expected ErrCategoryNotFound for non-owner, got %v", err)
	}
}

func TestDeleteCategory(t *testing.T) {
	categoryService, _ := newTestCategoryService()
	userID := uuid.New()

	category, err := categoryService.CreateCategory(userID, CreateCategoryInput{Name: "Groceries"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := categoryService.DeleteCategory(userID, category.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := categoryService.GetCategoryByID(userID, category.ID); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Errorf("Expected category to be gone, got %v", err)
	}
	if err := categoryService.DeleteCategory(userID, category.ID); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Errorf("Expected ErrCategoryNotFound on second delete, got %v", err)
	}
}

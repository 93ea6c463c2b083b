package service

import (
	"errors"
	"strings"

	"github.com/financy/financy-backend/internal/domain"
	"github.com/financy/financy-backend/internal/websocket"
	"github.com/google/uuid"
)

// CategoryService handles category business logic, scoped to the acting user
type CategoryService struct {
	categoryRepo domain.CategoryRepository
	publisher    websocket.EventPublisher
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo domain.CategoryRepository, publisher websocket.EventPublisher) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		publisher:    publisher,
	}
}

// CreateCategoryInput holds the input for creating a category
type CreateCategoryInput struct {
	Name        string
	Description string
	Icon        string
	Color       string
}

// CreateCategory creates a new category owned by userID. The (name, user)
// pair must be unique.
func (s *CategoryService) CreateCategory(userID uuid.UUID, input CreateCategoryInput) (*domain.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxCategoryNameLength {
		return nil, domain.ErrNameTooLong
	}

	if _, err := s.categoryRepo.GetByName(userID, name); err == nil {
		return nil, domain.ErrCategoryNameTaken
	} else if !errors.Is(err, domain.ErrCategoryNotFound) {
		return nil, err
	}

	category, err := s.categoryRepo.Create(&domain.Category{
		UserID:      userID,
		Name:        name,
		Description: input.Description,
		Icon:        input.Icon,
		Color:       input.Color,
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(userID, websocket.NewEvent(websocket.EventTypeCreated, websocket.EntityTypeCategory, category))
	return category, nil
}

// GetCategories retrieves all of the user's categories, name ascending,
// with live transaction counts
func (s *CategoryService) GetCategories(userID uuid.UUID) ([]*domain.Category, error) {
	return s.categoryRepo.GetAllByUser(userID)
}

// GetCategoryByID retrieves a category owned by userID
func (s *CategoryService) GetCategoryByID(userID uuid.UUID, id uuid.UUID) (*domain.Category, error) {
	return s.categoryRepo.GetByID(userID, id)
}

// UpdateCategory applies a partial update to a category owned by userID.
// Rows owned by other users report not-found.
func (s *CategoryService) UpdateCategory(userID uuid.UUID, id uuid.UUID, changes *domain.CategoryChanges) (*domain.Category, error) {
	if changes == nil || changes.IsEmpty() {
		return s.categoryRepo.GetByID(userID, id)
	}

	if changes.Name != nil {
		name := strings.TrimSpace(*changes.Name)
		if name == "" {
			return nil, domain.ErrNameRequired
		}
		if len(name) > domain.MaxCategoryNameLength {
			return nil, domain.ErrNameTooLong
		}
		changes.Name = &name
	}

	category, err := s.categoryRepo.Update(userID, id, changes)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(userID, websocket.NewEvent(websocket.EventTypeUpdated, websocket.EntityTypeCategory, category))
	return category, nil
}

// DeleteCategory hard-deletes a category owned by userID
func (s *CategoryService) DeleteCategory(userID uuid.UUID, id uuid.UUID) error {
	if err := s.categoryRepo.Delete(userID, id); err != nil {
		return err
	}

	s.publisher.Publish(userID, websocket.NewEvent(websocket.EventTypeDeleted, websocket.EntityTypeCategory, map[string]string{"id": id.String()}))
	return nil
}

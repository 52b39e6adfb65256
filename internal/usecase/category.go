package usecase

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vasapolrittideah/minishop-api/internal/model"
	"github.com/vasapolrittideah/minishop-api/internal/repository"
	"github.com/vasapolrittideah/minishop-api/internal/upload"
	"github.com/vasapolrittideah/minishop-api/shared/apperror"
)

// CategoryUsecase defines the interface for category-related use cases.
type CategoryUsecase interface {
	ListCategories(ctx context.Context) ([]*model.Category, error)
	CreateCategory(ctx context.Context, params CreateCategoryParams) (*model.Category, error)
	UpdateCategory(ctx context.Context, params UpdateCategoryParams) (*model.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

// CreateCategoryParams defines the parameters for creating a category. The
// usecase takes ownership of the staged files.
type CreateCategoryParams struct {
	Name  string
	Files []upload.StagedFile
}

// UpdateCategoryParams defines the parameters for updating a category. An
// empty Name keeps the current one; staged files, when present, replace the
// category's images.
type UpdateCategoryParams struct {
	ID    string
	Name  string
	Files []upload.StagedFile
}

type categoryUsecase struct {
	categoryRepo repository.CategoryRepository
	gate         *upload.Gate
	logger       *zerolog.Logger
}

// NewCategoryUsecase creates a new CategoryUsecase instance.
func NewCategoryUsecase(
	categoryRepo repository.CategoryRepository,
	gate *upload.Gate,
	logger *zerolog.Logger,
) CategoryUsecase {
	return &categoryUsecase{categoryRepo: categoryRepo, gate: gate, logger: logger}
}

func (u *categoryUsecase) ListCategories(ctx context.Context) ([]*model.Category, error) {
	categories, err := u.categoryRepo.ListCategories(ctx)
	if err != nil {
		return nil, apperror.NewSystem("failed to list categories", err)
	}

	return categories, nil
}

// CreateCategory persists a new category binding the staged files. A
// duplicate name rejects the request and removes every staged file before the
// conflict is returned.
func (u *categoryUsecase) CreateCategory(ctx context.Context, params CreateCategoryParams) (*model.Category, error) {
	if params.Name == "" {
		u.gate.Discard(params.Files)
		return nil, apperror.NewInput("name is required")
	}

	if _, err := u.categoryRepo.GetCategoryByName(ctx, params.Name); err == nil {
		u.gate.Discard(params.Files)
		return nil, apperror.NewInput("category name already exists").WithStatus(http.StatusConflict)
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		u.gate.Discard(params.Files)
		return nil, apperror.NewSystem("failed to look up category", err)
	}

	imageURLs := make([]string, 0, len(params.Files))
	for _, file := range params.Files {
		imageURLs = append(imageURLs, file.StoredPath)
	}

	category, err := u.categoryRepo.CreateCategory(ctx, &model.Category{
		Name:      params.Name,
		ImageURLs: imageURLs,
	})
	if err != nil {
		u.gate.Discard(params.Files)
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperror.NewInput("category name already exists").WithStatus(http.StatusConflict)
		}

		return nil, apperror.NewSystem("failed to create category", err)
	}

	return category, nil
}

// UpdateCategory renames a category and, when files were staged, replaces its
// images with them. Staged files are discarded on every rejection path.
func (u *categoryUsecase) UpdateCategory(ctx context.Context, params UpdateCategoryParams) (*model.Category, error) {
	if _, err := u.categoryRepo.GetCategory(ctx, params.ID); err != nil {
		u.gate.Discard(params.Files)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NewInput("category not found").WithStatus(http.StatusNotFound)
		}

		return nil, apperror.NewSystem("failed to look up category", err)
	}

	updateParams := repository.UpdateCategoryParams{}
	if params.Name != "" {
		updateParams.Name = &params.Name
	}
	if len(params.Files) > 0 {
		imageURLs := make([]string, 0, len(params.Files))
		for _, file := range params.Files {
			imageURLs = append(imageURLs, file.StoredPath)
		}
		updateParams.ImageURLs = &imageURLs
	}

	if updateParams.Name == nil && updateParams.ImageURLs == nil {
		return nil, apperror.NewInput("nothing to update")
	}

	category, err := u.categoryRepo.UpdateCategory(ctx, params.ID, updateParams)
	if err != nil {
		u.gate.Discard(params.Files)
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperror.NewInput("category name already exists").WithStatus(http.StatusConflict)
		}

		return nil, apperror.NewSystem("failed to update category", err)
	}

	return category, nil
}

// DeleteCategory removes a category and, best effort, its attachment files.
func (u *categoryUsecase) DeleteCategory(ctx context.Context, id string) error {
	category, err := u.categoryRepo.DeleteCategory(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperror.NewInput("category not found").WithStatus(http.StatusNotFound)
		}

		return apperror.NewSystem("failed to delete category", err)
	}

	u.gate.RemovePaths(category.ImageURLs)

	return nil
}

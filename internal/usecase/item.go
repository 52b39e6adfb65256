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

// ItemUsecase defines the interface for item-related use cases.
type ItemUsecase interface {
	ListItems(ctx context.Context) ([]*model.Item, error)
	ListItemsByCategory(ctx context.Context, categoryID string) ([]*model.Item, error)
	CreateItem(ctx context.Context, params CreateItemParams) (*model.Item, error)
	DeleteItem(ctx context.Context, id string) error
}

// CreateItemParams defines the parameters for creating an item. Files are the
// attachments already staged for this request; CreateItem takes ownership and
// discards them on every rejection path.
type CreateItemParams struct {
	Name       string
	CategoryID string
	Files      []upload.StagedFile
}

type itemUsecase struct {
	itemRepo repository.ItemRepository
	gate     *upload.Gate
	logger   *zerolog.Logger
}

// NewItemUsecase creates a new ItemUsecase instance.
func NewItemUsecase(itemRepo repository.ItemRepository, gate *upload.Gate, logger *zerolog.Logger) ItemUsecase {
	return &itemUsecase{itemRepo: itemRepo, gate: gate, logger: logger}
}

func (u *itemUsecase) ListItems(ctx context.Context) ([]*model.Item, error) {
	items, err := u.itemRepo.ListItems(ctx)
	if err != nil {
		return nil, apperror.NewSystem("failed to list items", err)
	}

	return items, nil
}

func (u *itemUsecase) ListItemsByCategory(ctx context.Context, categoryID string) ([]*model.Item, error) {
	items, err := u.itemRepo.ListItemsByCategory(ctx, categoryID)
	if err != nil {
		return nil, apperror.NewSystem("failed to list items", err)
	}

	return items, nil
}

// CreateItem persists a new item binding the staged files. A duplicate name
// rejects the request and removes every staged file before the conflict is
// returned, so no orphaned attachment survives the rejection.
func (u *itemUsecase) CreateItem(ctx context.Context, params CreateItemParams) (*model.Item, error) {
	if params.Name == "" {
		u.gate.Discard(params.Files)
		return nil, apperror.NewInput("name is required")
	}

	if _, err := u.itemRepo.GetItemByName(ctx, params.Name); err == nil {
		u.gate.Discard(params.Files)
		return nil, apperror.NewInput("item name already exists").WithStatus(http.StatusConflict)
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		u.gate.Discard(params.Files)
		return nil, apperror.NewSystem("failed to look up item", err)
	}

	imageURLs := make([]string, 0, len(params.Files))
	for _, file := range params.Files {
		imageURLs = append(imageURLs, file.StoredPath)
	}

	item, err := u.itemRepo.CreateItem(ctx, &model.Item{
		Name:       params.Name,
		CategoryID: params.CategoryID,
		ImageURLs:  imageURLs,
	})
	if err != nil {
		u.gate.Discard(params.Files)
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperror.NewInput("item name already exists").WithStatus(http.StatusConflict)
		}

		return nil, apperror.NewSystem("failed to create item", err)
	}

	return item, nil
}

// DeleteItem removes an item and, best effort, its attachment files. File
// deletion failures are logged by the gate, never surfaced.
func (u *itemUsecase) DeleteItem(ctx context.Context, id string) error {
	item, err := u.itemRepo.DeleteItem(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperror.NewInput("item not found").WithStatus(http.StatusNotFound)
		}

		return apperror.NewSystem("failed to delete item", err)
	}

	u.gate.RemovePaths(item.ImageURLs)

	return nil
}

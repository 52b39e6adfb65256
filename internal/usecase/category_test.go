package usecase_test

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vasapolrittideah/minishop-api/internal/model"
	"github.com/vasapolrittideah/minishop-api/internal/repository"
	"github.com/vasapolrittideah/minishop-api/internal/upload"
	"github.com/vasapolrittideah/minishop-api/internal/usecase"
	"github.com/vasapolrittideah/minishop-api/shared/apperror"
)

type fakeCategoryRepo struct {
	byID   map[string]*model.Category
	byName map[string]*model.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{
		byID:   make(map[string]*model.Category),
		byName: make(map[string]*model.Category),
	}
}

func (f *fakeCategoryRepo) CreateCategory(_ context.Context, category *model.Category) (*model.Category, error) {
	category.ID = bson.NewObjectID()
	f.byID[category.ID.Hex()] = category
	f.byName[category.Name] = category

	return category, nil
}

func (f *fakeCategoryRepo) GetCategory(_ context.Context, id string) (*model.Category, error) {
	category, ok := f.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	return category, nil
}

func (f *fakeCategoryRepo) GetCategoryByName(_ context.Context, name string) (*model.Category, error) {
	category, ok := f.byName[name]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	return category, nil
}

func (f *fakeCategoryRepo) ListCategories(context.Context) ([]*model.Category, error) {
	categories := make([]*model.Category, 0, len(f.byID))
	for _, category := range f.byID {
		categories = append(categories, category)
	}

	return categories, nil
}

func (f *fakeCategoryRepo) UpdateCategory(
	_ context.Context,
	id string,
	params repository.UpdateCategoryParams,
) (*model.Category, error) {
	category, ok := f.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	if params.Name != nil {
		delete(f.byName, category.Name)
		category.Name = *params.Name
		f.byName[category.Name] = category
	}
	if params.ImageURLs != nil {
		category.ImageURLs = *params.ImageURLs
	}

	return category, nil
}

func (f *fakeCategoryRepo) DeleteCategory(_ context.Context, id string) (*model.Category, error) {
	category, ok := f.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	delete(f.byID, id)
	delete(f.byName, category.Name)

	return category, nil
}

// stageTestFiles writes files under the gate's root and returns descriptors
// for them, mimicking a staged submission.
func stageTestFiles(t *testing.T, gate *upload.Gate, names ...string) []upload.StagedFile {
	t.Helper()

	files := make([]upload.StagedFile, 0, len(names))
	for _, name := range names {
		path := filepath.Join(gate.Dir(), name)
		require.NoError(t, os.WriteFile(path, []byte("png-bytes"), 0o644))

		files = append(files, upload.StagedFile{
			OriginalName: name,
			StoredPath:   path,
			ContentType:  "image/png",
			Size:         int64(len("png-bytes")),
		})
	}

	return files
}

func newCategoryFixture(t *testing.T, repo repository.CategoryRepository) (usecase.CategoryUsecase, *upload.Gate) {
	t.Helper()

	logger := zerolog.Nop()
	gate, err := upload.NewGate(t.TempDir(), &logger)
	require.NoError(t, err)

	return usecase.NewCategoryUsecase(repo, gate, &logger), gate
}

func attachmentCount(t *testing.T, gate *upload.Gate) int {
	t.Helper()

	entries, err := os.ReadDir(gate.Dir())
	require.NoError(t, err)

	return len(entries)
}

func TestCreateCategoryBindsStagedFiles(t *testing.T) {
	repo := newFakeCategoryRepo()
	categoryUsecase, gate := newCategoryFixture(t, repo)

	files := stageTestFiles(t, gate, "a.png", "b.png")

	category, err := categoryUsecase.CreateCategory(context.Background(), usecase.CreateCategoryParams{
		Name:  "porcelain",
		Files: files,
	})
	require.NoError(t, err)
	require.Equal(t, "porcelain", category.Name)
	require.Len(t, category.ImageURLs, 2)
	require.Equal(t, files[0].StoredPath, category.ImageURLs[0])
	require.Equal(t, 2, attachmentCount(t, gate))
}

func TestCreateCategoryConflictRollsBackStagedFiles(t *testing.T) {
	repo := newFakeCategoryRepo()
	categoryUsecase, gate := newCategoryFixture(t, repo)

	_, err := categoryUsecase.CreateCategory(context.Background(), usecase.CreateCategoryParams{Name: "porcelain"})
	require.NoError(t, err)

	files := stageTestFiles(t, gate, "c.png", "d.png")
	require.Equal(t, 2, attachmentCount(t, gate))

	_, err = categoryUsecase.CreateCategory(context.Background(), usecase.CreateCategoryParams{
		Name:  "porcelain",
		Files: files,
	})
	require.Error(t, err)
	require.EqualError(t, err, "category name already exists")

	status, _ := apperror.Classify(err)
	require.Equal(t, http.StatusConflict, status)

	// The conflict must leave no staged file behind.
	require.Equal(t, 0, attachmentCount(t, gate))
}

func TestUpdateCategoryNotFoundDiscardsStagedFiles(t *testing.T) {
	repo := newFakeCategoryRepo()
	categoryUsecase, gate := newCategoryFixture(t, repo)

	files := stageTestFiles(t, gate, "e.png")

	_, err := categoryUsecase.UpdateCategory(context.Background(), usecase.UpdateCategoryParams{
		ID:    bson.NewObjectID().Hex(),
		Name:  "renamed",
		Files: files,
	})
	require.Error(t, err)
	require.EqualError(t, err, "category not found")

	status, _ := apperror.Classify(err)
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, 0, attachmentCount(t, gate))
}

func TestUpdateCategoryReplacesImages(t *testing.T) {
	repo := newFakeCategoryRepo()
	categoryUsecase, gate := newCategoryFixture(t, repo)

	created, err := categoryUsecase.CreateCategory(context.Background(), usecase.CreateCategoryParams{Name: "porcelain"})
	require.NoError(t, err)

	files := stageTestFiles(t, gate, "f.png")

	updated, err := categoryUsecase.UpdateCategory(context.Background(), usecase.UpdateCategoryParams{
		ID:    created.ID.Hex(),
		Name:  "stoneware",
		Files: files,
	})
	require.NoError(t, err)
	require.Equal(t, "stoneware", updated.Name)
	require.Equal(t, []string{files[0].StoredPath}, updated.ImageURLs)
}

func TestDeleteCategoryRemovesAttachments(t *testing.T) {
	repo := newFakeCategoryRepo()
	categoryUsecase, gate := newCategoryFixture(t, repo)

	files := stageTestFiles(t, gate, "g.png", "h.png")

	created, err := categoryUsecase.CreateCategory(context.Background(), usecase.CreateCategoryParams{
		Name:  "porcelain",
		Files: files,
	})
	require.NoError(t, err)

	require.NoError(t, categoryUsecase.DeleteCategory(context.Background(), created.ID.Hex()))
	require.Equal(t, 0, attachmentCount(t, gate))
}

func TestDeleteCategoryNotFound(t *testing.T) {
	repo := newFakeCategoryRepo()
	categoryUsecase, _ := newCategoryFixture(t, repo)

	err := categoryUsecase.DeleteCategory(context.Background(), bson.NewObjectID().Hex())
	require.Error(t, err)
	require.EqualError(t, err, "category not found")

	status, _ := apperror.Classify(err)
	require.Equal(t, http.StatusNotFound, status)
}

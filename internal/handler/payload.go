package handler

import (
	"github.com/vasapolrittideah/minishop-api/internal/model"
	"github.com/vasapolrittideah/minishop-api/shared/wechat"
)

// LoginRequest is the JSON body of POST /login. The iv and encryptedData
// fields carry the provider-encrypted profile payload, base64-encoded.
type LoginRequest struct {
	Code          string `json:"code"          validate:"required"`
	IV            string `json:"iv"            validate:"required"`
	EncryptedData string `json:"encryptedData" validate:"required"`
}

// LoginResponse is the body of a successful login.
type LoginResponse struct {
	Message  string          `json:"message"`
	UserData *wechat.Profile `json:"userdata"`
	Token    string          `json:"token"`
	Role     model.Role      `json:"role"`
}

// ItemResponse is the wire form of an item.
type ItemResponse struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	CategoryID string   `json:"categoryId"`
	Image      []string `json:"image"`
}

// CategoryResponse is the wire form of a category.
type CategoryResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	CategoryImage []string `json:"categoryImage"`
}

func newItemResponse(item *model.Item) ItemResponse {
	return ItemResponse{
		ID:         item.ID.Hex(),
		Name:       item.Name,
		CategoryID: item.CategoryID,
		Image:      item.ImageURLs,
	}
}

func newItemResponses(items []*model.Item) []ItemResponse {
	responses := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, newItemResponse(item))
	}

	return responses
}

func newCategoryResponse(category *model.Category) CategoryResponse {
	return CategoryResponse{
		ID:            category.ID.Hex(),
		Name:          category.Name,
		CategoryImage: category.ImageURLs,
	}
}

func newCategoryResponses(categories []*model.Category) []CategoryResponse {
	responses := make([]CategoryResponse, 0, len(categories))
	for _, category := range categories {
		responses = append(responses, newCategoryResponse(category))
	}

	return responses
}

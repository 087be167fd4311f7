package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mohamedrafeek-mr/FoodHub/internal/domain"
	"github.com/mohamedrafeek-mr/FoodHub/internal/service"
	apperrors "github.com/mohamedrafeek-mr/FoodHub/pkg/errors"
	"github.com/mohamedrafeek-mr/FoodHub/pkg/middleware"
)

func setupCartRouter(repo *mockCartRepository) *chi.Mux {
	handler := NewCartHandler(service.NewCartService(repo, testLogger()), testLogger())

	r := chi.NewRouter()
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.Identity())
		r.Get("/", handler.GetCart)
		r.Delete("/", handler.ClearCart)
		r.Post("/items", handler.AddItem)
		r.Put("/items/{itemID}", handler.UpdateItem)
		r.Delete("/items/{itemID}", handler.RemoveItem)
	})
	return r
}

func TestCartHandlerGetCart_Success(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupCartRouter(repo)

	repo.On("GetLines", mock.Anything, "user-456").Return([]domain.CartLine{
		{ItemID: "item-1", Name: "Margherita Pizza", UnitPrice: 29900, Quantity: 2},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-User-ID", "user-456")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Data)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "user-456", data["user_id"])
	assert.Equal(t, float64(59800), data["subtotal"])
	assert.Equal(t, float64(2), data["item_count"])
}

func TestCartHandlerGetCart_MissingIdentity(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupCartRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	repo.AssertNotCalled(t, "GetLines", mock.Anything, mock.Anything)
}

func TestCartHandlerAddItem_Success(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupCartRouter(repo)

	repo.On("AddLine", mock.Anything, "user-456", "item-1", 2).Return(nil)
	repo.On("GetLines", mock.Anything, "user-456").Return([]domain.CartLine{
		{ItemID: "item-1", Name: "Margherita Pizza", UnitPrice: 29900, Quantity: 2},
	}, nil)

	body, _ := json.Marshal(AddCartItemRequest{ItemID: "item-1", Quantity: 2})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "user-456")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}

func TestCartHandlerAddItem_ValidationFailure(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupCartRouter(repo)

	body := []byte(`{"item_id": "", "quantity": 0}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "user-456")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	repo.AssertNotCalled(t, "AddLine", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCartHandlerUpdateItem_MissingLine(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupCartRouter(repo)

	repo.On("SetLineQuantity", mock.Anything, "user-456", "item-9", 3).
		Return(apperrors.LineNotFound("item-9"))

	body := []byte(`{"quantity": 3}`)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/cart/items/item-9", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "user-456")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "LINE_NOT_FOUND", resp.Error.Code)
}

func TestCartHandlerRemoveItem_Success(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupCartRouter(repo)

	repo.On("RemoveLine", mock.Anything, "user-456", "item-1").Return(nil)
	repo.On("GetLines", mock.Anything, "user-456").Return([]domain.CartLine{}, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart/items/item-1", nil)
	req.Header.Set("X-User-ID", "user-456")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}

func TestCartHandlerClearCart_NoContent(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupCartRouter(repo)

	repo.On("Clear", mock.Anything, "user-456").Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart", nil)
	req.Header.Set("X-User-ID", "user-456")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

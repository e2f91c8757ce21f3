package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"storefront-service/internal/domain"
	"storefront-service/internal/infra/storage"
	"storefront-service/internal/invoice"
	"storefront-service/internal/mocks"
	"storefront-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type testEnv struct {
	router *gin.Engine
	repo   *mocks.MockOrderRepository
	hidden *mocks.MockHiddenOrderStore
	carts  *mocks.MockCartStore
	pub    *mocks.MockPublisher
	mailer *mocks.MockMailer
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := new(mocks.MockOrderRepository)
	hidden := new(mocks.MockHiddenOrderStore)
	carts := new(mocks.MockCartStore)
	pub := new(mocks.MockPublisher)
	mailer := new(mocks.MockMailer)

	dispatcher := services.NewNotificationDispatcher(mailer, services.BusinessInfo{
		Name:  "Samruddhika Bags",
		Email: "contact@samruddhika.com",
	})
	orderService := services.NewOrderService(repo, hidden, pub, dispatcher)
	cartService := services.NewCartService(carts)
	renderer := invoice.NewRenderer(invoice.Business{Name: "Samruddhika Bags"})

	uploads, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("upload store: %v", err)
	}

	router := gin.New()
	NewHandler(orderService, cartService, dispatcher, renderer, uploads).RegisterRoutes(router)

	return &testEnv{router: router, repo: repo, hidden: hidden, carts: carts, pub: pub, mailer: mailer}
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func orderBody() map[string]any {
	return map[string]any{
		"firstName": "Nilu",
		"lastName":  "Perera",
		"email":     "nilu@example.com",
		"phone":     "+94 71 234 5678",
		"street":    "12 Lake Road",
		"city":      "Colombo",
		"state":     "Western",
		"district":  "Colombo",
		"items": []map[string]any{
			{"productId": "p1", "name": "Travel Bag", "unitPrice": "1000", "quantity": 3},
		},
	}
}

func TestHandler_CreateOrder(t *testing.T) {
	t.Run("valid order is created", func(t *testing.T) {
		env := setup(t)
		env.repo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil)
		env.pub.On("Publish", mock.Anything, "order.created", mock.Anything).Return(nil).Maybe()

		w := doJSON(env.router, http.MethodPost, "/orders", orderBody())

		assert.Equal(t, http.StatusCreated, w.Code)
		var got domain.Order
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, domain.StatusPending, got.Status)
		assert.Equal(t, "3450", got.GrandTotal.String())

		time.Sleep(100 * time.Millisecond)
		env.repo.AssertExpectations(t)
	})

	t.Run("missing email names the field", func(t *testing.T) {
		env := setup(t)
		body := orderBody()
		delete(body, "email")

		w := doJSON(env.router, http.MethodPost, "/orders", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "email")
		env.repo.AssertNotCalled(t, "Save")
	})

	t.Run("empty items rejected", func(t *testing.T) {
		env := setup(t)
		body := orderBody()
		body["items"] = []map[string]any{}

		w := doJSON(env.router, http.MethodPost, "/orders", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "items")
	})
}

func TestHandler_GetOrder(t *testing.T) {
	t.Run("malformed id", func(t *testing.T) {
		env := setup(t)
		w := doJSON(env.router, http.MethodGet, "/orders/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown id", func(t *testing.T) {
		env := setup(t)
		id := uuid.NewString()
		env.repo.On("FindByID", mock.Anything, id).Return(nil, domain.ErrOrderNotFound)

		w := doJSON(env.router, http.MethodGet, "/orders/"+id, nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Order not found")
	})
}

func TestHandler_UpdateOrder(t *testing.T) {
	t.Run("terminal order returns conflict", func(t *testing.T) {
		env := setup(t)
		id := uuid.NewString()
		completedAt := time.Now()
		env.repo.On("FindByID", mock.Anything, id).Return(&domain.Order{
			ID: id, Status: domain.StatusCompleted, CompletedAt: &completedAt,
		}, nil)

		w := doJSON(env.router, http.MethodPatch, "/orders/"+id, map[string]any{"status": "processing"})

		assert.Equal(t, http.StatusConflict, w.Code)
		env.repo.AssertNotCalled(t, "Update")
	})

	t.Run("cancel then undo", func(t *testing.T) {
		env := setup(t)
		id := uuid.NewString()
		env.repo.On("FindByID", mock.Anything, id).Return(&domain.Order{ID: id, Status: domain.StatusPending}, nil).Once()
		env.repo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil)
		env.mailer.On("Send", mock.Anything, mock.Anything).Return(nil).Maybe()
		env.pub.On("Publish", mock.Anything, "order.status_changed", mock.Anything).Return(nil).Maybe()

		w := doJSON(env.router, http.MethodPatch, "/orders/"+id, map[string]any{"status": "cancelled"})
		assert.Equal(t, http.StatusOK, w.Code)

		var cancelled domain.Order
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &cancelled))
		assert.Equal(t, domain.StatusCancelled, cancelled.Status)
		assert.NotNil(t, cancelled.CancelledAt)

		env.repo.On("FindByID", mock.Anything, id).Return(&cancelled, nil).Once()
		w = doJSON(env.router, http.MethodPost, "/orders/"+id+"/undo", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var restored domain.Order
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &restored))
		assert.Equal(t, domain.StatusPending, restored.Status)
		assert.Nil(t, restored.CancelledAt)

		time.Sleep(100 * time.Millisecond)
	})
}

func TestHandler_DeleteOrder(t *testing.T) {
	env := setup(t)
	id := uuid.NewString()
	env.repo.On("Delete", mock.Anything, id).Return(nil)

	w := doJSON(env.router, http.MethodDelete, "/orders/"+id, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
}

func TestHandler_ListOrders(t *testing.T) {
	env := setup(t)
	env.repo.On("FindAll", mock.Anything).Return([]domain.Order{{ID: uuid.NewString()}}, nil)

	w := doJSON(env.router, http.MethodGet, "/orders", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"orders"`)
}

func TestHandler_Cart(t *testing.T) {
	t.Run("empty cart has zero shipping", func(t *testing.T) {
		env := setup(t)
		env.carts.On("Get", mock.Anything, "s1").Return(&domain.Cart{SessionID: "s1"}, nil)

		w := doJSON(env.router, http.MethodGet, "/cart/s1", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp CartResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 0, resp.TotalItems)
		assert.True(t, resp.ShippingCost.IsZero())
	})

	t.Run("add item returns derived totals", func(t *testing.T) {
		env := setup(t)
		env.carts.On("Get", mock.Anything, "s1").Return(&domain.Cart{SessionID: "s1"}, nil)
		env.carts.On("Put", mock.Anything, mock.Anything).Return(nil)

		w := doJSON(env.router, http.MethodPost, "/cart/s1/items", map[string]any{
			"productId": "p1", "name": "Travel Bag", "unitPrice": "1000", "quantity": 3,
		})

		assert.Equal(t, http.StatusOK, w.Code)
		var resp CartResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 3, resp.TotalItems)
		assert.Equal(t, "3000", resp.Subtotal.String())
		assert.Equal(t, "450", resp.ShippingCost.String())
		assert.Equal(t, "3450", resp.GrandTotal.String())
	})

	t.Run("invalid quantity rejected", func(t *testing.T) {
		env := setup(t)
		env.carts.On("Get", mock.Anything, "s1").Return(&domain.Cart{SessionID: "s1"}, nil)

		w := doJSON(env.router, http.MethodPost, "/cart/s1/items", map[string]any{
			"productId": "p1", "unitPrice": "1000", "quantity": 0,
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_SendStatusEmail(t *testing.T) {
	t.Run("transport failure surfaces to the operator", func(t *testing.T) {
		env := setup(t)
		env.mailer.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp: connection refused"))

		w := doJSON(env.router, http.MethodPost, "/send-status-email", map[string]any{
			"email": "nilu@example.com", "orderId": "ord-1", "status": "shipped", "customerName": "Nilu Perera",
		})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "Failed to send status email")
	})

	t.Run("unknown status is caller error, not transport failure", func(t *testing.T) {
		env := setup(t)

		w := doJSON(env.router, http.MethodPost, "/send-status-email", map[string]any{
			"email": "nilu@example.com", "orderId": "ord-1", "status": "teleported", "customerName": "Nilu Perera",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "teleported")
		env.mailer.AssertNotCalled(t, "Send")
	})

	t.Run("successful attempt", func(t *testing.T) {
		env := setup(t)
		env.mailer.On("Send", mock.Anything, mock.Anything).Return(nil)

		w := doJSON(env.router, http.MethodPost, "/send-status-email", map[string]any{
			"email": "nilu@example.com", "orderId": "ord-1", "status": "completed", "customerName": "Nilu Perera",
		})

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func uploadRequest(t *testing.T, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "slip.png")
	if err != nil {
		t.Fatalf("multipart: %v", err)
	}
	if _, err := fw.Write(data); err != nil {
		t.Fatalf("multipart write: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHandler_Upload(t *testing.T) {
	pngBytes := func(size int) []byte {
		b := make([]byte, size)
		copy(b, []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A})
		return b
	}

	t.Run("valid image stored", func(t *testing.T) {
		env := setup(t)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, uploadRequest(t, pngBytes(2048)))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "/uploads/payment-slip-")
	})

	t.Run("oversized upload rejected", func(t *testing.T) {
		env := setup(t)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, uploadRequest(t, pngBytes(6*1024*1024)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, strings.ToLower(w.Body.String()), "large")
	})

	t.Run("unsupported type rejected", func(t *testing.T) {
		env := setup(t)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, uploadRequest(t, []byte("plain text, not an image")))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_DownloadInvoice(t *testing.T) {
	env := setup(t)
	id := uuid.NewString()
	env.repo.On("FindByID", mock.Anything, id).Return(&domain.Order{
		ID:        id,
		CreatedAt: time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC),
		Status:    domain.StatusCompleted,
		Items: []domain.OrderItem{
			{ProductID: "p1", Name: "Travel Bag", Quantity: 1},
		},
	}, nil)

	w := doJSON(env.router, http.MethodGet, "/orders/"+id+"/invoice", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}

package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"storefront-service/internal/domain"
	"storefront-service/internal/infra/storage"
	"storefront-service/internal/invoice"
	"storefront-service/internal/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	orders     *services.OrderService
	carts      *services.CartService
	dispatcher *services.NotificationDispatcher
	renderer   *invoice.Renderer
	uploads    *storage.LocalStore
}

func NewHandler(o *services.OrderService, c *services.CartService, d *services.NotificationDispatcher, r *invoice.Renderer, u *storage.LocalStore) *Handler {
	return &Handler{orders: o, carts: c, dispatcher: d, renderer: r, uploads: u}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/orders", h.ListOrders)
	r.POST("/orders", h.CreateOrder)
	r.GET("/orders/:orderId", h.GetOrder)
	r.PATCH("/orders/:orderId", h.UpdateOrder)
	r.DELETE("/orders/:orderId", h.DeleteOrder)
	r.POST("/orders/:orderId/undo", h.UndoOrder)
	r.POST("/orders/:orderId/hide", h.HideOrder)
	r.GET("/orders/:orderId/invoice", h.DownloadInvoice)

	r.GET("/cart/:sessionId", h.GetCart)
	r.POST("/cart/:sessionId/items", h.AddCartItem)
	r.PATCH("/cart/:sessionId/items/:productId", h.UpdateCartItem)
	r.DELETE("/cart/:sessionId/items/:productId", h.RemoveCartItem)
	r.DELETE("/cart/:sessionId", h.ClearCart)
	r.POST("/cart/:sessionId/reconcile", h.ReconcileCart)

	r.POST("/send-status-email", h.SendStatusEmail)
	r.POST("/upload", h.Upload)
	r.Static("/uploads", h.uploads.Dir())
}

// writeError maps the error taxonomy onto HTTP codes. Storage failures stay
// generic so backend details never leak to the caller.
func writeError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	var terr *domain.TerminalStateError
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
	case errors.Is(err, domain.ErrInvalidOrderID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
	case errors.Is(err, domain.ErrUndoExpired), errors.Is(err, domain.ErrUndoUnavailable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
	case errors.As(err, &terr):
		c.JSON(http.StatusConflict, gin.H{"error": terr.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.orders.ListOrders(c.Request.Context(), c.Query("clientId"))
	if err != nil {
		writeError(c, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), req.toDraft())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *Handler) GetOrder(c *gin.Context) {
	order, err := h.orders.GetOrder(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) UpdateOrder(c *gin.Context) {
	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := services.OrderPatch{
		TrackingNumber: req.TrackingNumber,
		Notes:          req.Notes,
	}
	if req.Status != nil {
		status := domain.OrderStatus(*req.Status)
		patch.Status = &status
	}

	order, err := h.orders.UpdateOrder(c.Request.Context(), c.Param("orderId"), patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) DeleteOrder(c *gin.Context) {
	if err := h.orders.DeleteOrder(c.Request.Context(), c.Param("orderId")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) UndoOrder(c *gin.Context) {
	order, err := h.orders.UndoTerminal(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) HideOrder(c *gin.Context) {
	var req HideOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.orders.HideOrder(c.Request.Context(), req.ClientID, c.Param("orderId")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) DownloadInvoice(c *gin.Context) {
	order, err := h.orders.GetOrder(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		writeError(c, err)
		return
	}
	pdf, err := h.renderer.Render(order)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice-%s.pdf", order.ID))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h *Handler) GetCart(c *gin.Context) {
	cart, err := h.carts.GetCart(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCartResponse(cart))
}

func (h *Handler) AddCartItem(c *gin.Context) {
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cart, err := h.carts.AddItem(c.Request.Context(), c.Param("sessionId"), domain.CartItem{
		ProductID: req.ProductID,
		Name:      req.Name,
		UnitPrice: req.UnitPrice,
		Quantity:  req.Quantity,
		Color:     req.Color,
		Size:      req.Size,
		ImageRef:  req.ImageRef,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCartResponse(cart))
}

func (h *Handler) UpdateCartItem(c *gin.Context) {
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cart, err := h.carts.UpdateQuantity(c.Request.Context(), c.Param("sessionId"), c.Param("productId"), req.Quantity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCartResponse(cart))
}

func (h *Handler) RemoveCartItem(c *gin.Context) {
	cart, err := h.carts.RemoveItem(c.Request.Context(), c.Param("sessionId"), c.Param("productId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCartResponse(cart))
}

func (h *Handler) ClearCart(c *gin.Context) {
	if err := h.carts.ClearCart(c.Request.Context(), c.Param("sessionId")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) ReconcileCart(c *gin.Context) {
	var req ReconcileCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cart, err := h.carts.Reconcile(c.Request.Context(), c.Param("sessionId"), req.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCartResponse(cart))
}

// SendStatusEmail re-sends a status email on demand. Unlike the dispatch
// that rides on a lifecycle mutation, this endpoint surfaces the transport
// failure to the operator.
func (h *Handler) SendStatusEmail(c *gin.Context) {
	var req SendStatusEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := domain.OrderStatus(req.Status)
	if !status.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown order status %q", req.Status)})
		return
	}

	err := h.dispatcher.Send(c.Request.Context(), req.Email, req.OrderID, req.CustomerName,
		status, req.TrackingNumber)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send status email", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	if file.Size > storage.MaxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf(
			"File size too large (%.2fMB). Maximum size is 5MB", float64(file.Size)/1024/1024)})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, storage.MaxUploadSize+1))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}

	url, err := h.uploads.Save(data)
	switch {
	case errors.Is(err, storage.ErrFileTooLarge), errors.Is(err, storage.ErrUnsupportedType):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file. Please try again or contact support."})
	default:
		c.JSON(http.StatusOK, gin.H{"url": url})
	}
}

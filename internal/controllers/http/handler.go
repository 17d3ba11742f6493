package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"storefront-service/internal/domain"
	"storefront-service/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type OrderUsecase interface {
	CreateOrder(ctx context.Context, in services.CreateOrderInput) (*domain.Order, string, error)
	GetOrder(ctx context.Context, id uint64) (*domain.Order, error)
	OutboundLink(order *domain.Order, destination string) string
	AttachPaymentProof(ctx context.Context, orderID uint64, file io.Reader, filename, note string) (*domain.PaymentProof, string, error)
	SetOrderStatus(ctx context.Context, id uint64, status string) (*domain.Order, error)
	ListOrders(ctx context.Context, status string, limit int) ([]domain.Order, error)
	BulkSetStatus(ctx context.Context, ids []uint64, status string) (int64, error)
	DeleteOrder(ctx context.Context, id uint64) error
}

type CatalogUsecase interface {
	ListProducts(ctx context.Context, categorySlug string) ([]domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, in services.CreateCategoryInput) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id uint64) error
	CreateProduct(ctx context.Context, in services.CreateProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id uint64, in services.UpdateProductInput) (*domain.Product, error)
	SetProductImage(ctx context.Context, id uint64, file io.Reader, filename string) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id uint64) error
}

var (
	_ OrderUsecase   = (*services.OrderService)(nil)
	_ CatalogUsecase = (*services.CatalogService)(nil)
)

type Handler struct {
	orders  OrderUsecase
	catalog CatalogUsecase
	logger  *zap.Logger
}

func NewHandler(orders OrderUsecase, catalog CatalogUsecase, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{orders: orders, catalog: catalog, logger: logger}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.Home)

	api := r.Group("/api")
	{
		api.GET("/products", h.ListProducts)
		api.GET("/categories", h.ListCategories)

		orders := api.Group("/orders")
		{
			orders.POST("", h.CreateOrder)
			orders.GET("/:id", h.GetOrder)
			orders.POST("/:id/payment-proof", h.UploadPaymentProof)
			orders.PATCH("/:id/status", h.UpdateOrderStatus)
		}

		admin := api.Group("/admin")
		{
			admin.GET("/orders", h.ListOrders)
			admin.POST("/orders/bulk-status", h.BulkUpdateStatus)
			admin.DELETE("/orders/:id", h.DeleteOrder)

			admin.POST("/categories", h.CreateCategory)
			admin.DELETE("/categories/:id", h.DeleteCategory)

			admin.POST("/products", h.CreateProduct)
			admin.PATCH("/products/:id", h.UpdateProduct)
			admin.POST("/products/:id/image", h.UploadProductImage)
			admin.DELETE("/products/:id", h.DeleteProduct)
		}
	}
}

func (h *Handler) Home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":      "storefront backend is running",
		"products_api": "/api/products",
		"orders_api":   "/api/orders",
	})
}

func (h *Handler) ListProducts(c *gin.Context) {
	list, err := h.catalog.ListProducts(c.Request.Context(), c.Query("category"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toProducts(list))
}

func (h *Handler) ListCategories(c *gin.Context) {
	list, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toCategories(list))
}

func (h *Handler) CreateOrder(c *gin.Context) {
	var req services.CreateOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	order, link, err := h.orders.CreateOrder(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, CreateOrderResponse{OrderID: order.ID, WhatsAppURL: link})
}

func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	order, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	link := h.orders.OutboundLink(order, c.Query("whatsapp_number"))
	c.JSON(http.StatusOK, toOrderDetail(order, link))
}

func (h *Handler) UploadPaymentProof(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var (
		file     io.Reader
		filename string
	)
	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			h.fail(c, err)
			return
		}
		defer f.Close()
		file, filename = f, fh.Filename
	}

	proof, fileURL, err := h.orders.AttachPaymentProof(c.Request.Context(), id, file, filename, c.PostForm("note"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, PaymentProofResponse{
		ID:        proof.ID,
		OrderID:   proof.OrderID,
		Note:      proof.Note,
		CreatedAt: proof.CreatedAt,
		FileURL:   fileURL,
	})
}

func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	order, err := h.orders.SetOrderStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, OrderStatusResponse{ID: order.ID, Status: order.Status})
}

func (h *Handler) ListOrders(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "limit: a positive integer is required"})
			return
		}
		limit = n
	}

	list, err := h.orders.ListOrders(c.Request.Context(), c.Query("status"), limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderSummaries(list))
}

func (h *Handler) BulkUpdateStatus(c *gin.Context) {
	var req BulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	n, err := h.orders.BulkSetStatus(c.Request.Context(), req.IDs, req.Status)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, BulkStatusResponse{Updated: n})
}

func (h *Handler) DeleteOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.orders.DeleteOrder(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) CreateCategory(c *gin.Context) {
	var req services.CreateCategoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	cat, err := h.catalog.CreateCategory(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCategory(cat))
}

func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.catalog.DeleteCategory(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var req services.CreateProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	p, err := h.catalog.CreateProduct(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProduct(p))
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req services.UpdateProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	p, err := h.catalog.UpdateProduct(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toProduct(p))
}

func (h *Handler) UploadProductImage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "file is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.fail(c, err)
		return
	}
	defer f.Close()

	p, err := h.catalog.SetProductImage(c.Request.Context(), id, f, fh.Filename)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toProduct(p))
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// fail maps service errors onto status codes. Unknown errors are logged and
// never shown to the client.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
	case errors.Is(err, domain.ErrIntegrity):
		c.JSON(http.StatusConflict, gin.H{"detail": err.Error()})
	default:
		h.logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal server error"})
	}
}

// pathID writes a 404 itself when the id segment is not a positive integer.
func pathID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"detail": "not found"})
		return 0, false
	}
	return id, true
}

func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

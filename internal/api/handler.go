package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"storefront-service/internal/cart"
	"storefront-service/internal/models"
	"storefront-service/internal/redisclient"
	"storefront-service/internal/service"
	"storefront-service/internal/session"
	"storefront-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler contains HTTP handlers
type Handler struct {
	storefront *service.StorefrontService
	formatter  *Formatter
	ready      Pinger
}

// NewHandler creates a new HTTP handler
func NewHandler(storefront *service.StorefrontService, formatter *Formatter, ready Pinger) *Handler {
	return &Handler{
		storefront: storefront,
		formatter:  formatter,
		ready:      ready,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/categories", h.listCategories)
		v1.POST("/sessions", h.createSession)

		s := v1.Group("/sessions/:sid")
		s.GET("", h.getSession)
		s.PUT("/page", h.navigate)
		s.GET("/home", h.home)
		s.PUT("/filter", h.setFilter)
		s.GET("/products", h.listProducts)
		s.GET("/products/:id", h.productDetails)
		s.GET("/cart", h.getCart)
		s.POST("/cart/items", h.addToCart)
		s.PUT("/cart/items/:id", h.updateQuantity)
		s.DELETE("/cart/items/:id", h.removeItem)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	if h.ready != nil {
		if err := h.ready.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "not ready",
				"details": err.Error(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

func (h *Handler) listCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": h.storefront.Categories()})
}

func (h *Handler) createSession(c *gin.Context) {
	sess, err := h.storefront.CreateSession(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to create session")
		return
	}
	c.JSON(http.StatusCreated, h.sessionResponse(sess))
}

func (h *Handler) getSession(c *gin.Context) {
	sess, err := h.storefront.GetSession(c.Request.Context(), c.Param("sid"))
	if err != nil {
		respondError(c, err, "Failed to load session")
		return
	}
	c.JSON(http.StatusOK, h.sessionResponse(sess))
}

// NavigateRequest moves the shopper to another page
type NavigateRequest struct {
	Page string `json:"page" binding:"required"`
}

func (h *Handler) navigate(c *gin.Context) {
	var req NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	sess, err := h.storefront.Navigate(c.Request.Context(), c.Param("sid"), req.Page)
	if err != nil {
		respondError(c, err, "Failed to navigate")
		return
	}
	c.JSON(http.StatusOK, h.sessionResponse(sess))
}

func (h *Handler) home(c *gin.Context) {
	if _, err := h.storefront.GetSession(c.Request.Context(), c.Param("sid")); err != nil {
		respondError(c, err, "Failed to load session")
		return
	}
	c.JSON(http.StatusOK, gin.H{"featured": h.storefront.Featured()})
}

// FilterRequest changes the catalog filter; empty fields are left as they are
type FilterRequest struct {
	Category string `json:"category"`
	Sort     string `json:"sort"`
}

func (h *Handler) setFilter(c *gin.Context) {
	var req FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	sess, err := h.storefront.SetFilter(c.Request.Context(), c.Param("sid"), req.Category, req.Sort)
	if err != nil {
		respondError(c, err, "Failed to update filter")
		return
	}
	c.JSON(http.StatusOK, gin.H{"filter": sess.Filter})
}

func (h *Handler) listProducts(c *gin.Context) {
	ctx := c.Request.Context()
	sid := c.Param("sid")

	category, sortKey := c.Query("category"), c.Query("sort")
	if category != "" || sortKey != "" {
		if _, err := h.storefront.SetFilter(ctx, sid, category, sortKey); err != nil {
			respondError(c, err, "Failed to update filter")
			return
		}
	}

	products, filter, err := h.storefront.ViewProducts(ctx, sid)
	if err != nil {
		respondError(c, err, "Failed to list products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"filter":     filter,
		"categories": h.storefront.Categories(),
		"products":   products,
		"count":      len(products),
	})
}

func (h *Handler) productDetails(c *gin.Context) {
	productID, ok := parseProductID(c)
	if !ok {
		return
	}

	details, err := h.storefront.SelectProduct(c.Request.Context(), c.Param("sid"), productID)
	if err != nil {
		respondError(c, err, "Failed to load product")
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *Handler) getCart(c *gin.Context) {
	view, err := h.storefront.GetCart(c.Request.Context(), c.Param("sid"))
	if err != nil {
		respondError(c, err, "Failed to load cart")
		return
	}
	c.JSON(http.StatusOK, h.cartResponse(view, ""))
}

// AddToCartRequest adds a product; quantity defaults to 1
type AddToCartRequest struct {
	ProductID *int64 `json:"product_id" binding:"required"`
	Quantity  *int   `json:"quantity,omitempty" binding:"omitempty,min=1,max=999"`
}

func (h *Handler) addToCart(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	res, err := h.storefront.AddToCart(c.Request.Context(), c.Param("sid"), *req.ProductID, quantity)
	if err != nil {
		respondError(c, err, "Failed to add to cart")
		return
	}

	resp := h.cartResponse(&res.Cart, res.Outcome.Message())
	resp["outcome"] = res.Outcome.String()
	c.JSON(http.StatusOK, resp)
}

// UpdateQuantityRequest sets a line quantity; below 1 removes the line
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required,max=999"`
}

func (h *Handler) updateQuantity(c *gin.Context) {
	productID, ok := parseProductID(c)
	if !ok {
		return
	}

	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	view, err := h.storefront.UpdateQuantity(c.Request.Context(), c.Param("sid"), productID, *req.Quantity)
	if err != nil {
		respondError(c, err, "Failed to update quantity")
		return
	}

	message := ""
	if *req.Quantity < 1 {
		message = "Removed from cart"
	}
	c.JSON(http.StatusOK, h.cartResponse(view, message))
}

func (h *Handler) removeItem(c *gin.Context) {
	productID, ok := parseProductID(c)
	if !ok {
		return
	}

	view, err := h.storefront.RemoveItem(c.Request.Context(), c.Param("sid"), productID)
	if err != nil {
		respondError(c, err, "Failed to remove item")
		return
	}
	c.JSON(http.StatusOK, h.cartResponse(view, "Removed from cart"))
}

func (h *Handler) sessionResponse(sess *models.Session) gin.H {
	return gin.H{
		"id":                  sess.ID,
		"page":                sess.Page,
		"selected_product_id": sess.SelectedProductID,
		"filter":              sess.Filter,
		"cart_count":          cart.ItemCount(sess.Cart),
	}
}

func (h *Handler) cartResponse(view *service.CartView, message string) gin.H {
	resp := gin.H{
		"lines":     view.Lines,
		"totals":    view.Totals,
		"formatted": h.formatter.Totals(view.Totals),
	}
	if message != "" {
		resp["message"] = message
	}
	return resp
}

func parseProductID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return 0, false
	}
	return id, true
}

func badRequest(c *gin.Context, msg string, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   msg,
		"details": err.Error(),
	})
}

func respondError(c *gin.Context, err error, msg string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, redisclient.ErrSessionNotFound):
		status = http.StatusNotFound
		msg = "Session not found"
	case errors.Is(err, service.ErrProductNotFound):
		status = http.StatusNotFound
		msg = "Product not found"
	case errors.Is(err, service.ErrSessionBusy):
		status = http.StatusConflict
	case errors.Is(err, session.ErrUnknownPage), errors.Is(err, session.ErrNoProductSelected):
		status = http.StatusBadRequest
	}

	c.JSON(status, gin.H{
		"error":   msg,
		"details": err.Error(),
	})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}

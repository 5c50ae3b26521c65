package infrastructure

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"go-orders/internal/orders/application"
	"go-orders/internal/orders/domain"
	"go-orders/pkg/errors"
	"go-orders/pkg/middleware"
)

// Actor headers identify who performs a mutation
const (
	ActorIDHeader   = "X-Actor-ID"
	ActorRoleHeader = "X-Actor-Role"
)

// HTTPHandler handles HTTP requests for orders
type HTTPHandler struct {
	manager         *application.OrderManager
	validator       *application.CartValidator
	defaultCurrency string
}

// NewHTTPHandler creates a new HTTP handler
func NewHTTPHandler(manager *application.OrderManager, validator *application.CartValidator, defaultCurrency string) *HTTPHandler {
	return &HTTPHandler{
		manager:         manager,
		validator:       validator,
		defaultCurrency: defaultCurrency,
	}
}

// RegisterRoutes registers the order routes
func (h *HTTPHandler) RegisterRoutes(r *gin.RouterGroup) {
	orders := r.Group("/orders")
	{
		orders.POST("", h.CreateOrder)
		orders.GET("/:id", h.GetOrder)
		orders.GET("/number/:number", h.GetOrderByNumber)
		orders.PATCH("/:id/status", h.UpdateStatus)
		orders.POST("/:id/payment", h.ProcessPayment)
		orders.POST("/:id/capture", h.CapturePayment)
		orders.POST("/:id/refund", h.ProcessRefund)
		orders.POST("/:id/cancel", h.CancelOrder)
		orders.POST("/:id/tracking", h.AddTracking)
		orders.POST("/:id/notes", h.AddAdminNote)
	}

	customers := r.Group("/customers")
	{
		customers.GET("/:id/orders", h.ListCustomerOrders)
		customers.GET("/:id/cart/validation", h.ValidateCart)
	}
}

func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"data":     data,
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

func actor(c *gin.Context) (string, domain.ActorRole) {
	role := domain.ActorRole(c.GetHeader(ActorRoleHeader))
	switch role {
	case domain.RoleAdmin, domain.RoleSystem:
	default:
		role = domain.RoleCustomer
	}
	return c.GetHeader(ActorIDHeader), role
}

// CreateOrder handles POST /orders
// @Summary Create a new order
// @Description Reserve stock for every item and place a pending order
// @Tags orders
// @Accept json
// @Produce json
// @Param request body CreateOrderRequest true "Order creation request"
// @Success 201 {object} SuccessResponse{data=OrderResponse} "Order created successfully"
// @Failure 400 {object} ErrorResponse "Validation error"
// @Failure 404 {object} ErrorResponse "Customer or product not found"
// @Failure 409 {object} ErrorResponse "Insufficient stock"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /api/v1/orders [post]
func (h *HTTPHandler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	output, err := h.manager.CreateOrder(c.Request.Context(), req.toInput(h.defaultCurrency))
	if err != nil {
		c.Error(err)
		return
	}

	respond(c, http.StatusCreated, toOrderResponse(output.Order))
}

// GetOrder handles GET /orders/:id
// @Summary Get an order by ID
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} SuccessResponse{data=OrderResponse}
// @Failure 404 {object} ErrorResponse "Order not found"
// @Router /api/v1/orders/{id} [get]
func (h *HTTPHandler) GetOrder(c *gin.Context) {
	output, err := h.manager.GetOrder(c.Request.Context(), application.GetOrderInput{ID: c.Param("id")})
	if err != nil {
		c.Error(err)
		return
	}

	respond(c, http.StatusOK, toOrderResponse(output.Order))
}

// GetOrderByNumber handles GET /orders/number/:number
// @Summary Get an order by its order number
// @Tags orders
// @Produce json
// @Param number path string true "Order number"
// @Success 200 {object} SuccessResponse{data=OrderResponse}
// @Failure 404 {object} ErrorResponse "Order not found"
// @Router /api/v1/orders/number/{number} [get]
func (h *HTTPHandler) GetOrderByNumber(c *gin.Context) {
	output, err := h.manager.GetOrderByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		c.Error(err)
		return
	}

	respond(c, http.StatusOK, toOrderResponse(output.Order))
}

// ListCustomerOrders handles GET /customers/:id/orders
// @Summary List a customer's orders, newest first
// @Tags orders
// @Produce json
// @Param id path string true "Customer ID"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} SuccessResponse{data=[]OrderResponse}
// @Failure 400 {object} ErrorResponse "Invalid paging parameters"
// @Router /api/v1/customers/{id}/orders [get]
func (h *HTTPHandler) ListCustomerOrders(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		c.Error(errors.NewValidation("invalid limit", nil))
		return
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		c.Error(errors.NewValidation("invalid offset", nil))
		return
	}

	orders, err := h.manager.ListCustomerOrders(c.Request.Context(), application.ListCustomerOrdersInput{
		CustomerID: c.Param("id"),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		c.Error(err)
		return
	}

	respond(c, http.StatusOK, toOrderResponses(orders))
}

// UpdateStatus handles PATCH /orders/:id/status
// @Summary Change an order's status
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param X-Actor-ID header string false "Acting user"
// @Param request body UpdateStatusRequest true "Requested status"
// @Success 200 {object} SuccessResponse{data=OrderResponse}
// @Failure 400 {object} ErrorResponse "Unknown status"
// @Failure 404 {object} ErrorResponse "Order not found"
// @Failure 409 {object} ErrorResponse "Invalid state transition"
// @Router /api/v1/orders/{id}/status [patch]
func (h *HTTPHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}
	status, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		c.Error(err)
		return
	}
	actorID, _ := actor(c)

	output, err := h.manager.UpdateStatus(c.Request.Context(), application.UpdateStatusInput{
		OrderID: c.Param("id"),
		Status:  status,
		ActorID: actorID,
		Note:    req.Note,
	})
	if err != nil {
		c.Error(err)
		return
	}

	respond(c, http.StatusOK, toOrderResponse(output.Order))
}

// ProcessPayment handles POST /orders/:id/payment
// @Summary Record a captured payment
// @Tags payments
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body PaymentRequest true "Payment details"
// @Success 200 {object} SuccessResponse{data=OrderResponse}
// @Failure 409 {object} ErrorResponse "Order already paid"
// @Router /api/v1/orders/{id}/payment [post]
func (h *HTTPHandler) ProcessPayment(c *gin.Context) {
	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	output, err := h.manager.ProcessPayment(c.Request.Context(), application.ProcessPaymentInput{
		OrderID:       c.Param("id"),
		TransactionID: req.TransactionID,
	})
	if err != nil {
		c.Error(err)
		return
	}

	respond(c, http.StatusOK, toOrderResponse(output.Order))
}

// CapturePayment handles POST /orders/:id/capture
// @Summary Capture the order total through the payment authority
// @Tags payments
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body CaptureRequest false "Payment token"
// @Success 200 {object} SuccessResponse{data=OrderResponse}
// @Failure 402 {object} ErrorResponse "Payment declined"
// @Failure 409 {object} ErrorResponse "Order already paid or capture in progress"
// @Router /api/v1/orders/{id}/capture [post]
func (h *HTTPHandler) CapturePayment(c *gin.Context) {
	var req CaptureRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(errors.NewValidation("invalid request body", err.Error()))
			return
		}
	}

	output, err := h.manager.CapturePayment(c.Request.Context(), application.CapturePaymentInput{
		OrderID: c.Param("id"),
		Token:   req.Token,
	})
	if err != nil {
		c.Error(err)
		return
	}

	respond(c, http.StatusOK, toOrderResponse(output.Order))
}

// ProcessRefund handles POST /orders/:id/refund
// @Summary Refund a paid order
// @Tags payments
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param X-Actor-ID header string false "Acting user"
// @Param request body RefundRequest true "Refund amount"
// @Success 200 {object} SuccessResponse{data=OrderResponse}
// @Failure 409 {object} ErrorResponse "Payment not completed"
// @Failure 422 {object} ErrorResponse "Refund exceeds total"
// @Router /api/v1/orders/{id}/refund [post]
func (h *HTTPHandler) ProcessRefund(c *gin.Context) {
	var req RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}
	actorID, _ := actor(c)

	output, err := h.manager.ProcessRefund(c.Request.Context(), application.ProcessRefundInput{
		OrderID: c.Param("id"),
		Amount:  req.Amount,
		ActorID: actorID,
		Note:    req.Note,
	})
	if err != nil {
		c.Error(err)
		return
	}

	respond(c, http.StatusOK, toOrderResponse(output.Order))
}

// CancelOrder handles POST /orders/:id/cancel
// @Summary Cancel a pending or confirmed order
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param X-Actor-ID header string true "Acting user"
// @Param X-Actor-Role header string false "customer, admin or system"
// @Param request body CancelRequest false "Cancellation reason"
// @Success 200 {object} SuccessResponse{data=OrderResponse}
// @Failure 403 {object} ErrorResponse "Not allowed to cancel"
// @Failure 409 {object} ErrorResponse "Invalid state transition"
// @Router /api/v1/orders/{id}/cancel [post]
func (h *HTTPHandler) CancelOrder(c *gin.Context) {
	var req CancelRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(errors.NewValidation("invalid request body", err.Error()))
			return
		}
	}
	actorID, role := actor(c)

	output, err := h.manager.CancelOrder(c.Request.Context(), application.CancelOrderInput{
		OrderID:   c.Param("id"),
		ActorID:   actorID,
		ActorRole: role,
		Reason:    req.Reason,
	})
	if err != nil {
		c.Error(err)
		return
	}

	respond(c, http.StatusOK, toOrderResponse(output.Order))
}

// AddTracking handles POST /orders/:id/tracking
// @Summary Attach a tracking number
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body TrackingRequest true "Tracking details"
// @Success 200 {object} SuccessResponse{data=OrderResponse}
// @Failure 409 {object} ErrorResponse "Order is cancelled or refunded"
// @Router /api/v1/orders/{id}/tracking [post]
func (h *HTTPHandler) AddTracking(c *gin.Context) {
	var req TrackingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}
	actorID, _ := actor(c)

	var shippedAt time.Time
	if req.ShippedAt != nil {
		shippedAt = *req.ShippedAt
	}

	output, err := h.manager.AddTracking(c.Request.Context(), application.AddTrackingInput{
		OrderID:        c.Param("id"),
		TrackingNumber: req.TrackingNumber,
		ShippedAt:      shippedAt,
		ActorID:        actorID,
	})
	if err != nil {
		c.Error(err)
		return
	}

	respond(c, http.StatusOK, toOrderResponse(output.Order))
}

// AddAdminNote handles POST /orders/:id/notes
// @Summary Append an admin note
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param X-Actor-Role header string true "Must be admin or system"
// @Param request body NoteRequest true "Note"
// @Success 200 {object} SuccessResponse{data=OrderResponse}
// @Failure 403 {object} ErrorResponse "Not an administrator"
// @Router /api/v1/orders/{id}/notes [post]
func (h *HTTPHandler) AddAdminNote(c *gin.Context) {
	actorID, role := actor(c)
	if role == domain.RoleCustomer {
		c.Error(errors.NewForbidden("only administrators may add admin notes"))
		return
	}

	var req NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	output, err := h.manager.AddAdminNote(c.Request.Context(), application.AddNoteInput{
		OrderID: c.Param("id"),
		Note:    req.Note,
		ActorID: actorID,
	})
	if err != nil {
		c.Error(err)
		return
	}

	respond(c, http.StatusOK, toOrderResponse(output.Order))
}

// ValidateCart handles GET /customers/:id/cart/validation
// @Summary Check whether a customer's cart can be checked out
// @Tags cart
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} SuccessResponse{data=CartValidationResponse}
// @Router /api/v1/customers/{id}/cart/validation [get]
func (h *HTTPHandler) ValidateCart(c *gin.Context) {
	report, err := h.validator.ValidateCartForCheckout(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	respond(c, http.StatusOK, toCartValidationResponse(report))
}

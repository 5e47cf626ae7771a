package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/semo-payment-method/internal/adapter/handler"
	"github.com/wekeepgrowing/semo-payment-method/internal/domain/entity"
	"github.com/wekeepgrowing/semo-payment-method/internal/middleware/auth"
	"github.com/wekeepgrowing/semo-payment-method/internal/usecase"
	pkgErrors "github.com/wekeepgrowing/semo-payment-method/pkg/errors"
)

type ProvisioningHandler struct {
	usecase *usecase.ProvisioningUsecase
	logger  *zap.Logger
}

func NewProvisioningHandler(usecase *usecase.ProvisioningUsecase, logger *zap.Logger) *ProvisioningHandler {
	return &ProvisioningHandler{
		usecase: usecase,
		logger:  logger,
	}
}

type provisionRequest struct {
	Name     string                 `json:"name"`
	Customer map[string]interface{} `json:"customer"`
	Card     map[string]interface{} `json:"card"`
}

type provisionResponse struct {
	Message           string `json:"message"`
	AttemptID         string `json:"attempt_id"`
	CustomerID        string `json:"customer_id"`
	PaymentMethodID   string `json:"payment_method_id"`
	SetupIntentID     string `json:"setup_intent_id,omitempty"`
	SetupIntentStatus string `json:"setup_intent_status,omitempty"`
}

type attemptResponse struct {
	ID                string    `json:"id"`
	State             string    `json:"state"`
	FailedStage       string    `json:"failed_stage,omitempty"`
	FailureKind       string    `json:"failure_kind,omitempty"`
	FailureMessage    string    `json:"failure_message,omitempty"`
	CustomerID        string    `json:"customer_id,omitempty"`
	PaymentSourceID   string    `json:"payment_source_id,omitempty"`
	SetupIntentID     string    `json:"setup_intent_id,omitempty"`
	SetupIntentStatus string    `json:"setup_intent_status,omitempty"`
	OrphanedCustomer  bool      `json:"orphaned_customer"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func toAttemptResponse(a *entity.ProvisioningAttempt) attemptResponse {
	return attemptResponse{
		ID:                a.ID,
		State:             string(a.State),
		FailedStage:       a.FailedStage,
		FailureKind:       a.FailureKind,
		FailureMessage:    a.FailureMessage,
		CustomerID:        a.CustomerID,
		PaymentSourceID:   a.PaymentSourceID,
		SetupIntentID:     a.SetupIntentID,
		SetupIntentStatus: a.SetupIntentStatus,
		OrphanedCustomer:  a.OrphanedCustomer(),
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}

// RegisterRoutes mounts the gateway routes on a JWT-protected group
func (h *ProvisioningHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/payment-methods", h.Provision)
	g.GET("/provisioning-attempts/orphaned", h.ListOrphanedCustomers)
	g.GET("/provisioning-attempts/:id", h.GetAttempt)
}

// Provision handles POST /api/v1/payment-methods
func (h *ProvisioningHandler) Provision(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil || user == nil {
		return err // RequireAuth already returns the JSON error response
	}

	var req provisionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	h.logger.Info("Provisioning payment method via HTTP",
		zap.String("user_id", user.UserID),
		zap.String("name", req.Name))

	result, err := h.usecase.Provision(c.Request().Context(), &entity.ProvisioningRequest{
		Name:     req.Name,
		Customer: req.Customer,
		Card:     req.Card,
	})
	if err != nil {
		appErr := handler.ToAppError(err)
		pkgErrors.LogError(h.logger, appErr, "Provisioning failed",
			zap.String("user_id", user.UserID))
		return pkgErrors.ToHTTPError(appErr)
	}

	return c.JSON(http.StatusCreated, provisionResponse{
		Message:           fmt.Sprintf("Hello %s", req.Name),
		AttemptID:         result.AttemptID,
		CustomerID:        result.CustomerID,
		PaymentMethodID:   result.PaymentSourceID,
		SetupIntentID:     result.Confirmation.ID,
		SetupIntentStatus: result.Confirmation.Status,
	})
}

// GetAttempt handles GET /api/v1/provisioning-attempts/:id
func (h *ProvisioningHandler) GetAttempt(c echo.Context) error {
	attempt, err := h.usecase.GetAttempt(c.Request().Context(), c.Param("id"))
	if err != nil {
		return pkgErrors.ToHTTPError(handler.ToAppError(err))
	}
	return c.JSON(http.StatusOK, toAttemptResponse(attempt))
}

// ListOrphanedCustomers handles GET /api/v1/provisioning-attempts/orphaned?limit=N
func (h *ProvisioningHandler) ListOrphanedCustomers(c echo.Context) error {
	limit := 50
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = n
	}

	attempts, err := h.usecase.ListOrphanedCustomers(c.Request().Context(), limit)
	if err != nil {
		return pkgErrors.ToHTTPError(handler.ToAppError(err))
	}

	out := make([]attemptResponse, 0, len(attempts))
	for _, a := range attempts {
		out = append(out, toAttemptResponse(a))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"attempts": out,
		"count":    len(out),
	})
}

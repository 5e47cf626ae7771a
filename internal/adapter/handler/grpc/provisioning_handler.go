package grpc

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	pb "github.com/wekeepgrowing/semo-payment-method/proto/paymentmethod/v1"

	"github.com/wekeepgrowing/semo-payment-method/internal/adapter/handler"
	"github.com/wekeepgrowing/semo-payment-method/internal/domain/entity"
	"github.com/wekeepgrowing/semo-payment-method/internal/usecase"
	pkgErrors "github.com/wekeepgrowing/semo-payment-method/pkg/errors"
)

// ProvisioningHandler serves PaymentMethodService over gRPC
type ProvisioningHandler struct {
	pb.UnimplementedPaymentMethodServiceServer
	usecase *usecase.ProvisioningUsecase
	logger  *zap.Logger
}

// NewProvisioningHandler creates a new ProvisioningHandler
func NewProvisioningHandler(usecase *usecase.ProvisioningUsecase, logger *zap.Logger) *ProvisioningHandler {
	return &ProvisioningHandler{
		usecase: usecase,
		logger:  logger,
	}
}

// ProvisionPaymentMethod runs the provisioning pipeline for one request.
// Failures are returned as gRPC statuses whose message names the failing stage.
func (h *ProvisioningHandler) ProvisionPaymentMethod(ctx context.Context, req *pb.ProvisionPaymentMethodRequest) (*pb.ProvisionPaymentMethodReply, error) {
	if req == nil {
		req = &pb.ProvisionPaymentMethodRequest{}
	}

	result, err := h.usecase.Provision(ctx, &entity.ProvisioningRequest{
		Name:     req.Name,
		Customer: req.Customer,
		Card:     req.Card,
	})
	if err != nil {
		appErr := handler.ToAppError(err)
		pkgErrors.LogError(h.logger, appErr, "ProvisionPaymentMethod failed")
		return nil, pkgErrors.ToGRPCError(appErr)
	}

	return &pb.ProvisionPaymentMethodReply{
		Message:           fmt.Sprintf("Hello %s", req.Name),
		CustomerID:        result.CustomerID,
		PaymentMethodID:   result.PaymentSourceID,
		SetupIntentID:     result.Confirmation.ID,
		SetupIntentStatus: result.Confirmation.Status,
	}, nil
}

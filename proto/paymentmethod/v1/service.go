package paymentmethodv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	ServiceName                      = "paymentmethod.v1.PaymentMethodService"
	ProvisionPaymentMethodFullMethod = "/" + ServiceName + "/ProvisionPaymentMethod"
)

// PaymentMethodServiceClient is the client API for PaymentMethodService.
type PaymentMethodServiceClient interface {
	ProvisionPaymentMethod(ctx context.Context, in *ProvisionPaymentMethodRequest, opts ...grpc.CallOption) (*ProvisionPaymentMethodReply, error)
}

type paymentMethodServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewPaymentMethodServiceClient(cc grpc.ClientConnInterface) PaymentMethodServiceClient {
	return &paymentMethodServiceClient{cc}
}

func (c *paymentMethodServiceClient) ProvisionPaymentMethod(ctx context.Context, in *ProvisionPaymentMethodRequest, opts ...grpc.CallOption) (*ProvisionPaymentMethodReply, error) {
	out := new(ProvisionPaymentMethodReply)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, ProvisionPaymentMethodFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// PaymentMethodServiceServer is the server API for PaymentMethodService.
type PaymentMethodServiceServer interface {
	ProvisionPaymentMethod(context.Context, *ProvisionPaymentMethodRequest) (*ProvisionPaymentMethodReply, error)
}

// UnimplementedPaymentMethodServiceServer can be embedded for forward compatibility.
type UnimplementedPaymentMethodServiceServer struct{}

func (UnimplementedPaymentMethodServiceServer) ProvisionPaymentMethod(context.Context, *ProvisionPaymentMethodRequest) (*ProvisionPaymentMethodReply, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ProvisionPaymentMethod not implemented")
}

func RegisterPaymentMethodServiceServer(s grpc.ServiceRegistrar, srv PaymentMethodServiceServer) {
	s.RegisterService(&PaymentMethodService_ServiceDesc, srv)
}

func _PaymentMethodService_ProvisionPaymentMethod_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ProvisionPaymentMethodRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PaymentMethodServiceServer).ProvisionPaymentMethod(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ProvisionPaymentMethodFullMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PaymentMethodServiceServer).ProvisionPaymentMethod(ctx, req.(*ProvisionPaymentMethodRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// PaymentMethodService_ServiceDesc is the grpc.ServiceDesc for PaymentMethodService.
var PaymentMethodService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PaymentMethodServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ProvisionPaymentMethod",
			Handler:    _PaymentMethodService_ProvisionPaymentMethod_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "paymentmethod/v1/payment_method.proto",
}

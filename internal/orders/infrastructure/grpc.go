package infrastructure

import (
	"context"
	"encoding/json"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"go-orders/internal/orders/application"
	"go-orders/internal/orders/domain"
	"go-orders/pkg/errors"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "orders.v1.OrderService"

// gRPC metadata keys carrying the actor
const (
	ActorIDMetadata   = "x-actor-id"
	ActorRoleMetadata = "x-actor-role"
)

// OrderServiceServer is the server API for the order service. Messages are
// google.protobuf.Struct values holding the same JSON documents as the HTTP API.
type OrderServiceServer interface {
	CreateOrder(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetOrder(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetOrderByNumber(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateStatus(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ProcessPayment(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ProcessRefund(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CancelOrder(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AddTracking(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ValidateCart(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// OrderIDRequest identifies an order
type OrderIDRequest struct {
	ID string `json:"id"`
}

// OrderNumberRequest identifies an order by number
type OrderNumberRequest struct {
	OrderNumber string `json:"order_number"`
}

// CustomerRequest identifies a customer
type CustomerRequest struct {
	CustomerID string `json:"customer_id"`
}

// GRPCUpdateStatusRequest is UpdateStatusRequest addressed to an order
type GRPCUpdateStatusRequest struct {
	ID string `json:"id"`
	UpdateStatusRequest
}

// GRPCPaymentRequest is PaymentRequest addressed to an order
type GRPCPaymentRequest struct {
	ID string `json:"id"`
	PaymentRequest
}

// GRPCRefundRequest is RefundRequest addressed to an order
type GRPCRefundRequest struct {
	ID string `json:"id"`
	RefundRequest
}

// GRPCCancelRequest is CancelRequest addressed to an order
type GRPCCancelRequest struct {
	ID string `json:"id"`
	CancelRequest
}

// GRPCTrackingRequest is TrackingRequest addressed to an order
type GRPCTrackingRequest struct {
	ID string `json:"id"`
	TrackingRequest
}

// GRPCServer implements OrderServiceServer
type GRPCServer struct {
	manager         *application.OrderManager
	validator       *application.CartValidator
	defaultCurrency string
}

// NewGRPCServer creates a new gRPC server
func NewGRPCServer(manager *application.OrderManager, validator *application.CartValidator, defaultCurrency string) *GRPCServer {
	return &GRPCServer{
		manager:         manager,
		validator:       validator,
		defaultCurrency: defaultCurrency,
	}
}

// RegisterOrderServiceServer registers srv on s
func RegisterOrderServiceServer(s grpc.ServiceRegistrar, srv OrderServiceServer) {
	s.RegisterService(&OrderServiceDesc, srv)
}

// CreateOrder implements OrderServiceServer.CreateOrder
func (s *GRPCServer) CreateOrder(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req CreateOrderRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	output, err := s.manager.CreateOrder(ctx, req.toInput(s.defaultCurrency))
	if err != nil {
		return nil, err
	}
	return encode(toOrderResponse(output.Order))
}

// GetOrder implements OrderServiceServer.GetOrder
func (s *GRPCServer) GetOrder(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req OrderIDRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	output, err := s.manager.GetOrder(ctx, application.GetOrderInput{ID: req.ID})
	if err != nil {
		return nil, err
	}
	return encode(toOrderResponse(output.Order))
}

// GetOrderByNumber implements OrderServiceServer.GetOrderByNumber
func (s *GRPCServer) GetOrderByNumber(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req OrderNumberRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	output, err := s.manager.GetOrderByNumber(ctx, req.OrderNumber)
	if err != nil {
		return nil, err
	}
	return encode(toOrderResponse(output.Order))
}

// UpdateStatus implements OrderServiceServer.UpdateStatus
func (s *GRPCServer) UpdateStatus(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req GRPCUpdateStatusRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	status, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		return nil, err
	}
	actorID, _ := actorFromMetadata(ctx)

	output, err := s.manager.UpdateStatus(ctx, application.UpdateStatusInput{
		OrderID: req.ID,
		Status:  status,
		ActorID: actorID,
		Note:    req.Note,
	})
	if err != nil {
		return nil, err
	}
	return encode(toOrderResponse(output.Order))
}

// ProcessPayment implements OrderServiceServer.ProcessPayment
func (s *GRPCServer) ProcessPayment(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req GRPCPaymentRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	output, err := s.manager.ProcessPayment(ctx, application.ProcessPaymentInput{
		OrderID:       req.ID,
		TransactionID: req.TransactionID,
	})
	if err != nil {
		return nil, err
	}
	return encode(toOrderResponse(output.Order))
}

// ProcessRefund implements OrderServiceServer.ProcessRefund
func (s *GRPCServer) ProcessRefund(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req GRPCRefundRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	actorID, _ := actorFromMetadata(ctx)

	output, err := s.manager.ProcessRefund(ctx, application.ProcessRefundInput{
		OrderID: req.ID,
		Amount:  req.Amount,
		ActorID: actorID,
		Note:    req.Note,
	})
	if err != nil {
		return nil, err
	}
	return encode(toOrderResponse(output.Order))
}

// CancelOrder implements OrderServiceServer.CancelOrder
func (s *GRPCServer) CancelOrder(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req GRPCCancelRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	actorID, role := actorFromMetadata(ctx)

	output, err := s.manager.CancelOrder(ctx, application.CancelOrderInput{
		OrderID:   req.ID,
		ActorID:   actorID,
		ActorRole: role,
		Reason:    req.Reason,
	})
	if err != nil {
		return nil, err
	}
	return encode(toOrderResponse(output.Order))
}

// AddTracking implements OrderServiceServer.AddTracking
func (s *GRPCServer) AddTracking(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req GRPCTrackingRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	actorID, _ := actorFromMetadata(ctx)

	var shippedAt time.Time
	if req.ShippedAt != nil {
		shippedAt = *req.ShippedAt
	}

	output, err := s.manager.AddTracking(ctx, application.AddTrackingInput{
		OrderID:        req.ID,
		TrackingNumber: req.TrackingNumber,
		ShippedAt:      shippedAt,
		ActorID:        actorID,
	})
	if err != nil {
		return nil, err
	}
	return encode(toOrderResponse(output.Order))
}

// ValidateCart implements OrderServiceServer.ValidateCart
func (s *GRPCServer) ValidateCart(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req CustomerRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	report, err := s.validator.ValidateCartForCheckout(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	return encode(toCartValidationResponse(report))
}

func actorFromMetadata(ctx context.Context) (string, domain.ActorRole) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", domain.RoleCustomer
	}
	var actorID string
	if values := md.Get(ActorIDMetadata); len(values) > 0 {
		actorID = values[0]
	}
	role := domain.RoleCustomer
	if values := md.Get(ActorRoleMetadata); len(values) > 0 {
		switch r := domain.ActorRole(values[0]); r {
		case domain.RoleAdmin, domain.RoleSystem:
			role = r
		}
	}
	return actorID, role
}

func decode(in *structpb.Struct, out interface{}) error {
	data, err := protojson.Marshal(in)
	if err != nil {
		return errors.NewValidation("invalid request message", err.Error())
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.NewValidation("invalid request message", err.Error())
	}
	return nil
}

func encode(v interface{}) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.NewInternal("failed to encode response", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, errors.NewInternal("failed to encode response", err)
	}
	return out, nil
}

type unaryMethod func(srv OrderServiceServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(name string, call unaryMethod) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(OrderServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + ServiceName + "/" + name,
			}
			return interceptor(ctx, in, info, func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(OrderServiceServer), ctx, req.(*structpb.Struct))
			})
		},
	}
}

// OrderServiceDesc is the grpc.ServiceDesc for the order service
var OrderServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*OrderServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler("CreateOrder", OrderServiceServer.CreateOrder),
		unaryHandler("GetOrder", OrderServiceServer.GetOrder),
		unaryHandler("GetOrderByNumber", OrderServiceServer.GetOrderByNumber),
		unaryHandler("UpdateStatus", OrderServiceServer.UpdateStatus),
		unaryHandler("ProcessPayment", OrderServiceServer.ProcessPayment),
		unaryHandler("ProcessRefund", OrderServiceServer.ProcessRefund),
		unaryHandler("CancelOrder", OrderServiceServer.CancelOrder),
		unaryHandler("AddTracking", OrderServiceServer.AddTracking),
		unaryHandler("ValidateCart", OrderServiceServer.ValidateCart),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "orders/v1/orders.proto",
}

// OrderServiceClient calls the order service over a client connection
type OrderServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewOrderServiceClient creates a client on cc
func NewOrderServiceClient(cc grpc.ClientConnInterface) *OrderServiceClient {
	return &OrderServiceClient{cc: cc}
}

// Call invokes method with req encoded as a Struct and decodes the reply into resp
func (c *OrderServiceClient) Call(ctx context.Context, method string, req, resp interface{}, opts ...grpc.CallOption) error {
	in, err := encode(req)
	if err != nil {
		return err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return err
	}
	if resp == nil {
		return nil
	}
	return decode(out, resp)
}

// GetOrder fetches an order by ID
func (c *OrderServiceClient) GetOrder(ctx context.Context, id string) (*OrderResponse, error) {
	var resp OrderResponse
	if err := c.Call(ctx, "GetOrder", OrderIDRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateOrder places an order
func (c *OrderServiceClient) CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	var resp OrderResponse
	if err := c.Call(ctx, "CreateOrder", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

package infrastructure

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/goleak"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/test/bufconn"

	"go-orders/pkg/errors"
	pkggrpc "go-orders/pkg/grpc"
	"go-orders/pkg/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type GRPCServerSuite struct {
	suite.Suite

	env      *testEnv
	listener *bufconn.Listener
	server   *grpc.Server
	conn     *grpc.ClientConn
	client   *OrderServiceClient
}

func TestGRPCServerSuite(t *testing.T) {
	suite.Run(t, new(GRPCServerSuite))
}

func (s *GRPCServerSuite) SetupTest() {
	s.env = newTestEnv(s.T())
	s.listener = bufconn.Listen(1 << 20)

	server, err := pkggrpc.NewServer(logger.NewNop(), pkggrpc.ServerOptions{Timeout: 5 * time.Second})
	s.Require().NoError(err)
	RegisterOrderServiceServer(server, NewGRPCServer(s.env.manager, s.env.validator, "USD"))
	s.server = server

	go func() {
		_ = server.Serve(s.listener)
	}()

	conn, err := pkggrpc.Dial("bufnet", pkggrpc.ClientOptions{Timeout: 5 * time.Second},
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return s.listener.DialContext(ctx)
		}),
	)
	s.Require().NoError(err)
	s.conn = conn
	s.client = NewOrderServiceClient(conn)
}

func (s *GRPCServerSuite) TearDownTest() {
	_ = s.conn.Close()
	s.server.Stop()
}

func (s *GRPCServerSuite) createRequest(productID string, quantity int) CreateOrderRequest {
	return CreateOrderRequest{
		CustomerID:    "cust-1",
		Items:         []OrderItemRequest{{ProductID: productID, Quantity: quantity}},
		PaymentMethod: "paypal",
		ShippingAddress: AddressDTO{
			Street:  "1 Main St",
			City:    "Springfield",
			State:   "IL",
			Zip:     "62701",
			Country: "US",
		},
		TaxRate:      decimal.RequireFromString("0.1"),
		ShippingCost: decimal.NewFromInt(5),
	}
}

func (s *GRPCServerSuite) withActor(id, role string) context.Context {
	return metadata.AppendToOutgoingContext(context.Background(),
		ActorIDMetadata, id,
		ActorRoleMetadata, role,
	)
}

func (s *GRPCServerSuite) TestCreateAndGetOrder() {
	ctx := context.Background()

	created, err := s.client.CreateOrder(ctx, s.createRequest("P1", 2))
	s.Require().NoError(err)
	s.Equal("27.00", created.Total)
	s.Equal("pending", created.Status)
	s.Equal(8, s.env.inventory.Stock("P1"))

	fetched, err := s.client.GetOrder(ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(created.OrderNumber, fetched.OrderNumber)

	var byNumber OrderResponse
	s.Require().NoError(s.client.Call(ctx, "GetOrderByNumber", OrderNumberRequest{OrderNumber: created.OrderNumber}, &byNumber))
	s.Equal(created.ID, byNumber.ID)
}

func (s *GRPCServerSuite) TestErrorCodesSurviveTransport() {
	ctx := context.Background()

	_, err := s.client.GetOrder(ctx, "missing")
	s.Require().Error(err)
	s.Equal(errors.CodeNotFound, errors.As(err).Code)

	_, err = s.client.CreateOrder(ctx, s.createRequest("P2", 4))
	s.Require().Error(err)
	appErr := errors.As(err)
	s.Require().NotNil(appErr)
	s.Equal(errors.CodeInsufficientStock, appErr.Code)
	s.Equal(1, s.env.inventory.Stock("P2"))
}

func (s *GRPCServerSuite) TestLifecycle() {
	created, err := s.client.CreateOrder(context.Background(), s.createRequest("P1", 1))
	s.Require().NoError(err)
	admin := s.withActor("admin-1", "admin")

	var order OrderResponse
	s.Require().NoError(s.client.Call(admin, "ProcessPayment",
		GRPCPaymentRequest{ID: created.ID, PaymentRequest: PaymentRequest{TransactionID: "txn-1"}}, &order))
	s.Equal("confirmed", order.Status)

	err = s.client.Call(admin, "ProcessPayment",
		GRPCPaymentRequest{ID: created.ID, PaymentRequest: PaymentRequest{TransactionID: "txn-2"}}, &order)
	s.Equal(errors.CodeAlreadyPaid, errors.As(err).Code)

	s.Require().NoError(s.client.Call(admin, "UpdateStatus",
		GRPCUpdateStatusRequest{ID: created.ID, UpdateStatusRequest: UpdateStatusRequest{Status: "processing"}}, &order))
	s.Equal("processing", order.Status)

	s.Require().NoError(s.client.Call(admin, "AddTracking",
		GRPCTrackingRequest{ID: created.ID, TrackingRequest: TrackingRequest{TrackingNumber: "1Z999"}}, &order))
	s.Equal("shipped", order.Status)

	s.Require().NoError(s.client.Call(admin, "UpdateStatus",
		GRPCUpdateStatusRequest{ID: created.ID, UpdateStatusRequest: UpdateStatusRequest{Status: "delivered"}}, &order))

	err = s.client.Call(admin, "UpdateStatus",
		GRPCUpdateStatusRequest{ID: created.ID, UpdateStatusRequest: UpdateStatusRequest{Status: "shipped"}}, &order)
	s.Equal(errors.CodeInvalidStateTransition, errors.As(err).Code)
}

func (s *GRPCServerSuite) TestCancelUsesMetadataActor() {
	created, err := s.client.CreateOrder(context.Background(), s.createRequest("P1", 4))
	s.Require().NoError(err)

	err = s.client.Call(s.withActor("cust-2", "customer"), "CancelOrder", GRPCCancelRequest{ID: created.ID}, nil)
	s.Equal(errors.CodeForbidden, errors.As(err).Code)
	s.Equal(6, s.env.inventory.Stock("P1"))

	var order OrderResponse
	s.Require().NoError(s.client.Call(s.withActor("cust-1", "customer"), "CancelOrder",
		GRPCCancelRequest{ID: created.ID, CancelRequest: CancelRequest{Reason: "duplicate"}}, &order))
	s.Equal("cancelled", order.Status)
	s.Equal(10, s.env.inventory.Stock("P1"))
}

func (s *GRPCServerSuite) TestRefund() {
	created, err := s.client.CreateOrder(context.Background(), s.createRequest("P1", 1))
	s.Require().NoError(err)
	admin := s.withActor("admin-1", "admin")

	err = s.client.Call(admin, "ProcessRefund",
		GRPCRefundRequest{ID: created.ID, RefundRequest: RefundRequest{Amount: decimal.NewFromInt(5)}}, nil)
	s.Equal(errors.CodePaymentNotCompleted, errors.As(err).Code)

	s.Require().NoError(s.client.Call(admin, "ProcessPayment",
		GRPCPaymentRequest{ID: created.ID, PaymentRequest: PaymentRequest{TransactionID: "txn-1"}}, nil))

	var order OrderResponse
	s.Require().NoError(s.client.Call(admin, "ProcessRefund",
		GRPCRefundRequest{ID: created.ID, RefundRequest: RefundRequest{Amount: decimal.RequireFromString("16.00")}}, &order))
	s.Equal("refunded", order.Status)
	s.Equal("16.00", order.Payment.RefundAmount)
	s.Equal(10, s.env.inventory.Stock("P1"))
}

func (s *GRPCServerSuite) TestValidateCart() {
	ctx := context.Background()
	s.Require().NoError(s.env.carts.SetItem(ctx, "cust-1", "P1", 3))

	var report CartValidationResponse
	s.Require().NoError(s.client.Call(ctx, "ValidateCart", CustomerRequest{CustomerID: "cust-1"}, &report))

	s.True(report.IsValid)
	s.Equal("30.00", report.Subtotal)
	s.Len(report.Items, 1)
}

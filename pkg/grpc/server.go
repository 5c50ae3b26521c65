package grpc

import (
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"

	"go-orders/pkg/logger"
	"go-orders/pkg/tls"
)

// ServerOptions configures NewServer
type ServerOptions struct {
	Timeout  time.Duration
	MTLS     bool
	CertFile string
	KeyFile  string
	CAFile   string
}

// NewServer builds a gRPC server with the standard interceptor chain and optional mTLS
func NewServer(log *logger.Logger, opts ServerOptions) (*grpc.Server, error) {
	serverOpts := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(UnaryServerInterceptor(log, opts.Timeout)),
	}

	if opts.MTLS {
		tlsConfig, err := tls.ServerConfig(opts.CertFile, opts.KeyFile, opts.CAFile, true)
		if err != nil {
			return nil, err
		}
		serverOpts = append(serverOpts, grpc.Creds(credentials.NewTLS(tlsConfig)))
		log.Info("gRPC mTLS enabled")
	}

	return grpc.NewServer(serverOpts...), nil
}

package grpc

import (
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	"go-orders/pkg/tls"
)

// ClientOptions configures Dial
type ClientOptions struct {
	Timeout  time.Duration
	MTLS     bool
	CertFile string
	KeyFile  string
	CAFile   string
}

// Dial opens a client connection with trace propagation and AppError mapping.
// Extra dial options are appended after the defaults.
func Dial(addr string, opts ClientOptions, extra ...grpc.DialOption) (*grpc.ClientConn, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithUnaryInterceptor(UnaryClientInterceptor(opts.Timeout)),
	}

	if opts.MTLS {
		tlsConfig, err := tls.ClientConfig(opts.CertFile, opts.KeyFile, opts.CAFile)
		if err != nil {
			return nil, err
		}
		dialOpts = append(dialOpts, grpc.WithTransportCredentials(credentials.NewTLS(tlsConfig)))
	} else {
		dialOpts = append(dialOpts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}

	return grpc.Dial(addr, append(dialOpts, extra...)...)
}

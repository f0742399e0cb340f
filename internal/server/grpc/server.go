// Package grpc runs the gRPC side of the server. It carries the standard
// grpc.health.v1 service, whose status follows the reachability of the
// storage backend.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/passvault/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is reported next to the overall ("") status.
const ServiceName = "passvault.Vault"

const defaultProbeInterval = 15 * time.Second

// Pinger reports whether the storage backend answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

type GRPCServer struct {
	address  string
	logger   logging.Logger
	store    Pinger
	health   *health.Server
	interval time.Duration
}

func NewGRPCServer(a string, l logging.Logger, store Pinger) *GRPCServer {
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		store:    store,
		health:   health.NewServer(),
		interval: defaultProbeInterval,
	}
}

// probe pings the store once and publishes the result.
func (s *GRPCServer) probe(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING
	if err := s.store.Ping(ctx); err != nil {
		s.logger.Warn(ctx, "storage ping failed", "error", err)
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

func (s *GRPCServer) watch(ctx context.Context) {
	t := time.NewTicker(s.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.probe(ctx)
		}
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

func (s *GRPCServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor))
	healthpb.RegisterHealthServer(srv, s.health)

	s.probe(ctx)
	go s.watch(ctx)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	return srv.Serve(listen)
}

// Package grpc serves the operational health endpoint.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/issuetracker/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type GRPCServer struct {
	address string
	db      Pinger
	health  *health.Server
	logger  logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, db Pinger) *GRPCServer {
	return &GRPCServer{
		address: a,
		db:      db,
		health:  health.NewServer(),
		logger:  l.With("module", "grpc_server"),
	}
}

// Run serves grpc.health.v1.Health until ctx is cancelled. The overall
// status turns SERVING once the database answers a ping.
func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor))
	healthpb.RegisterHealthServer(srv, s.health)

	s.health.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn(ctx, "database not reachable, reporting NOT_SERVING", "error", err)
	} else {
		s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}

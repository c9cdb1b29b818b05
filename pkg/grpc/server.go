// Package grpc serves the standard grpc.health.v1 service so orchestrators
// can probe readiness over gRPC. The reported status follows a readiness
// check (normally a database ping).
//
//	srv, err := grpc.Start(config.GRPCPort(), database.Ping)
//	defer grpc.Stop(srv)
package grpc

import (
	"context"
	"fmt"
	"net"
	"runtime/debug"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/shashiranjanraj/mockshop/pkg/logger"
	"github.com/shashiranjanraj/mockshop/pkg/metrics"
)

// Checker reports whether the service can take traffic.
type Checker func(ctx context.Context) error

func recoveryInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("grpc: panic recovered",
				"method", info.FullMethod,
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
			err = status.Errorf(codes.Internal, "internal server error")
		}
	}()
	return handler(ctx, req)
}

func observeInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	code := status.Code(err)

	metrics.GRPCRequests.WithLabelValues(info.FullMethod, code.String()).Inc()
	logger.Debug("grpc: request",
		"method", info.FullMethod,
		"duration_ms", time.Since(start).Milliseconds(),
		"code", code.String(),
	)
	return resp, err
}

// HealthServer answers health checks from a Checker.
type HealthServer struct {
	grpc_health_v1.UnimplementedHealthServer
	check   Checker
	timeout time.Duration
}

func NewHealthServer(check Checker) *HealthServer {
	return &HealthServer{check: check, timeout: 2 * time.Second}
}

func (h *HealthServer) serving(ctx context.Context) grpc_health_v1.HealthCheckResponse_ServingStatus {
	if h.check == nil {
		return grpc_health_v1.HealthCheckResponse_SERVING
	}
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	if err := h.check(ctx); err != nil {
		logger.WithCtx(ctx).Warn("grpc: health check failed", "error", err)
		return grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	return grpc_health_v1.HealthCheckResponse_SERVING
}

func (h *HealthServer) Check(ctx context.Context, _ *grpc_health_v1.HealthCheckRequest) (*grpc_health_v1.HealthCheckResponse, error) {
	return &grpc_health_v1.HealthCheckResponse{Status: h.serving(ctx)}, nil
}

// Watch sends the current status once.
func (h *HealthServer) Watch(_ *grpc_health_v1.HealthCheckRequest, stream grpc_health_v1.Health_WatchServer) error {
	return stream.Send(&grpc_health_v1.HealthCheckResponse{Status: h.serving(stream.Context())})
}

// NewServer builds the server with recovery and metrics interceptors and
// the health and reflection services registered.
func NewServer(check Checker) *grpc.Server {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(recoveryInterceptor, observeInterceptor),
		grpc.MaxRecvMsgSize(4<<20),
		grpc.MaxSendMsgSize(4<<20),
	)
	grpc_health_v1.RegisterHealthServer(srv, NewHealthServer(check))
	reflection.Register(srv)
	return srv
}

// Start listens on port and serves in the background.
func Start(port string, check Checker) (*grpc.Server, error) {
	addr := ":" + port
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("grpc: listen on %s: %w", addr, err)
	}
	srv := NewServer(check)
	logger.Info("grpc: server starting", "addr", addr)
	go func() {
		if err := srv.Serve(lis); err != nil {
			logger.Error("grpc: serve", "error", err)
		}
	}()
	return srv, nil
}

// Stop drains in-flight RPCs and stops the server.
func Stop(srv *grpc.Server) {
	if srv == nil {
		return
	}
	logger.Info("grpc: server shutting down")
	srv.GracefulStop()
}

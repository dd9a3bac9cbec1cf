package transport

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const ServiceName = "catalog.CatalogService"

// Probe reports whether the storage behind the service is reachable.
type Probe func(ctx context.Context) error

// HealthServer is the gRPC server exposing the standard health service.
type HealthServer struct {
	Server *grpc.Server
	health *health.Server
	probe  Probe
}

func NewHealthServer(probe Probe) *HealthServer {
	srv := grpc.NewServer(grpc.UnaryInterceptor(logInterceptor))
	h := health.NewServer()
	healthpb.RegisterHealthServer(srv, h)
	reflection.Register(srv)

	s := &HealthServer{Server: srv, health: h, probe: probe}
	s.setStatus(healthpb.HealthCheckResponse_SERVING)
	return s
}

// Watch re-probes storage on every tick and updates the serving status until ctx is done.
func (s *HealthServer) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Check(ctx)
		}
	}
}

func (s *HealthServer) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	if s.probe != nil {
		if err := s.probe(ctx); err != nil {
			log.WithError(err).Warn("storage probe failed")
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	s.setStatus(status)
	return status
}

func (s *HealthServer) Shutdown() {
	s.health.Shutdown()
	s.Server.GracefulStop()
}

func (s *HealthServer) setStatus(status healthpb.HealthCheckResponse_ServingStatus) {
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

func logInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	resp, err := handler(ctx, req)
	entry := log.WithField("method", info.FullMethod)
	if err != nil {
		entry.WithError(err).Warn("grpc call failed")
	} else {
		entry.Debug("grpc call")
	}
	return resp, err
}

package http

import (
	"context"

	http_router "github.com/lintang-b-s/fmpartitioner/pkg/http/router"
	"github.com/lintang-b-s/fmpartitioner/pkg/http/router/controllers"
	http_server "github.com/lintang-b-s/fmpartitioner/pkg/http/server"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Server struct {
	Log *zap.Logger
	g   *errgroup.Group
}

func NewServer(log *zap.Logger) *Server {
	return &Server{Log: log}
}

// Use starts the api in the background. Wait returns once ctx is cancelled or the server fails.
func (s *Server) Use(
	ctx context.Context,
	log *zap.Logger,

	useRateLimit bool,
	partitionService controllers.PartitionService,
) (*Server, error) {
	config := http_server.Config{
		Port:            viper.GetInt("API_PORT"),
		Timeout:         viper.GetDuration("API_TIMEOUT"),
		UseRateLimit:    useRateLimit,
		MaxRequestBytes: viper.GetInt64("MAX_REQUEST_BYTES"),
	}

	server := http_router.NewAPI(log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(gctx, config, partitionService)
	})
	s.g = g

	return s, nil
}

func (s *Server) Wait() error {
	if s.g == nil {
		return nil
	}
	return s.g.Wait()
}

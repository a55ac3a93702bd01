// launching the server, storage, kafka, redis
package appServer

import (
	"context"
	"crypto/tls"
	"errors"
	"log"
	"net"

	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ds124wfegd/sizefit/config"
	"github.com/ds124wfegd/sizefit/internal/compress"
	"github.com/ds124wfegd/sizefit/internal/database"
	"github.com/ds124wfegd/sizefit/internal/pkg/kafka"
	"github.com/ds124wfegd/sizefit/internal/pkg/processor"
	"github.com/ds124wfegd/sizefit/internal/pkg/storage"
	"github.com/ds124wfegd/sizefit/internal/service"
	"github.com/ds124wfegd/sizefit/internal/transport"
	"github.com/gin-gonic/gin"

	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.Idle_timeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},           // ban on outdate TLS certificate
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags), // os.Stderr can be replaced with ElsasticSearch in the feature
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// NewHandler builds the service graph and the router for cfg. The returned
// func closes the long lived connections.
func NewHandler(cfg *config.Config) (http.Handler, func()) {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	fileStorage := storage.NewFileStorage(cfg.Storage.Root)
	jobRepo, closeRepo := database.NewJobRepositoryFromConfig(context.Background(), cfg.Redis, fileStorage)

	producer := kafka.NewMockProducer()
	if cfg.Kafka.Enabled {
		producer = kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}

	imgProcessor := processor.NewImageProcessor()
	gate := compress.NewGate(cfg.App.QualityThreshold)
	compressionService := service.NewCompressionService(fileStorage, jobRepo, producer, imgProcessor, gate)
	handler := transport.NewCompressionHandler(compressionService)

	router := transport.InitRoutes(handler, transport.RouterOptions{
		RequestTimeout: cfg.Server.RequestTimeout,
		MaxUploadMB:    cfg.App.MaxUploadMB,
	})

	return router, func() {
		if err := producer.Close(); err != nil {
			logrus.Errorf("error occured on closing kafka producer: %s", err.Error())
		}
		closeRepo()
	}
}

func NewServer(cfg *config.Config) {

	handler, closeDeps := NewHandler(cfg)
	defer closeDeps()

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, handler); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.WithFields(logrus.Fields{
		"host":         cfg.Server.Host,
		"port":         cfg.Server.Port,
		"storage_root": cfg.Storage.Root,
		"threshold":    cfg.App.QualityThreshold,
	}).Print("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}

}

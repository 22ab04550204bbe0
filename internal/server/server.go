package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"

	"repurposer/internal/adapter/utils"
	"repurposer/internal/config"
	"repurposer/internal/middleware"
	"repurposer/pkg/logger_i"
)

var (
	server  *http.Server
	_logger *logger_i.Logger
)

type ShutdownParams struct {
	GracefulShutdown chan os.Signal
	StopExecution    chan bool
	WorkerStop       chan bool
	Group            *sync.WaitGroup
	CloseServices    context.CancelFunc
}

func CreateServer(listenAddr string) {
	_logger = logger_i.NewLogger("Server")

	r := utils.GetRouter()

	r.Router.Get("/health", middleware.GetHandler)

	r.Router.Post("/content/upload", middleware.UploadHandler)
	r.Router.Post("/content/generate", middleware.GenerateHandler)
	r.Router.Get("/status/{id}", middleware.GetStatusHandler)

	r.Router.Get("/content/sources", middleware.ListSourcesHandler)
	r.Router.Get("/content/sources/{id}", middleware.GetSourceHandler)
	r.Router.Get("/content/generated/{job_id}", middleware.GetGeneratedHandler)

	r.Router.Post("/content/review", middleware.ReviewHandler)
	r.Router.Get("/content/reviews/{content_id}", middleware.ListReviewsHandler)
	r.Router.Post("/content/schedule", middleware.ScheduleHandler)

	r.Router.Post("/search/semantic", middleware.SearchHandler)
	r.Router.Get("/analytics/overview", middleware.AnalyticsHandler)

	server = &http.Server{
		Addr:         listenAddr,
		Handler:      r.Router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	_logger.Info("Server is listening at", "address", listenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		_logger.Error("Server crashed", "error :", err.Error(), "addr", listenAddr)
	}
}

func ShutDownHandler(shutdownParams ShutdownParams) {
	state := <-shutdownParams.GracefulShutdown
	println("\nServer is shutting down", state)

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
	defer cancel()

	done := make(chan struct{})

	go func() {
		server.SetKeepAlivesEnabled(false)

		if err := server.Shutdown(ctx); err != nil {
			_logger.Error("Could not shutdown gracefully: %s", err)
		}

		//close workers
		close(shutdownParams.WorkerStop)
		shutdownParams.Group.Wait()
		shutdownParams.CloseServices()
		close(shutdownParams.StopExecution)
		close(done)
	}()

	select {
	case <-done:
		_logger.Info("Gracefully is shutting down")
	case <-ctx.Done():
		_logger.Info("Force Shut down")
		os.Exit(1)
	}
}

package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/talentsage/internal/assistant"
	"github.com/spigell/talentsage/internal/httpapi"
	"github.com/spigell/talentsage/internal/logger"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the recruitment API and the assistant over HTTP",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default is http.addr from the config)")
	viper.BindPFlag("http.addr", serveCmd.Flags().Lookup("addr"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	// Persistence writes must outlive the signal context.
	a, err := newApplication(context.Background(), config, logger)
	if err != nil {
		logger.Fatal("building the application", zap.Error(err))
	}
	defer a.Close()

	if !viper.GetBool("debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	router := httpapi.NewRouter(httpapi.Deps{
		Store:        a.store,
		Interpreter:  a.interpreter,
		Conversation: assistant.NewConversation(),
		Logger:       logger,
		Gatherer:     a.registry,
	})

	addr := ":8080"
	if config.HTTP != nil && config.HTTP.Addr != "" {
		addr = config.HTTP.Addr
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting the talentsage api", zap.String("addr", addr), zap.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("serving http", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down", zap.String("reason", "signal received"))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"mediashelf/media-api/app"
	"mediashelf/media-api/config"
	"mediashelf/media-api/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

func main() {
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.MakeLogger("info"); err != nil {
		panic(err)
	}

	err := config.Setup()
	if err != nil {
		panic(err)
	}

	if err := app.MakeLogger(viper.GetString("app.log_level")); err != nil {
		panic(err)
	}
	defer zap.L().Sync()

	router, err := app.NewRouter(ctx)
	if err != nil {
		panic(err)
	}

	var handler http.Handler = router
	if viper.GetBool("tracing.enabled") {
		shutdown, err := tracing.Init(ctx, "mediashelf-api", viper.GetString("tracing.endpoint"))
		if err != nil {
			panic(err)
		}
		defer shutdown(context.Background())

		handler = otelhttp.NewHandler(router, "mediashelf-api")
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", viper.GetInt("host.port")),
		Handler:      handler,
		ReadTimeout:  viper.GetDuration("host.read_timeout"),
		WriteTimeout: viper.GetDuration("host.write_timeout"),
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			zap.L().Error("Server shutdown failed", zap.Error(err))
		}
	}()

	zap.L().Info("Server starting", zap.String("addr", server.Addr))

	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		panic(err)
	}
}

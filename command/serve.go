package command

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cafelist/cache"
	"cafelist/database"
	"cafelist/route"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()
	defer database.Close(db)

	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else {
		log.Info("running in debug mode")
	}

	if cfg.Admin.Username != "" && cfg.Admin.Password != "" {
		if err := database.SeedAdmin(db, cfg.Admin.Username, cfg.Admin.Password); err != nil {
			return err
		}
		log.Info("admin account ready", zap.String("username", cfg.Admin.Username))
	} else {
		log.Warn("ADMIN_USERNAME/ADMIN_PASSWORD not set; use create-admin to enable the admin area")
	}

	var kv cache.KVStore = cache.NopStore{}
	if cfg.Redis.Addr != "" {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn("redis unavailable, listing cache disabled", zap.Error(err))
		} else {
			defer client.Close()
			kv = cache.NewRedisKVStore(client)
			log.Info("listing cache enabled", zap.String("redis", cfg.Redis.Addr))
		}
	}

	router := route.NewRouter(route.Deps{Config: cfg, DB: db, KV: kv, Logger: log})
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

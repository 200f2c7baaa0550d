package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/jisho/internal/backend"
	"github.com/ziadkadry99/jisho/internal/config"
	"github.com/ziadkadry99/jisho/internal/db"
	"github.com/ziadkadry99/jisho/internal/examples"
	"github.com/ziadkadry99/jisho/internal/gateway"
	"github.com/ziadkadry99/jisho/internal/kv"
	"github.com/ziadkadry99/jisho/internal/recent"
	"github.com/ziadkadry99/jisho/internal/server"
	"github.com/ziadkadry99/jisho/internal/sitemap"
	"github.com/ziadkadry99/jisho/internal/web"
)

var serverPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the dictionary web front-end",
	Long:  `Starts the jisho web server: dictionary pages, search, example generation, sitemap and the /api proxy to the backend.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = serverPort
		}

		logger, err := newLogger()
		if err != nil {
			return err
		}
		defer logger.Sync()

		// Open database.
		dbPath := filepath.Join(cfg.DataDir, db.FileName)
		database, err := db.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		client := newBackendClient(cfg, logger)
		defer client.Close()

		srv := server.New(server.Config{
			Port:     cfg.Port,
			AllowAll: cfg.CORSAllowAll,
			Logger:   logger,
		})

		// Register all feature routes.
		if err := registerAllRoutes(srv, cfg, database, client, logger); err != nil {
			return err
		}

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			logger.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		logger.Info("jisho server starting",
			zap.String("version", Version),
			zap.Int("port", cfg.Port),
			zap.String("backend", cfg.BackendOrigin()),
			zap.String("database", database.Path()),
		)

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

// registerAllRoutes wires up the proxy and the front-end routes.
func registerAllRoutes(srv *server.Server, cfg *config.Config, database *db.DB, client *backend.Client, logger *zap.Logger) error {
	r := srv.Router()

	// API proxy
	proxy, err := gateway.New(cfg.BackendOrigin(), logger)
	if err != nil {
		return fmt.Errorf("creating backend proxy: %w", err)
	}
	proxy.RegisterRoutes(r)
	logger.Info("proxying backend API",
		zap.String("prefix", gateway.PathPrefix),
		zap.String("target", proxy.Target()),
	)

	// Pages, fragments, sitemap and sockets
	recentStore := recent.NewStore(kv.NewStore(database), cfg.RecentLimit, logger)
	builder := sitemap.NewBuilder(client, cfg.SiteURL,
		sitemap.WithRevalidate(cfg.SitemapRevalidate),
		sitemap.WithLogger(logger),
	)
	h, err := web.New(web.Options{
		Backend:   client,
		Generator: examples.NewRateLimitedGenerator(client, cfg.GenerateRPM),
		Sitemap:   builder,
		Recent:    recentStore,
		Debounce:  cfg.SearchDebounce,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("creating web handler: %w", err)
	}
	h.RegisterRoutes(r)

	return nil
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serverCmd)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/socialite/internal/config"
	ctrl "github.com/dropDatabas3/socialite/internal/http/controllers/socialite"
	"github.com/dropDatabas3/socialite/internal/http/router"
	svc "github.com/dropDatabas3/socialite/internal/http/services/socialite"
	"github.com/dropDatabas3/socialite/internal/metrics"
	"github.com/dropDatabas3/socialite/internal/observability/logger"
	"github.com/dropDatabas3/socialite/internal/security/secretbox"
	"github.com/dropDatabas3/socialite/internal/session"
	"github.com/dropDatabas3/socialite/internal/socialite"
	"github.com/dropDatabas3/socialite/internal/store"
	storepg "github.com/dropDatabas3/socialite/internal/store/pg"
	migrations "github.com/dropDatabas3/socialite/migrations/postgres"
)

func main() {
	// Cargar .env si existe; el entorno del sistema tiene prioridad después.
	_ = godotenv.Load()

	var cfgPath string

	root := &cobra.Command{
		Use:   "socialite",
		Short: "Servidor de social login OAuth 2.0 (Google, Facebook, GitHub, Twitter, LinkedIn)",
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", envOr("SOCIALITE_CONFIG", "config.yaml"), "ruta del archivo de configuración YAML")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cfgPath)
		},
	}

	providersCmd := &cobra.Command{
		Use:   "providers",
		Short: "Lista los providers configurados",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cfgPath)
			if err != nil {
				return err
			}
			for name, pc := range cfg.ProviderConfigs() {
				fmt.Printf("%s\tredirect=%s\tscopes=%v\n", name, pc.RedirectURL, pc.Scopes)
			}
			return nil
		},
	}

	encCmd := &cobra.Command{
		Use:   "enc [plaintext]",
		Short: "Cifra un valor con la master key (SOCIALITE_MASTER_KEY)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := secretbox.Encrypt(args[0])
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones embebidas sobre la base configurada",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cfgPath)
			if err != nil {
				return err
			}
			if cfg.Storage.Driver != "postgres" {
				return errors.New("migrate requiere storage.driver=postgres")
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			pgStore, err := storepg.New(ctx, cfg.Storage.DSN, storepg.Config{})
			if err != nil {
				return fmt.Errorf("postgres: %w", err)
			}
			defer pgStore.Close()
			if err := pgStore.Migrate(ctx, migrations.FS); err != nil {
				return err
			}
			fmt.Println("migraciones aplicadas")
			return nil
		},
	}

	decCmd := &cobra.Command{
		Use:   "dec [ciphertext]",
		Short: "Descifra un valor con la master key (SOCIALITE_MASTER_KEY)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := secretbox.Decrypt(args[0])
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	}

	root.AddCommand(serveCmd, providersCmd, migrateCmd, encCmd, decCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Sin archivo: defaults + entorno alcanzan para correr.
			return config.Load("")
		}
		return nil, err
	}
	return cfg, nil
}

func serve(cfgPath string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.Log.Level,
		ServiceName: "socialite",
	})
	defer logger.Sync()
	log := logger.L()

	sessCfg := session.Config{
		Kind:       cfg.Session.Kind,
		DefaultTTL: cfg.SessionTTL(),
	}
	sessCfg.Redis.Addr = cfg.Session.Redis.Addr
	sessCfg.Redis.DB = cfg.Session.Redis.DB
	sessCfg.Redis.Prefix = cfg.Session.Redis.Prefix
	sessStore := session.NewStore(sessCfg)

	deps := socialite.Deps{}
	if cfg.Socialite.Stateless && cfg.Socialite.StateSecret != "" {
		deps.StateSigner = socialite.NewJWTStateSigner([]byte(cfg.Socialite.StateSecret))
	}

	manager := socialite.NewManager(socialite.ManagerConfig{
		Providers: cfg.ProviderConfigs(),
		Stateless: cfg.Socialite.Stateless,
		Deps:      deps,
	})

	var accounts store.Store
	if cfg.Storage.Driver == "postgres" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		pgStore, err := storepg.New(ctx, cfg.Storage.DSN, storepg.Config{
			MaxConns: int32(cfg.Storage.Postgres.MaxOpenConns),
			MinConns: int32(cfg.Storage.Postgres.MaxIdleConns),
		})
		cancel()
		if err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		defer pgStore.Close()
		accounts = pgStore
	}

	if cfg.Socialite.EncryptTokens && !secretbox.Ready() {
		return errors.New("encrypt_tokens habilitado pero SOCIALITE_MASTER_KEY no está configurada")
	}

	if cfg.Metrics.Enabled {
		if err := metrics.Register(nil); err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
	}

	service := svc.NewService(svc.Deps{
		Manager:       manager,
		Store:         accounts,
		EncryptTokens: cfg.Socialite.EncryptTokens,
		AutoRefresh:   cfg.Socialite.AutoRefreshTokens,
	})

	sessions := session.NewManager(sessStore, cfg.Session.CookieName, cfg.SessionTTL(), cfg.Session.Secure)

	handler := router.New(router.Deps{
		Controllers: ctrl.NewControllers(ctrl.Deps{
			Service:              service,
			Sessions:             sessions,
			AllowedRedirectHosts: cfg.Socialite.AllowedRedirectDomains,
		}),
		MetricsEnabled: cfg.Metrics.Enabled,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", logger.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info("shutting down", logger.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-logr/zapr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xavmarc/meetup-agent/internal/config"
	"github.com/xavmarc/meetup-agent/internal/fulfillment"
	"github.com/xavmarc/meetup-agent/internal/httpserver"
	"github.com/xavmarc/meetup-agent/internal/i18n"
	"github.com/xavmarc/meetup-agent/internal/meetup"
	"github.com/xavmarc/meetup-agent/internal/metrics"
	"github.com/xavmarc/meetup-agent/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "meetup-agent",
	Short: "Fulfillment webhook for the Meetup conversational agent",
	RunE:  run,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Get().String())
	},
}

func init() {
	config.Init()

	rootCmd.Flags().String("bind-addr", ":8080", "Address the webhook server listens on")
	rootCmd.Flags().String("meetup-base-url", meetup.DefaultBaseURL, "Meetup API base URL")
	rootCmd.Flags().Duration("client-timeout", meetup.DefaultTimeout, "Timeout for outbound Meetup API calls")
	rootCmd.Flags().BoolP("verbose", "v", false, "Enable debug logging")

	viper.BindPFlag("bind_addr", rootCmd.Flags().Lookup("bind-addr"))           //nolint:errcheck
	viper.BindPFlag("meetup_base_url", rootCmd.Flags().Lookup("meetup-base-url")) //nolint:errcheck
	viper.BindPFlag("client_timeout", rootCmd.Flags().Lookup("client-timeout")) //nolint:errcheck
	viper.BindPFlag("verbose", rootCmd.Flags().Lookup("verbose"))               //nolint:errcheck

	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Get()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	zapConfig := zap.NewProductionConfig()
	if cfg.Verbose {
		zapConfig.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	zapLog, err := zapConfig.Build()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer zapLog.Sync() //nolint:errcheck
	log := zapr.NewLogger(zapLog)

	log.Info("Starting meetup-agent",
		"version", version.Version,
		"git_commit", version.GitCommit,
		"build_date", version.BuildDate,
	)
	if cfg.APIKey() == "" {
		log.Info("No Meetup API key configured, signed endpoints will fail", "env", config.APIKeyEnv)
	}

	registry := prometheus.NewRegistry()
	metrics.Register(registry)

	locales, err := i18n.Load()
	if err != nil {
		return fmt.Errorf("loading locales: %w", err)
	}

	client, err := meetup.NewClient(cfg.MeetupBaseURL, cfg.APIKey, meetup.WithTimeout(cfg.ClientTimeout))
	if err != nil {
		return fmt.Errorf("building meetup client: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := httpserver.NewHTTPServer(httpserver.ServerConfig{
		BindAddr: cfg.BindAddr,
		Intents:  fulfillment.NewRouter(client, locales),
		Locales:  locales,
		Logger:   log,
		Registry: registry,
	})
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting http server: %w", err)
	}

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Stop(shutdownCtx)
}

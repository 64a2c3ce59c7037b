package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cybrdelic/repotronium/internal/insight"
	"github.com/cybrdelic/repotronium/internal/report"
	"github.com/cybrdelic/repotronium/internal/server"
	"github.com/cybrdelic/repotronium/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the repository analysis API server",
	Long: `Starts the HTTP API server. Analysis endpoints work without LLM
credentials; insight report endpoints come up only when the configured
provider is reachable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if servePort > 0 {
			cfg.Port = servePort
		}

		// Report generation degrades to unavailable instead of blocking
		// the structural analysis endpoints.
		var generator *insight.Generator
		if g, err := createGeneratorFromConfig(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: insight reports disabled: %v\n", err)
		} else {
			generator = g
		}

		pipe := createPipelineFromConfig(cfg, generator)

		dbPath := filepath.Join(cfg.DataDir, "repotronium.db")
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer st.Close()

		renderer, err := report.NewRenderer()
		if err != nil {
			return fmt.Errorf("creating renderer: %w", err)
		}

		var gen server.Insighter
		if generator != nil {
			gen = generator
		}
		srv := server.New(server.Config{
			Port:     cfg.Port,
			AllowAll: cfg.AllowAllOrigins,
		}, pipe, gen, st, renderer)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "repotronium server v%s starting on port %d\n", Version, cfg.Port)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", dbPath)
		fmt.Fprintf(os.Stderr, "  Provider: %s (%s)\n", cfg.Provider, cfg.Model)

		return srv.Start()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

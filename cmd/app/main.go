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

	"orderflow/cmd"
	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/kernel"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const shutdownTimeout = 10 * time.Second

var config cmd.Config

var rootCmd = &cobra.Command{
	Use:           "orderflow",
	Short:         "Order workflow engine for the commercial, admin and workshop departments",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		var err error
		config, err = cmd.LoadConfig(viper.GetViper())
		return err
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the overdue delivery scan",
	RunE: func(c *cobra.Command, _ []string) error {
		return serve(c.Context())
	},
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Walk a sample order through every department on an in-memory store",
	RunE: func(c *cobra.Command, _ []string) error {
		config.Store = cmd.StoreMemory
		root, err := newRoot()
		if err != nil {
			return err
		}
		defer root.Close()
		return cmd.RunDemo(c.Context(), root, c.OutOrStdout())
	},
}

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete an artifact and its history",
	RunE: func(c *cobra.Command, _ []string) error {
		raw, _ := c.Flags().GetString("id")
		id, err := kernel.UUIDFromString(raw)
		if err != nil {
			return fmt.Errorf("--id: %w", err)
		}
		command, err := commands.NewDeleteArtifactCommand(id)
		if err != nil {
			return err
		}

		root, err := newRoot()
		if err != nil {
			return err
		}
		defer root.Close()
		if err = root.CreateDeleteArtifactCommandHandler().Handle(c.Context(), command); err != nil {
			return err
		}
		fmt.Fprintf(c.OutOrStdout(), "artifact %s deleted\n", id)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("store", cmd.StoreMemory, "artifact store: memory or postgres")
	rootCmd.PersistentFlags().String("log-level", "info", "debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-format", cmd.LogFormatText, "text or json")
	_ = viper.BindPFlag("STORE", rootCmd.PersistentFlags().Lookup("store"))
	_ = viper.BindPFlag("LOG_LEVEL", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("LOG_FORMAT", rootCmd.PersistentFlags().Lookup("log-format"))

	serveCmd.Flags().String("port", "8080", "HTTP port")
	_ = viper.BindPFlag("HTTP_PORT", serveCmd.Flags().Lookup("port"))

	purgeCmd.Flags().String("id", "", "artifact id")
	_ = purgeCmd.MarkFlagRequired("id")

	rootCmd.AddCommand(serveCmd, demoCmd, purgeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRoot() (*cmd.CompositionRoot, error) {
	logger, err := cmd.NewLogger(config, os.Stderr)
	if err != nil {
		return nil, err
	}
	return cmd.NewCompositionRoot(config, logger)
}

func serve(ctx context.Context) error {
	root, err := newRoot()
	if err != nil {
		log.Fatalf("failed to build application: %v", err)
	}
	defer root.Close()

	jobManager := root.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	e, err := root.CreateHTTPServer()
	if err != nil {
		log.Fatalf("failed to build http server: %v", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", config.HTTPPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server stopped: %v", err)
		}
	}()
	log.Infof("listening on :%s", config.HTTPPort)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

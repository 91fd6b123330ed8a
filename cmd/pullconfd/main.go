// Command pullconfd is the Pullconf catalog server (spec.md component
// A-H): it compiles per-client catalogs from a TOML resource tree and
// serves them to agents over an authenticated HTTPS API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pullconf/pullconf/internal/api"
	"github.com/pullconf/pullconf/internal/assets"
	"github.com/pullconf/pullconf/internal/catalog"
	"github.com/pullconf/pullconf/internal/history"
	"github.com/pullconf/pullconf/internal/logging"
	"github.com/pullconf/pullconf/internal/reload"
	"github.com/pullconf/pullconf/internal/serverconfig"
)

var (
	flagResourceDir string
	flagListenOn    string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagResourceDir, "resource-dir", "", "override PULLCONF_RESOURCE_DIR")
	rootCmd.PersistentFlags().StringVar(&flagListenOn, "listen-on", "", "override PULLCONF_LISTEN_ON")
	rootCmd.AddCommand(validateCmd)
}

var rootCmd = &cobra.Command{
	Use:   "pullconfd",
	Short: "Pullconf catalog compiler and API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := serverconfig.FromEnv()
		if err != nil {
			return err
		}
		applyFlagOverrides(&cfg)

		log := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: "pullconfd"})

		store := catalog.NewStore()
		controller := reload.New(cfg.ResourceDir, store, log)

		boot := controller.LoadOnce()
		if !boot.Success {
			for _, f := range boot.Failures {
				log.Error("initial catalog compilation failed", "error", f)
			}
			return fmt.Errorf("initial catalog load failed for %d client(s), refusing to start", len(boot.Failures))
		}
		log.Info("initial catalog loaded", "clients", boot.Clients)

		var hist *history.Store
		if err := os.MkdirAll(cfg.StateDir, 0o755); err != nil {
			log.Warn("reload history unavailable", "error", err)
		}
		hist, err = history.Open(filepath.Join(cfg.StateDir, "reloads.db"))
		if err != nil {
			log.Warn("reload history unavailable", "error", err)
			hist = nil
		} else {
			defer hist.Close()
		}

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		assetRoot := newAssetRoot(cfg.AssetDir)
		opts := api.Options{
			Store:             store,
			Assets:            assetRoot,
			Log:               log,
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
			WriteTimeout:      cfg.WriteTimeout,
		}
		router, metrics := api.NewRouter(opts)

		controller.OnResult(func(r reload.Result) {
			outcome := "success"
			if !r.Success {
				outcome = "failure"
			}
			metrics.ObserveReload(outcome)
			if r.Success {
				metrics.SetCatalogClients(r.Clients)
			}
			if hist == nil {
				return
			}
			failures := make([]string, len(r.Failures))
			for i, f := range r.Failures {
				failures[i] = f.Error()
			}
			if err := hist.Record(history.Entry{At: r.At, Success: r.Success, Clients: r.Clients, Failures: failures}); err != nil {
				log.Warn("failed to record reload history", "error", err)
			}
		})

		go func() {
			if err := controller.Run(ctx, cfg.WatchResourceDir); err != nil {
				log.Error("reload controller stopped", "error", err)
			}
		}()

		log.Info("listening", "addr", cfg.ListenOn)
		return api.Serve(ctx, router, cfg.ListenOn, cfg.TLSCertificate, cfg.TLSPrivateKey, opts)
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Compile the resource tree once and report per-client results without starting the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		resourceDir := flagResourceDir
		if resourceDir == "" {
			resourceDir = os.Getenv("PULLCONF_RESOURCE_DIR")
		}
		if resourceDir == "" {
			resourceDir = "/etc/pullconf/resources"
		}

		catalogs, err := catalog.Compile(resourceDir)
		if err != nil {
			if cerr, ok := err.(*catalog.CompileError); ok {
				for _, f := range cerr.Failures {
					fmt.Fprintln(os.Stderr, f)
				}
			} else {
				fmt.Fprintln(os.Stderr, err)
			}
			return fmt.Errorf("validation failed")
		}
		fmt.Printf("%d client(s) compiled successfully\n", len(catalogs))
		return nil
	},
}

func newAssetRoot(dir string) *assets.Root {
	return assets.New(dir)
}

func applyFlagOverrides(cfg *serverconfig.Config) {
	if flagResourceDir != "" {
		cfg.ResourceDir = flagResourceDir
	}
	if flagListenOn != "" {
		cfg.ListenOn = flagListenOn
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

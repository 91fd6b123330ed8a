// Command pullconf-agent is the Pullconf client agent (spec.md component
// I): it fetches its host's catalog over HTTPS and converges the local
// system toward it.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pullconf/pullconf/internal/agentclient"
	"github.com/pullconf/pullconf/internal/agentconfig"
	"github.com/pullconf/pullconf/internal/applier"
	"github.com/pullconf/pullconf/internal/assets"
	"github.com/pullconf/pullconf/internal/logging"
	"github.com/pullconf/pullconf/internal/scheduler"
	"github.com/pullconf/pullconf/internal/wire"
)

var flagOnce bool

func init() {
	applyCmd.Flags().BoolVar(&flagOnce, "once", false, "run a single convergence cycle and exit")
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogPrintCmd)
}

var rootCmd = &cobra.Command{
	Use:   "pullconf-agent",
	Short: "Pullconf client convergence agent",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLoop()
	},
}

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Run convergence cycles",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagOnce {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return runCycle(ctx, cfg, log)
		}
		return runLoop()
	},
}

// runLoop runs convergence cycles on cfg.Interval (jittered) until
// interrupted (SPEC_FULL.md §4, step 4).
func runLoop() error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	for {
		if err := runCycle(ctx, cfg, log); err != nil {
			log.Error("convergence cycle failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(agentconfig.Jittered(cfg.Interval)):
		}
	}
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the fetched catalog without applying it",
}

var catalogPrintCmd = &cobra.Command{
	Use:   "print",
	Short: "Fetch and pretty-print the raw catalog JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := agentconfig.FromEnv()
		if err != nil {
			return err
		}
		client, err := agentclient.New(cfg.ServerURL, cfg.APIKey, cfg.ServerCA)
		if err != nil {
			return err
		}
		cat, err := client.FetchCatalog(cfg.Hostname)
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(cat, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func setup() (agentconfig.Config, *logging.Logger, error) {
	cfg, err := agentconfig.FromEnv()
	if err != nil {
		return agentconfig.Config{}, nil, err
	}
	log := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: "scheduler"})
	return cfg, log, nil
}

// runCycle fetches the catalog, caches any file-source assets locally,
// and runs one scheduler pass over it.
func runCycle(ctx context.Context, cfg agentconfig.Config, log *logging.Logger) error {
	client, err := agentclient.New(cfg.ServerURL, cfg.APIKey, cfg.ServerCA)
	if err != nil {
		return err
	}

	cat, err := client.FetchCatalog(cfg.Hostname)
	if err != nil {
		return fmt.Errorf("fetching catalog: %w", err)
	}
	log.Info("catalog fetched", "resources", len(cat.Resources))

	cacheDir, err := os.MkdirTemp("", "pullconf-assets-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(cacheDir)

	if err := cacheAssets(client, cacheDir, cat); err != nil {
		return fmt.Errorf("caching assets: %w", err)
	}

	dispatcher := applier.NewDispatcher(assets.New(cacheDir))
	report := scheduler.Run(ctx, cat, func(ctx context.Context, r wire.Resource) (bool, error) {
		status, err := dispatcher.Apply(ctx, r)
		if err != nil {
			log.Warn("apply failed", "kind", r.ID.Kind, "key", r.ID.Key, "error", err)
			return false, err
		}
		if status == applier.Applied {
			log.Info("applied", "kind", r.ID.Kind, "key", r.ID.Key)
		}
		return status == applier.Applied, nil
	})

	var failed, skipped int
	for _, o := range report.Outcomes {
		switch o.State {
		case scheduler.Failed:
			failed++
		case scheduler.Skipped:
			skipped++
		}
	}
	log.Info("convergence cycle complete", "applied_or_unchanged", len(report.Order)-failed, "failed", failed, "skipped", skipped)
	if failed > 0 {
		return fmt.Errorf("%d resource(s) failed to apply", failed)
	}
	return nil
}

// cacheAssets downloads every declared file source into cacheDir so the
// applier's local assets.Root can serve them without an HTTP round trip
// per file during apply.
func cacheAssets(client *agentclient.Client, cacheDir string, cat *wire.Catalog) error {
	for _, r := range cat.Resources {
		if r.ID.Kind != "file" {
			continue
		}
		src, ok := r.Attributes["source"].(string)
		if !ok || src == "" {
			continue
		}
		body, err := client.FetchAsset(src)
		if err != nil {
			return fmt.Errorf("fetching asset %q: %w", src, err)
		}
		dest := filepath.Join(cacheDir, src)
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			body.Close()
			return err
		}
		f, err := os.Create(dest)
		if err != nil {
			body.Close()
			return err
		}
		_, copyErr := f.ReadFrom(body)
		body.Close()
		f.Close()
		if copyErr != nil {
			return copyErr
		}
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/kickshopping/kickshop/pkg/config"
)

// configWatchCmd represents the config watch command
var configWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the config file and print the configuration on change",
	Long: `Watch the config file and print the effective configuration whenever
it changes.

Useful while editing the config file to see which attributes the server
would pick up. The running server does not reload configuration; restart
it to apply changes.

Example:
  kickshopctl config watch`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := watchConfiguration(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to watch configuration: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	configCmd.AddCommand(configWatchCmd)
}

func watchConfiguration() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	path := cfg.ConfigFilePath()
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("config file %s does not exist; create it or set KICKSHOP_CONFIG_PATH", path)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("failed to watch file %s: %w", path, err)
	}

	fmt.Printf("Watching %s for configuration changes\n", path)
	fmt.Print(cfg.FormatText())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				fmt.Printf("[%s] Config file modified, reloading...\n", time.Now().Format(time.RFC3339))

				reloaded, err := config.Load()
				if err != nil {
					fmt.Fprintf(os.Stderr, "Error reloading configuration: %v\n", err)
					continue
				}
				if err := reloaded.Validate(); err != nil {
					fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
					continue
				}
				fmt.Print(reloaded.FormatText())
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
		case <-sigChan:
			fmt.Println("\nShutting down...")
			return nil
		}
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/anushreedas1/EmailCat/internal/api"
	"github.com/anushreedas1/EmailCat/internal/config"
	"github.com/anushreedas1/EmailCat/internal/db"
	"github.com/anushreedas1/EmailCat/internal/recovery"
	"github.com/anushreedas1/EmailCat/internal/services"
	"github.com/anushreedas1/EmailCat/internal/tui"
	"github.com/anushreedas1/EmailCat/internal/version"
)

func main() {
	// Essential command line flags only (GNU-style double dashes)
	configPathFlag := flag.String("config", "", "Path to JSON configuration file (default: ~/.config/emailcat/config.json)")
	backendFlag := flag.String("backend", "", "Backend base URL (overrides config)")
	setupFlag := flag.Bool("setup", false, "Create a default configuration file")
	versionFlag := flag.Bool("version", false, "Show version information and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s\n\n", version.GetVersionString())
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Examples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                # Run with default configuration\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --setup                        # Write a default config file\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --backend http://host:8000     # Point at a different backend\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --config custom.json           # Use custom configuration\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  EMAILCAT_CONFIG   Override default config file path\n")
		fmt.Fprintf(os.Stderr, "  EMAILCAT_BACKEND  Override backend base URL\n")
	}

	flag.Parse()

	if *versionFlag {
		fmt.Println(version.GetDetailedVersionString())
		return
	}

	if *setupFlag {
		runSetup()
		return
	}

	configPath := getConfigPath(*configPathFlag)
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Printf("Warning: could not load configuration: %v", err)
		cfg = config.DefaultConfig()
	}

	if *backendFlag != "" {
		cfg.API.BaseURL = *backendFlag
	} else if env := os.Getenv("EMAILCAT_BACKEND"); env != "" {
		cfg.API.BaseURL = env
	}

	client := api.NewClient(cfg.API.BaseURL, cfg.GetAPITimeout())

	var logger *log.Logger
	if cfg.LogFile != "" {
		if f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600); err == nil {
			defer func() { _ = f.Close() }()
			logger = log.New(f, "", log.LstdFlags|log.Lmicroseconds)
		}
	}

	ctx := context.Background()

	// Local snapshot store. The client still runs without it; edits just
	// lose their crash safety.
	var kv recovery.KeyValue
	if cfg.LocalStore.Enabled {
		store, err := db.Open(ctx, cfg.StorePath())
		if err != nil {
			log.Printf("Warning: could not open local store: %v", err)
		} else {
			defer func() { _ = store.Close() }()
			kv = db.NewKVStore(store)
		}
	}
	recoveryStore := recovery.NewStore(kv, logger)

	retryOpts := api.RetryOptions{
		MaxRetries:   cfg.Retry.MaxRetries,
		InitialDelay: time.Duration(cfg.Retry.InitialDelayMs) * time.Millisecond,
		MaxDelay:     time.Duration(cfg.Retry.MaxDelayMs) * time.Millisecond,
	}

	draftService := services.NewDraftService(client, recoveryStore, retryOpts)

	// Drop local snapshots nobody can recover anymore
	if purged := draftService.PurgeStale(ctx); purged > 0 && logger != nil {
		logger.Printf("purged %d stale draft snapshots", purged)
	}

	theme := loadTheme(cfg)

	app := tui.NewApp(cfg, tui.Services{
		Email:  services.NewEmailService(client),
		Draft:  draftService,
		Prompt: services.NewPromptService(client),
		Agent:  services.NewAgentService(client),
	}, theme)

	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}
}

// loadTheme resolves the configured theme, falling back to the built-in
// palette
func loadTheme(cfg *config.Config) *config.ColorsConfig {
	if cfg.Theme == "" {
		return config.DefaultColors()
	}

	filename := cfg.Theme
	if filepath.Ext(filename) == "" {
		filename += ".yaml"
	}

	loader := config.NewThemeLoader(filepath.Join(config.DefaultConfigDir(), "themes"))
	theme, err := loader.LoadThemeFromFile(filename)
	if err != nil {
		return config.DefaultColors()
	}
	return theme
}

// getConfigPath returns the configuration file path using the following priority:
// 1. CLI flag
// 2. Environment variable EMAILCAT_CONFIG
// 3. Default path ~/.config/emailcat/config.json
func getConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}

	if envPath := os.Getenv("EMAILCAT_CONFIG"); envPath != "" {
		return expandPath(envPath)
	}

	return config.DefaultConfigPath()
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if path == "~" {
		return home
	}

	return filepath.Join(home, path[2:])
}

// runSetup writes a default configuration file if none exists
func runSetup() {
	fmt.Println("📧 EmailCat Setup")
	fmt.Println("=================")
	fmt.Println()

	configPath := config.DefaultConfigPath()
	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("✅ Configuration file already exists: %s\n", configPath)
		return
	}

	cfg := config.DefaultConfig()
	if err := cfg.SaveConfig(configPath); err != nil {
		fmt.Printf("❌ Failed to create config file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Created configuration file: %s\n", configPath)
	fmt.Println()
	fmt.Println("🚀 Setup complete! Start the backend and run:")
	fmt.Printf("   %s\n", os.Args[0])
	fmt.Println()
	fmt.Println("💡 Edit the config file to point at a remote backend or tune retries.")
}

package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/jamsplayer/jams/internal/config"
	"github.com/jamsplayer/jams/internal/domain"
	"github.com/jamsplayer/jams/internal/download"
	"github.com/jamsplayer/jams/internal/log"
	"github.com/jamsplayer/jams/internal/network"
	"github.com/jamsplayer/jams/internal/player"
	"github.com/jamsplayer/jams/internal/playlist"
	"github.com/jamsplayer/jams/internal/resolve"
	"github.com/jamsplayer/jams/internal/search"
	"github.com/jamsplayer/jams/internal/session"
	"github.com/jamsplayer/jams/internal/settings"
	"github.com/jamsplayer/jams/internal/store"
	"github.com/jamsplayer/jams/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.Parse()

	if showVersion {
		fmt.Printf("jams %s\n", Version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting jams", "version", Version)

	db, err := store.Open(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer db.Close()

	prefs, err := settings.NewService(db, logger)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	if !prefs.Current().UserAgreed {
		if err := runSetupFlow(cfg, prefs); err != nil {
			return err
		}
	}

	// Fill in the download folder from config on first run
	if prefs.Current().DownloadFolder == "" {
		if _, err := prefs.Update(func(s *settings.Settings) {
			s.DownloadFolder = cfg.Storage.DownloadFolder
		}); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := network.NewClient(cfg.Node.URL, logger)
	if err := client.Connect(ctx, prefs.TestnetPeerAddress()); err != nil {
		// The watcher reports connectivity once the node comes up
		logger.Warn("initial node connect failed", "error", err)
	}

	watcher := network.NewWatcher(client, 0, logger)
	go watcher.Run(ctx)

	repo := playlist.NewRepository(db, logger)
	if err := ensureGeneralPlaylist(repo); err != nil {
		return fmt.Errorf("failed to prepare playlists: %w", err)
	}

	downloads := download.NewService(client, logger)
	searchSvc := search.NewService(repo, logger)
	sessionStore := session.NewStore(db, logger)

	media, err := player.NewMPV(cfg.Player.Command, cfg.Player.Args, cfg.Player.Socket, logger)
	if err != nil {
		return fmt.Errorf("failed to start media player: %w", err)
	}

	strategy, err := resolve.NewStrategy(cfg.Player.URLStrategy, cfg.Player.LoopbackPort)
	if err != nil {
		return fmt.Errorf("invalid player url strategy: %w", err)
	}

	core := player.New(media, strategy, logger)
	defer core.Close()

	model := tui.New(tui.Services{
		Playlists: repo,
		Downloads: downloads,
		Search:    searchSvc,
		Player:    core,
		Session:   sessionStore,
		Network:   watcher.Events(),
		Logger:    logger,
	})

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// ensureGeneralPlaylist creates the default playlist on first launch
func ensureGeneralPlaylist(repo *playlist.Repository) error {
	_, err := repo.Create(domain.NewPlaylist(domain.GeneralPlaylistTitle))
	if err != nil && !errors.Is(err, domain.ErrDuplicateTitle) {
		return err
	}
	return nil
}

// runSetupFlow handles the initial setup on first launch
func runSetupFlow(cfg *config.Config, prefs *settings.Service) error {
	fmt.Println()
	fmt.Println("Welcome to Jams!")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	// Pick the network
	selected := "mainnet"
	peerAddress := ""
	fmt.Print("Network [mainnet/testnet] (default mainnet): ")
	input, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	if strings.TrimSpace(strings.ToLower(input)) == "testnet" {
		selected = "testnet"
		fmt.Print("Testnet peer address: ")
		input, err = reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		peerAddress = strings.TrimSpace(input)
	}

	// Node URL, defaulting to the configured one
	fmt.Printf("Node URL (default %s): ", cfg.Node.URL)
	input, err = reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	if url := strings.TrimSpace(input); url != "" {
		cfg.Node.URL = url
	}

	// Account secret is read without echo and handed straight to the
	// node, never persisted here
	fmt.Print("Account secret (hidden, enter to skip): ")
	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read secret: %w", err)
	}
	if len(secret) > 0 {
		if err := signInToNode(cfg.Node.URL, string(secret)); err != nil {
			return fmt.Errorf("node sign-in failed: %w", err)
		}
		fmt.Println("✓ Signed in")
	}

	if _, err := prefs.Update(func(s *settings.Settings) {
		s.SelectedNetwork = selected
		s.TestnetPeerAddress = peerAddress
		s.UserAgreed = true
	}); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	return nil
}

// signInToNode forwards the account secret to the local node
func signInToNode(nodeURL, secret string) error {
	client := network.NewClient(nodeURL, slog.Default())
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return client.SignIn(ctx, secret)
}

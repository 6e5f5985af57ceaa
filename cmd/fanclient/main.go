package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/miwitv/fanclient/internal/api"
	"github.com/miwitv/fanclient/internal/app"
	"github.com/miwitv/fanclient/internal/credential"
	"github.com/miwitv/fanclient/internal/logging"
	"github.com/miwitv/fanclient/internal/model"
	"github.com/miwitv/fanclient/internal/store"
)

func main() {
	cfg, err := model.LoadConfig(model.DefaultConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Konfiguration konnte nicht geladen werden: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := logging.New(logging.DefaultLogPath(), cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Log-Datei konnte nicht geöffnet werden: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	st, err := store.NewSQLiteStore(model.DefaultDataPath())
	if err != nil {
		logger.Error().Err(err).Msg("opening local store failed")
		fmt.Fprintf(os.Stderr, "Lokale Datenbank konnte nicht geöffnet werden: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	// A missing token is not an error: the client starts signed out and
	// the login view collects a token on the first gated action.
	token, err := credential.Get(credential.SessionTokenKey)
	if err != nil {
		logger.Debug().Err(err).Msg("no stored session token")
	}

	client := api.NewClient(cfg.API.BaseURL, token)

	logger.Info().Str("base_url", cfg.API.BaseURL).Msg("starting fanclient")

	p := tea.NewProgram(
		app.New(cfg, client, st, logger),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		logger.Error().Err(err).Msg("program exited with error")
		fmt.Fprintf(os.Stderr, "Fehler: %v\n", err)
		os.Exit(1)
	}
}

// Command darkmail runs the DarkMail terminal client: a simulated
// local mailbox with rule-based automation, calendar extraction, and
// an offline assistant.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/darkmailhq/darkmail/internal/app"
	"github.com/darkmailhq/darkmail/internal/model"
	"github.com/darkmailhq/darkmail/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := model.DefaultConfigPath()
	cfg, err := model.LoadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	dbPath, err := databasePath()
	if err != nil {
		return err
	}

	s, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return fmt.Errorf("opening mailbox database: %w", err)
	}
	defer s.Close()

	p := tea.NewProgram(app.New(s, cfg, cfgPath), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}

	return nil
}

// databasePath returns the mailbox database location, honoring the
// DARKMAIL_DB override used by development and tests.
func databasePath() (string, error) {
	if p := os.Getenv("DARKMAIL_DB"); p != "" {
		return p, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}

	dir := filepath.Join(home, ".local", "share", "darkmail")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating data directory: %w", err)
	}

	return filepath.Join(dir, "mailbox.db"), nil
}

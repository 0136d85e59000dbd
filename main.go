// chatvault - terminal chat with persistent conversation history.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatvault/internal/assistant"
	"github.com/jeranaias/chatvault/internal/autosave"
	"github.com/jeranaias/chatvault/internal/cli"
	"github.com/jeranaias/chatvault/internal/config"
	"github.com/jeranaias/chatvault/internal/model"
	"github.com/jeranaias/chatvault/internal/storage"
	"github.com/jeranaias/chatvault/internal/store"
	"github.com/jeranaias/chatvault/internal/ui"
	"github.com/jeranaias/chatvault/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		runTUI()

	case cli.CmdHistory:
		runWithStore(args, cli.HandleHistory)
	case cli.CmdShow:
		runWithStore(args, cli.HandleShow)
	case cli.CmdDelete:
		runWithStore(args, cli.HandleDelete)
	case cli.CmdStats:
		runWithStore(args, cli.HandleStats)
	case cli.CmdExport:
		runWithStore(args, cli.HandleExport)

	case cli.CmdVersion:
		cli.PrintVersion()
	case cli.CmdHelp:
		cli.PrintHelp()
	}
}

// openStore builds the store stack from configuration: config file, env
// overrides, file-backed slot, capacity-bounded store.
func openStore() (*config.Config, *store.Store, *storage.FileSlot, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		return nil, nil, nil, err
	}

	slot, err := storage.NewFileSlot(dataDir)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open storage: %w", err)
	}

	sessions := store.New(slot, store.WithCapacity(cfg.Store.Capacity))
	return cfg, sessions, slot, nil
}

// runWithStore runs a CLI handler against the session store.
func runWithStore(args cli.Args, handler func(*store.Store, cli.Args) error) {
	_, sessions, slot, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer slot.Close()

	if err := handler(sessions, args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runTUI launches the interactive chat interface.
func runTUI() {
	cfg, sessions, slot, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer slot.Close()

	client := assistant.NewClientWithConfig(&assistant.ClientConfig{
		BaseURL:           cfg.Assistant.BaseURL,
		Timeout:           time.Duration(cfg.Assistant.TimeoutSecs) * time.Second,
		RequestsPerMinute: cfg.Assistant.RequestsPerMinute,
	})

	saves := autosave.New(sessions, cfg.AutoSaveDelay())

	app := ui.NewApp(cfg, sessions, saves, client)
	program := tea.NewProgram(app, tea.WithAltScreen())

	// Successful saves and external rewrites of the slot are pushed into
	// the program from outside the Bubble Tea update loop.
	saves.OnSaved = func(s model.ChatSession) {
		program.Send(chat.SavedMsg{Session: s})
	}
	listener := store.NewListener(sessions, func(all []model.ChatSession) {
		program.Send(chat.ReloadedMsg{Sessions: all})
	})
	defer listener.Stop()

	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

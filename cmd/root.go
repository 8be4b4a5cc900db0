// Package cmd holds the command line interface.
package cmd

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"mindmap/internal/config"
	"mindmap/internal/debug"
	"mindmap/internal/document"
	"mindmap/internal/store"
	"mindmap/internal/tree"
	"mindmap/internal/tui"
)

var (
	configPath string
	dbPath     string
	debugFlag  bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "mindmap [file]",
	Short: "A keyboard and mouse driven mind map editor for the terminal",
	Long: `mindmap edits tree-shaped mind maps in the terminal.

Pass a .mind file to open or create it. Without a file the start menu is
shown, from which a new map, a saved file or the last autosave can be opened.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if debugFlag {
			debug.SetEnabled(true)
		}
		var err error
		if configPath != "" {
			cfg, err = config.LoadFile(configPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return err
		}
		if dbPath != "" {
			cfg.Autosave.Database = dbPath
		}
		debug.WithFields(map[string]any{
			"command":  cmd.Name(),
			"database": cfg.Autosave.Database,
		}).Debug("configuration loaded")
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := tui.Options{Config: cfg}
		if len(args) == 1 {
			opts.Path = args[0]
		}
		return runEditor(cmd, opts)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.yaml (default "+config.Path()+")")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the autosave database")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Write debug logs to "+debug.DefaultPath())
}

// runEditor starts the terminal UI. A database that cannot be opened
// disables autosave instead of failing.
func runEditor(cmd *cobra.Command, opts tui.Options) error {
	if cfg.Autosave.Enabled || opts.Name != "" {
		st, err := store.Open(cfg.Autosave.Database)
		if err != nil {
			if opts.Name != "" {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "autosave disabled: %v\n", err)
		} else {
			defer st.Close()
			opts.Store = st
		}
	}

	m, err := tui.New(opts)
	if err != nil {
		return err
	}
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}

func openStore() (*store.Store, error) {
	return store.Open(cfg.Autosave.Database)
}

var errEmptyDocument = errors.New("document is empty")

// loadDocument reads a .mind file into a tree.
func loadDocument(path string) (*tree.Node, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseDocument(path, raw)
}

func parseDocument(name string, raw []byte) (*tree.Node, error) {
	doc, err := document.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%s: %w", name, errEmptyDocument)
	}
	return doc.Data, nil
}

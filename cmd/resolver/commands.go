package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"resolver/internal/config"
	"resolver/internal/domain"
	"resolver/internal/recordstore"
	"resolver/internal/recordstore/memory"
	"resolver/internal/recordstore/sqlite"
	"resolver/internal/resolver"
	"resolver/internal/service"
	"resolver/internal/tui"
)

// app bundles what every subcommand needs once config is loaded.
type app struct {
	cfg     *config.AppConfig
	logger  *slog.Logger
	store   recordstore.Storage
	service *service.LauncherServiceImpl
}

func newRootCommand(out io.Writer) *cobra.Command {
	var cfgPath string
	root := &cobra.Command{
		Use:           "resolver",
		Short:         "Find aliases, mailboxes, domains and contacts and the command to run on them",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), cfgPath, out)
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/resolver/config.yaml if not provided)")

	root.AddCommand(
		&cobra.Command{
			Use:   "tui",
			Short: "Open the interactive launcher",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runTUI(cmd.Context(), cfgPath, out)
			},
		},
		newQueryCommand(&cfgPath, out),
		newStatusCommand(&cfgPath, out),
		&cobra.Command{
			Use:   "import file.json [file.json ...]",
			Short: "Merge JSON arrays of records into the record cache",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := setup(cfgPath)
				if err != nil {
					return err
				}
				defer a.store.Close()
				summary, err := a.service.ImportRecords(cmd.Context(), args)
				if err != nil {
					return fmt.Errorf("import failed: %w", err)
				}
				fmt.Fprintln(out, summary)
				return nil
			},
		},
	)
	return root
}

// item is the JSON shape of a suggestion printed by the query command.
type item struct {
	Title        string            `json:"title"`
	Subtitle     string            `json:"subtitle"`
	Type         domain.EntityType `json:"type,omitempty"`
	Command      string            `json:"command,omitempty"`
	Params       []string          `json:"params,omitempty"`
	Arg          string            `json:"arg,omitempty"`
	Autocomplete string            `json:"autocomplete,omitempty"`
	Icon         string            `json:"icon,omitempty"`
	Valid        bool              `json:"valid"`
	Explain      string            `json:"explain,omitempty"`
}

func newQueryCommand(cfgPath *string, out io.Writer) *cobra.Command {
	var explain bool
	cmd := &cobra.Command{
		Use:   "query [words ...]",
		Short: "Print suggestions for a query as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(*cfgPath)
			if err != nil {
				return err
			}
			defer a.store.Close()
			ctx := cmd.Context()
			suggestions, err := a.service.Query(ctx, strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("query failed: %w", err)
			}
			items := make([]item, 0, len(suggestions))
			for _, s := range suggestions {
				it := item{
					Title:        s.DisplayName,
					Subtitle:     strings.TrimSpace(s.Subtitle),
					Type:         s.Type,
					Command:      s.Command,
					Params:       s.Params,
					Autocomplete: s.Autocomplete,
					Icon:         s.Icon,
					Valid:        s.Actionable,
				}
				if s.Type != "" {
					it.Arg = s.Action()
					if explain {
						if it.Explain, err = a.service.Describe(ctx, it.Arg); err != nil {
							a.logger.Warn("describe action", "error", err)
						}
					}
				}
				items = append(items, it)
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{"items": items})
		},
	}
	cmd.Flags().BoolVar(&explain, "explain", false, "Describe each suggestion's action in words")
	return cmd
}

func newStatusCommand(cfgPath *string, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show how many records of each type are cached",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(*cfgPath)
			if err != nil {
				return err
			}
			defer a.store.Close()
			statuses, err := a.service.Status(cmd.Context())
			if err != nil {
				return fmt.Errorf("status failed: %w", err)
			}
			for _, st := range statuses {
				updated := "never"
				if !st.UpdatedAt.IsZero() {
					updated = st.UpdatedAt.Format(time.DateTime)
				}
				fmt.Fprintf(out, "%-8s %5d  updated %s\n", st.Type, st.Count, updated)
			}
			return nil
		},
	}
}

func runTUI(ctx context.Context, cfgPath string, out io.Writer) error {
	a, err := setup(cfgPath)
	if err != nil {
		return err
	}
	defer a.store.Close()

	m := tui.New(a.service, a.cfg.TUI.MaxResults)
	p := tea.NewProgram(m, tea.WithContext(ctx))

	if a.cfg.TUI.Watch && a.cfg.Store.Type == "sqlite" {
		w := recordstore.NewWatcher(a.cfg.Store.SQLite.Path, func() { p.Send(tui.ReloadMsg{}) }, a.logger)
		if err := w.Start(); err != nil {
			a.logger.Warn("record store watch disabled", "error", err)
		} else {
			defer w.Stop()
		}
	}

	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(tui.Model); ok {
		if s, ok := fm.Selected(); ok {
			fmt.Fprintln(out, s.Action())
		}
	}
	return nil
}

// setup loads config and assembles the store, resolver and service.
func setup(cfgPath string) (*app, error) {
	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := config.NewLogger(cfg.Log, os.Stderr)

	var st recordstore.Storage
	switch cfg.Store.Type {
	case "memory":
		st = memory.NewStorage()
	case "sqlite":
		st, err = sqlite.Open(cfg.Store.SQLite.Path)
		if err != nil {
			return nil, err
		}
	}

	res := resolver.New(
		resolver.WithMinScore(cfg.Matcher.MinScore),
		resolver.WithLogger(logger),
	)
	if err := res.Commands().Validate(); err != nil {
		logger.Warn("command table references unknown fields", "error", err)
	}
	return &app{
		cfg:     cfg,
		logger:  logger,
		store:   st,
		service: service.NewLauncherService(st, res, logger),
	}, nil
}

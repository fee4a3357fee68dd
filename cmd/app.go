package cmd

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/01Taka/rooted/internal/config"
	"github.com/01Taka/rooted/internal/engine"
	"github.com/01Taka/rooted/internal/evaluation"
	"github.com/01Taka/rooted/internal/logging"
	"github.com/01Taka/rooted/internal/store"
	"github.com/01Taka/rooted/internal/ui/theme"
)

// app bundles what every command needs once flags and config are read.
type app struct {
	cfg     config.Config
	loc     *time.Location
	logger  *slog.Logger
	engine  *engine.Engine
	printer *logging.Printer
}

func newApp(cmd *cobra.Command) (*app, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if tz, _ := cmd.Flags().GetString("tz"); tz != "" {
		cfg.TimeZone = tz
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		logging.SetColor(false)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	return &app{
		cfg:     cfg,
		loc:     loc,
		logger:  logger,
		engine:  engine.New(loc, logger),
		printer: logging.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr()),
	}, nil
}

func (a *app) openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd, a.cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	a.logger.Debug("database opened", "path", dbPath)
	return s, nil
}

// render writes styled output, stripped of color when color is off.
func (a *app) render(cmd *cobra.Command, s string) {
	if color.NoColor {
		s = theme.Plain(s)
	}
	fmt.Fprintln(cmd.OutOrStdout(), s)
}

// parseEvaluation reads one command line evaluation. Bare numbers use the
// configured numeric mode.
func (a *app) parseEvaluation(arg string) (string, evaluation.Evaluation, error) {
	unit, raw, found := strings.Cut(arg, "=")
	if !found {
		unit, raw = "", arg
	}
	if _, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
		raw = a.cfg.NumericMode + ":" + strings.TrimSpace(raw)
	}
	if found {
		return evaluation.ParseUnit(unit + "=" + raw)
	}
	return evaluation.ParseUnit(raw)
}

// timeFlag reads an RFC3339 --at flag, defaulting to the current time.
func timeFlag(cmd *cobra.Command, name string) (time.Time, error) {
	raw, _ := cmd.Flags().GetString(name)
	if raw == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: %w", name, err)
	}
	return t, nil
}

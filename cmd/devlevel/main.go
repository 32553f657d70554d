// Package main provides the CLI entrypoint for devlevel.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/devlevel/internal/assessment"
	"github.com/verte-zerg/devlevel/internal/config"
	"github.com/verte-zerg/devlevel/internal/logging"
	"github.com/verte-zerg/devlevel/internal/report"
	"github.com/verte-zerg/devlevel/internal/tui"
)

const (
	defaultStartLevel = "junior"
	defaultSamples    = 2
	defaultLogLevel   = "info"
)

type options struct {
	rubricPath string
	startLevel string
	samples    int
	logLevel   string
	logFile    string

	scoreYes    []string
	scoreAllYes []string

	rubricCheck bool
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:           "devlevel",
		Short:         "Developer level assessment",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAssessCmd(cmd, opts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.rubricPath, "rubric", "", "rubric TOML file (default: built-in rubric)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "write logs to this file")
	rootCmd.Flags().StringVar(&opts.startLevel, "level", defaultStartLevel, "level shown first (junior, mid, senior)")
	rootCmd.Flags().IntVar(&opts.samples, "samples", defaultSamples, "sample questions shown per category")

	rootCmd.AddCommand(newScoreCmd(opts))
	rootCmd.AddCommand(newRubricCmd(opts))
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// applyFileConfig fills options from the config file for flags left unset.
func applyFileConfig(cmd *cobra.Command, opts *options) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "rubric", &opts.rubricPath, fileCfg.Assessment.Rubric)
	applyStringConfig(cmd, "level", &opts.startLevel, fileCfg.Assessment.StartLevel)
	applyIntConfig(cmd, "samples", &opts.samples, fileCfg.Assessment.Samples)
	applyStringConfig(cmd, "log-level", &opts.logLevel, fileCfg.Log.Level)
	applyStringConfig(cmd, "log-file", &opts.logFile, fileCfg.Log.File)
	if opts.samples < 0 {
		return fmt.Errorf("--samples must be >= 0")
	}
	return nil
}

func runAssessCmd(cmd *cobra.Command, opts *options) error {
	if err := applyFileConfig(cmd, opts); err != nil {
		return err
	}
	startLevel, err := assessment.ParseLevel(opts.startLevel)
	if err != nil {
		return fmt.Errorf("invalid --level: %w", err)
	}

	// Warnings go to stderr before the alternate screen takes over.
	stderrLogger, err := logging.New(opts.logLevel, "")
	if err != nil {
		return err
	}
	defer func() { _ = stderrLogger.Sync() }()

	rubricPath, err := resolveRubricPath(opts.rubricPath)
	if err != nil {
		return err
	}
	rubric, err := loadRubric(rubricPath, stderrLogger)
	if err != nil {
		return err
	}

	uiLogger := zap.NewNop()
	if opts.logFile != "" {
		uiLogger, err = logging.New(opts.logLevel, opts.logFile)
		if err != nil {
			return err
		}
		defer func() { _ = uiLogger.Sync() }()
	}
	uiLogger.Info("assessment started",
		zap.String("start_level", string(startLevel)),
		zap.String("rubric", rubricLabel(rubricPath)))

	session := assessment.NewSession(rubric)
	model := tui.NewModel(session, tui.Options{
		StartLevel: startLevel,
		Samples:    opts.samples,
		Logger:     uiLogger,
	})
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	res, err := session.Result()
	if err != nil {
		return err
	}
	uiLogger.Info("assessment finished",
		zap.Bool("qualified", res.HasBestFit),
		zap.String("best_fit", string(res.BestFit)),
		zap.Float64("best_score", res.BestScore()))
	_, err = fmt.Fprintln(cmd.OutOrStdout(), report.BestFitLine(res))
	return err
}

func newScoreCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score answers without the interactive UI",
		Example: `  devlevel score --yes junior.learning_growth=3 --yes junior.problem_solving=4
  devlevel score --all-yes junior --all-yes mid`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScoreCmd(cmd, opts)
		},
	}
	cmd.Flags().StringArrayVar(&opts.scoreYes, "yes", nil, "yes answers as level.category=N (repeatable)")
	cmd.Flags().StringArrayVar(&opts.scoreAllYes, "all-yes", nil, "answer yes to every question of a level (repeatable)")
	return cmd
}

func runScoreCmd(cmd *cobra.Command, opts *options) error {
	if err := applyFileConfig(cmd, opts); err != nil {
		return err
	}
	logger, err := logging.New(opts.logLevel, opts.logFile)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	rubric, err := loadRubric(opts.rubricPath, logger)
	if err != nil {
		return err
	}
	session := assessment.NewSession(rubric)
	for _, raw := range opts.scoreAllYes {
		level, err := assessment.ParseLevel(raw)
		if err != nil {
			return fmt.Errorf("invalid --all-yes: %w", err)
		}
		if err := session.Fill(level); err != nil {
			return err
		}
	}
	for _, raw := range opts.scoreYes {
		level, category, yes, err := parseAnswer(raw)
		if err != nil {
			return err
		}
		total, err := rubric.Total(level, category)
		if err != nil {
			return fmt.Errorf("invalid --yes %q: %w", raw, err)
		}
		if yes > total {
			logger.Warn("answer count clamped to category total",
				zap.String("level", string(level)),
				zap.String("category", string(category)),
				zap.Int("yes", yes),
				zap.Int("total", total))
		}
		if err := session.Set(level, category, yes); err != nil {
			return fmt.Errorf("invalid --yes %q: %w", raw, err)
		}
	}

	res, err := session.Result()
	if err != nil {
		return err
	}
	logger.Debug("scores computed", zap.Any("scores", res.Scores))
	out := cmd.OutOrStdout()
	return report.RenderResult(out, rubric, session.Tallies(), res, report.TerminalWidth(out))
}

// parseAnswer parses "level.category=N".
func parseAnswer(raw string) (assessment.Level, assessment.Category, int, error) {
	key, value, ok := strings.Cut(raw, "=")
	if !ok {
		return "", "", 0, fmt.Errorf("invalid --yes %q (expected level.category=N)", raw)
	}
	levelName, categoryName, ok := strings.Cut(strings.TrimSpace(key), ".")
	if !ok || categoryName == "" {
		return "", "", 0, fmt.Errorf("invalid --yes %q (expected level.category=N)", raw)
	}
	level, err := assessment.ParseLevel(levelName)
	if err != nil {
		return "", "", 0, fmt.Errorf("invalid --yes %q: %w", raw, err)
	}
	yes, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || yes < 0 {
		return "", "", 0, fmt.Errorf("invalid --yes %q (count must be a non-negative integer)", raw)
	}
	return level, assessment.Category(strings.TrimSpace(categoryName)), yes, nil
}

func newRubricCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rubric",
		Short: "Show the scoring rubric",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRubricCmd(cmd, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.rubricCheck, "check", false, "fail when the rubric has warnings")
	return cmd
}

func runRubricCmd(cmd *cobra.Command, opts *options) error {
	if err := applyFileConfig(cmd, opts); err != nil {
		return err
	}
	// Warnings are part of the rendered output here.
	rubric, err := loadRubric(opts.rubricPath, zap.NewNop())
	if err != nil {
		return err
	}
	if err := report.RenderRubric(cmd.OutOrStdout(), rubric); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if opts.rubricCheck && len(rubric.Warnings()) > 0 {
		return fmt.Errorf("rubric has %d warning(s)", len(rubric.Warnings()))
	}
	return nil
}

// resolveRubricPath returns the configured rubric path, or the XDG rubric
// file when nothing is configured and it exists. An empty result selects the
// built-in rubric.
func resolveRubricPath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	candidate := config.DefaultRubricPath()
	if _, err := os.Stat(candidate); err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to stat rubric: %w", err)
	}
	return candidate, nil
}

// loadRubric loads the resolved rubric and logs its warnings.
func loadRubric(path string, logger *zap.Logger) (*assessment.Rubric, error) {
	path, err := resolveRubricPath(path)
	if err != nil {
		return nil, err
	}
	var rubric *assessment.Rubric
	if path == "" {
		rubric, err = assessment.DefaultRubric()
	} else {
		rubric, err = assessment.LoadRubric(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load rubric: %w", err)
	}
	logger.Debug("rubric loaded", zap.String("rubric", rubricLabel(path)))
	for _, warning := range rubric.Warnings() {
		logger.Warn("rubric warning", zap.String("rubric", rubricLabel(path)), zap.String("detail", warning))
	}
	return rubric, nil
}

func rubricLabel(path string) string {
	if path == "" {
		return "built-in"
	}
	return path
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := ensureConfigFile(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func ensureConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if flag := cmd.Flags().Lookup(name); flag != nil && flag.Changed {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if flag := cmd.Flags().Lookup(name); flag != nil && flag.Changed {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# devlevel configuration
# Uncomment a value to enable it. CLI flags override config values.

[assessment]
# rubric = %q   # Rubric TOML file (default: this path if it exists, else built-in)
# start-level = %q        # Level shown first
# samples = %d                  # Sample questions shown per category

[log]
# level = %q               # debug, info, warn or error
# file = ""                     # Log file; the interactive UI only logs to a file
`,
		config.DefaultRubricPath(),
		defaultStartLevel,
		defaultSamples,
		defaultLogLevel,
	)
}

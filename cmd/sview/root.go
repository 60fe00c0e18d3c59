package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"

	"github.com/j-veylop/sview/internal/app"
	"github.com/j-veylop/sview/internal/chart"
	"github.com/j-veylop/sview/internal/config"
	"github.com/j-veylop/sview/internal/logger"
	"github.com/j-veylop/sview/internal/models"
	"github.com/j-veylop/sview/internal/services"
	"github.com/j-veylop/sview/internal/ui/tabs/info"
	"github.com/j-veylop/sview/internal/ui/tabs/plot"
	"github.com/j-veylop/sview/internal/version"
)

// cli holds the flag values shared by the commands.
type cli struct {
	load func() (*config.Config, error)

	fill       string
	group      []string
	hits       bool
	columns    []string
	width      int
	bucket     float64
	sqlitePath string
	query      string
	alert      float64
	logLevel   string
	export     string

	logFile io.Closer
}

func newRootCmd(load func() (*config.Config, error)) *cobra.Command {
	return (&cli{load: load}).rootCommand()
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "sview [result.json]",
		Short: "Terminal viewer for time-series query results",
		Long: `sview charts the rows of a time-series query result. Rows are
[timestamp, group values..., hit count?, values...]; each group and value
column becomes one series.

Examples:
  sview result.json                          # Interactive chart, reloads on change
  sview --group host --fill blank result.json
  sview --sqlite metrics.db --query "SELECT ts, host, cpu FROM samples"
  sview --export chart.svg result.json       # Write an SVG and exit
  sview summary result.json                  # Print per-series statistics`,
		Args:          cobra.MaximumNArgs(1),
		Version:       version.Info(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          c.runRoot,
	}
	root.SetVersionTemplate("{{.Version}}\n")

	pf := root.PersistentFlags()
	pf.StringVar(&c.fill, "fill", "", "gap policy: 0 (zero), blank or connect")
	pf.StringSliceVar(&c.group, "group", nil, "group-by dimensions, in row order")
	pf.BoolVar(&c.hits, "hits", false, "rows carry a hit count after the group dimensions")
	pf.StringSliceVar(&c.columns, "columns", nil, "selected output columns, group dimensions included")
	pf.Float64Var(&c.bucket, "bucket", 0, "bucket size in seconds when the result does not carry one")
	pf.StringVar(&c.sqlitePath, "sqlite", "", "read rows from a SQLite database instead of a file")
	pf.StringVar(&c.query, "query", "", "query to run with --sqlite")
	pf.StringVar(&c.logLevel, "log-level", "", "log level: debug, info, warn or error")

	root.Flags().IntVar(&c.width, "width", 0, "chart width in pixels for --export (default 800)")
	root.Flags().Float64Var(&c.alert, "alert", 0, "desktop alert when a series' newest value reaches this")
	root.Flags().StringVarP(&c.export, "export", "o", "", "write the chart as SVG to this file and exit")

	root.AddCommand(newSummaryCmd(c), newVersionCmd())
	return root
}

// configure loads the configuration and applies the flags that were set
// and the positional result file on top of it.
func (c *cli) configure(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := c.load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("fill") {
		cfg.Fill = c.fill
	}
	if flags.Changed("group") {
		cfg.GroupBy = c.group
	}
	if flags.Changed("hits") {
		cfg.ShowHits = c.hits
	}
	if flags.Changed("columns") {
		cfg.Columns = c.columns
	}
	if flags.Changed("bucket") {
		cfg.BucketSize = c.bucket
	}
	if flags.Changed("sqlite") {
		cfg.SQLitePath = c.sqlitePath
		cfg.SourcePath = ""
	}
	if flags.Changed("query") {
		cfg.SQLiteQuery = c.query
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = c.logLevel
	}
	if flags.Changed("width") {
		if c.width <= 0 {
			return nil, fmt.Errorf("invalid --width %d: must be positive", c.width)
		}
		cfg.Width = c.width
	}
	if flags.Changed("alert") {
		cfg.AlertThreshold = c.alert
		cfg.AlertEnabled = true
	}
	if len(args) == 1 {
		cfg.SourcePath = args[0]
		cfg.SQLitePath = ""
	}

	c.logFile, err = logger.Setup(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger.Info("starting", "version", version.GetVersion(), "source", cfg.SourcePath, "sqlite", cfg.SQLitePath)

	return cfg, nil
}

func (c *cli) closeLog() {
	if c.logFile != nil {
		_ = c.logFile.Close()
		c.logFile = nil
	}
}

func (c *cli) runRoot(cmd *cobra.Command, args []string) error {
	cfg, err := c.configure(cmd, args)
	if err != nil {
		return err
	}
	defer c.closeLog()

	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			logger.Warn("error closing services", "error", closeErr)
		}
	}()

	if c.export != "" {
		if err := exportSVG(cfg, svcManager.Current(), c.export); err != nil {
			return err
		}
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", c.export)
		return nil
	}

	return runTUI(cfg, svcManager)
}

// runTUI runs the Bubble Tea program until the user quits.
func runTUI(cfg *config.Config, svcManager *services.Manager) error {
	zones := zone.New()
	model := app.NewModel(svcManager, zones)

	state := model.GetState()
	tabs := []app.Tab{
		plot.New(state, cfg, zones), // Tab 0: Chart
		info.New(state, cfg),        // Tab 1: Info
	}
	model.SetTabs(tabs)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	// All-motion tracking reports hover without a pressed button.
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)

	go func() {
		if _, ok := <-sigChan; ok {
			p.Send(tea.Quit())
		}
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

// exportSVG renders result at the configured width and writes the SVG
// document to path.
func exportSVG(cfg *config.Config, result *models.QueryResult, path string) error {
	if result == nil {
		result = &models.QueryResult{}
	}
	scene := chart.NewScene()
	host := chart.NewHost(chart.NewContainer(cfg.Width), scene)
	defer host.Close()
	host.Show(result.ChartInput(cfg.BucketSize), services.ChartOptions(cfg, result))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := scene.WriteSVG(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

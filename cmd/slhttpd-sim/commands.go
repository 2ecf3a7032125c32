package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/muurk/slhttpd/internal/config"
	"github.com/muurk/slhttpd/internal/discovery"
	"github.com/muurk/slhttpd/internal/httpd"
	"github.com/muurk/slhttpd/internal/logging"
	"github.com/muurk/slhttpd/internal/netproc"
	"github.com/muurk/slhttpd/internal/ui"
)

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

// Serve command flags
var (
	serveHost    string
	servePort    uint16
	serveName    string
	servePageDir string
	serveMDNS    bool
	serveROM     bool
	serveMonitor bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the emulated HTTP server",
	Long: `Start the emulated network processor and register the tokens declared in
the configuration file. Runs until interrupted.

Flags override the corresponding configuration values for this run only.`,
	Example: `  # Serve with the configuration file (or built-in defaults)
  slhttpd-sim serve

  # Serve a page directory on port 8000 and advertise over mDNS
  slhttpd-sim serve --port 8000 --pages ./www --mdns

  # Watch token events
  websocat ws://localhost:8080/__sl/monitor`,
	RunE: runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&serveHost, "host", "", "Listen address (empty = all interfaces)")
	f.Uint16Var(&servePort, "port", 0, "HTTP port")
	f.StringVar(&serveName, "hostname", "", "Device hostname, also the mDNS instance name")
	f.StringVar(&servePageDir, "pages", "", "Directory served as the user file system")
	f.BoolVar(&serveMDNS, "mdns", false, "Advertise the server over mDNS")
	f.BoolVar(&serveROM, "rom-pages", true, "Serve the built-in index page when no user index exists")
	f.BoolVar(&serveMonitor, "monitor", true, "Enable the websocket token event monitor")
}

// applyServeFlags copies explicitly set serve flags over cfg.
func applyServeFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("host") {
		cfg.Server.Host = serveHost
	}
	if f.Changed("port") {
		cfg.Server.Port = servePort
	}
	if f.Changed("hostname") {
		cfg.Server.Hostname = serveName
	}
	if f.Changed("pages") {
		cfg.Server.PageDir = servePageDir
	}
	if f.Changed("mdns") {
		cfg.Server.MDNS = serveMDNS
	}
	if f.Changed("rom-pages") {
		cfg.Server.ROMPages = serveROM
	}
	if f.Changed("monitor") {
		cfg.Server.Monitor = serveMonitor
	}
}

func initLogging(cfg *config.Config) error {
	level := logLevel
	if level == "" && os.Getenv(logging.LogLevelEnvVar) == "" {
		level = cfg.Server.LogLevel
	}
	return logging.Initialize(level)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	applyServeFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := initLogging(cfg); err != nil {
		return err
	}
	defer logging.Sync()

	proc := netproc.New(cfg.ProcessorSettings())
	srv := httpd.New(proc)
	defer func() {
		if err := srv.Close(); err != nil {
			logging.Warn("Shutdown failed", zap.Error(err))
		}
	}()

	store := newValueStore()
	if err := bindTokens(srv, cfg, store, time.Now()); err != nil {
		return err
	}
	proc.SetIndexTokens(indexIDs(cfg))

	if err := srv.Begin(); err != nil {
		return fmt.Errorf("failed to start server (status %d): %w", httpd.Status(err), err)
	}

	out := cmd.OutOrStdout()
	width := ui.GetTerminalWidth()
	addr := proc.Addr().String()
	params := []ui.Param{
		{Key: "Listening", Value: addr},
		{Key: "Hostname", Value: cfg.Server.Hostname},
		{Key: "Pages", Value: orNone(cfg.Server.PageDir)},
		{Key: "ROM pages", Value: onOff(cfg.Server.ROMPages)},
		{Key: "mDNS", Value: onOff(cfg.Server.MDNS)},
	}
	if cfg.Server.Monitor {
		params = append(params, ui.Param{Key: "Monitor", Value: "ws://" + addr + netproc.MonitorPath})
	}
	fmt.Fprintln(out, ui.RenderHeader("serve", "slhttpd-sim serve", params, width))
	fmt.Fprintln(out)
	fmt.Fprintln(out, ui.MutedStyle.Render("Press Ctrl+C to stop."))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	if err := srv.End(); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, ui.RenderHorizontalDivider(width, "─"))
	fmt.Fprintln(out, renderStats("GET", srv.GetTokens(), srv.GetUserTokenHitsGET()))
	fmt.Fprintln(out)
	fmt.Fprintln(out, renderStats("POST", srv.PostTokens(), srv.GetUserTokenHitsPOST()))
	return nil
}

func renderStats(direction string, stats []httpd.TokenStat, total uint64) string {
	rows := make([][]string, 0, len(stats)+1)
	for _, st := range stats {
		rows = append(rows, []string{st.ID.String(), strconv.FormatUint(st.Hits, 10)})
	}
	rows = append(rows, []string{"total", strconv.FormatUint(total, 10)})
	return ui.RenderTable([]string{direction + " TOKEN", "HITS"}, rows)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

var scanTimeout int

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for HTTP servers advertised over mDNS",
	Long: `Browse _http._tcp over mDNS and list the servers found, including
SimpleLink devices and other slhttpd-sim instances.`,
	Example: `  # Scan for 5 seconds (default)
  slhttpd-sim scan

  # Longer scan for slow networks
  slhttpd-sim scan --timeout 15`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanTimeout, "timeout", 5, "Scan timeout in seconds")
}

func runScan(cmd *cobra.Command, args []string) error {
	if err := logging.Initialize(logLevel); err != nil {
		return err
	}
	defer logging.Sync()

	out := cmd.OutOrStdout()
	scanner := discovery.NewScanner()
	scanner.Timeout = time.Duration(scanTimeout) * time.Second

	var devices []*discovery.Device
	var err error
	if ui.IsTerminal(out) {
		devices, err = ui.RunScan(cmd.Context(), out, scanner.Timeout, scanner.ScanForDevices)
	} else {
		fmt.Fprintf(out, "Scanning for HTTP servers (timeout: %ds)...\n\n", scanTimeout)
		devices, err = scanner.ScanForDevices(cmd.Context())
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(devices) == 0 {
		fmt.Fprintln(out, ui.WarningStyle.Render("No servers found."))
		return nil
	}

	rows := make([][]string, 0, len(devices))
	for _, d := range devices {
		kind := "device"
		if d.IsEmulated() {
			kind = "emulator"
		}
		rows = append(rows, []string{d.Instance, d.BaseURL(), kind})
	}
	fmt.Fprintln(out, ui.RenderTable([]string{"INSTANCE", "URL", "KIND"}, rows))
	fmt.Fprintln(out)
	fmt.Fprintln(out, ui.RenderSuccess("Found %d server(s)", len(devices)))
	return nil
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configForce bool

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath()
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err == nil && !configForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.Default().Save(path); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.RenderSuccess("Wrote %s", path))
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing file")
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.GetConfigPath()
}

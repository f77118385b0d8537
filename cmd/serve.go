package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gkj-pamulang/panitia/internal/cli"
	"github.com/gkj-pamulang/panitia/internal/config"
	"github.com/gkj-pamulang/panitia/internal/daemon"
	"github.com/gkj-pamulang/panitia/internal/feed"
	"github.com/gkj-pamulang/panitia/internal/logging"

	"github.com/spf13/cobra"
)

type serverState struct {
	PID       int       `json:"pid"`
	Addr      string    `json:"addr"`
	StartedAt time.Time `json:"started_at"`
}

var (
	flagServeAddr    string
	flagServeDetach  bool
	flagServePIDFile string
	flagServeLogFile string
	flagServeChild   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the data service with HTTP/SSE endpoints",
	RunE:  runServe,
}

var serveStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show data service process and API status",
	RunE:  runServeStatus,
}

var serveStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running data service",
	RunE:  runServeStop,
}

func init() {
	defaultPID := filepath.Join(config.ConfigDir(), "panitia.pid")
	defaultLog := filepath.Join(config.ConfigDir(), "panitia.log")

	serveCmd.PersistentFlags().StringVar(&flagServeAddr, "addr", "", "HTTP listen address (default from config)")
	serveCmd.PersistentFlags().StringVar(&flagServePIDFile, "pid-file", defaultPID, "PID file path")
	serveCmd.PersistentFlags().StringVar(&flagServeLogFile, "log-file", defaultLog, "Log file path for detached mode")

	serveCmd.Flags().BoolVar(&flagServeDetach, "detach", false, "Run the service as a background process")
	serveCmd.Flags().BoolVar(&flagServeChild, "child", false, "Internal: mark detached child process")
	_ = serveCmd.Flags().MarkHidden("child")

	serveCmd.AddCommand(serveStatusCmd)
	serveCmd.AddCommand(serveStopCmd)
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	if flagServeDetach && flagServeChild {
		return errors.New("invalid serve launch mode")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagServeAddr != "" {
		cfg.Server.Addr = flagServeAddr
	}

	if flagServeDetach {
		return startServeDetached(cfg.Server.Addr)
	}
	return runServeForeground(cfg)
}

func startServeDetached(addr string) error {
	if err := ensureServerNotRunning(flagServePIDFile); err != nil {
		return err
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}

	args := filterDetachArg(os.Args[1:])
	args = append(args, "--child")

	if err := os.MkdirAll(filepath.Dir(flagServePIDFile), 0o750); err != nil {
		return fmt.Errorf("create service directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(flagServeLogFile), 0o750); err != nil {
		return fmt.Errorf("create service log directory: %w", err)
	}

	//nolint:gosec // log path is configured by the local user
	logf, err := os.OpenFile(flagServeLogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open service log file: %w", err)
	}
	defer func() { _ = logf.Close() }()

	cmd := exec.Command(exe, args...) //nolint:gosec // exe/args come from current process invocation
	cmd.Stdout = logf
	cmd.Stderr = logf
	cmd.Stdin = nil
	cmd.Env = os.Environ()

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start detached service: %w", err)
	}

	fmt.Printf("  Started data service (pid %d)\n", cmd.Process.Pid)
	fmt.Printf("  PID file: %s\n", flagServePIDFile)
	fmt.Printf("  API: http://%s/v1/status\n", addr)
	fmt.Printf("  Log: %s\n", flagServeLogFile)
	return nil
}

func runServeForeground(cfg config.Config) error {
	if err := ensureServerNotRunning(flagServePIDFile); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(flagServePIDFile), 0o750); err != nil {
		return fmt.Errorf("create service directory: %w", err)
	}

	log, err := logging.New(cfg.Log.Level)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	loader, err := newLoader(cfg, log)
	if err != nil {
		return err
	}

	pid := os.Getpid()
	if err := writePID(flagServePIDFile, pid); err != nil {
		return err
	}
	defer func() { _ = os.Remove(flagServePIDFile) }()

	state := serverState{
		PID:       pid,
		Addr:      cfg.Server.Addr,
		StartedAt: time.Now(),
	}
	_ = writeState(statePath(flagServePIDFile), state)
	defer func() { _ = os.Remove(statePath(flagServePIDFile)) }()

	refresher := feed.NewRefresher(loader, cfg.Refresh.Interval(), log)
	svc := daemon.New(daemon.Config{
		Addr:         cfg.Server.Addr,
		EventsBuffer: cfg.Server.EventsBuffer,
	}, refresher, log)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	watchStatic(ctx, cfg, loader, refresher, log)

	if !flagQuiet {
		fmt.Printf("  panitia data service on http://%s\n", cfg.Server.Addr)
		fmt.Printf("  Refreshing every %s\n", cfg.Refresh.Interval())
		fmt.Printf("  Stop with: panitia serve stop --pid-file %s\n", flagServePIDFile)
	}

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runServeStatus(_ *cobra.Command, _ []string) error {
	pid, err := readPID(flagServePIDFile)
	if err != nil {
		fmt.Printf("  Data service: not running (pid file not found)\n")
		return nil
	}

	if !processAlive(pid) {
		fmt.Printf("  Data service: stale pid file (pid %d not alive)\n", pid)
		return nil
	}

	addr := flagServeAddr
	if st, err := readState(statePath(flagServePIDFile)); err == nil && st.Addr != "" {
		addr = st.Addr
	}
	if addr == "" {
		addr = config.DefaultConfig().Server.Addr
	}

	fmt.Printf("  Service PID: %d\n", pid)
	fmt.Printf("  Address: http://%s\n", addr)

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + addr + "/v1/status") //nolint:noctx // short status check
	if err != nil {
		fmt.Printf("  API status: unreachable (%v)\n", err)
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("  API status: HTTP %d\n", resp.StatusCode)
		return nil
	}

	var st daemon.Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		fmt.Printf("  API status: malformed response (%v)\n", err)
		return nil
	}

	if st.LastRefreshAt.IsZero() {
		fmt.Printf("  Last refresh: pending\n")
	} else {
		fmt.Printf("  Last refresh: %s\n", cli.FormatAgo(st.LastRefreshAt, time.Now()))
	}
	fmt.Printf("  Refresh count: %d\n", st.RefreshCount)
	for _, name := range []string{"funding", "donors", "pledges"} {
		v, ok := st.Views[name]
		if !ok {
			continue
		}
		line := fmt.Sprintf("  %-8s %s", name+":", v.State)
		if v.Error != "" {
			line += "  (" + v.Error + ")"
		}
		fmt.Println(line)
	}
	fmt.Printf("  Income: %s of %s\n", cli.FormatRupiah(st.Summary.Income), cli.FormatRupiah(st.Summary.Costs))
	fmt.Printf("  Pledges: %d (%s paid)\n", st.Summary.PledgeCount, cli.FormatRupiah(st.Summary.Paid))
	return nil
}

func runServeStop(_ *cobra.Command, _ []string) error {
	pid, err := readPID(flagServePIDFile)
	if err != nil {
		return errors.New("data service is not running")
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("find service process: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal service process: %w", err)
	}

	deadline := time.Now().Add(8 * time.Second)
	for time.Now().Before(deadline) {
		if !processAlive(pid) {
			_ = os.Remove(flagServePIDFile)
			_ = os.Remove(statePath(flagServePIDFile))
			fmt.Printf("  Stopped data service (pid %d)\n", pid)
			return nil
		}
		time.Sleep(150 * time.Millisecond)
	}

	return fmt.Errorf("data service (pid %d) did not exit in time", pid)
}

func filterDetachArg(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if a == "--detach" || strings.HasPrefix(a, "--detach=") {
			continue
		}
		out = append(out, a)
	}
	return out
}

func ensureServerNotRunning(pidFile string) error {
	pid, err := readPID(pidFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if processAlive(pid) {
		return fmt.Errorf("data service already running (pid %d)", pid)
	}
	_ = os.Remove(pidFile)
	_ = os.Remove(statePath(pidFile))
	return nil
}

func writePID(path string, pid int) error {
	return os.WriteFile(path, []byte(strconv.Itoa(pid)+"\n"), 0o600)
}

func readPID(path string) (int, error) {
	//nolint:gosec // pid path is configured by the local user
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pidStr := strings.TrimSpace(string(data))
	pid, err := strconv.Atoi(pidStr)
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid pid in %s", path)
	}
	return pid, nil
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}

func statePath(pidFile string) string {
	return pidFile + ".json"
}

func writeState(path string, st serverState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}

func readState(path string) (serverState, error) {
	var st serverState
	//nolint:gosec // state path is configured by the local user
	data, err := os.ReadFile(path)
	if err != nil {
		return st, err
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return st, err
	}
	return st, nil
}

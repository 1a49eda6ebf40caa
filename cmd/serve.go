package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/theirongolddev/savearn/internal/api"
	"github.com/theirongolddev/savearn/internal/ledger"
	"github.com/theirongolddev/savearn/internal/logging"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

type serverRuntimeState struct {
	PID       int       `json:"pid"`
	Addr      string    `json:"addr"`
	StartedAt time.Time `json:"started_at"`
	Backend   string    `json:"backend"`
}

var (
	flagServeAddr         string
	flagServeDetach       bool
	flagServePIDFile      string
	flagServeLogFile      string
	flagServeEventsBuffer int
	flagServeAnonymous    bool
	flagServeChild        bool
	flagTokenTTL          time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: "Serve the per-user entry API (create, list, update, delete, stats, profile)\n" +
		"with a live change feed at /v1/stream. Callers authenticate with a bearer JWT.",
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server process and API status",
	RunE:  runServeStatus,
}

var serveStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running server",
	RunE:  runServeStop,
}

var serveTokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an API token for the current user",
	RunE:  runServeToken,
}

func init() {
	serveCmd.PersistentFlags().StringVar(&flagServeAddr, "addr", "", "HTTP listen address (default from config)")
	serveCmd.PersistentFlags().StringVar(&flagServePIDFile, "pid-file", "", "PID file path (default in the data dir)")
	serveCmd.PersistentFlags().StringVar(&flagServeLogFile, "log-file", "", "Log file path for detached mode")

	serveCmd.Flags().IntVar(&flagServeEventsBuffer, "events-buffer", 200, "Max in-memory change events retained")
	serveCmd.Flags().BoolVar(&flagServeAnonymous, "allow-anonymous", false, "Serve requests without a token as the anonymous user")
	serveCmd.Flags().BoolVar(&flagServeDetach, "detach", false, "Run the server as a background process")
	serveCmd.Flags().BoolVar(&flagServeChild, "child", false, "Internal: mark detached child process")
	_ = serveCmd.Flags().MarkHidden("child")

	serveTokenCmd.Flags().DurationVar(&flagTokenTTL, "ttl", 24*time.Hour, "Token lifetime")

	serveCmd.AddCommand(serveStatusCmd)
	serveCmd.AddCommand(serveStopCmd)
	serveCmd.AddCommand(serveTokenCmd)
	rootCmd.AddCommand(serveCmd)
}

func serveAddr() string {
	if flagServeAddr != "" {
		return flagServeAddr
	}
	return cfg.Server.Addr
}

func pidFile() string {
	if flagServePIDFile != "" {
		return flagServePIDFile
	}
	return filepath.Join(cfg.DataDir(), "savearn-server.pid")
}

func serverLogFile() string {
	if flagServeLogFile != "" {
		return flagServeLogFile
	}
	return filepath.Join(cfg.DataDir(), "savearn-server.log")
}

func runServe(cmd *cobra.Command, _ []string) error {
	if flagServeDetach && flagServeChild {
		return errors.New("invalid server launch mode")
	}
	if flagServeAnonymous {
		cfg.Server.AllowAnonymous = true
	}
	if cfg.Server.JWTSecret == "" && !cfg.Server.AllowAnonymous {
		return errors.New("server.jwt_secret (or SAVEARN_JWT_SECRET) is required unless --allow-anonymous is set")
	}

	if flagServeDetach {
		return startServerDetached()
	}
	return runServerForeground(cmd.Context())
}

func startServerDetached() error {
	pidPath := pidFile()
	if err := ensureServerNotRunning(pidPath); err != nil {
		return err
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}

	args := filterDetachArg(os.Args[1:])
	args = append(args, "--child")

	logPath := serverLogFile()
	for _, dir := range []string{filepath.Dir(pidPath), filepath.Dir(logPath)} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create server directory: %w", err)
		}
	}

	//nolint:gosec // log path is configured by the local user
	logf, err := os.OpenFile(logPath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open server log file: %w", err)
	}
	defer func() { _ = logf.Close() }()

	child := exec.Command(exe, args...) //nolint:gosec // exe/args come from current process invocation
	child.Stdout = logf
	child.Stderr = logf
	child.Stdin = nil
	child.Env = os.Environ()

	if err := child.Start(); err != nil {
		return fmt.Errorf("start detached server: %w", err)
	}

	fmt.Printf("  Started server (pid %d)\n", child.Process.Pid)
	fmt.Printf("  PID file: %s\n", pidPath)
	fmt.Printf("  API: http://%s/v1/status\n", serveAddr())
	fmt.Printf("  Log: %s\n", logPath)
	return nil
}

func runServerForeground(ctx context.Context) error {
	pidPath := pidFile()
	if err := ensureServerNotRunning(pidPath); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(pidPath), 0o750); err != nil {
		return fmt.Errorf("create server directory: %w", err)
	}

	repo, release, err := openRepository(ctx)
	if err != nil {
		return fmt.Errorf("opening entry storage: %w", err)
	}
	defer release()

	pid := os.Getpid()
	if err := writePID(pidPath, pid); err != nil {
		return err
	}
	defer func() { _ = os.Remove(pidPath) }()

	addr := serveAddr()
	_ = writeState(statePath(pidPath), serverRuntimeState{
		PID:       pid,
		Addr:      addr,
		StartedAt: time.Now(),
		Backend:   cfg.Storage.Backend,
	})
	defer func() { _ = os.Remove(statePath(pidPath)) }()

	base := slog.Default()
	svc := ledger.New(repo, ledger.Options{
		DefaultPageSize: cfg.Server.DefaultPageSize,
		MaxPageSize:     cfg.Server.MaxPageSize,
		Directory:       newDirectory(),
		Logger:          logging.Component(base, logging.ComponentStorage),
	})
	srv := api.New(api.Config{
		Addr:           addr,
		JWTSecret:      cfg.Server.JWTSecret,
		AllowAnonymous: cfg.Server.AllowAnonymous,
		AnonymousUser:  cfg.Server.AnonymousUser,
		EventsBuffer:   flagServeEventsBuffer,
		Backend:        cfg.Storage.Backend,
	}, svc, logging.Component(base, logging.ComponentHTTP))

	fmt.Printf("  savearn API listening on http://%s\n", addr)
	if cfg.Server.AllowAnonymous {
		fmt.Printf("  Requests without a token act as %q\n", cfg.Server.AnonymousUser)
	}
	fmt.Printf("  Stop with: savearn serve stop --pid-file %s\n", pidPath)

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runServeStatus(_ *cobra.Command, _ []string) error {
	pidPath := pidFile()
	pid, err := readPID(pidPath)
	if err != nil {
		fmt.Printf("  Server: not running (pid file not found)\n")
		return nil
	}
	if !processAlive(pid) {
		fmt.Printf("  Server: stale pid file (pid %d not alive)\n", pid)
		return nil
	}

	addr := serveAddr()
	if st, err := readState(statePath(pidPath)); err == nil && st.Addr != "" {
		addr = st.Addr
	}

	fmt.Printf("  Server PID: %d\n", pid)
	fmt.Printf("  Address: http://%s\n", addr)

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + addr + "/v1/status") //nolint:noctx // short status probe
	if err != nil {
		fmt.Printf("  API status: unreachable (%v)\n", err)
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("  API status: HTTP %d\n", resp.StatusCode)
		return nil
	}

	var st api.Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		fmt.Printf("  API status: malformed response (%v)\n", err)
		return nil
	}

	fmt.Printf("  Up since: %s\n", st.StartedAt.Local().Format(time.RFC3339))
	fmt.Printf("  Backend: %s\n", st.Backend)
	fmt.Printf("  Anonymous access: %v\n", st.AllowAnonymous)
	fmt.Printf("  Requests: %d (%d failed)\n", st.Requests, st.Failures)
	fmt.Printf("  Live subscribers: %d, buffered events: %d\n", st.SubscriberCount, st.EventCount)
	return nil
}

func runServeStop(_ *cobra.Command, _ []string) error {
	pidPath := pidFile()
	pid, err := readPID(pidPath)
	if err != nil {
		return errors.New("server is not running")
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("find server process: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal server process: %w", err)
	}

	deadline := time.Now().Add(8 * time.Second)
	for time.Now().Before(deadline) {
		if !processAlive(pid) {
			_ = os.Remove(pidPath)
			_ = os.Remove(statePath(pidPath))
			fmt.Printf("  Stopped server (pid %d)\n", pid)
			return nil
		}
		time.Sleep(150 * time.Millisecond)
	}
	return fmt.Errorf("server (pid %d) did not exit in time", pid)
}

func runServeToken(_ *cobra.Command, _ []string) error {
	if cfg.Server.JWTSecret == "" {
		return errors.New("server.jwt_secret (or SAVEARN_JWT_SECRET) is not set")
	}
	tok, err := api.IssueToken(cfg.Server.JWTSecret, cfg.General.UserID, flagTokenTTL)
	if err != nil {
		return err
	}
	fmt.Println(tok)
	return nil
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

func ensureServerNotRunning(pidPath string) error {
	pid, err := readPID(pidPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if processAlive(pid) {
		return fmt.Errorf("server already running (pid %d)", pid)
	}
	_ = os.Remove(pidPath)
	_ = os.Remove(statePath(pidPath))
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
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
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

func statePath(pidPath string) string {
	return pidPath + ".json"
}

func writeState(path string, st serverRuntimeState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}

func readState(path string) (serverRuntimeState, error) {
	var st serverRuntimeState
	//nolint:gosec // state path is configured by the local user
	data, err := os.ReadFile(path)
	if err != nil {
		return st, err
	}
	err = json.Unmarshal(data, &st)
	return st, err
}

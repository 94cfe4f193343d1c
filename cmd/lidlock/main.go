// Package main is the CLI entry point for lidlock.
//
// Build for Windows with -ldflags "-H=windowsgui" so the agent has no console.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/eliteGoblin/lidlock/internal/config"
	"github.com/eliteGoblin/lidlock/internal/daemon"
	"github.com/eliteGoblin/lidlock/internal/infra"
	"github.com/eliteGoblin/lidlock/internal/logging"
	"github.com/eliteGoblin/lidlock/internal/policy"
	"github.com/eliteGoblin/lidlock/internal/singleton"
)

var (
	// Version info (set via ldflags)
	Version   = "0.1.0"
	Commit    = "dev"
	BuildTime = "unknown"
)

// exitAlreadyRunning mirrors ERROR_ALREADY_EXISTS.
const exitAlreadyRunning = 183

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

// exitCode propagates OS error numbers to the process exit status.
func exitCode(err error) int {
	if errors.Is(err, singleton.ErrAlreadyRunning) {
		return exitAlreadyRunning
	}
	var errno syscall.Errno
	if errors.As(err, &errno) && errno != 0 {
		return int(errno)
	}
	return 1
}

var rootCmd = &cobra.Command{
	Use:   "lidlock [logfile]",
	Short: "Lock the session when the laptop lid closes",
	Long: `lidlock is a background agent that subscribes to lid-switch and
monitor power notifications and locks the interactive session when the
lid closes. Remote sessions are never locked.

With no arguments nothing is logged. Pass a file path to append a log
there, or --debug to log to lidlock.log in the temp directory. A log path
that starts with "-" or equals a subcommand name must follow "--":

  lidlock -- status
  lidlock -- -lid.log`,
	Version:      Version,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runAgent,
}

var startCmd = &cobra.Command{
	Use:   "start [logfile]",
	Short: "Start the agent in the background",
	Long:  `Spawns a detached agent process with the same logging arguments and returns.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStart,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether the agent is running",
	RunE:  runStatus,
}

var installCmd = &cobra.Command{
	Use:   "install [logfile]",
	Short: "Start the agent automatically on login",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInstall,
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the login autostart entry",
	RunE:  runUninstall,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Prints version, commit, and build time. Use --json for machine-readable output.`,
	Run:   runVersion,
}

var (
	debugLog   bool
	jsonOutput bool
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "Log to "+config.DebugLogFile+" in the temp directory")
	versionCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version info as JSON")

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(versionCmd)
}

func runAgent(cmd *cobra.Command, args []string) error {
	cfg := config.FromArgs(debugLog, args)

	logger := logging.New(cfg.LogPath)
	defer func() { _ = logger.Sync() }()

	// Set up graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			logger.Info("received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	return daemon.NewAgent(cfg, logger).Run(ctx)
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg := config.FromArgs(debugLog, args)

	held, err := singleton.Probe(singleton.Identifier)
	if err != nil {
		return fmt.Errorf("failed to check for a running agent: %w", err)
	}
	if held {
		fmt.Println("lidlock is already running")
		return nil
	}

	pid, err := daemon.StartDetached(cfg)
	if err != nil {
		return fmt.Errorf("failed to start agent: %w", err)
	}

	fmt.Printf("lidlock started (pid %d)\n", pid)
	if cfg.LogPath != "" {
		fmt.Printf("Logging to %s\n", cfg.LogPath)
	}
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	pm := infra.NewProcessManager()

	fmt.Println("\n=== lidlock Status ===")

	held, err := singleton.Probe(singleton.Identifier)
	switch {
	case err != nil:
		fmt.Printf("Status: UNKNOWN (%v)\n", err)
	case held:
		fmt.Println("Status: RUNNING")
	default:
		fmt.Println("Status: NOT RUNNING")
		fmt.Println("\nRun 'lidlock start' to enable lid locking.")
	}

	if pids, err := pm.FindByName(config.AppName); err == nil {
		for _, pid := range pids {
			if pid != pm.GetCurrentPID() {
				fmt.Printf("Process: %d\n", pid)
			}
		}
	}

	if autostart, err := infra.NewAutostartManager(); err == nil {
		if autostart.IsInstalled() {
			fmt.Printf("Auto-start: enabled (%s)\n", autostart.Location())
		} else {
			fmt.Println("Auto-start: disabled")
		}
	}

	fmt.Println("\nSubscribed notifications:")
	for _, c := range policy.NewRegistry().GetAll() {
		fmt.Printf("  - %s %s\n", c.Name, c.GUID)
	}

	fmt.Println("======================")
	return nil
}

func runInstall(cmd *cobra.Command, args []string) error {
	cfg := config.FromArgs(debugLog, args)

	autostart, err := infra.NewAutostartManager()
	if err != nil {
		return err
	}

	executable, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}

	if err := autostart.Install(executable, cfg.AgentArgs()); err != nil {
		return fmt.Errorf("failed to install autostart: %w", err)
	}

	fmt.Printf("Installed autostart entry at %s\n", autostart.Location())
	return nil
}

func runUninstall(cmd *cobra.Command, args []string) error {
	autostart, err := infra.NewAutostartManager()
	if err != nil {
		return err
	}

	if !autostart.IsInstalled() {
		fmt.Println("Autostart entry not installed")
		return nil
	}

	if err := autostart.Uninstall(); err != nil {
		return fmt.Errorf("failed to remove autostart: %w", err)
	}

	fmt.Printf("Removed autostart entry %s\n", autostart.Location())
	return nil
}

func runVersion(cmd *cobra.Command, args []string) {
	if jsonOutput {
		fmt.Printf(`{"version":"%s","commit":"%s","build_time":"%s"}`+"\n",
			Version, Commit, BuildTime)
	} else {
		fmt.Printf("lidlock %s (commit: %s, built: %s)\n",
			Version, Commit, BuildTime)
	}
}

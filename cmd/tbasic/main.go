// Command tbasic runs the Not-So-Tiny Basic interpreter: interactively as a
// REPL, or against a program file passed on the command line.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sbelectronics/tbasic/arena"
	"github.com/sbelectronics/tbasic/config"
	"github.com/sbelectronics/tbasic/host"
	"github.com/sbelectronics/tbasic/interp"
	"github.com/sbelectronics/tbasic/monitor"
)

var (
	debugMode  bool
	tuiMode    bool
	configPath string
)

var command = &cobra.Command{
	Use:   "tbasic [file]",
	Short: "Not-So-Tiny Basic interpreter",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		a := arena.New(int(cfg.Arena.Size))
		h := host.NewTerminalHost()
		r := interp.NewREPL(a, h)

		// Raw mode gives us per-byte input and Ctrl-C break polling; when
		// the terminal refuses (e.g. piped stdin) the line discipline
		// already echoes, so we must not echo a second time. The monitor
		// front-ends own the terminal themselves and are left alone.
		raw := false
		if !debugMode && !tuiMode {
			raw = h.EnableRawMode()
			defer h.DisableRawMode()
		}
		r.Interp.Echo = raw && cfg.REPL.Echo

		if len(args) == 1 {
			return runFile(r, args[0])
		}
		return runInteractive(r, cfg)
	},
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFrom(configPath)
	}
	return config.Load()
}

// runFile loads a program from disk and autoruns it without the banner.
func runFile(r *interp.REPL, path string) error {
	src, err := os.ReadFile(path) // #nosec G304 -- user-supplied program path
	if err != nil {
		return fmt.Errorf("cannot open %s: %w", path, err)
	}

	for _, line := range splitLines(src) {
		if result, _ := interp.ProcessLine(r.Arena, line); result == interp.LineNoMem {
			return fmt.Errorf("not enough memory to load %s", path)
		}
	}

	if !r.Interp.StartProgram() {
		return nil
	}
	if debugMode {
		return monitor.RunCLI(r.Interp, os.Stdin, os.Stdout, monitor.NewCommandHistory(0))
	}
	if tuiMode {
		return monitor.RunTUI(r.Interp, monitor.NewCommandHistory(0))
	}
	r.RunProgram()
	return nil
}

func runInteractive(r *interp.REPL, cfg *config.Config) error {
	r.ShowBanner = cfg.REPL.ShowBanner
	if debugMode || tuiMode {
		// The monitors step an already-positioned interpreter; with no
		// program file, position it on an empty direct-mode line.
		r.Interp.StartDirect(nil)
	}
	if debugMode {
		r.Banner()
		return monitor.RunCLI(r.Interp, os.Stdin, os.Stdout, monitor.NewCommandHistory(cfg.Monitor.HistorySize))
	}
	if tuiMode {
		r.Banner()
		return monitor.RunTUI(r.Interp, monitor.NewCommandHistory(cfg.Monitor.HistorySize))
	}
	r.Run()
	return nil
}

func splitLines(src []byte) [][]byte {
	var lines [][]byte
	start := 0
	for i, b := range src {
		if b == '\n' {
			lines = append(lines, src[start:i])
			start = i + 1
		}
	}
	if start < len(src) {
		lines = append(lines, src[start:])
	}
	return lines
}

func init() {
	command.PersistentFlags().BoolVar(&debugMode, "debug", false, "attach the line-oriented arena monitor")
	command.PersistentFlags().BoolVar(&tuiMode, "tui", false, "attach the tview arena monitor")
	command.PersistentFlags().StringVar(&configPath, "config", "", "path to config.toml (default: platform config dir)")
}

func main() {
	if err := command.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

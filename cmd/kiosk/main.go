// Command kiosk runs the exhibit: a start menu and the memory game, driven
// by a hand tracker over a websocket, a recorded gesture script, or the
// mouse.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arl/statsviz"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/phanxgames/kiosk"
	"github.com/phanxgames/kiosk/internal/config"
	"github.com/phanxgames/kiosk/internal/logging"
	"github.com/phanxgames/kiosk/scenes/memory"
	"github.com/phanxgames/kiosk/scenes/startmenu"
	"github.com/phanxgames/kiosk/tracking"
)

var (
	configFile string
	logLevel   string
	scriptFile string
)

var rootCmd = &cobra.Command{
	Use:           "kiosk",
	Short:         "Gesture-driven exhibit kiosk",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().StringVar(&configFile, "config", "", "YAML config file")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.Flags().StringVar(&scriptFile, "script", "", "replay a JSON gesture script")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error("kiosk failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if scriptFile != "" {
		cfg.Tracking.Script = scriptFile
	}
	logger := logging.New("kiosk", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	stage := kiosk.NewStage(kiosk.StageConfig{
		Width:       cfg.Window.Width,
		Height:      cfg.Window.Height,
		Assets:      os.DirFS(cfg.Assets.Dir),
		ClearColor:  kiosk.Color{A: 1},
		DirectInput: cfg.Window.DirectInput,
		Logger:      logger,
	})
	if cfg.Debug.ShowFPS {
		stage.ShowFPS()
	}
	if err := registerScenes(stage, cfg); err != nil {
		return err
	}
	if err := attachSources(ctx, stage, cfg, logger); err != nil {
		return err
	}
	if cfg.Debug.StatsAddr != "" {
		go serveStats(cfg.Debug.StatsAddr, logger)
	}

	if err := stage.Manager().Switch(ctx, cfg.StartScene); err != nil {
		return fmt.Errorf("start scene: %w", err)
	}
	go func() {
		<-ctx.Done()
		stage.RequestQuit()
	}()

	runErr := kiosk.Run(stage, kiosk.RunConfig{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		HideCursor: cfg.Window.HideCursor,
	})
	stop()

	sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return errors.Join(runErr, stage.Shutdown(sctx))
}

func registerScenes(stage *kiosk.Stage, cfg *config.Config) error {
	m := stage.Manager()

	mem := memory.DefaultConfig()
	mem.TimeBudget = cfg.Memory.TimeBudget
	mem.MatchAward = cfg.Memory.MatchAward
	mem.RevealDelay = cfg.Memory.RevealDelay
	mem.Symbols = cfg.Memory.Symbols
	if err := m.Register("Memory", memory.New(mem)); err != nil {
		return err
	}

	menu := startmenu.DefaultConfig()
	menu.Title = cfg.Menu.Title
	menu.Entries = menu.Entries[:0]
	for _, e := range cfg.Menu.Entries {
		menu.Entries = append(menu.Entries, startmenu.Entry{Label: e.Label, Scene: e.Scene})
	}
	return m.Register("StartMenu", startmenu.New(menu, m.Registered))
}

func attachSources(ctx context.Context, stage *kiosk.Stage, cfg *config.Config, logger *log.Logger) error {
	tc := cfg.Tracking
	if tc.Script != "" {
		data, err := os.ReadFile(tc.Script)
		if err != nil {
			return fmt.Errorf("read gesture script: %w", err)
		}
		script, err := tracking.LoadScript(data)
		if err != nil {
			return err
		}
		if tc.ScriptLoop {
			script.SetLoop(true)
		}
		var src kiosk.Source = script
		if tc.DwellFrames > 0 {
			src = tracking.WithDwell(src, tracking.NewDwell(tc.DwellRadius, tc.DwellFrames))
		}
		stage.AddSource(src)
		logger.Info("replaying gesture script", "file", tc.Script, "loop", tc.ScriptLoop)
	}

	if tc.Addr == "" {
		return nil
	}
	opts := []tracking.Option{
		tracking.WithLogger(logger.WithPrefix("tracking")),
		tracking.WithBuffer(tc.Buffer),
	}
	if tc.DwellFrames > 0 {
		opts = append(opts, tracking.WithDwellClicks(tc.DwellRadius, tc.DwellFrames))
	}
	ws := tracking.NewWebSocketSource(opts...)
	stage.AddSource(ws)
	go func() {
		if err := ws.ListenAndServe(ctx, tc.Addr); err != nil {
			logger.Error("tracking server stopped", "err", err)
		}
	}()
	return nil
}

func serveStats(addr string, logger *log.Logger) {
	mux := http.NewServeMux()
	if err := statsviz.Register(mux); err != nil {
		logger.Error("statsviz", "err", err)
		return
	}
	logger.Info("runtime stats", "url", "http://"+addr+"/debug/statsviz/")
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("stats server stopped", "err", err)
	}
}

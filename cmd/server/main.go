package main

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"casualgames/internal/config"
	"casualgames/internal/game"
	"casualgames/internal/game/dots"
	"casualgames/internal/game/game2048"
	"casualgames/internal/game/memory"
	"casualgames/internal/game/rps"
	"casualgames/internal/game/sliding"
	"casualgames/internal/game/sudoku"
	"casualgames/internal/game/tictactoe"
	"casualgames/internal/game/wordsearch"
	"casualgames/internal/server"
	"casualgames/internal/session"
	"casualgames/internal/storage"
)

const shutdownTimeout = 5 * time.Second

var (
	configPath string
	dotenvPath string
)

var rootCmd = &cobra.Command{
	Use:   "casualgames",
	Short: "Serve the casual games portal",
	Long: `casualgames serves 2048, Sudoku, Tic-Tac-Toe, Dots and Boxes, Memory Match,
Word Search, Sliding Puzzle and Rock Paper Scissors over HTTP and WebSocket.

Settings come from defaults, then --config, then .env, then the environment,
then flags.
	casualgames --port 9000 --pretty
`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath, dotenvPath)
		if err != nil {
			return err
		}
		if err := cfg.ApplyFlags(cmd.Flags()); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		setupLogging(cfg)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return run(ctx, cfg)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.Flags().StringVar(&dotenvPath, "env", ".env", "Dotenv file, ignored when missing")
	config.RegisterFlags(rootCmd.Flags())
}

func setupLogging(cfg config.Config) {
	lvl, _ := cfg.Level()
	zerolog.SetGlobalLevel(lvl)
	if cfg.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func newRegistry(scores *storage.BestScore) *game.Registry {
	registry := game.NewRegistry()
	registry.Register(
		game2048.Game2048{Keeper: scores},
		sudoku.Sudoku{},
		tictactoe.TicTacToe{},
		dots.DotsAndBoxes{},
		memory.MemoryMatch{},
		wordsearch.WordSearch{},
		sliding.SlidingPuzzle{},
		rps.RockPaperScissors{},
	)
	return registry
}

func run(ctx context.Context, cfg config.Config) error {
	store, err := storage.New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	scores := storage.NewBestScore(store)
	registry := newRegistry(scores)

	mgr := session.NewManager(registry, store, nil)
	if err := mgr.Restore(); err != nil {
		log.Warn().Err(err).Msg("restore sessions")
	}
	go mgr.CleanupLoop(ctx, cfg.CleanupInterval, cfg.SessionMaxAge)

	var static fs.FS
	if cfg.StaticDir != "" {
		static = os.DirFS(cfg.StaticDir)
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           server.New(registry, mgr, scores, static),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Strs("games", registry.Names()).Msg("listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("exit")
		os.Exit(1)
	}
}

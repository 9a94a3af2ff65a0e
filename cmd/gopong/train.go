package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/gopongai/gopong/internal/ai"
	"github.com/gopongai/gopong/internal/config"
	"github.com/gopongai/gopong/internal/game"
	"github.com/gopongai/gopong/internal/storage"
	"github.com/gopongai/gopong/internal/trainer"
)

var (
	flagGames          int
	flagSaveInterval   int
	flagReportInterval int
	flagReplay         bool
	flagTrainRecord    bool
	flagLearningRate   float64
	flagNumNodes       int
	flagLeftWeights    string
	flagRightWeights   string
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train CPU weights by self-play",
	Long: `Run headless self-play between two CPU players and save their
weights. Training skips rendering and serve pauses, so it runs as fast
as the machine allows; progress is logged every tenth of the session,
or every --report-interval games when set.

Existing weight files are picked up automatically, so repeated runs
keep improving the same players. Point 'gopong play --p2-weights' or
'gopong serve --weights' at the right-side file to face the result.

Examples:
  gopong train --games 500
  gopong train --games 2000 --save-interval 100 --report-interval 50
  gopong train --learning-rate 0.05 --num-nodes 32
  gopong train --replay --record
  gopong train --p1-weights ./a.json --p2-weights ./b.json`,
	Args: cobra.NoArgs,
	Run:  runTrain,
}

func init() {
	trainCmd.Flags().IntVar(&flagGames, "games", 100, "Number of games to play")
	trainCmd.Flags().Float64Var(&flagLearningRate, "learning-rate", 0, "Learning rate (0 = value from the rules file)")
	trainCmd.Flags().IntVar(&flagNumNodes, "num-nodes", 0, "Sigmoid units per new player (0 = value from the rules file)")
	trainCmd.Flags().IntVar(&flagSaveInterval, "save-interval", 0, "Save weights every N games (0 = only at the end)")
	trainCmd.Flags().IntVar(&flagReportInterval, "report-interval", 0, "Log progress every N games (0 = 10% milestones only)")
	trainCmd.Flags().BoolVar(&flagReplay, "replay", false, "Replay recorded rallies before self-play")
	trainCmd.Flags().BoolVar(&flagTrainRecord, "record", false, "Record training rallies to the database")
	trainCmd.Flags().StringVar(&flagLeftWeights, "p1-weights", "", "Left player weights file (default ~/.gopong/weights_left.json)")
	trainCmd.Flags().StringVar(&flagRightWeights, "p2-weights", "", "Right player weights file (default ~/.gopong/weights.json)")
}

func runTrain(cmd *cobra.Command, args []string) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "gopong-train",
	})

	fileCfg, err := config.Load(flagConfig)
	if err != nil {
		logger.Fatal("cannot load config", "error", err)
	}
	if flagLearningRate > 0 {
		fileCfg.AI.LearningRate = flagLearningRate
	}
	if flagNumNodes > 0 {
		fileCfg.AI.NumNodes = flagNumNodes
	}

	gameCfg := buildGameConfig(fileCfg, flagFPS, flagSeed)
	gameCfg.MaxGames = flagGames
	gameCfg.AutoRestart = true
	gameCfg.ResetDelayTicks = 0 // No serve pause when nobody is watching

	leftPath, rightPath := flagLeftWeights, flagRightWeights
	if leftPath == "" || rightPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			logger.Fatal("cannot get home directory", "error", homeErr)
		}
		if leftPath == "" {
			leftPath = filepath.Join(home, ".gopong", "weights_left.json")
		}
		if rightPath == "" {
			rightPath = filepath.Join(home, ".gopong", "weights.json")
		}
	}
	for _, p := range []string{leftPath, rightPath} {
		if mkErr := os.MkdirAll(filepath.Dir(p), 0o755); mkErr != nil {
			logger.Fatal("cannot create weights directory", "error", mkErr)
		}
	}

	left := loadOrNewPlayer(leftPath, fileCfg, gameCfg, gameCfg.Seed, logger)
	right := loadOrNewPlayer(rightPath, fileCfg, gameCfg, gameCfg.Seed+1, logger)

	g := game.New(gameCfg, left, right)
	g.SetLabels("CPU L", "CPU R")

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open match database", "error", err)
		store = nil
	}

	if flagTrainRecord {
		if store == nil {
			logger.Fatal("--record needs a working match database")
		}
		g.SetRecorder(storage.NewPointSink(store))
	}

	tr := &trainer.Trainer{
		Game:           g,
		Left:           left,
		Right:          right,
		LeftPath:       leftPath,
		RightPath:      rightPath,
		Games:          flagGames,
		SaveInterval:   flagSaveInterval,
		ReportInterval: flagReportInterval,
		Replay:         flagReplay,
		Store:          store,
		Logger:         logger,
	}

	// Ctrl+C saves weights and exits cleanly
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := tr.Run(ctx)

	if store != nil {
		store.Close()
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		logger.Fatal("training failed", "error", runErr)
	}
}

// loadOrNewPlayer resumes from saved weights when the file exists. A
// resumed player keeps its stored shape; only the learning rate can be
// overridden from the command line.
func loadOrNewPlayer(path string, fileCfg config.GameConfig, gameCfg game.Config, seed int64, logger *log.Logger) *ai.Player {
	if _, statErr := os.Stat(path); statErr == nil {
		p, err := ai.LoadPlayer(path, gameCfg.GridW, gameCfg.GridH)
		if err != nil {
			logger.Fatal("cannot load weights", "path", path, "error", err)
		}
		if flagLearningRate > 0 {
			p.SetLearningRate(flagLearningRate)
		}
		logger.Info("resuming from saved weights", "path", path, "games_played", p.GamesPlayed())
		return p
	}

	return ai.NewPlayer(gameCfg.GridW, gameCfg.GridH, aiOptions(fileCfg, seed))
}

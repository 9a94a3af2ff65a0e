package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gopongai/gopong/internal/ai"
	"github.com/gopongai/gopong/internal/config"
	"github.com/gopongai/gopong/internal/core"
	"github.com/gopongai/gopong/internal/game"
	"github.com/gopongai/gopong/internal/platform/tui"
	"github.com/gopongai/gopong/internal/storage"
)

var (
	flagPlayer1   string
	flagPlayer2   string
	flagPoints    int
	flagWinByTwo  bool
	flagP1Weights string
	flagP2Weights string
	flagRecord    bool
	flagMaxGames  int
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a match in the terminal",
	Long: `Start a match in the current terminal.

By default you control the left paddle against a CPU player. Set
--player2 human for two people on one keyboard, or make both sides CPU
to watch the machines play each other. A CPU side resumes from its
weights file when one is given and saves what it learned on exit.

Controls:
  W/S        - Left paddle (arrows work too in solo play)
  Up/Down    - Right paddle in two player mode
  Space      - New match (after game over)
  P/Esc      - Pause
  Ctrl+S     - Save screenshot
  Q/Ctrl+C   - Quit

Examples:
  gopong play
  gopong play --player2 human
  gopong play --player1 ai --player2 ai --max-games 3
  gopong play --p2-weights ~/.gopong/weights.json
  gopong play --points 5 --win-by-two
  gopong play --record
  gopong play --config ./my-rules.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagPlayer1, "player1", "human", "Left paddle controller: human or ai")
	playCmd.Flags().StringVar(&flagPlayer2, "player2", "ai", "Right paddle controller: human or ai")
	playCmd.Flags().IntVar(&flagPoints, "points", 0, "Points needed to win (overrides the rules file)")
	playCmd.Flags().BoolVar(&flagWinByTwo, "win-by-two", false, "Require a two point lead to win")
	playCmd.Flags().StringVar(&flagP1Weights, "p1-weights", "", "Weights file for an AI left paddle")
	playCmd.Flags().StringVar(&flagP2Weights, "p2-weights", "", "Weights file for an AI right paddle")
	playCmd.Flags().BoolVar(&flagRecord, "record", false, "Record rallies to the database for replay training")
	playCmd.Flags().IntVar(&flagMaxGames, "max-games", 0, "End the session after N games (0 = play until quit)")
}

func runPlay(cmd *cobra.Command, args []string) {
	for _, pt := range []string{flagPlayer1, flagPlayer2} {
		if pt != storage.PlayerHuman && pt != storage.PlayerAI {
			fmt.Fprintf(os.Stderr, "Error: invalid player type %q (want human or ai)\n", pt)
			os.Exit(1)
		}
	}

	fileCfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	gameCfg := buildGameConfig(fileCfg, flagFPS, flagSeed)
	if flagPoints > 0 {
		gameCfg.PointsToWin = flagPoints
	}
	if cmd.Flags().Changed("win-by-two") {
		gameCfg.WinByTwo = flagWinByTwo
	}
	gameCfg.MaxGames = flagMaxGames

	// Get terminal size
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	rt := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     gameCfg.Seed,
	}

	// Assemble both sides; CPU players keep learning during the match
	p1, cpu1, err := newSidePlayer(game.SideLeft, flagPlayer1, flagP1Weights, fileCfg, gameCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	p2, cpu2, err := newSidePlayer(game.SideRight, flagPlayer2, flagP2Weights, fileCfg, gameCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	g := game.New(gameCfg, p1, p2)
	g.SetLabels(sideLabels())

	// Open match storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open match database: %v\n", err)
		// Continue without storage - the match still works
		store = nil
	}

	if flagRecord {
		if store == nil {
			fmt.Fprintln(os.Stderr, "Error: --record needs a working database")
			os.Exit(1)
		}
		g.SetRecorder(storage.NewPointSink(store))
	}

	// Run the match
	runErr := tui.Run(g, store, rt, flagPlayer1, flagPlayer2)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	// Keep what the CPU players learned this session
	saveSideWeights(cpu1, flagP1Weights)
	saveSideWeights(cpu2, flagP2Weights)

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running match: %v\n", runErr)
		os.Exit(1)
	}
}

// newSidePlayer builds one paddle controller. An AI side resumes from its
// weights file when the file exists; a malformed file is a startup error.
// The second return value is non-nil only for AI sides, so the caller can
// save their weights when the session ends.
func newSidePlayer(side game.Side, kind, weightsPath string, fileCfg config.GameConfig, gameCfg game.Config) (game.Player, *ai.Player, error) {
	if kind == storage.PlayerHuman {
		if side == game.SideLeft {
			return game.NewHumanPlayer(core.ActionP1Up, core.ActionP1Down), nil, nil
		}
		return game.NewHumanPlayer(core.ActionP2Up, core.ActionP2Down), nil, nil
	}

	if weightsPath != "" {
		if _, statErr := os.Stat(weightsPath); statErr == nil {
			cpu, loadErr := ai.LoadPlayer(weightsPath, gameCfg.GridW, gameCfg.GridH)
			if loadErr != nil {
				return nil, nil, loadErr
			}
			return cpu, cpu, nil
		}
	}

	cpu := ai.NewPlayer(gameCfg.GridW, gameCfg.GridH, aiOptions(fileCfg, gameCfg.Seed+int64(side)))
	return cpu, cpu, nil
}

// sideLabels names the paddles for the score header.
func sideLabels() (string, string) {
	switch {
	case flagPlayer1 == storage.PlayerAI && flagPlayer2 == storage.PlayerAI:
		return "CPU L", "CPU R"
	case flagPlayer1 == storage.PlayerAI:
		return "CPU", "P2"
	case flagPlayer2 == storage.PlayerAI:
		return "P1", "CPU"
	default:
		return "P1", "P2"
	}
}

// saveSideWeights persists a CPU player's weights when a path was given.
func saveSideWeights(cpu *ai.Player, path string) {
	if cpu == nil || path == "" {
		return
	}
	if err := cpu.Save(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not save weights: %v\n", err)
	}
}

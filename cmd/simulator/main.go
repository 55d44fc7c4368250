package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pocketsim/pocket-sim-go/internal/carddb"
	"github.com/pocketsim/pocket-sim-go/internal/config"
	"github.com/pocketsim/pocket-sim-go/internal/deck"
	"github.com/pocketsim/pocket-sim-go/internal/game"
	"github.com/pocketsim/pocket-sim-go/internal/policy"
	"github.com/pocketsim/pocket-sim-go/internal/tournament"
)

var version = "dev" // set via ldflags during build

const usage = `Usage: simulator [-config path] <command> [args]

Commands:
  demo                         play one verbose demo match
  run <deckA.json> <deckB.json>  play N games between two decks
  meta <meta.json>             round-robin meta over named decks
`

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting pocket battle simulator",
		zap.String("version", version),
		zap.String("command", flag.Arg(0)),
	)

	db, err := carddb.Load(cfg.CardDB.Path, logger)
	if err != nil {
		logger.Fatal("failed to load card database", zap.Error(err))
	}

	sim := game.NewSimulator(cfg.GameRules(), db, logger)

	switch flag.Arg(0) {
	case "demo":
		err = runDemo(cfg, sim, db, flag.Args()[1:], logger)
	case "run":
		err = runMatches(cfg, sim, db, flag.Args()[1:], logger)
	case "meta":
		err = runMeta(cfg, sim, db, flag.Args()[1:], logger)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		logger.Fatal("command failed", zap.Error(err))
	}
}

func runDemo(cfg *config.Config, sim *game.Simulator, db *carddb.DB, args []string, logger *zap.Logger) error {
	fs := flag.NewFlagSet("demo", flag.ExitOnError)
	seed := fs.Int64("seed", 123, "match seed")
	deckA := fs.String("deck-a", "data/decks/leeks.json", "player 0 deck file")
	deckB := fs.String("deck-b", "data/decks/chinchillas.json", "player 1 deck file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	mcfg, err := matchConfig(*deckA, *deckB, db, *seed, cfg.Rules.MaxTurns, logger)
	if err != nil {
		return err
	}

	st, err := sim.Reset(*mcfg)
	if err != nil {
		return fmt.Errorf("failed to reset match: %w", err)
	}

	var recorder *game.ReplayRecorder
	var matchID string
	if cfg.Replay.Enabled {
		recorder = game.NewReplayRecorder(logger, cfg.Replay.Dir)
		matchID = recorder.StartRecording()
		recorder.RecordState(matchID, st)
	}

	pol := policy.NewBaseline()
	for !st.Terminal {
		switch st.Phase {
		case game.PhaseMain, game.PhaseAttack:
			sim.Step(st, pol.ChooseAction(sim, st))
		default:
			sim.Step(st, game.Pass)
		}
		if recorder != nil {
			recorder.RecordState(matchID, st)
		}
	}

	if recorder != nil {
		if err := recorder.SaveReplay(matchID); err != nil {
			logger.Warn("failed to save replay", zap.Error(err))
		}
	}

	logger.Info("demo match finished",
		zap.Int("winner", st.Winner),
		zap.Int("turns", st.Turn),
		zap.Int("p0_points", st.Players[0].PrizePoints),
		zap.Int("p1_points", st.Players[1].PrizePoints),
	)
	return nil
}

// runResults is the JSON payload written by the run command.
type runResults struct {
	Games     int     `json:"games"`
	DeckAWins int     `json:"deck_a_wins"`
	DeckBWins int     `json:"deck_b_wins"`
	Draws     int     `json:"draws"`
	WinRateA  float64 `json:"win_rate_a"`
}

func runMatches(cfg *config.Config, sim *game.Simulator, db *carddb.DB, args []string, logger *zap.Logger) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	games := fs.Int("games", 100, "number of games")
	seed := fs.Int64("seed", 42, "base seed; game i uses seed+i")
	out := fs.String("out", "results.json", "output file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("run requires two deck files, got %d args", fs.NArg())
	}

	pol := policy.NewBaseline()
	var results runResults
	results.Games = *games
	for i := 0; i < *games; i++ {
		mcfg, err := matchConfig(fs.Arg(0), fs.Arg(1), db, *seed+int64(i), cfg.Rules.MaxTurns, logger)
		if err != nil {
			return err
		}
		winner, err := tournament.PlayMatch(sim, pol, *mcfg)
		if err != nil {
			return err
		}
		switch winner {
		case 0:
			results.DeckAWins++
		case 1:
			results.DeckBWins++
		default:
			results.Draws++
		}
	}
	results.WinRateA = float64(results.DeckAWins) / float64(*games)

	if err := writeJSON(*out, results); err != nil {
		return err
	}
	logger.Info("run finished",
		zap.Int("games", results.Games),
		zap.Int("deck_a_wins", results.DeckAWins),
		zap.Int("deck_b_wins", results.DeckBWins),
		zap.Int("draws", results.Draws),
		zap.Float64("win_rate_a", results.WinRateA),
		zap.String("out", *out),
	)
	return nil
}

func runMeta(cfg *config.Config, sim *game.Simulator, db *carddb.DB, args []string, logger *zap.Logger) error {
	fs := flag.NewFlagSet("meta", flag.ExitOnError)
	games := fs.Int("games", 200, "games per pairing")
	seed := fs.Int64("seed", 42, "base seed")
	workers := fs.Int("workers", 4, "parallel match workers")
	out := fs.String("out", "meta_results.json", "output file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("meta requires one meta file, got %d args", fs.NArg())
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("failed to read meta file: %w", err)
	}
	var meta map[string]deck.Deck
	if err := json.Unmarshal(data, &meta); err != nil {
		return fmt.Errorf("failed to parse meta file: %w", err)
	}

	names := make([]string, 0, len(meta))
	for name := range meta {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]tournament.Entry, 0, len(names))
	for _, name := range names {
		d := meta[name]
		cards, warnings := deck.Normalize(d.Cards, db)
		for _, w := range warnings {
			logger.Warn("deck normalization", zap.String("deck", name), zap.String("warning", w))
		}
		if ok, msgs := deck.Validate(&deck.Deck{Cards: cards, EnergyTypes: d.EnergyTypes}); !ok {
			for _, m := range msgs {
				logger.Warn("deck validation", zap.String("deck", name), zap.String("problem", m))
			}
		}
		entries = append(entries, tournament.Entry{
			Name:        name,
			Cards:       cards,
			EnergyTypes: d.EnergyTypes,
		})
	}

	mgr := tournament.NewManager(sim, policy.NewBaseline(), *workers, logger)
	res, err := mgr.RunMeta(entries, *games, *seed)
	if err != nil {
		return err
	}

	if err := writeJSON(*out, res.WinRates); err != nil {
		return err
	}
	logger.Info("meta finished",
		zap.String("meta_id", res.ID),
		zap.Int("pairings", len(res.Pairings)),
		zap.String("out", *out),
	)
	return nil
}

// matchConfig loads and normalizes both deck files into a MatchConfig.
func matchConfig(pathA, pathB string, db *carddb.DB, seed int64, maxTurns int, logger *zap.Logger) (*game.MatchConfig, error) {
	load := func(path string) (*deck.Deck, error) {
		d, err := deck.LoadFile(path)
		if err != nil {
			return nil, err
		}
		cards, warnings := deck.Normalize(d.Cards, db)
		for _, w := range warnings {
			logger.Warn("deck normalization", zap.String("file", path), zap.String("warning", w))
		}
		d.Cards = cards
		return d, nil
	}

	a, err := load(pathA)
	if err != nil {
		return nil, err
	}
	b, err := load(pathB)
	if err != nil {
		return nil, err
	}

	return &game.MatchConfig{
		P0Deck:        a.Cards,
		P0EnergyTypes: a.EnergyTypes,
		P1Deck:        b.Cards,
		P1EnergyTypes: b.EnergyTypes,
		Seed:          seed,
		MaxTurns:      maxTurns,
	}, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	return nil
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

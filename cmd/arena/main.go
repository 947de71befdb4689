package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/orbitarena/server/internal/config"
	"github.com/orbitarena/server/internal/core/event"
	coresys "github.com/orbitarena/server/internal/core/system"
	"github.com/orbitarena/server/internal/data"
	"github.com/orbitarena/server/internal/handler"
	"github.com/orbitarena/server/internal/insult"
	gonet "github.com/orbitarena/server/internal/net"
	"github.com/orbitarena/server/internal/net/packet"
	"github.com/orbitarena/server/internal/persist"
	"github.com/orbitarena/server/internal/round"
	"github.com/orbitarena/server/internal/score"
	"github.com/orbitarena/server/internal/scripting"
	"github.com/orbitarena/server/internal/system"
	"github.com/orbitarena/server/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(serverName string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m              Orbit Arena                  \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mServer:\033[0m %s\n\n", serverName)
}

func printSection(title string) {
	lineLen := max(46-len(title)-1, 3)
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := max(42-len(label)-len(numStr), 3)
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main server logic ─────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/arena.toml"
	if p := os.Getenv("ARENA_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name)

	seed := cfg.Server.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	log.Info("random seed", zap.Int64("seed", seed))

	board := score.NewBoard()

	// 3. Optional PostgreSQL: migrations, stored totals, round numbering
	var (
		scoreRepo *persist.ScoreRepo
		roundRepo *persist.RoundRepo
		lastRound int64
	)
	if cfg.Database.Enabled {
		printSection("Database")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("PostgreSQL connected")

		version, err := persist.RunMigrations(ctx, db)
		if err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		printOK(fmt.Sprintf("Migrations at version %d", version))

		scoreRepo = persist.NewScoreRepo(db)
		roundRepo = persist.NewRoundRepo(db)

		totals, err := scoreRepo.LoadAll(ctx)
		if err != nil {
			return fmt.Errorf("load scores: %w", err)
		}
		board.Restore(totals)
		printStat("Stored scores", len(totals))

		if lastRound, err = roundRepo.LastRound(ctx); err != nil {
			return fmt.Errorf("load rounds: %w", err)
		}
		printStat("Recorded rounds", int(lastRound))
		fmt.Println()
	}

	// 4. Load data tables
	printSection("Data")
	players, err := data.LoadPlayerTable(cfg.Data.Players)
	if err != nil {
		return fmt.Errorf("players: %w", err)
	}
	printStat("Player slots", players.Count())

	orbits, err := data.LoadOrbitTable(cfg.Data.Orbits, rng)
	if err != nil {
		return fmt.Errorf("orbits: %w", err)
	}
	printStat("Orbits", orbits.Count())
	log.Debug("orbits loaded", zap.Strings("names", orbits.Names()))

	collectables, err := data.LoadCollectableTable(cfg.Data.Collectables)
	if err != nil {
		return fmt.Errorf("collectables: %w", err)
	}
	printStat("Collectable kinds", collectables.Count())
	fmt.Println()

	// 5. Lua rules
	luaEngine, err := scripting.NewEngine(cfg.Scripting.Dir, rng, log)
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	defer luaEngine.Close()
	luaEngine.SetCollectableKinds(collectables.Kinds())
	printOK("Lua scripts loaded")

	// 6. Pads: registry, input state and broadcast
	store := gonet.NewSessionStore()
	pads := handler.NewPads(players)
	broadcaster := handler.NewBroadcaster(store)
	deps := &handler.Deps{Log: log, Pads: pads, Store: store}
	pktReg := packet.NewRegistry(log)
	handler.RegisterAll(pktReg, deps)

	var netServer *gonet.Server
	if cfg.Input.Enabled {
		netServer, err = gonet.NewServer(
			cfg.Input.BindAddress,
			cfg.Input.InQueueSize,
			cfg.Input.OutQueueSize,
			cfg.Input.WriteTimeout,
			log,
		)
		if err != nil {
			return fmt.Errorf("pad server: %w", err)
		}
		go netServer.AcceptLoop()
	}

	// 7. World and round controller
	bus := event.NewBus()
	ws := world.NewState(log)
	insults := insult.NewService(luaEngine, players, broadcaster, log)
	ctrl := round.NewController(cfg, ws, bus, round.Services{
		Score:       board,
		Announcer:   broadcaster,
		Insults:     insults,
		Players:     players,
		Orbits:      orbits,
		Input:       pads,
		Effects:     broadcaster,
		Display:     broadcaster,
		Collectable: luaEngine,
	}, rng, log)
	ctrl.ResumeFrom(lastRound)
	ctrl.LoadWorld()

	event.Subscribe(bus, func(event.RoundStarted) { insults.Reset() })
	event.Subscribe(bus, func(e event.RoundEnded) {
		for _, entry := range board.Standings() {
			log.Info("standing",
				zap.Int64("round", e.Round),
				zap.Int("player", entry.PlayerID),
				zap.Int("points", entry.Points),
			)
		}
	})
	var recorder system.RoundRecorder
	if roundRepo != nil {
		recorder = roundRepo
	}
	system.NewRoundHistory(bus, recorder, log)

	// 8. Create systems and register with runners
	roundSys := system.NewRoundSystem(ctrl, cfg.Round.Length, cfg.Round.Intermission, log)

	frame := coresys.NewRunner()
	frame.Register(system.NewInputSystem(netServer, pktReg, deps, cfg.Input.MaxPacketsPerTick, log))
	frame.Register(system.NewEventDispatchSystem(bus))
	frame.Register(roundSys)
	frame.Register(system.NewTimerSystem(ws))
	frame.Register(system.NewOrbitMotionSystem(ws))
	frame.Register(system.NewAgeSystem(ws))
	frame.Register(system.NewAsteroidRepairSystem(ctrl, log))
	frame.Register(system.NewOutputSystem(store))
	var scoreSys *system.ScorePersistenceSystem
	if scoreRepo != nil {
		scoreSys = system.NewScorePersistenceSystem(board, scoreRepo, cfg.Database.FlushInterval, log)
		frame.Register(scoreSys)
	}
	frame.Register(system.NewCleanupSystem(ws.ECS()))

	physics := coresys.NewRunner()
	physics.Register(system.NewGravitySystem(ctrl))
	physics.Register(system.NewMotionSystem(ws))
	physics.Register(system.NewCollisionSystem(ws, ctrl))
	fixed := coresys.NewFixedStep(cfg.Loop.FixedStep, cfg.Loop.MaxStepsPerFrame)

	// 9. Start game loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Loop.FrameRate)
	defer ticker.Stop()

	printSection("Ready")
	if netServer != nil {
		printReady(fmt.Sprintf("Pads on %s", netServer.Addr().String()))
	}
	printReady(fmt.Sprintf("Game loop (frame: %s, physics: %s)", cfg.Loop.FrameRate, cfg.Loop.FixedStep))
	fmt.Println()

	last := time.Now()
	for {
		select {
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			tickFrame(frame, physics, fixed, dt)
		case sig := <-shutdownCh:
			log.Info("shutdown signal", zap.String("signal", sig.String()))
			roundSys.Stop()
			// Deliver RoundEnded so the last round is recorded.
			bus.SwapBuffers()
			bus.DispatchAll()
			frame.TickPhase(coresys.PhaseOutput, 0)
			// Let the pads hear "Time's up." before the sockets go.
			store.DrainAndClose(shutdownDrain)
			if scoreSys != nil {
				scoreSys.Flush()
			}
			if netServer != nil {
				netServer.Shutdown()
			}
			log.Info("server stopped")
			return nil
		}
	}
}

const shutdownDrain = 2 * time.Second

// tickFrame runs one frame: input and round logic, the fixed physics
// steps that are due, then collisions' consequences are flushed with the
// rest of the frame.
func tickFrame(frame, physics *coresys.Runner, fixed *coresys.FixedStep, dt time.Duration) {
	for _, ph := range []coresys.Phase{coresys.PhaseInput, coresys.PhasePreUpdate, coresys.PhaseUpdate} {
		frame.TickPhase(ph, dt)
	}
	steps := fixed.Advance(dt)
	for i := 0; i < steps; i++ {
		physics.Tick(fixed.Step())
	}
	for _, ph := range []coresys.Phase{coresys.PhasePostUpdate, coresys.PhaseOutput, coresys.PhasePersist, coresys.PhaseCleanup} {
		frame.TickPhase(ph, dt)
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

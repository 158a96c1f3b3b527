// Command simulate plays a game of Lora in the terminal, either with four
// bots or with a human in the first seat.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"time"

	"lora/internal/app"
	"lora/internal/app/onboarding"
	"lora/internal/bot"
	"lora/internal/config"
	"lora/internal/domain"
	"lora/internal/logging"
	"lora/internal/ports"
	"lora/internal/ports/memory"
	"lora/internal/ports/redisstore"
	"lora/internal/ports/terminal"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "simulate:", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine.
	_ = godotenv.Load()

	seed := flag.Int64("seed", time.Now().UnixNano(), "shuffle seed")
	human := flag.Bool("human", false, "play the first seat from stdin")
	redisAddr := flag.String("redis", os.Getenv("LORA_REDIS_ADDR"), "redis address for the ledger, memory when empty")
	namespace := flag.String("namespace", "lora:sim", "redis key namespace")
	configPath := flag.String("config", "data/game_config.json", "game config file")
	identities := flag.String("bots", "data/bot_identities.json", "bot identities file")
	fresh := flag.Bool("fresh", false, "discard the stored ledger first")
	fast := flag.Bool("fast", false, "skip bot thinking delays")
	level := flag.String("log", envOr("LORA_LOG_LEVEL", "warn"), "log level")
	flag.Parse()

	logger, err := logging.NewDevelopment(*level)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if err := config.LoadGameConfig(*configPath); err != nil {
		logger.Warn("Using default game config: %v", err)
	}
	cfg := config.GetGameConfig().WithEnv(environ())
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := bot.LoadIdentities(*identities); err != nil {
		logger.Warn("Using default bot identities: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var store ports.KeyValueStore = memory.NewStore()
	if *redisAddr != "" {
		rs, err := redisstore.Dial(ctx, *redisAddr, *namespace)
		if err != nil {
			return err
		}
		defer rs.Close()
		store = rs
	}

	ledger := app.NewGameLedger(store)
	if *fresh {
		err = ledger.Reset(ctx)
	} else {
		err = ledger.Load(ctx)
	}
	if err != nil {
		return err
	}
	if ledger.Complete {
		fmt.Println("The stored game is complete, starting a new one.")
		if err := ledger.Reset(ctx); err != nil {
			return err
		}
	}

	humanSeat := domain.Seat(-1)
	if *human {
		humanSeat = 0
	}
	var seats [domain.NumSeats]app.SeatInfo
	bots := make(map[domain.Seat]app.Bot)
	for seat, agent := range bot.NewTable(humanSeat) {
		seats[seat] = app.SeatInfo{ID: agent.ID, Name: agent.Name}
		bots[seat] = agent
	}
	if *human {
		seats[humanSeat] = app.SeatInfo{ID: "local", Name: onboarding.PlayerName(ctx, store, "You"), Human: true}
	}

	game := app.NewGame(uuid.NewString(), seats, bots, ledger)
	var names [domain.NumSeats]string
	for i := range names {
		names[i] = app.SeatName(game, domain.Seat(i))
	}
	presenter := terminal.NewPresenter(os.Stdout, names)

	input := app.NewHumanInput()
	if *human {
		fmt.Println("Type a card to play it (KH, 10S, 7C) or ? for the legal cards.")
		go func() {
			if err := terminal.ReadMoves(ctx, os.Stdin, input, os.Stdout); err != nil && ctx.Err() == nil {
				logger.Error("Reading moves: %v", err)
			}
		}()
	}

	delay := app.Sleep
	if *fast {
		delay = func(ctx context.Context, _ time.Duration) error { return ctx.Err() }
	}

	svc := app.NewService(rand.New(rand.NewSource(*seed)), logger)
	logger.Info("Simulating game %s with seed %d", game.ID, *seed)
	return app.NewRunner(svc, presenter, input, delay, cfg, logger).PlayGame(ctx, game)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// environ returns the process environment as the map WithEnv expects.
func environ() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/tnicklin/screambot/config"
	"github.com/tnicklin/screambot/discord"
	"github.com/tnicklin/screambot/logger"
	"github.com/tnicklin/screambot/reply"
	"github.com/tnicklin/screambot/storage"
	"github.com/tnicklin/screambot/store"
)

func main() {
	if err := config.LoadEnv(".env"); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	params, err := build(ctx)
	if err != nil {
		cancel()
		log.Fatal(err)
	}

	code := run(ctx, params)
	cancel()
	os.Exit(code)
}

func build(ctx context.Context) (runParams, error) {
	cfg, err := config.LoadWithDefaults("config/config.yaml", "config/secrets.yaml")
	if err != nil {
		return runParams{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return runParams{}, fmt.Errorf("validate config: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return runParams{}, fmt.Errorf("initialize logger: %w", err)
	}

	accessor, err := storage.New(ctx, storage.Params{
		Config: cfg.Storage,
		Logger: appLogger.With("component", "storage"),
	})
	if err != nil {
		return runParams{}, fmt.Errorf("create storage accessor: %w", err)
	}

	st := store.New(store.Params{
		Accessor:   accessor,
		ConfigName: cfg.Documents.Config,
		RanksName:  cfg.Documents.Ranks,
		Logger:     appLogger.With("component", "store"),
	})

	exitCh := make(chan int, 1)
	bot, err := discord.New(discord.Params{
		Config:  cfg.Discord,
		Store:   st,
		Replies: reply.New(),
		Logger:  appLogger.With("component", "discord"),
		Exit: func(code int) {
			select {
			case exitCh <- code:
			default:
			}
		},
	})
	if err != nil {
		accessor.Close()
		return runParams{}, fmt.Errorf("create discord client: %w", err)
	}
	st.SetObserver(bot)

	return runParams{
		Config:   cfg,
		Logger:   appLogger,
		Accessor: accessor,
		Store:    st,
		Bot:      bot,
		Exit:     exitCh,
	}, nil
}

type runParams struct {
	Config   *config.AppConfig
	Logger   logger.Logger
	Accessor storage.Accessor
	Store    store.Store
	Bot      discord.Discord
	Exit     <-chan int
}

// run starts all components and blocks until a signal arrives or a
// component asks for the process to exit. It returns the exit code.
func run(ctx context.Context, p runParams) int {
	defer p.Logger.Sync()
	defer p.Accessor.Close()

	p.Logger.InfoW("starting screambot",
		"local_mode", p.Config.Storage.Local,
		"config", p.Config.Documents.Config,
		"ranks", p.Config.Documents.Ranks,
	)

	// Ranks first so operators can be told about everything that follows.
	if err := p.Store.LoadRanks(ctx); err != nil {
		p.Logger.ErrorW("load ranks", "error", err)
		return discord.ExitFatal
	}

	if err := p.Bot.Start(ctx); err != nil {
		p.Logger.ErrorW("start discord client", "error", err)
		return discord.ExitFatal
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	code := discord.ExitShutdown
	select {
	case sig := <-stop:
		p.Logger.InfoW("received signal, shutting down", "signal", sig.String())
	case code = <-p.Exit:
		p.Logger.InfoW("exit requested", "code", code)
	}

	if err := p.Bot.Stop(); err != nil {
		p.Logger.ErrorW("stop discord client", "error", err)
	}
	return code
}

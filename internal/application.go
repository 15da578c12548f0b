package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/config"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/service"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/transport/redis"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-arcade/transport/rest"
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	defaults, err := sessionDefaults(conf)
	if err != nil {
		return fmt.Errorf("invalid player settings: %w", err)
	}

	var sessionManager *usecase.SessionManager

	if conf.Redis.Enabled() {
		publisher, err := redis.New(ctx, conf.Redis.GetRedisAddr(), conf.Redis.Channel)
		if err != nil {
			return fmt.Errorf("could not connect to redis: %w", err)
		}

		defer func() {
			if err := publisher.Close(); err != nil {
				log.Error("could not close redis publisher", "error", err)
			}
		}()

		log.Info("Publishing session events", "addr", conf.Redis.GetRedisAddr(), "channel", conf.Redis.Channel)
		sessionManager = usecase.NewSessionManager(logger, publisher, newBotFactory(conf.Bot.Seed), botTiming(conf), defaults)
	} else {
		sessionManager = usecase.NewSessionManager(logger, nil, newBotFactory(conf.Bot.Seed), botTiming(conf), defaults)
	}

	defer sessionManager.CloseAll(context.Background())

	go sessionManager.Sweep(ctx, conf.Sessions.TTL, conf.Sessions.SweepInterval)

	router := rest.NewRouter(rest.NewHandlers(logger, sessionManager, conf.Sessions.TTL))

	log.Info("Starting HTTP server", "port", conf.HTTPPort)
	if err = rest.Start(ctx, conf.HTTPPort, router); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	log.Info("Application context canceled, shutting down")

	return nil
}

func botTiming(conf *config.Config) usecase.BotTiming {
	return usecase.BotTiming{
		ArmDelay:        conf.Bot.ArmDelay,
		RestartArmDelay: conf.Bot.RestartArmDelay,
		ToggleArmDelay:  conf.Bot.ToggleArmDelay,
		MoveDelay:       conf.Bot.MoveDelay,
	}
}

// newBotFactory gives every session its own random source. A fixed seed makes sessions replayable.
func newBotFactory(seed int64) func() usecase.Bot {
	return func() usecase.Bot {
		return service.NewBotService(service.NewSeededRand(seed))
	}
}

func sessionDefaults(conf *config.Config) (entity.Settings, error) {
	mark, err := entity.ParseMark(conf.Players.HumanMark)
	if err != nil {
		return entity.Settings{}, fmt.Errorf("human mark: %w", err)
	}

	return entity.Settings{
		SinglePlayer: conf.Players.SinglePlayer,
		HumanMark:    mark,
		NameX:        conf.Players.NameX,
		NameO:        conf.Players.NameO,
	}, nil
}

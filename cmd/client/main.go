package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"weiqi_client/internal/bootstrap"
	"weiqi_client/internal/delivery/engine"
	"weiqi_client/internal/delivery/terminal"
)

const defaultLogFile = "weiqi_client.log"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := bootstrap.Setup(".env")
	if err != nil {
		return fmt.Errorf("failed to setup configuration: %w", err)
	}

	// stdout belongs to the screen
	logFile := cfg.LogFile
	if logFile == "" {
		logFile = defaultLogFile
	}
	logger, err := bootstrap.NewLogger(cfg.LogLevel, logFile)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go handleShutdown(cancel, logger)

	client := engine.NewClient(logger, cfg.EngineUrl)

	// a joined game is sized by the position the engine sends on join
	gameKey, boardSize := cfg.GameKey, 0
	if gameKey == "" {
		created, err := client.CreateGame(ctx, cfg.BoardSize)
		if err != nil {
			return fmt.Errorf("failed to create game: %w", err)
		}
		gameKey, boardSize = created.GameKey, created.BoardSize
	}

	color, err := cfg.Color()
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}
	if err = screen.Init(); err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()

	app, err := terminal.NewApp(logger, screen, client, terminal.Config{
		GameKey:        gameKey,
		BoardSize:      boardSize,
		Color:          color,
		Board:          cfg.BoardConfig(),
		ConfirmDelay:   cfg.ConfirmDelay(),
		MessageTimeout: cfg.MessageTimeout(),
		ExportDir:      cfg.ExportDir,
	})
	if err != nil {
		return err
	}

	if err = client.Connect(ctx, gameKey, app.Controller(), app.Post); err != nil {
		return err
	}
	defer client.Close()

	logger.Infow("game started", "game", gameKey, "color", color.String(), "size", boardSize)
	return app.Run(ctx)
}

func handleShutdown(cancelFunc context.CancelFunc, log *zap.SugaredLogger) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info("Received shutdown signal")
	cancelFunc()
}

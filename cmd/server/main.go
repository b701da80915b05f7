package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"ctchen222/tictactoe-engine/internal/api/controller"
	"ctchen222/tictactoe-engine/internal/bot"
	"ctchen222/tictactoe-engine/internal/config"
	"ctchen222/tictactoe-engine/internal/game"
	"ctchen222/tictactoe-engine/internal/hub"
	"ctchen222/tictactoe-engine/internal/logger"
	"ctchen222/tictactoe-engine/internal/match"
	"ctchen222/tictactoe-engine/internal/room"
	"ctchen222/tictactoe-engine/internal/server"
	"ctchen222/tictactoe-engine/internal/session"
	"ctchen222/tictactoe-engine/internal/telemetry"

	"github.com/gin-gonic/gin"
)

func main() {
	configPath := flag.String("config", "config.yml", "path to the yaml config file")
	flag.Parse()

	cfg := config.MustLoad(*configPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize telemetry
	shutdown, err := telemetry.InitOtel(ctx, cfg.Telemetry)
	if err != nil {
		log.Fatalf("failed to initialize telemetry: %v", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}()

	logr := logger.Init(cfg.LogLevel)
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	difficulty, err := game.ParseDifficulty(cfg.Game.Difficulty)
	if err != nil {
		logr.Error("Invalid starting difficulty", "error", err)
		os.Exit(1)
	}

	// Core engine
	sess := session.New(logr)
	calculator := bot.NewBotMoveCalculator(bot.NewRandomizer(cfg.Game.Seed), logr)
	controllerLogger := logr.With("session.id", sess.ID())
	matchController := match.NewController(sess, calculator, controllerLogger)

	// Create hub and room
	h := hub.NewHub(logr)
	go h.Run(ctx)

	gameRoom := room.NewRoom(sess.ID(), matchController, h, logr)
	go gameRoom.Run(ctx)

	reply, err := gameRoom.Restart(ctx, difficulty)
	if err == nil {
		err = reply.Err
	}
	if err != nil {
		logr.Error("Failed to start the first match", "error", err)
		os.Exit(1)
	}

	// Create the Gin-based server
	gameController := controller.NewGameController(gameRoom, sess.ID())
	srv := server.NewServer(h, gameRoom, gameController, cfg.HTTP.WebDir, logr)

	httpServer := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: srv.Engine(),
	}

	go func() {
		logr.Info("http server started", "http.addr", cfg.HTTP.Addr, "session.id", sess.ID())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Error("ListenAndServe failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	logr.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logr.Error("Server forced to shutdown", "error", err)
	}
	<-gameRoom.Done

	logr.Info("Server exiting", "tally", sess.Tally())
}

package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/farmlingo/farmlingo/internal/buildinfo"
	"github.com/farmlingo/farmlingo/internal/client/cli"
	"github.com/farmlingo/farmlingo/internal/client/config"
	"github.com/farmlingo/farmlingo/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}
	defer app.Close()

	app.Run(ctx)

}

package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-remote/internal/config"
	"github.com/vancomm/minesweeper-remote/internal/database"
)

var log = logrus.New()

func main() {
	if err := config.LoadEnv(".env"); err != nil {
		log.Fatal(err)
	}
	if _, ok := os.LookupEnv("DEVELOPMENT"); ok {
		log.SetLevel(logrus.DebugLevel)
		log.SetFormatter(&logrus.TextFormatter{ForceColors: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	pool, migrator, err := database.ConnectAndMigrate(ctx)
	if err != nil {
		log.WithError(err).Fatal("failed to migrate db")
	}
	defer pool.Close()

	version, dirty, err := migrator.Version()
	if err != nil {
		log.WithError(err).Error("failed to check migration version")
		return
	}
	log.WithFields(logrus.Fields{
		"version": version,
		"dirty":   dirty,
	}).Info("migration successful")
}

package main

import (
	"flag"

	"presales-tracker/internal/config"
	"presales-tracker/internal/database"
	"presales-tracker/internal/logger"
	"presales-tracker/internal/seed"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func main() {
	customers := flag.Int("customers", 3, "number of customers to generate")
	dryRun := flag.Bool("dry-run", false, "generate into a throwaway in-memory database")
	flag.Parse()

	var db *gorm.DB
	if *dryRun {
		logger.Init("info")
		mem, err := database.OpenMemory()
		if err != nil {
			logrus.Fatalf("database: %v", err)
		}
		if err := database.CreateDefaultAdmin(mem, "admin", "admin"); err != nil {
			logrus.Fatalf("database: %v", err)
		}
		db = mem
	} else {
		cfg, err := config.Load()
		if err != nil {
			logrus.Fatalf("config: %v", err)
		}
		logger.Init(cfg.LogLevel)
		if err := database.Init(cfg); err != nil {
			logrus.Fatalf("database: %v", err)
		}
		db = database.DB
	}

	res, err := seed.Run(db, seed.Options{Customers: *customers})
	if err != nil {
		logrus.Fatalf("seed: %v", err)
	}
	logrus.Infof("created %d customers, %d projects, %d proposals", res.Customers, res.Projects, res.Proposals)
}

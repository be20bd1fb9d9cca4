package main

import (
	"io"
	"log"
	"os"

	"Mawasem/Config"
	"Mawasem/CronJobs"
	"Mawasem/FiberConfig"
	"Mawasem/Models"
)

func main() {
	setupLogging()

	cfg := Config.Load()

	if err := Models.Connect(cfg.DatabasePath); err != nil {
		log.Fatal("Failed to open invoice database:", err)
	}

	if cfg.DocRetentionDays > 0 {
		sweeper := CronJobs.NewDocumentSweeper(cfg.DocumentDir, cfg.DocRetentionDays, cfg.RetentionSchedule)
		if err := sweeper.Start(); err != nil {
			log.Println("Failed to start document sweeper:", err)
		} else {
			defer sweeper.Stop()
		}
	}

	FiberConfig.FiberConfig(cfg, Models.DB)
}

func setupLogging() {
	// Create logs directory if it doesn't exist
	if err := os.MkdirAll("logs", 0755); err != nil {
		log.Printf("Error creating logs directory: %v\n", err)
		return
	}

	logFile, err := os.OpenFile("logs/application.log",
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Error opening log file: %v\n", err)
		return
	}

	log.SetOutput(io.MultiWriter(os.Stdout, logFile))
	log.SetFlags(log.Ldate | log.Ltime)
}

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/csv-classify/cmd/classify"
	"fjacquet/csv-classify/cmd/importcsv"
	"fjacquet/csv-classify/cmd/recategorize"
	"fjacquet/csv-classify/cmd/root"
	"fjacquet/csv-classify/cmd/rules"
	"fjacquet/csv-classify/cmd/train"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func init() {
	// 1. Load environment variables silently first (no logging yet)
	loadEnvSilently()

	// 2. Configure global log level before any logging happens
	configureLogLevelDirectly()

	// 3. Initialize root command and persistent flags
	root.Init()

	// 4. Add all subcommands
	root.Cmd.AddCommand(importcsv.Cmd)
	root.Cmd.AddCommand(classify.Cmd)
	root.Cmd.AddCommand(recategorize.Cmd)
	root.Cmd.AddCommand(train.Cmd)
	root.Cmd.AddCommand(rules.Cmd)
}

// loadEnvSilently loads environment variables without logging anything
func loadEnvSilently() {
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		// Try to find .env in parent directory (project root)
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			return
		}
	}

	_ = godotenv.Load(envFile)
}

// configureLogLevelDirectly sets the global log level for all logrus instances
func configureLogLevelDirectly() {
	logLevelStr := os.Getenv("LOG_LEVEL")
	if logLevelStr == "" {
		logLevelStr = "info"
	}

	logLevel, err := logrus.ParseLevel(strings.ToLower(logLevelStr))
	if err != nil {
		logLevel = logrus.InfoLevel
	}

	logrus.SetLevel(logLevel)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

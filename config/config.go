// Package config loads server configuration from the environment.
// A local .env file is honored when present; flags in cmd/server
// override anything loaded here.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Port              int
	DBPath            string
	LogLevel          string
	SchedulerEnabled  bool
	SchedulerInterval time.Duration
}

// Load reads the environment, after best-effort loading a .env file.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file loaded")
	}

	return &Config{
		Port:              getEnvAsInt("PORT", 8080),
		DBPath:            getEnv("DB_PATH", "trainees.db"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		SchedulerEnabled:  getEnvAsBool("REPORT_SCHEDULER_ENABLED", true),
		SchedulerInterval: getEnvAsDuration("REPORT_SCHEDULER_INTERVAL", time.Hour),
	}
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvAsInt(name string, defaultVal int) int {
	if val, err := strconv.Atoi(getEnv(name, "")); err == nil {
		return val
	}
	return defaultVal
}

func getEnvAsBool(name string, defaultVal bool) bool {
	if val, err := strconv.ParseBool(getEnv(name, "")); err == nil {
		return val
	}
	return defaultVal
}

func getEnvAsDuration(name string, defaultVal time.Duration) time.Duration {
	if val, err := time.ParseDuration(getEnv(name, "")); err == nil {
		return val
	}
	return defaultVal
}

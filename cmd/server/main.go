package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/wavebinder/ltcbridge/pkg/ltcbridge"
)

var (
	port           int
	dbPath         string
	tempDir        string
	channel        int
	allowedOrigins string
)

func init() {
	flag.IntVar(&port, "port", 8080, "HTTP server port")
	flag.StringVar(&dbPath, "db", getEnvOrDefault("LTC_DB_PATH", "ltcbridge.sqlite3"), "Path to SQLite database")
	flag.StringVar(&tempDir, "temp", getEnvOrDefault("LTC_TEMP_DIR", "/tmp"), "Temporary directory")
	flag.IntVar(&channel, "channel", 1, "Source audio channel carrying LTC")
	flag.StringVar(&allowedOrigins, "origins", "*", "Comma-separated list of allowed CORS origins (use * for all)")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	flag.Parse()

	var origins []string
	if allowedOrigins == "*" {
		origins = []string{"*"}
	} else {
		origins = strings.Split(allowedOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
	}

	service, err := ltcbridge.NewService(
		ltcbridge.WithDBPath(dbPath),
		ltcbridge.WithTempDir(tempDir),
		ltcbridge.WithChannel(channel),
	)
	if err != nil {
		log.Fatalf("Failed to create service: %v", err)
	}
	defer service.Close()

	config := &ServerConfig{
		Port:           port,
		DBPath:         dbPath,
		TempDir:        tempDir,
		Channel:        channel,
		AllowedOrigins: origins,
	}

	server := NewServer(service, config)
	if err := server.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

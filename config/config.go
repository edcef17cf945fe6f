package config

import (
	"os"
	"strconv"
	"strings"
)

var (
	TLS_DOMAINS        = "" // e.g. "example.com,example2.com"
	MYSQL_DSN          = "" // MySQL will be used if this is set
	SQLITE_FILE        = "" // SQLite will be used if MYSQL_DSN is not configured and this is set
	BIND_ADDRESS       = "0.0.0.0:8080"
	TMP_DIR            = "/tmp" // Used for temporary local copies in case of S3 bucket
	DEFAULT_BUCKET_DIR = ""     // Used for creating initial bucket
	DEBUG_MODE         = true

	// Queue draining
	QUEUE_BATCH_SIZE = 20 // How many queue entries a single drain pass picks up
	DRAIN_INTERVAL   = 60 // Seconds to sleep when the queue is empty
	YIELD_THRESHOLD  = 10 // Below this many images, supplementation searches kick in
	TOP_IMAGE_COUNT  = 3  // How many "top" images a curator must pick

	// Outbound fetching
	FETCH_MAX_ATTEMPTS = 3
	FETCH_RETRY_DELAY  = 2000 // Initial retry delay in milliseconds, doubles each attempt

	// Providers
	SCRAPER_BASE_URL    = "" // External scraper service for social-media and map listings
	UNSPLASH_ACCESS_KEY = ""
)

func init() {
	readEnvString("TLS_DOMAINS", &TLS_DOMAINS)
	readEnvString("MYSQL_DSN", &MYSQL_DSN)
	readEnvString("SQLITE_FILE", &SQLITE_FILE)
	readEnvString("BIND_ADDRESS", &BIND_ADDRESS)
	readEnvString("TMP_DIR", &TMP_DIR)
	readEnvString("DEFAULT_BUCKET_DIR", &DEFAULT_BUCKET_DIR)
	readEnvBool("DEBUG_MODE", &DEBUG_MODE)
	readEnvInt("QUEUE_BATCH_SIZE", &QUEUE_BATCH_SIZE)
	readEnvInt("DRAIN_INTERVAL", &DRAIN_INTERVAL)
	readEnvInt("YIELD_THRESHOLD", &YIELD_THRESHOLD)
	readEnvInt("TOP_IMAGE_COUNT", &TOP_IMAGE_COUNT)
	readEnvInt("FETCH_MAX_ATTEMPTS", &FETCH_MAX_ATTEMPTS)
	readEnvInt("FETCH_RETRY_DELAY", &FETCH_RETRY_DELAY)
	readEnvString("SCRAPER_BASE_URL", &SCRAPER_BASE_URL)
	readEnvString("UNSPLASH_ACCESS_KEY", &UNSPLASH_ACCESS_KEY)
}

func readEnvString(name string, value *string) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	*value = v
}

func readEnvBool(name string, value *bool) {
	v := strings.ToLower(os.Getenv(name))
	if v == "true" || v == "1" || v == "yes" || v == "on" {
		*value = true
	} else if v == "false" || v == "0" || v == "no" || v == "off" {
		*value = false
	}
}

func readEnvInt(name string, value *int) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	f, err := strconv.Atoi(v)
	if err != nil {
		return
	}
	*value = f
}

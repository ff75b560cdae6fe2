package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName  string
	HTTPPort     string
	PostgresDSN  string
	KafkaBrokers []string

	CatalogPath        string
	PublishTimeout     time.Duration
	PublishParallelism int

	FacebookGraphURL  string
	FacebookPageID    string
	InstagramGraphURL string
	InstagramUserID   string

	// AccessTokens maps "brand|platform" to a platform access token, parsed
	// from ACCESS_TOKENS entries of the form brand:platform:token.
	AccessTokens map[string]string

	EnableScheduler   bool
	EnableOutboxRelay bool
	SchedulerInterval time.Duration
	RelayInterval     time.Duration
}

func Load() (Config, error) {
	// Optional local override file; absence is not an error.
	_ = godotenv.Load()

	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "brandcast"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	var brokers []string
	for _, value := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	return Config{
		ServiceName:  service,
		HTTPPort:     port,
		PostgresDSN:  os.Getenv("POSTGRES_DSN"),
		KafkaBrokers: brokers,

		CatalogPath:        strings.TrimSpace(os.Getenv("CATALOG_PATH")),
		PublishTimeout:     envDuration("PUBLISH_TIMEOUT", 30*time.Second),
		PublishParallelism: envInt("PUBLISH_PARALLELISM", 4),

		FacebookGraphURL:  envString("FACEBOOK_GRAPH_URL", "https://graph.facebook.com/v19.0"),
		FacebookPageID:    strings.TrimSpace(os.Getenv("FACEBOOK_PAGE_ID")),
		InstagramGraphURL: envString("INSTAGRAM_GRAPH_URL", "https://graph.facebook.com/v19.0"),
		InstagramUserID:   strings.TrimSpace(os.Getenv("INSTAGRAM_USER_ID")),

		AccessTokens: parseAccessTokens(os.Getenv("ACCESS_TOKENS")),

		EnableScheduler:   envBool("ENABLE_SCHEDULER", true),
		EnableOutboxRelay: envBool("ENABLE_OUTBOX_RELAY", true),
		SchedulerInterval: envDuration("SCHEDULER_INTERVAL", 30*time.Second),
		RelayInterval:     envDuration("RELAY_INTERVAL", 5*time.Second),
	}, nil
}

// parseAccessTokens reads comma-separated brand:platform:token triples.
// Malformed entries are skipped.
func parseAccessTokens(raw string) map[string]string {
	tokens := make(map[string]string)
	for _, entry := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(entry), ":", 3)
		if len(parts) != 3 {
			continue
		}
		brand := strings.ToLower(strings.TrimSpace(parts[0]))
		platform := strings.ToLower(strings.TrimSpace(parts[1]))
		token := strings.TrimSpace(parts[2])
		if brand == "" || platform == "" || token == "" {
			continue
		}
		tokens[brand+"|"+platform] = token
	}
	return tokens
}

func envString(name string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	return value
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

package config

import (
	"bufio"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration for the dashboard service.
type Config struct {
	ListenAddr      string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	DefaultLimit    int
	DefaultChip     string

	DBEnabled      bool
	DBHost         string
	DBPort         int
	DBUser         string
	DBPassword     string
	DBName         string
	DBConnTimeout  time.Duration
	DBQueryTimeout time.Duration

	SavedViewsSQLitePath string

	CatalogPath string

	AgentsEnabled         bool
	AgentTargets          []string
	AgentMatchPrefix      string
	AgentScrapeTimeout    time.Duration
	AgentScrapeInterval   time.Duration
	AgentHistoryMaxPoints int
}

// FromEnv loads configuration from environment variables with sensible defaults.
func FromEnv() Config {
	loadConfigDefaultsFromFile()
	loadSecretsDefaultsFromFile()

	return Config{
		ListenAddr:      getEnv("QDASH_LISTEN_ADDR", ":5714"),
		ReadTimeout:     time.Duration(getEnvInt("QDASH_READ_TIMEOUT_SEC", 10)) * time.Second,
		WriteTimeout:    time.Duration(getEnvInt("QDASH_WRITE_TIMEOUT_SEC", 20)) * time.Second,
		ShutdownTimeout: time.Duration(getEnvInt("QDASH_SHUTDOWN_TIMEOUT_SEC", 10)) * time.Second,
		DefaultLimit:    getEnvInt("QDASH_DEFAULT_LIMIT", 50),
		DefaultChip:     getEnv("QDASH_DEFAULT_CHIP", ""),

		DBEnabled:      getEnvBool("QDASH_DB_ENABLED", false),
		DBHost:         getEnv("QDASH_DB_HOST", "127.0.0.1"),
		DBPort:         getEnvInt("QDASH_DB_PORT", 3306),
		DBUser:         getEnv("QDASH_DB_USER", "qdash"),
		DBPassword:     getEnv("QDASH_DB_PASSWORD", "qdash"),
		DBName:         getEnv("QDASH_DB_NAME", "qdash"),
		DBConnTimeout:  time.Duration(getEnvInt("QDASH_DB_CONN_TIMEOUT_SEC", 5)) * time.Second,
		DBQueryTimeout: time.Duration(getEnvInt("QDASH_DB_QUERY_TIMEOUT_SEC", 10)) * time.Second,

		SavedViewsSQLitePath: getEnv("QDASH_SAVED_VIEWS_SQLITE_PATH", ""),

		CatalogPath: getEnv("QDASH_CATALOG_PATH", ""),

		AgentsEnabled:         getEnvBool("QDASH_AGENTS_ENABLED", false),
		AgentTargets:          getEnvList("QDASH_AGENT_TARGETS", []string{"http://127.0.0.1:9464/metrics"}),
		AgentMatchPrefix:      getEnv("QDASH_AGENT_MATCH_PREFIX", "qdash_agent_"),
		AgentScrapeTimeout:    time.Duration(getEnvInt("QDASH_AGENT_SCRAPE_TIMEOUT_SEC", 5)) * time.Second,
		AgentScrapeInterval:   time.Duration(getEnvInt("QDASH_AGENT_SCRAPE_INTERVAL_SEC", 15)) * time.Second,
		AgentHistoryMaxPoints: getEnvInt("QDASH_AGENT_HISTORY_MAX_POINTS", 720),
	}
}

func loadConfigDefaultsFromFile() {
	bootstrapCandidates := []string{
		"./qdash.env",
		"/etc/default/qdash",
	}

	for _, candidate := range bootstrapCandidates {
		abs := candidate
		if !filepath.IsAbs(candidate) {
			if wd, err := os.Getwd(); err == nil {
				abs = filepath.Join(wd, candidate)
			}
		}
		_ = applyEnvDefaultsFromFile(abs)
	}

	candidates := make([]string, 0, 2)
	if explicit := strings.TrimSpace(os.Getenv("QDASH_CONFIG_FILE")); explicit != "" {
		candidates = append(candidates, explicit)
	}
	candidates = append(candidates, "/etc/qdash/config.env")

	for _, candidate := range candidates {
		abs := candidate
		if !filepath.IsAbs(candidate) {
			if wd, err := os.Getwd(); err == nil {
				abs = filepath.Join(wd, candidate)
			}
		}

		if err := applyEnvDefaultsFromFile(abs); err == nil {
			return
		}
	}
}

func loadSecretsDefaultsFromFile() {
	candidates := make([]string, 0, 3)
	if explicit := strings.TrimSpace(os.Getenv("QDASH_SECRETS_FILE")); explicit != "" {
		candidates = append(candidates, explicit)
	}
	if credDir := strings.TrimSpace(os.Getenv("CREDENTIALS_DIRECTORY")); credDir != "" {
		credName := strings.TrimSpace(os.Getenv("QDASH_SECRETS_CREDENTIAL_NAME"))
		if credName == "" {
			credName = "qdash-secrets"
		}
		candidates = append(candidates, filepath.Join(credDir, credName))
	}
	candidates = append(candidates, "/etc/qdash/secrets.env")
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if err := applyEnvDefaultsFromFile(candidate); err == nil {
			return
		}
	}
}

func applyEnvDefaultsFromFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		kv := strings.SplitN(line, "=", 2)
		if len(kv) != 2 {
			continue
		}

		key := strings.TrimSpace(kv[0])
		val := strings.TrimSpace(kv[1])
		if key == "" {
			continue
		}

		if len(val) >= 2 {
			if (val[0] == '"' && val[len(val)-1] == '"') || (val[0] == '\'' && val[len(val)-1] == '\'') {
				val = val[1 : len(val)-1]
			}
		}

		if os.Getenv(key) == "" {
			_ = os.Setenv(key, val)
		}
	}

	return scanner.Err()
}

// MySQLDSN returns a mysql driver DSN with safe defaults for TCP access.
func (c Config) MySQLDSN() string {
	params := url.Values{}
	params.Set("parseTime", "true")
	params.Set("timeout", c.DBConnTimeout.String())
	params.Set("readTimeout", c.DBQueryTimeout.String())
	params.Set("writeTimeout", c.DBQueryTimeout.String())
	params.Set("charset", "utf8mb4")
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s", c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, params.Encode())
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return def
	}
	return parsed
}

func getEnvBool(key string, def bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return def
	}
	return parsed
}

func getEnvList(key string, def []string) []string {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		out := make([]string, 0, len(def))
		for _, d := range def {
			d = strings.TrimSpace(d)
			if d != "" {
				out = append(out, d)
			}
		}
		return out
	}

	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

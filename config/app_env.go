package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/akeren/tablebook/internal/log"
	"github.com/akeren/tablebook/pkg/utils"
	"github.com/joho/godotenv"
)

const AppEnvKey = "APP_ENV"

// devEnvironments may run --auto-migrate. An unset APP_ENV counts as development.
var devEnvironments = map[string]bool{
	"":            true,
	"dev":         true,
	"development": true,
	"local":       true,
	"test":        true,
	"testing":     true,
}

// InitializeEnvFile loads .env, or the comma-separated files named by ENV_FILE. Variables
// already present in the environment win. SKIP_DOTENV=true disables loading.
func InitializeEnvFile(logger *log.Logger) {
	if os.Getenv("SKIP_DOTENV") == "true" {
		logger.Info("Skipping .env file load (SKIP_DOTENV=true)")
		return
	}

	files := envFiles(utils.GetEnvTrimmed("ENV_FILE"))
	if err := godotenv.Load(files...); err != nil {
		logger.Warn("No .env file found or failed to load it", "files", files, "error", err.Error())
		return
	}

	logger.Info("Environment variables loaded", "files", files)
}

func envFiles(raw string) []string {
	var files []string
	for _, f := range strings.Split(raw, ",") {
		if f = strings.TrimSpace(f); f != "" {
			files = append(files, f)
		}
	}
	if len(files) == 0 {
		return []string{".env"}
	}
	return files
}

// envValue reads key with surrounding whitespace and one pair of matching quotes removed.
func envValue(key string) string {
	return sanitizeEnv(os.Getenv(key))
}

func sanitizeEnv(v string) string {
	s := strings.TrimSpace(v)

	if len(s) >= 2 && ((s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'')) {
		s = s[1 : len(s)-1]
	}

	return s
}

func GetAppEnv() string {
	return strings.ToLower(strings.TrimSpace(os.Getenv(AppEnvKey)))
}

func ValidateAutoMigrateAllowed(appEnv string) error {
	env := strings.ToLower(strings.TrimSpace(appEnv))
	if devEnvironments[env] {
		return nil
	}

	return fmt.Errorf("--auto-migrate is not allowed when %s=%q (allowed: \"\", dev, development, local, test, testing)", AppEnvKey, env)
}

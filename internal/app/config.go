package app

import (
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/adanyl0v/go-taskmaster/internal/config"
)

// MustReadConfig reads the file named by CONFIG_PATH if set, otherwise
// the environment.
func MustReadConfig() {
	var reader config.Reader = config.NewEnvReader()
	if path := os.Getenv(config.PathEnv); path != "" {
		reader = config.NewFileReader(path)
	}

	cfg, err := reader.Read()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to read config")
		panic(err)
	}
	if _, err := cfg.App.LoadLocation(); err != nil {
		globalLogger.Warn().
			Err(err).
			Str("timezone", cfg.App.Timezone).
			Msg("invalid timezone, falling back to UTC")
	}

	globalLogger.Info().
		Str("env", cfg.Env).
		Str("timezone", cfg.App.Location().String()).
		Msg("read config")

	config.SetGlobal(cfg)
}

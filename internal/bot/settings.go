package bot

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/Hassan767275/league-bot/internal/riotapi"
	"github.com/joho/godotenv"
)

var (
	ErrMissingDiscordToken = errors.New("DISCORD_TOKEN is not set")
	ErrMissingRiotKey      = errors.New("RIOT_API_KEY is not set")
)

const DefaultConfigPath = "conf/botconfig.json"

// Settings - секреты и параметры окружения, читаются один раз при старте.
type Settings struct {
	DiscordToken string
	RiotAPIKey   string
	Platform     string
	GuildID      string // пусто - команды регистрируются глобально
	ConfigPath   string
	OTLPEndpoint string
	Production   bool
}

// LoadEnv подгружает .env-файл, если не прод. Отсутствие файла - не ошибка.
func LoadEnv(path string) error {
	if os.Getenv("APP_ENV") == "prod" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func LoadSettings() (Settings, error) {
	s := Settings{
		DiscordToken: strings.TrimSpace(os.Getenv("DISCORD_TOKEN")),
		RiotAPIKey:   strings.TrimSpace(os.Getenv("RIOT_API_KEY")),
		Platform:     strings.ToLower(strings.TrimSpace(os.Getenv("RIOT_PLATFORM"))),
		GuildID:      strings.TrimSpace(os.Getenv("TEST_GUILD_ID")),
		ConfigPath:   strings.TrimSpace(os.Getenv("BOT_CONFIG")),
		OTLPEndpoint: strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
		Production:   os.Getenv("APP_ENV") == "prod",
	}
	if s.Platform == "" {
		s.Platform = riotapi.DefaultPlatform
	}
	if s.ConfigPath == "" {
		s.ConfigPath = DefaultConfigPath
	}

	var errs []error
	if s.DiscordToken == "" {
		errs = append(errs, ErrMissingDiscordToken)
	}
	if s.RiotAPIKey == "" {
		errs = append(errs, ErrMissingRiotKey)
	}
	return s, errors.Join(errs...)
}

package bot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Hassan767275/league-bot/internal/riotapi"
	"github.com/Hassan767275/league-bot/internal/status"
)

type WatchConf struct {
	ChannelID       string `json:"channel_id"`
	IntervalSeconds int    `json:"interval_seconds"`
}

type BotConfig struct {
	CooldownSeconds       float64 `json:"cooldown_seconds"`
	CacheTTLSeconds       float64 `json:"cache_ttl_seconds"`
	RequestTimeoutSeconds float64 `json:"request_timeout_seconds"`
	CommandPrefix         string  `json:"command_prefix"`
	// Текстовые команды требуют привилегированный intent MESSAGE_CONTENT
	PrefixCommands bool `json:"prefix_commands"`
	// Фоновая проверка статуса с уведомлениями в канал; nil - выключена
	Watch *WatchConf `json:"watch,omitempty"`
}

func defaultBotConfig() BotConfig {
	return BotConfig{
		CooldownSeconds:       status.DefaultCooldown.Seconds(),
		CacheTTLSeconds:       status.DefaultCacheTTL.Seconds(),
		RequestTimeoutSeconds: riotapi.DefaultTimeout.Seconds(),
		CommandPrefix:         "!",
	}
}

func seconds(v float64, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return time.Duration(v * float64(time.Second))
}

func (c BotConfig) Cooldown() time.Duration {
	return seconds(c.CooldownSeconds, status.DefaultCooldown)
}

func (c BotConfig) CacheTTL() time.Duration {
	return seconds(c.CacheTTLSeconds, status.DefaultCacheTTL)
}

func (c BotConfig) RequestTimeout() time.Duration {
	return seconds(c.RequestTimeoutSeconds, riotapi.DefaultTimeout)
}

func (c BotConfig) Prefix() string {
	if c.CommandPrefix == "" {
		return "!"
	}
	return c.CommandPrefix
}

type configStore struct {
	mu   sync.Mutex
	path string
	data BotConfig
}

func newConfigStore(path string) *configStore {
	return &configStore{
		path: path,
		data: defaultBotConfig(),
	}
}

func (cs *configStore) Load() error {
	cs.mu.Lock()
	f := cs.path
	_ = os.MkdirAll(filepath.Dir(f), 0755)
	b, err := os.ReadFile(f)
	if err != nil {
		cs.mu.Unlock()
		if os.IsNotExist(err) {
			return cs.Save() // создаём с дефолтами
		}
		return err
	}
	defer cs.mu.Unlock()
	return json.Unmarshal(b, &cs.data)
}

func (cs *configStore) Save() error {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	b, err := json.MarshalIndent(&cs.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(cs.path, b, 0644)
}

// Snapshot возвращает копию текущего конфига.
func (cs *configStore) Snapshot() BotConfig {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	c := cs.data
	if c.Watch != nil {
		w := *c.Watch
		c.Watch = &w
	}
	return c
}

func (cs *configStore) setWatch(w *WatchConf) error {
	cs.mu.Lock()
	cs.data.Watch = w
	cs.mu.Unlock()
	return cs.Save()
}

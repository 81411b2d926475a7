package bot

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Hassan767275/league-bot/internal/gateway"
	"github.com/Hassan767275/league-bot/internal/riotapi"
	"github.com/Hassan767275/league-bot/internal/status"
	"go.uber.org/zap"
)

const (
	cmdRiotCheck  = "riotcheck"
	cmdRiotDesc   = "Check if the Riot API key works."
	replyTimeout  = 30 * time.Second
	deferReplyDur = 2 * time.Second
)

// platform - то, что бот делает через REST Discord.
type platform interface {
	RespondInteraction(ctx context.Context, interactionID, token, content string, ephemeral bool) error
	DeferInteraction(ctx context.Context, interactionID, token string, ephemeral bool) error
	EditInteractionResponse(ctx context.Context, appID, token, content string) error
	SendMessage(ctx context.Context, channelID, content, replyTo string) error
	OverwriteCommands(ctx context.Context, appID, guildID string, cmds []gateway.ApplicationCommand) error
}

type statusService interface {
	Check(ctx context.Context, callerID string) status.Outcome
	Refresh(ctx context.Context) status.Outcome
	Callers() int
}

type LeagueBot struct {
	logger *zap.SugaredLogger

	gw     *gateway.Client
	api    platform
	status statusService

	cfg     *configStore
	guildID string

	// если команда не уложилась - отправляем deferred-ответ
	deferAfter time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	stopCh chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex

	// status watch
	swMu      sync.Mutex
	swRunning bool
	swCancel  context.CancelFunc
	swEvery   time.Duration
	swChannel string
}

func New(logger *zap.SugaredLogger) *LeagueBot {
	ctx, cancel := context.WithCancel(context.Background())
	return &LeagueBot{
		logger:     logger,
		cfg:        newConfigStore(DefaultConfigPath),
		deferAfter: deferReplyDur,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// UseConfig подключает JSON-конфиг бота (создаёт файл с дефолтами, если его нет).
// Вызывать до SetRiotClient и SetGateway: они берут из него таймауты и intents.
func (bot *LeagueBot) UseConfig(path string) error {
	cs := newConfigStore(path)
	if err := cs.Load(); err != nil {
		return err
	}
	bot.cfg = cs
	return nil
}

// SetRiotClient создаёт клиента Riot и сервис проверки статуса поверх него.
func (bot *LeagueBot) SetRiotClient(conf riotapi.RiotConf) {
	cfg := bot.cfg.Snapshot()
	if conf.Timeout <= 0 {
		conf.Timeout = cfg.RequestTimeout()
	}
	client := riotapi.NewClientFromConf(bot.logger.Named("riotapi"), conf)
	bot.status = status.New(bot.logger.Named("status"), client, status.Config{
		Platform: client.Platform(),
		Cooldown: cfg.Cooldown(),
		CacheTTL: cfg.CacheTTL(),
	})
}

func (bot *LeagueBot) SetGuild(guildID string) {
	bot.guildID = guildID
}

// Intents - какие события запрашивать у гейтвея.
func (bot *LeagueBot) Intents() int {
	intents := gateway.IntentGuilds
	if bot.cfg.Snapshot().PrefixCommands {
		intents |= gateway.IntentGuildMessages | gateway.IntentDirectMessages | gateway.IntentMessageContent
	}
	return intents
}

func (bot *LeagueBot) SetGateway(cfg gateway.Config) {
	if cfg.Intents == 0 {
		cfg.Intents = bot.Intents()
	}
	gw := gateway.New(cfg, bot.logger.Named("gateway"))

	gw.OnConnecting = func() { bot.logger.Infow("connecting to discord gateway") }
	gw.OnConnected = func() { bot.logger.Infow("connected to discord gateway") }
	gw.OnDisconnected = func() { bot.logger.Infow("disconnected from discord gateway") }
	gw.OnError = func(err error) { bot.logger.Debugw("gateway error", "error", err) }

	// любой READY (первый или после реконнекта) - перерегистрируем команды
	gw.OnReady = func(r *gateway.Ready) {
		bot.logger.Infow("online", "user", r.User.Username, "servers", len(r.Guilds))
		go bot.registerCommands(r.Application.ID)
	}
	gw.OnInteraction = func(i *gateway.Interaction) {
		go bot.handleInteraction(i)
	}
	gw.OnMessage = func(m *gateway.Message) {
		go bot.handleMessage(m)
	}

	bot.gw = gw
	bot.api = gw
}

func (bot *LeagueBot) Start() error {
	if bot == nil {
		return errors.New("bot is not initialized")
	}
	if bot.gw == nil {
		return errors.New("gateway is not initialized")
	}
	if bot.status == nil {
		return errors.New("riot client is not initialized")
	}

	bot.mu.Lock()
	if bot.stopCh != nil {
		bot.mu.Unlock()
		return errors.New("already started")
	}
	bot.stopCh = make(chan struct{})
	bot.mu.Unlock()

	if err := bot.gw.Connect(bot.ctx); err != nil {
		bot.mu.Lock()
		bot.stopCh = nil
		bot.mu.Unlock()
		return err
	}

	if w := bot.cfg.Snapshot().Watch; w != nil && w.ChannelID != "" {
		if err := bot.StartStatusWatch(w.ChannelID, time.Duration(w.IntervalSeconds)*time.Second); err != nil {
			bot.logger.Warnw("status watch not started", "error", err)
		}
	}

	// сторож для остановки
	bot.wg.Add(1)
	go func() {
		defer bot.wg.Done()
		<-bot.stopCh
		bot.StopStatusWatch()
		bot.cancel()
		bot.gw.Disconnect()
	}()

	return nil
}

func (bot *LeagueBot) Stop() {
	bot.mu.Lock()
	ch := bot.stopCh
	bot.stopCh = nil
	bot.mu.Unlock()

	if ch != nil {
		close(ch)     // повторный Stop() ничего не делает
		bot.wg.Wait() // дождёмся остановки фоновой горутины
	}
}

func (bot *LeagueBot) registerCommands(appID string) {
	if appID == "" {
		bot.logger.Warnw("READY without application id, commands not registered")
		return
	}
	ctx, cancel := context.WithTimeout(bot.ctx, replyTimeout)
	defer cancel()

	cmds := []gateway.ApplicationCommand{
		{Name: cmdRiotCheck, Description: cmdRiotDesc, Type: gateway.CommandTypeChatInput},
	}
	if err := bot.api.OverwriteCommands(ctx, appID, bot.guildID, cmds); err != nil {
		bot.logger.Errorw("failed to register slash commands", "guild", bot.guildID, "error", err)
		return
	}
	if bot.guildID != "" {
		bot.logger.Infow("slash commands synced to test guild", "guild", bot.guildID)
	} else {
		bot.logger.Infow("slash commands synced globally")
	}
}

package bot

import (
	"context"
	"errors"
	"time"
)

const defaultWatchInterval = 300 // секунд

// StartStatusWatch запускает фоновую проверку статуса Riot; при смене ответа пишет в channelID.
// Повторный вызов при работающем watch обновляет интервал и канал на лету.
func (bot *LeagueBot) StartStatusWatch(channelID string, every time.Duration) error {
	if channelID == "" {
		return errors.New("status watch: channel is not set")
	}
	if bot.status == nil {
		return errors.New("status watch: riot client is not initialized")
	}
	if every <= 0 {
		every = defaultWatchInterval * time.Second
	}

	bot.swMu.Lock()
	defer bot.swMu.Unlock()

	bot.swChannel = channelID
	if bot.swRunning {
		bot.swEvery = every
		return nil
	}

	ctx, cancel := context.WithCancel(bot.ctx)
	bot.swCancel = cancel
	bot.swEvery = every
	bot.swRunning = true

	go bot.statusWatchLoop(ctx, every)
	return nil
}

func (bot *LeagueBot) StopStatusWatch() {
	bot.swMu.Lock()
	defer bot.swMu.Unlock()
	if !bot.swRunning {
		return
	}
	bot.swRunning = false
	if bot.swCancel != nil {
		bot.swCancel()
		bot.swCancel = nil
	}
}

func (bot *LeagueBot) statusWatchState() (running bool, every time.Duration, channel string) {
	bot.swMu.Lock()
	defer bot.swMu.Unlock()
	return bot.swRunning, bot.swEvery, bot.swChannel
}

// statusWatchLoop - живёт, пока не вызовут StopStatusWatch().
func (bot *LeagueBot) statusWatchLoop(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()

	// первый проход только фиксирует состояние
	last := ""
	initOnce := true

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			last = bot.watchTick(ctx, last, initOnce)
			initOnce = false

			// интервал могли поменять через !watch start
			if _, cur, _ := bot.statusWatchState(); cur != every && cur > 0 {
				every = cur
				t.Reset(every)
			}
		}
	}
}

// watchTick обновляет статус и сообщает в канал, если текст ответа изменился.
func (bot *LeagueBot) watchTick(ctx context.Context, last string, initOnce bool) string {
	out := bot.status.Refresh(ctx)
	reply := out.Reply()
	bot.logger.Infow("status watch tick", "outcome", out.Kind.String(), "status", out.StatusCode, "callers", bot.status.Callers())

	if initOnce || reply == last {
		return reply
	}

	_, _, channel := bot.statusWatchState()
	if err := bot.api.SendMessage(ctx, channel, "Riot status changed: "+reply, ""); err != nil {
		bot.logger.Errorw("failed to post status change", "channel", channel, "error", err)
	}
	return reply
}

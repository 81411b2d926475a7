package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Hassan767275/league-bot/internal/gateway"
)

// handleInteraction - slash-команды, ответ всегда ephemeral.
func (bot *LeagueBot) handleInteraction(i *gateway.Interaction) {
	if i.Type != gateway.InteractionTypeApplicationCommand {
		return
	}
	ctx, cancel := context.WithTimeout(bot.ctx, replyTimeout)
	defer cancel()

	done := make(chan string, 1)
	go func() { done <- bot.runSlash(ctx, i) }()

	select {
	case reply := <-done:
		if err := bot.api.RespondInteraction(ctx, i.ID, i.Token, reply, true); err != nil {
			bot.logger.Errorw("failed to respond to interaction", "command", i.Data.Name, "error", err)
		}
		return
	case <-time.After(bot.deferAfter):
	}

	// проверка затянулась - Discord ждёт первый ответ не дольше 3 секунд
	if err := bot.api.DeferInteraction(ctx, i.ID, i.Token, true); err != nil {
		bot.logger.Errorw("failed to defer interaction", "command", i.Data.Name, "error", err)
	}
	reply := <-done
	if err := bot.api.EditInteractionResponse(ctx, i.ApplicationID, i.Token, reply); err != nil {
		bot.logger.Errorw("failed to edit deferred response", "command", i.Data.Name, "error", err)
	}
}

func (bot *LeagueBot) runSlash(ctx context.Context, i *gateway.Interaction) string {
	switch i.Data.Name {
	case cmdRiotCheck:
		caller := i.Caller()
		if caller == nil || caller.ID == "" {
			return "Could not identify who called the command."
		}
		return bot.riotCheck(ctx, caller.ID)
	default:
		bot.logger.Warnw("unknown slash command", "command", i.Data.Name)
		return fmt.Sprintf("Unknown command /%s.", i.Data.Name)
	}
}

func (bot *LeagueBot) riotCheck(ctx context.Context, callerID string) string {
	out := bot.status.Check(ctx, callerID)
	bot.logger.Infow("riotcheck", "caller", callerID, "outcome", out.Kind.String(), "status", out.StatusCode)
	return out.Reply()
}

// handleMessage - текстовые команды с префиксом, ответ публичный.
func (bot *LeagueBot) handleMessage(m *gateway.Message) {
	cfg := bot.cfg.Snapshot()
	if !cfg.PrefixCommands || m.Author.Bot {
		return
	}
	text := strings.TrimSpace(m.Content)
	if !strings.HasPrefix(text, cfg.Prefix()) {
		return
	}
	bot.logger.Debugw("prefix command", "author", m.Author.Username, "text", text)

	ctx, cancel := context.WithTimeout(bot.ctx, replyTimeout)
	defer cancel()
	if err := bot.HandleCommand(ctx, m); err != nil {
		bot.say(ctx, m, fmt.Sprintf("err: %v", err))
	}
}

func (bot *LeagueBot) say(ctx context.Context, m *gateway.Message, text string) {
	if err := bot.api.SendMessage(ctx, m.ChannelID, text, m.ID); err != nil {
		bot.logger.Errorw("failed to send message", "channel", m.ChannelID, "error", err)
	}
}

func (bot *LeagueBot) HandleCommand(ctx context.Context, m *gateway.Message) error {
	prefix := bot.cfg.Snapshot().Prefix()
	fields := strings.Fields(strings.TrimPrefix(strings.TrimSpace(m.Content), prefix))
	if len(fields) == 0 {
		return nil
	}
	cmd := strings.ToLower(fields[0])

	say := func(s string) { bot.say(ctx, m, s) }

	switch cmd {

	case "help":
		say(strings.Join([]string{
			prefix + "help",
			prefix + cmdRiotCheck,
			prefix + "watch start [interval_sec]",
			prefix + "watch stop",
			prefix + "watch status",
		}, "\n"))
		return nil

	case cmdRiotCheck:
		say(bot.riotCheck(ctx, m.Author.ID))
		return nil

	// ---------- WATCH ----------
	case "watch":
		if len(fields) < 2 {
			return fmt.Errorf("usage: %swatch start|stop|status", prefix)
		}
		switch strings.ToLower(fields[1]) {
		case "start":
			sec := defaultWatchInterval
			if len(fields) >= 3 {
				v, err := strconv.Atoi(fields[2])
				if err != nil || v <= 0 {
					return fmt.Errorf("bad interval: %q", fields[2])
				}
				sec = v
			}
			if err := bot.StartStatusWatch(m.ChannelID, time.Duration(sec)*time.Second); err != nil {
				return err
			}
			if err := bot.cfg.setWatch(&WatchConf{ChannelID: m.ChannelID, IntervalSeconds: sec}); err != nil {
				bot.logger.Warnw("failed to save config", "error", err)
			}
			say(fmt.Sprintf("status watch started (%ds)", sec))
			return nil

		case "stop":
			bot.StopStatusWatch()
			if err := bot.cfg.setWatch(nil); err != nil {
				bot.logger.Warnw("failed to save config", "error", err)
			}
			say("status watch stopped")
			return nil

		case "status":
			running, every, channel := bot.statusWatchState()
			if running {
				say(fmt.Sprintf("status watch: running (every %s, channel %s)", every, channel))
			} else {
				say("status watch: stopped")
			}
			return nil

		default:
			return fmt.Errorf("usage: %swatch start|stop|status", prefix)
		}

	default:
		return fmt.Errorf("unknown command. try %shelp", prefix)
	}
}

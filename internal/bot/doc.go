// Package bot - «склейка» вокруг gateway, riotapi и status, реализующая
// Discord-бота для проверки Riot API. Бот:
//   - регистрирует slash-команду /riotcheck (в тестовой гильдии сразу, иначе глобально);
//   - отвечает на /riotcheck ephemeral-сообщением с результатом проверки
//     (кулдаун на пользователя, кэш последнего статуса);
//   - опционально понимает текстовые команды (!help, !riotcheck, !watch*)
//     и отвечает на них публично;
//   - опционально следит за статусом в фоне и пишет в канал, когда он меняется.
//
// Жизненный цикл:
//   - Создать бота через New(logger).
//   - UseConfig("conf/botconfig.json") - таймауты, префикс, watch.
//   - SetRiotClient(...), SetGateway(...), (опционально) SetGuild(...).
//   - Запустить Start() и остановить Stop().
//
// Пример:
//
//	b := bot.New(logger)
//	_ = b.UseConfig("conf/botconfig.json")
//	b.SetRiotClient(riotapi.RiotConf{APIKey: key, Platform: "na1"})
//	b.SetGateway(gateway.Config{Token: token})
//	b.SetGuild(guildID) // необязательно
//
//	if err := b.Start(); err != nil { log.Fatal(err) }
//	defer b.Stop()
//
// Конфигурация:
//   - секреты берутся из окружения (LoadEnv/LoadSettings, .env через godotenv);
//   - остальное хранится в JSON (см. BotConfig). Команды !watch start/stop
//     изменяют рантайм-состояние и сразу сохраняют конфиг.
package bot

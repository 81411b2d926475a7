// Package gateway реализует минимальный клиент Discord: WebSocket-гейтвей
// (wss://gateway.discord.gg, JSON-кодировка) и несколько REST-методов.
// Клиент подключается, ждёт Hello, шлёт heartbeat с последним seq и Identify,
// автоматически реконнектится, а события отдаёт через поля-колбэки:
//
//   - OnConnecting, OnConnected, OnReady, OnInteraction, OnMessage,
//     OnDisconnected, OnError.
//
// REST:
//   - RespondInteraction - ответ на slash-команду (в т.ч. ephemeral);
//   - DeferInteraction + EditInteractionResponse - отложенный ответ,
//     если команда не укладывается в 3 секунды;
//   - SendMessage - сообщение в канал;
//   - OverwriteCommands - регистрация команд для гильдии или глобально.
//
// Устойчивость:
//   - Запись в сокет сериализована (мьютекс + write-deadline).
//   - Heartbeat без ACK считается зависанием: соединение закрывается,
//     readLoop реконнектится с экспоненциальным backoff (1s..30s).
//   - Resume не поддерживается: после реконнекта всегда новый Identify.
//
// Пример:
//
//	gw := gateway.New(gateway.Config{Token: token, Intents: gateway.IntentGuilds}, logger)
//	gw.OnInteraction = func(i *gateway.Interaction) {
//	    _ = gw.RespondInteraction(ctx, i.ID, i.Token, "pong", true)
//	}
//	if err := gw.Connect(ctx); err != nil { log.Fatal(err) }
//	defer gw.Disconnect()
package gateway

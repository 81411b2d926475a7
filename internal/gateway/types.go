package gateway

import "encoding/json"

// opcodes гейтвея Discord
const (
	opDispatch       = 0
	opHeartbeat      = 1
	opIdentify       = 2
	opReconnect      = 7
	opInvalidSession = 9
	opHello          = 10
	opHeartbeatAck   = 11
)

// Intents (битовая маска для Identify)
const (
	IntentGuilds         = 1 << 0
	IntentGuildMessages  = 1 << 9
	IntentDirectMessages = 1 << 12
	IntentMessageContent = 1 << 15
)

const (
	InteractionTypePing               = 1
	InteractionTypeApplicationCommand = 2

	CommandTypeChatInput = 1

	callbackChannelMessage         = 4
	callbackDeferredChannelMessage = 5
	flagEphemeral                  = 1 << 6
)

// входящий кадр
type payload struct {
	Op int             `json:"op"`
	D  json.RawMessage `json:"d"`
	S  *int64          `json:"s"`
	T  string          `json:"t"`
}

// исходящий кадр: d сериализуется всегда (null для heartbeat без seq)
type outPayload struct {
	Op int `json:"op"`
	D  any `json:"d"`
}

type hello struct {
	HeartbeatInterval int64 `json:"heartbeat_interval"`
}

type identify struct {
	Token      string             `json:"token"`
	Intents    int                `json:"intents"`
	Properties identifyProperties `json:"properties"`
}

type identifyProperties struct {
	OS      string `json:"os"`
	Browser string `json:"browser"`
	Device  string `json:"device"`
}

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Bot      bool   `json:"bot,omitempty"`
}

type Member struct {
	User *User `json:"user,omitempty"`
}

type Ready struct {
	V           int        `json:"v"`
	User        User       `json:"user"`
	SessionID   string     `json:"session_id"`
	Guilds      []GuildRef `json:"guilds"`
	Application AppRef     `json:"application"`
}

type GuildRef struct {
	ID string `json:"id"`
}

type AppRef struct {
	ID string `json:"id"`
}

type InteractionData struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type int    `json:"type"`
}

type Interaction struct {
	ID            string          `json:"id"`
	ApplicationID string          `json:"application_id"`
	Type          int             `json:"type"`
	Token         string          `json:"token"`
	GuildID       string          `json:"guild_id,omitempty"`
	ChannelID     string          `json:"channel_id,omitempty"`
	Member        *Member         `json:"member,omitempty"`
	User          *User           `json:"user,omitempty"`
	Data          InteractionData `json:"data"`
}

// Caller - кто вызвал команду: member.user на сервере, user в личке.
func (i *Interaction) Caller() *User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

type Message struct {
	ID        string `json:"id"`
	ChannelID string `json:"channel_id"`
	GuildID   string `json:"guild_id,omitempty"`
	Content   string `json:"content"`
	Author    User   `json:"author"`
}

type ApplicationCommand struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        int    `json:"type,omitempty"`
}

type interactionResponse struct {
	Type int                     `json:"type"`
	Data interactionResponseData `json:"data"`
}

type interactionResponseData struct {
	Content string `json:"content,omitempty"`
	Flags   int    `json:"flags,omitempty"`
}

type messageEdit struct {
	Content string `json:"content"`
}

type messageCreate struct {
	Content          string            `json:"content"`
	MessageReference *messageReference `json:"message_reference,omitempty"`
}

type messageReference struct {
	MessageID string `json:"message_id"`
}

package status

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

type OutcomeKind int

const (
	OnCooldown OutcomeKind = iota
	Cached
	Fresh
	TimedOut
	UnexpectedError
)

func (k OutcomeKind) String() string {
	switch k {
	case OnCooldown:
		return "on_cooldown"
	case Cached:
		return "cached"
	case Fresh:
		return "fresh"
	case TimedOut:
		return "timed_out"
	case UnexpectedError:
		return "unexpected_error"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// Outcome - результат одного вызова команды.
// StatusCode и Message заполнены только для Cached/Fresh, Remaining - только для OnCooldown.
type Outcome struct {
	Kind       OutcomeKind
	Remaining  time.Duration
	StatusCode int
	Message    string
}

// Reply - текст ответа пользователю.
func (o Outcome) Reply() string {
	switch o.Kind {
	case OnCooldown:
		return fmt.Sprintf("Chill dawg try again in %.1fs.", o.Remaining.Seconds())
	case Cached:
		return o.Message + " (cached)"
	case Fresh:
		return o.Message
	case TimedOut:
		return "Riot API request timed out."
	default:
		return "Unexpected error while contacting Riot API."
	}
}

// MessageFor переводит HTTP-код status-эндпоинта в короткое сообщение.
func MessageFor(statusCode int, platform string) string {
	switch statusCode {
	case http.StatusOK:
		return fmt.Sprintf("Riot API OK on %s. Status endpoint reachable.", strings.ToUpper(platform))
	case http.StatusForbidden:
		return "Riot API key rejected or expired (403)."
	case http.StatusTooManyRequests:
		return "Rate limited by Riot (429). Try again later."
	default:
		return fmt.Sprintf("Riot API error %d on %s.", statusCode, strings.ToUpper(platform))
	}
}

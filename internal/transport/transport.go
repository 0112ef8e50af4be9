// Package transport connects the bot to the chat platform. The rest of the
// application sees only the types and interfaces declared here.
package transport

import (
	"context"
	"lecturebot/internal/models"
	"strings"
)

// MaxTextLength is the longest text a single chat message may carry.
const MaxTextLength = 4096

// Surface is where a screen is drawn: a new message when MessageID is zero,
// otherwise an edit of that message.
type Surface struct {
	ChatID    int64
	MessageID int
}

type Button struct {
	Label string
	Data  string
}

type Message struct {
	Text     string
	Markdown bool
	Buttons  [][]Button
}

type Command struct {
	InteractionID string
	Name          string
	Args          string
	UserID        int64
	FirstName     string
	Chat          models.ChatRef
	Private       bool
	Reply         *models.SourceMessage
}

type Callback struct {
	InteractionID string
	ID            string
	UserID        int64
	FirstName     string
	ChatID        int64
	MessageID     int
	Data          string
}

type CommandInfo struct {
	Name        string
	Description string
}

// Handler receives inbound events.
type Handler interface {
	HandleCommand(ctx context.Context, cmd Command)
	HandleCallback(ctx context.Context, cb Callback)
}

type TransportInterface interface {
	Render(ctx context.Context, surface Surface, msg Message) (int, error)
	Duplicate(ctx context.Context, from models.SourceGroup, messageID int, to int64) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
}

// PollerInterface delivers inbound events to a Handler until ctx is done.
type PollerInterface interface {
	Start(ctx context.Context, handler Handler)
}

// ParseCommand splits "/name@bot args" into a lower-case name and the
// trimmed argument string. ok is false for text that is not a command.
func ParseCommand(text string) (name, args string, ok bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}
	head, rest, _ := strings.Cut(text[1:], " ")
	if i := strings.IndexAny(head, "\n\t"); i >= 0 {
		rest = head[i+1:] + " " + rest
		head = head[:i]
	}
	head, _, _ = strings.Cut(head, "@")
	if head == "" {
		return "", "", false
	}
	return strings.ToLower(head), strings.Join(strings.Fields(rest), " "), true
}

// SplitText breaks text into chunks of at most limit runes, preferring line breaks.
func SplitText(text string, limit int) []string {
	r := []rune(text)
	if len(r) <= limit {
		return []string{text}
	}
	var chunks []string
	for len(r) > limit {
		cut := limit
		for i := limit; i > limit/2; i-- {
			if r[i-1] == '\n' {
				cut = i
				break
			}
		}
		chunks = append(chunks, strings.TrimRight(string(r[:cut]), "\n"))
		r = r[cut:]
	}
	if len(r) > 0 {
		chunks = append(chunks, string(r))
	}
	return chunks
}

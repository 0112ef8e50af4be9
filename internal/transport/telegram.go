package transport

import (
	"context"
	"fmt"
	"lecturebot/internal/models"
	"lecturebot/internal/providers"
	"lecturebot/internal/structures"
	"net/http"
	"time"

	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	"github.com/google/uuid"
)

// BotCommands is the command menu registered with Telegram at startup.
var BotCommands = []CommandInfo{
	{Name: "start", Description: "📚 Open lecture subjects menu"},
	{Name: "search", Description: "🔍 Search all lectures by title"},
	{Name: "help", Description: "❓ Show all commands (User/Admin)"},
	{Name: "admin", Description: "⚙️ Open admin settings panel"},
	{Name: "capture", Description: "➕ Index a lecture (MUST reply to a message)"},
	{Name: "list", Description: "📄 Show detailed list of all indexed content"},
	{Name: "rename_subject", Description: "✏️ Rename a subject (e.g., Old | New)"},
}

// Telegram is the long-polling Telegram client.
type Telegram struct {
	bot     *bot.Bot
	handler Handler
	logger  providers.Logger
}

func NewTelegram(conf *structures.Config, logger providers.Logger) (*Telegram, error) {
	return newTelegram(conf, logger)
}

func newTelegram(conf *structures.Config, logger providers.Logger, extra ...bot.Option) (*Telegram, error) {
	t := &Telegram{logger: logger}

	pollTimeout := conf.Bot.PollTimeout
	if pollTimeout <= 0 {
		pollTimeout = 30 * time.Second
	}
	opts := append([]bot.Option{
		bot.WithDefaultHandler(t.onUpdate),
		bot.WithHTTPClient(pollTimeout, &http.Client{Timeout: pollTimeout + 10*time.Second}),
		bot.WithErrorsHandler(func(err error) {
			logger.Errorf(providers.TypeBot, "Telegram polling error: %s", err)
		}),
	}, extra...)
	b, err := bot.New(conf.Bot.Token, opts...)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	t.bot = b
	return t, nil
}

// Start registers the command menu and polls until ctx is cancelled.
func (t *Telegram) Start(ctx context.Context, handler Handler) {
	t.handler = handler
	if err := t.SetCommands(ctx, BotCommands); err != nil {
		t.logger.Errorf(providers.TypeBot, "Failed to set bot commands: %s", err)
	} else {
		t.logger.Infof(providers.TypeBot, "Successfully set bot commands.")
	}
	t.bot.Start(ctx)
}

func (t *Telegram) SetCommands(ctx context.Context, commands []CommandInfo) error {
	list := make([]tgmodels.BotCommand, 0, len(commands))
	for _, c := range commands {
		list = append(list, tgmodels.BotCommand{Command: c.Name, Description: c.Description})
	}
	_, err := t.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{Commands: list})
	return err
}

func (t *Telegram) onUpdate(ctx context.Context, _ *bot.Bot, update *tgmodels.Update) {
	if t.handler == nil {
		return
	}
	switch {
	case update.CallbackQuery != nil:
		t.handler.HandleCallback(ctx, callbackFromUpdate(update.CallbackQuery))
	case update.Message != nil:
		if cmd, ok := commandFromMessage(update.Message); ok {
			t.handler.HandleCommand(ctx, cmd)
		}
	}
}

func commandFromMessage(msg *tgmodels.Message) (Command, bool) {
	private := msg.Chat.Type == tgmodels.ChatTypePrivate
	name, args, isCommand := ParseCommand(msg.Text)
	if !isCommand {
		// Plain private text opens the top menu.
		if !private || msg.Text == "" {
			return Command{}, false
		}
		name = ""
	}

	cmd := Command{
		InteractionID: uuid.NewString(),
		Name:          name,
		Args:          args,
		Chat:          models.ChatRef{ID: msg.Chat.ID, Username: msg.Chat.Username},
		Private:       private,
	}
	if msg.From != nil {
		cmd.UserID = msg.From.ID
		cmd.FirstName = msg.From.FirstName
	}
	if msg.ReplyToMessage != nil {
		src := sourceMessage(msg.ReplyToMessage)
		cmd.Reply = &src
	}
	return cmd, true
}

func sourceMessage(msg *tgmodels.Message) models.SourceMessage {
	src := models.SourceMessage{
		MessageID: msg.ID,
		ThreadID:  msg.MessageThreadID,
		Caption:   msg.Caption,
		Text:      msg.Text,
	}
	switch {
	case msg.Document != nil:
		src.Media, src.FileName = models.MediaDocument, msg.Document.FileName
	case msg.Video != nil:
		src.Media, src.FileName = models.MediaVideo, msg.Video.FileName
	case msg.Audio != nil:
		src.Media, src.FileName = models.MediaAudio, msg.Audio.FileName
	case msg.Animation != nil:
		src.Media = models.MediaAnimation
	case msg.Voice != nil:
		src.Media = models.MediaVoice
	case len(msg.Photo) > 0:
		src.Media = models.MediaPhoto
	}
	return src
}

func callbackFromUpdate(q *tgmodels.CallbackQuery) Callback {
	cb := Callback{
		InteractionID: uuid.NewString(),
		ID:            q.ID,
		UserID:        q.From.ID,
		FirstName:     q.From.FirstName,
		Data:          q.Data,
	}
	switch {
	case q.Message.Message != nil:
		cb.ChatID = q.Message.Message.Chat.ID
		cb.MessageID = q.Message.Message.ID
	case q.Message.InaccessibleMessage != nil:
		cb.ChatID = q.Message.InaccessibleMessage.Chat.ID
		cb.MessageID = q.Message.InaccessibleMessage.MessageID
	default:
		cb.ChatID = q.From.ID
	}
	return cb
}

func keyboard(rows [][]Button) tgmodels.ReplyMarkup {
	if len(rows) == 0 {
		return nil
	}
	kb := make([][]tgmodels.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		line := make([]tgmodels.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			line = append(line, tgmodels.InlineKeyboardButton{Text: b.Label, CallbackData: b.Data})
		}
		kb = append(kb, line)
	}
	return &tgmodels.InlineKeyboardMarkup{InlineKeyboard: kb}
}

func parseMode(markdown bool) tgmodels.ParseMode {
	if markdown {
		return tgmodels.ParseModeMarkdownV1
	}
	return ""
}

// Render sends or edits a message. Text longer than MaxTextLength is sent
// as several messages; only the last carries the buttons.
func (t *Telegram) Render(ctx context.Context, surface Surface, msg Message) (int, error) {
	chunks := SplitText(msg.Text, MaxTextLength)

	if surface.MessageID != 0 && len(chunks) == 1 {
		edited, err := t.bot.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:      surface.ChatID,
			MessageID:   surface.MessageID,
			Text:        msg.Text,
			ParseMode:   parseMode(msg.Markdown),
			ReplyMarkup: keyboard(msg.Buttons),
		})
		if err != nil {
			return 0, fmt.Errorf("edit message %d: %w", surface.MessageID, err)
		}
		return edited.ID, nil
	}

	var lastID int
	for i, chunk := range chunks {
		params := &bot.SendMessageParams{
			ChatID:    surface.ChatID,
			Text:      chunk,
			ParseMode: parseMode(msg.Markdown),
		}
		if i == len(chunks)-1 {
			params.ReplyMarkup = keyboard(msg.Buttons)
		}
		sent, err := t.bot.SendMessage(ctx, params)
		if err != nil {
			return 0, fmt.Errorf("send message: %w", err)
		}
		lastID = sent.ID
	}
	return lastID, nil
}

func (t *Telegram) Duplicate(ctx context.Context, from models.SourceGroup, messageID int, to int64) error {
	var fromChat any = from.ID
	if from.Username != "" {
		fromChat = "@" + from.Username
	}
	_, err := t.bot.CopyMessage(ctx, &bot.CopyMessageParams{
		ChatID:     to,
		FromChatID: fromChat,
		MessageID:  messageID,
	})
	if err != nil {
		return fmt.Errorf("copy message %d from %s: %w: %w", messageID, from, models.ErrDeliveryFailed, err)
	}
	return nil
}

func (t *Telegram) AnswerCallback(ctx context.Context, callbackID, text string) error {
	_, err := t.bot.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	})
	return err
}

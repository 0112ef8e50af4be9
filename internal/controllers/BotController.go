package controllers

import (
	"context"
	"errors"
	"lecturebot/internal/menu"
	"lecturebot/internal/models"
	"lecturebot/internal/payload"
	"lecturebot/internal/providers"
	"lecturebot/internal/ratelimit"
	"lecturebot/internal/services"
	"lecturebot/internal/structures"
	"lecturebot/internal/transport"
	"strconv"
)

const (
	cmdStart  = "start"
	cmdHelp   = "help"
	cmdSearch = "search"
	cmdAdmin  = "admin"
	cmdCapt   = "capture"
	cmdList   = "list"
	cmdRename = "rename_subject"
)

// commandHandler returns the reply screen. When err is set and the screen
// is empty the reply is derived from err.
type commandHandler func(ctx context.Context, cmd transport.Command) (menu.Screen, error)

type callbackHandler func(ctx context.Context, cb transport.Callback, p payload.Payload) (menu.Screen, error)

type adminHandler func(ctx context.Context, cb transport.Callback, p payload.Admin) (menu.Screen, error)

// BotController routes chat commands and button presses to the catalog.
type BotController struct {
	transport transport.TransportInterface
	codec     payload.CodecInterface
	service   services.CatalogServiceInterface
	auth      services.AuthorizerInterface
	limiter   ratelimit.LimiterInterface
	group     models.SourceGroup
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface

	commands     map[string]commandHandler
	callbacks    map[payload.Kind]callbackHandler
	adminActions map[payload.Action]adminHandler
}

func NewBotController(
	conf *structures.Config,
	tr transport.TransportInterface,
	codec payload.CodecInterface,
	service services.CatalogServiceInterface,
	auth services.AuthorizerInterface,
	limiter ratelimit.LimiterInterface,
	logger providers.Logger,
	metrics providers.MetricsProviderInterface,
) (*BotController, error) {
	group, err := models.ParseSourceGroup(conf.Bot.SourceGroup)
	if err != nil {
		return nil, err
	}
	bc := &BotController{
		transport: tr,
		codec:     codec,
		service:   service,
		auth:      auth,
		limiter:   limiter,
		group:     group,
		logger:    logger,
		metrics:   metrics,
	}

	bc.commands = map[string]commandHandler{
		cmdStart:  bc.start,
		cmdHelp:   bc.help,
		cmdSearch: bc.search,
		cmdAdmin:  bc.admin,
		cmdCapt:   bc.capture,
		cmdList:   bc.list,
		cmdRename: bc.rename,
	}
	bc.callbacks = map[payload.Kind]callbackHandler{
		payload.KindSubject:  bc.subject,
		payload.KindBack:     bc.back,
		payload.KindTypeMenu: bc.typeMenu,
		payload.KindLecture:  bc.lecture,
		payload.KindQuiz:     bc.quiz,
		payload.KindAdmin:    bc.adminCallback,
	}
	bc.adminActions = map[payload.Action]adminHandler{
		payload.ActionMenu:                     bc.adminRoot,
		payload.ActionShowUsage:                bc.showUsage,
		payload.ActionManageSubjects:           bc.manageSubjects,
		payload.ActionSubjectMenu:              bc.subjectMenu,
		payload.ActionManageLectures:           bc.manageLectures,
		payload.ActionConfirmDeleteSubject:     bc.confirm,
		payload.ActionConfirmDeleteAllLectures: bc.confirm,
		payload.ActionConfirmDeleteLecture:     bc.confirm,
		payload.ActionDeleteSubject:            bc.deleteSubject,
		payload.ActionDeleteAllLectures:        bc.deleteAllLectures,
		payload.ActionDeleteLecture:            bc.deleteLecture,
	}
	return bc, nil
}

func (bc *BotController) HandleCommand(ctx context.Context, cmd transport.Command) {
	handler, ok := bc.commands[cmd.Name]
	if !ok || cmd.Name == "" {
		// Unknown commands and plain text only get a reply in private chats.
		if !cmd.Private {
			return
		}
		handler = bc.start
	}
	bc.metrics.IncUpdates("command")

	screen, err := handler(ctx, cmd)
	if err != nil {
		bc.observeError(cmd.InteractionID, "/"+cmd.Name, cmd.UserID, err)
		if screen.Text == "" {
			screen = commandErrorScreen(cmd.Name, err)
		}
	}
	bc.render(ctx, cmd.InteractionID, transport.Surface{ChatID: cmd.Chat.ID}, screen)
}

func (bc *BotController) HandleCallback(ctx context.Context, cb transport.Callback) {
	bc.metrics.IncUpdates("callback")
	surface := transport.Surface{ChatID: cb.ChatID, MessageID: cb.MessageID}

	p, err := bc.codec.Decode(cb.Data)
	if err != nil {
		bc.answer(ctx, cb, "")
		bc.observeError(cb.InteractionID, "callback", cb.UserID, err)
		bc.render(ctx, cb.InteractionID, surface, menu.Notice(menu.ExpiredButtonText))
		return
	}

	notice := ""
	if p.Kind() == payload.KindQuiz {
		notice = menu.QuizPendingText
	}
	bc.answer(ctx, cb, notice)

	handler, ok := bc.callbacks[p.Kind()]
	if !ok {
		return
	}
	screen, err := handler(ctx, cb, p)
	if err != nil {
		bc.observeError(cb.InteractionID, string(p.Kind()), cb.UserID, err)
		if screen.Text == "" {
			screen = callbackErrorScreen(err)
		}
	}
	bc.render(ctx, cb.InteractionID, surface, screen)
}

func (bc *BotController) answer(ctx context.Context, cb transport.Callback, text string) {
	if err := bc.transport.AnswerCallback(ctx, cb.ID, text); err != nil {
		bc.logger.Debugf(providers.TypeBot, "[%s] answer callback %s: %s", cb.InteractionID, cb.ID, err)
	}
}

func (bc *BotController) observeError(interactionID, op string, userID int64, err error) {
	kind := models.ErrorKind(err)
	bc.metrics.IncErrors(kind)
	switch kind {
	case "storage_unavailable", "delivery_failed", "internal":
		bc.logger.Errorf(providers.TypeBot, "[%s] %s by %d failed: %s", interactionID, op, userID, err)
	default:
		bc.logger.Warnf(providers.TypeBot, "[%s] %s by %d rejected: %s", interactionID, op, userID, err)
	}
}

func (bc *BotController) render(ctx context.Context, interactionID string, surface transport.Surface, screen menu.Screen) {
	if _, err := bc.transport.Render(ctx, surface, bc.message(interactionID, screen)); err != nil {
		bc.metrics.IncErrors("render")
		bc.logger.Errorf(providers.TypeBot, "[%s] render to chat %d failed: %s", interactionID, surface.ChatID, err)
	}
}

// message encodes button payloads. A button whose payload cannot be encoded
// is left out rather than sent dead.
func (bc *BotController) message(interactionID string, s menu.Screen) transport.Message {
	rows := make([][]transport.Button, 0, len(s.Buttons))
	for _, row := range s.Buttons {
		line := make([]transport.Button, 0, len(row))
		for _, b := range row {
			data, err := bc.codec.Encode(b.Payload)
			if err != nil {
				bc.metrics.IncErrors("button")
				bc.logger.Errorf(providers.TypeBot, "[%s] dropped button %q: %s", interactionID, b.Label, err)
				continue
			}
			line = append(line, transport.Button{Label: b.Label, Data: data})
		}
		if len(line) > 0 {
			rows = append(rows, line)
		}
	}
	return transport.Message{Text: s.Text, Markdown: s.Markdown, Buttons: rows}
}

func commandErrorScreen(name string, err error) menu.Screen {
	switch {
	case errors.Is(err, models.ErrUnauthorized):
		if name == cmdAdmin {
			return menu.Notice(menu.NotAuthorizedText)
		}
		return menu.Notice(menu.NotAdminText)
	case errors.Is(err, services.ErrNoReply):
		return menu.Notice(menu.NoReplyText)
	case errors.Is(err, models.ErrWrongChat):
		return menu.Notice(menu.WrongChatText)
	case errors.Is(err, services.ErrReservedName):
		return menu.Notice(menu.ReservedSubjectText)
	case errors.Is(err, services.ErrEmptyName):
		if name == cmdRename {
			return menu.RenameEmptyNames()
		}
		return menu.CaptureEmptySubject()
	case errors.Is(err, models.ErrInvalidArgument):
		switch name {
		case cmdRename:
			return menu.RenameUsage()
		case cmdSearch:
			return menu.SearchUsage()
		}
		return menu.CaptureUsage()
	}
	return menu.Notice(menu.StorageFailedText)
}

func callbackErrorScreen(err error) menu.Screen {
	switch {
	case errors.Is(err, models.ErrUnauthorized):
		return menu.Notice(menu.CallbackDeniedText)
	case errors.Is(err, models.ErrNotFound):
		return menu.Notice(menu.SubjectMissingText)
	case errors.Is(err, models.ErrMalformedPayload):
		return menu.Notice(menu.ExpiredButtonText)
	case errors.Is(err, models.ErrRateLimited):
		return menu.Notice(menu.RateLimitedText)
	case errors.Is(err, models.ErrDeliveryFailed):
		return menu.Notice(menu.DeliveryFailedText)
	}
	return menu.Notice(menu.StorageFailedText)
}

// Commands

func (bc *BotController) start(ctx context.Context, cmd transport.Command) (menu.Screen, error) {
	doc, err := bc.service.Snapshot(ctx)
	if err != nil {
		return menu.Screen{}, err
	}
	return menu.Welcome(doc, cmd.FirstName), nil
}

func (bc *BotController) help(_ context.Context, _ transport.Command) (menu.Screen, error) {
	return menu.Help(), nil
}

func (bc *BotController) search(ctx context.Context, cmd transport.Command) (menu.Screen, error) {
	doc, err := bc.service.Snapshot(ctx)
	if err != nil {
		return menu.Screen{}, err
	}
	return menu.Search(doc, cmd.Args)
}

func (bc *BotController) admin(_ context.Context, cmd transport.Command) (menu.Screen, error) {
	if err := bc.auth.Authorize(cmd.UserID); err != nil {
		return menu.Screen{}, err
	}
	return menu.AdminRoot(), nil
}

func (bc *BotController) capture(ctx context.Context, cmd transport.Command) (menu.Screen, error) {
	res, err := bc.service.Capture(ctx, services.CaptureRequest{
		Caller: cmd.UserID,
		Chat:   cmd.Chat,
		Reply:  cmd.Reply,
		Args:   cmd.Args,
	})
	if err != nil {
		return menu.Screen{}, err
	}
	return menu.CaptureSaved(res.Type, res.Subject, res.Title, res.MessageID, res.ThreadID), nil
}

func (bc *BotController) list(ctx context.Context, cmd transport.Command) (menu.Screen, error) {
	doc, err := bc.service.Listing(ctx, cmd.UserID)
	if err != nil {
		return menu.Screen{}, err
	}
	return menu.CatalogListing(doc), nil
}

func (bc *BotController) rename(ctx context.Context, cmd transport.Command) (menu.Screen, error) {
	res, err := bc.service.RenameSubject(ctx, cmd.UserID, cmd.Args)
	switch {
	case err == nil:
		return menu.Renamed(res.Old, res.New), nil
	case errors.Is(err, models.ErrNotFound):
		oldName, _, _ := services.ParseRenameArgs(cmd.Args)
		return menu.RenameSourceMissing(oldName), err
	case errors.Is(err, models.ErrAlreadyExists):
		_, newName, _ := services.ParseRenameArgs(cmd.Args)
		return menu.RenameTargetExists(newName), err
	}
	return menu.Screen{}, err
}

// Student callbacks

func (bc *BotController) subject(ctx context.Context, _ transport.Callback, p payload.Payload) (menu.Screen, error) {
	doc, err := bc.service.Snapshot(ctx)
	if err != nil {
		return menu.Screen{}, err
	}
	return menu.ContentTypeMenu(doc, p.(payload.Subject).Subject)
}

func (bc *BotController) back(ctx context.Context, _ transport.Callback, _ payload.Payload) (menu.Screen, error) {
	doc, err := bc.service.Snapshot(ctx)
	if err != nil {
		return menu.Screen{}, err
	}
	return menu.TopMenu(doc), nil
}

func (bc *BotController) typeMenu(ctx context.Context, _ transport.Callback, p payload.Payload) (menu.Screen, error) {
	doc, err := bc.service.Snapshot(ctx)
	if err != nil {
		return menu.Screen{}, err
	}
	tm := p.(payload.TypeMenu)
	return menu.TitleList(doc, tm.Subject, tm.Type)
}

// lecture copies the stored message to the caller's private chat. The
// forward counter is best effort: a failed save is logged and the delivery
// still counts as done.
func (bc *BotController) lecture(ctx context.Context, cb transport.Callback, p payload.Payload) (menu.Screen, error) {
	lp := p.(payload.Lecture)
	doc, err := bc.service.Snapshot(ctx)
	if err != nil {
		return menu.Screen{}, err
	}
	s, ok := doc.Subject(lp.Subject)
	if !ok {
		return menu.Notice(menu.SubjectMissingText), models.ErrNotFound
	}
	messageID, ok := s.Lectures(lp.Type)[lp.Title]
	if !ok {
		return menu.Notice(menu.LectureMissingText), models.ErrNotFound
	}

	if !bc.limiter.Allow(ctx, strconv.FormatInt(cb.UserID, 10)) {
		bc.metrics.IncDeliveries("limited")
		return menu.Screen{}, models.ErrRateLimited
	}
	if err := bc.transport.Duplicate(ctx, bc.group, messageID, cb.UserID); err != nil {
		bc.metrics.IncDeliveries("failed")
		if !errors.Is(err, models.ErrDeliveryFailed) {
			err = errors.Join(models.ErrDeliveryFailed, err)
		}
		return menu.Screen{}, err
	}
	bc.metrics.IncDeliveries("ok")

	if stats, err := bc.service.RecordForward(ctx); err != nil {
		bc.metrics.IncErrors(models.ErrorKind(err))
		bc.logger.Errorf(providers.TypeBot, "[%s] forward counter not saved: %s", cb.InteractionID, err)
	} else {
		bc.logger.Infof(providers.TypeBot, "[%s] delivered %s %q of %q to %d (total %d)", cb.InteractionID, lp.Type, lp.Title, lp.Subject, cb.UserID, stats.TotalForwards)
	}
	return menu.LectureDetail(lp.Subject, lp.Type, lp.Title), nil
}

func (bc *BotController) quiz(_ context.Context, _ transport.Callback, p payload.Payload) (menu.Screen, error) {
	q := p.(payload.Quiz)
	return menu.QuizScreen(q.Subject, q.Type, q.Title), nil
}

// Admin callbacks

func (bc *BotController) adminCallback(ctx context.Context, cb transport.Callback, p payload.Payload) (menu.Screen, error) {
	if err := bc.auth.Authorize(cb.UserID); err != nil {
		return menu.Screen{}, err
	}
	ap := p.(payload.Admin)
	handler, ok := bc.adminActions[ap.Action]
	if !ok {
		return menu.Screen{}, models.ErrMalformedPayload
	}
	return handler(ctx, cb, ap)
}

func (bc *BotController) adminRoot(_ context.Context, _ transport.Callback, _ payload.Admin) (menu.Screen, error) {
	return menu.AdminRoot(), nil
}

func (bc *BotController) showUsage(ctx context.Context, cb transport.Callback, _ payload.Admin) (menu.Screen, error) {
	stats, err := bc.service.Usage(ctx, cb.UserID)
	if err != nil {
		return menu.Screen{}, err
	}
	return menu.Usage(stats), nil
}

func (bc *BotController) manageSubjects(ctx context.Context, _ transport.Callback, _ payload.Admin) (menu.Screen, error) {
	doc, err := bc.service.Snapshot(ctx)
	if err != nil {
		return menu.Screen{}, err
	}
	return menu.ManageSubjects(doc), nil
}

func (bc *BotController) subjectMenu(ctx context.Context, _ transport.Callback, p payload.Admin) (menu.Screen, error) {
	doc, err := bc.service.Snapshot(ctx)
	if err != nil {
		return menu.Screen{}, err
	}
	screen, err := menu.SubjectMenu(doc, p.Subject())
	if errors.Is(err, models.ErrNotFound) {
		return menu.DeleteTargetMissing(p), err
	}
	return screen, err
}

func (bc *BotController) manageLectures(ctx context.Context, _ transport.Callback, p payload.Admin) (menu.Screen, error) {
	doc, err := bc.service.Snapshot(ctx)
	if err != nil {
		return menu.Screen{}, err
	}
	screen, err := menu.ManageLectures(doc, p.Subject())
	if errors.Is(err, models.ErrNotFound) {
		return menu.DeleteTargetMissing(p), err
	}
	return screen, err
}

func (bc *BotController) confirm(_ context.Context, _ transport.Callback, p payload.Admin) (menu.Screen, error) {
	return menu.Confirm(p)
}

func (bc *BotController) deleteSubject(ctx context.Context, cb transport.Callback, p payload.Admin) (menu.Screen, error) {
	err := bc.service.DeleteSubject(ctx, cb.UserID, p.Subject())
	if err != nil {
		return missingOr(p, err)
	}
	return menu.SubjectDeleted(p.Subject()), nil
}

func (bc *BotController) deleteAllLectures(ctx context.Context, cb transport.Callback, p payload.Admin) (menu.Screen, error) {
	err := bc.service.DeleteAllLectures(ctx, cb.UserID, p.Subject())
	if err != nil {
		return missingOr(p, err)
	}
	return menu.LecturesCleared(p.Subject()), nil
}

func (bc *BotController) deleteLecture(ctx context.Context, cb transport.Callback, p payload.Admin) (menu.Screen, error) {
	subject, ct, title := p.Lecture()
	remaining, err := bc.service.DeleteLecture(ctx, cb.UserID, subject, ct, title)
	if err != nil {
		return missingOr(p, err)
	}
	return menu.LectureDeleted(subject, ct, title, remaining), nil
}

func missingOr(p payload.Admin, err error) (menu.Screen, error) {
	if errors.Is(err, models.ErrNotFound) {
		return menu.DeleteTargetMissing(p), err
	}
	return menu.Screen{}, err
}

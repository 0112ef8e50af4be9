package services

import (
	"context"
	"fmt"
	"lecturebot/internal/catalog"
	"lecturebot/internal/models"
	"lecturebot/internal/providers"
	"lecturebot/internal/structures"
	"strings"
)

// maxDerivedTitle caps titles taken from captions and message text, in runes.
const maxDerivedTitle = 200

// Argument errors, each wrapping models.ErrInvalidArgument.
var (
	ErrNoReply      = fmt.Errorf("command must reply to a message: %w", models.ErrInvalidArgument)
	ErrMissingArgs  = fmt.Errorf("missing arguments: %w", models.ErrInvalidArgument)
	ErrEmptyName    = fmt.Errorf("name cannot be empty: %w", models.ErrInvalidArgument)
	ErrReservedName = fmt.Errorf("name cannot start with %q: %w", models.ReservedPrefix, models.ErrInvalidArgument)
)

type CatalogServiceInterface interface {
	Snapshot(ctx context.Context) (*models.Document, error)
	Capture(ctx context.Context, req CaptureRequest) (CaptureResult, error)
	RenameSubject(ctx context.Context, caller int64, args string) (RenameResult, error)
	DeleteLecture(ctx context.Context, caller int64, subject string, ct models.ContentType, title string) (int, error)
	DeleteAllLectures(ctx context.Context, caller int64, subject string) error
	DeleteSubject(ctx context.Context, caller int64, subject string) error
	Usage(ctx context.Context, caller int64) (models.Stats, error)
	Listing(ctx context.Context, caller int64) (*models.Document, error)
	RecordForward(ctx context.Context) (models.Stats, error)
}

type CaptureRequest struct {
	Caller int64
	Chat   models.ChatRef
	Reply  *models.SourceMessage
	Args   string
}

type CaptureResult struct {
	Subject        string
	Type           models.ContentType
	Title          string
	MessageID      int
	ThreadID       int
	CreatedSubject bool
}

type RenameResult struct {
	Old string
	New string
}

type CatalogService struct {
	store  catalog.StoreInterface
	auth   AuthorizerInterface
	group  models.SourceGroup
	logger providers.Logger
}

func NewCatalogService(conf *structures.Config, store catalog.StoreInterface, auth AuthorizerInterface, logger providers.Logger) (CatalogServiceInterface, error) {
	group, err := models.ParseSourceGroup(conf.Bot.SourceGroup)
	if err != nil {
		return nil, err
	}
	return &CatalogService{
		store:  store,
		auth:   auth,
		group:  group,
		logger: logger,
	}, nil
}

func (cs *CatalogService) Snapshot(ctx context.Context) (*models.Document, error) {
	return cs.store.View(ctx)
}

// ParseCaptureArgs splits "subject | custom title". The title is optional.
func ParseCaptureArgs(args string) (subject, customTitle string, err error) {
	args = strings.TrimSpace(args)
	if args == "" {
		return "", "", ErrMissingArgs
	}
	subject = args
	if before, after, ok := strings.Cut(args, "|"); ok {
		subject = strings.TrimSpace(before)
		customTitle = strings.TrimSpace(after)
	}
	if subject == "" {
		return "", "", fmt.Errorf("subject: %w", ErrEmptyName)
	}
	if models.IsReservedName(subject) {
		return "", "", fmt.Errorf("subject %q: %w", subject, ErrReservedName)
	}
	return subject, customTitle, nil
}

// ResolveTitle picks the entry title: custom title, then the file name,
// then the caption, then the text, then "message_<id>".
func ResolveTitle(customTitle string, msg models.SourceMessage) string {
	if customTitle != "" {
		return customTitle
	}
	switch msg.Media {
	case models.MediaDocument, models.MediaVideo, models.MediaAudio:
		if msg.FileName != "" {
			return msg.FileName
		}
	}
	if caption := strings.TrimSpace(msg.Caption); caption != "" {
		return clip(caption, maxDerivedTitle)
	}
	if text := strings.TrimSpace(msg.Text); text != "" {
		return clip(text, maxDerivedTitle)
	}
	return fmt.Sprintf("message_%d", msg.MessageID)
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func (cs *CatalogService) Capture(ctx context.Context, req CaptureRequest) (CaptureResult, error) {
	if err := cs.auth.Authorize(req.Caller); err != nil {
		return CaptureResult{}, err
	}
	if req.Reply == nil {
		return CaptureResult{}, ErrNoReply
	}
	if !cs.group.Matches(req.Chat) {
		cs.logger.Warnf(providers.TypeAdmin, "Capture command blocked in wrong chat. Chat ID: %d, Username: %s", req.Chat.ID, req.Chat.Username)
		return CaptureResult{}, fmt.Errorf("chat %d is not %s: %w", req.Chat.ID, cs.group, models.ErrWrongChat)
	}
	subject, customTitle, err := ParseCaptureArgs(req.Args)
	if err != nil {
		return CaptureResult{}, err
	}

	msg := *req.Reply
	res := CaptureResult{
		Subject:   subject,
		Type:      msg.ContentType(),
		MessageID: msg.MessageID,
		ThreadID:  msg.ThreadID,
	}

	_, err = cs.store.Update(ctx, func(doc *models.Document) error {
		s, ok := doc.Subject(subject)
		if !ok {
			s = models.NewSubject()
			doc.Subjects[subject] = s
			res.CreatedSubject = true
		}
		s.SetThreadID(msg.ThreadID)

		lectures := s.Lectures(res.Type)
		title := ResolveTitle(customTitle, msg)
		if _, taken := lectures[title]; taken {
			title = models.DisambiguateTitle(title, msg.MessageID)
		}
		lectures[title] = msg.MessageID
		res.Title = title
		return nil
	})
	if err != nil {
		return CaptureResult{}, err
	}

	cs.logger.Infof(providers.TypeAdmin, "User %d captured message %d as %s %q under %q", req.Caller, msg.MessageID, res.Type, res.Title, subject)
	return res, nil
}

// ParseRenameArgs splits "old | new"; both sides are required.
func ParseRenameArgs(args string) (oldName, newName string, err error) {
	before, after, ok := strings.Cut(args, "|")
	if !ok {
		return "", "", ErrMissingArgs
	}
	oldName, newName = strings.TrimSpace(before), strings.TrimSpace(after)
	if oldName == "" || newName == "" {
		return "", "", fmt.Errorf("old and new subject names: %w", ErrEmptyName)
	}
	return oldName, newName, nil
}

func (cs *CatalogService) RenameSubject(ctx context.Context, caller int64, args string) (RenameResult, error) {
	if err := cs.auth.Authorize(caller); err != nil {
		return RenameResult{}, err
	}
	oldName, newName, err := ParseRenameArgs(args)
	if err != nil {
		return RenameResult{}, err
	}
	if models.IsReservedName(newName) {
		return RenameResult{}, fmt.Errorf("subject %q: %w", newName, ErrReservedName)
	}

	_, err = cs.store.Update(ctx, func(doc *models.Document) error {
		s, ok := doc.Subject(oldName)
		if !ok {
			return fmt.Errorf("subject %q: %w", oldName, models.ErrNotFound)
		}
		if _, exists := doc.Subjects[newName]; exists {
			return fmt.Errorf("subject %q: %w", newName, models.ErrAlreadyExists)
		}
		delete(doc.Subjects, oldName)
		doc.Subjects[newName] = s
		return nil
	})
	if err != nil {
		return RenameResult{}, err
	}

	cs.logger.Infof(providers.TypeAdmin, "User %d renamed subject %q to %q", caller, oldName, newName)
	return RenameResult{Old: oldName, New: newName}, nil
}

// DeleteLecture removes one entry and returns how many entries the subject still has.
func (cs *CatalogService) DeleteLecture(ctx context.Context, caller int64, subject string, ct models.ContentType, title string) (int, error) {
	if err := cs.auth.Authorize(caller); err != nil {
		return 0, err
	}

	remaining := 0
	_, err := cs.store.Update(ctx, func(doc *models.Document) error {
		s, ok := doc.Subject(subject)
		if !ok {
			return fmt.Errorf("subject %q: %w", subject, models.ErrNotFound)
		}
		lectures := s.Lectures(ct)
		if _, ok := lectures[title]; !ok {
			return fmt.Errorf("lecture %q in %s/%s: %w", title, subject, ct, models.ErrNotFound)
		}
		delete(lectures, title)
		remaining = s.Total()
		return nil
	})
	if err != nil {
		return 0, err
	}

	cs.logger.Infof(providers.TypeAdmin, "User %d deleted %s %q from %q, %d left", caller, ct, title, subject, remaining)
	return remaining, nil
}

// DeleteAllLectures empties a subject but keeps it and its thread.
func (cs *CatalogService) DeleteAllLectures(ctx context.Context, caller int64, subject string) error {
	if err := cs.auth.Authorize(caller); err != nil {
		return err
	}

	_, err := cs.store.Update(ctx, func(doc *models.Document) error {
		s, ok := doc.Subject(subject)
		if !ok {
			return fmt.Errorf("subject %q: %w", subject, models.ErrNotFound)
		}
		s.Clear()
		return nil
	})
	if err != nil {
		return err
	}

	cs.logger.Infof(providers.TypeAdmin, "User %d deleted all lectures of %q", caller, subject)
	return nil
}

func (cs *CatalogService) DeleteSubject(ctx context.Context, caller int64, subject string) error {
	if err := cs.auth.Authorize(caller); err != nil {
		return err
	}

	_, err := cs.store.Update(ctx, func(doc *models.Document) error {
		if _, ok := doc.Subject(subject); !ok {
			return fmt.Errorf("subject %q: %w", subject, models.ErrNotFound)
		}
		delete(doc.Subjects, subject)
		return nil
	})
	if err != nil {
		return err
	}

	cs.logger.Infof(providers.TypeAdmin, "User %d deleted subject %q", caller, subject)
	return nil
}

func (cs *CatalogService) Usage(ctx context.Context, caller int64) (models.Stats, error) {
	if err := cs.auth.Authorize(caller); err != nil {
		return models.Stats{}, err
	}
	doc, err := cs.store.View(ctx)
	if err != nil {
		return models.Stats{}, err
	}
	return doc.Stats, nil
}

func (cs *CatalogService) Listing(ctx context.Context, caller int64) (*models.Document, error) {
	if err := cs.auth.Authorize(caller); err != nil {
		return nil, err
	}
	return cs.store.View(ctx)
}

// RecordForward counts one successful delivery.
func (cs *CatalogService) RecordForward(ctx context.Context) (models.Stats, error) {
	doc, err := cs.store.Update(ctx, func(doc *models.Document) error {
		doc.Stats.TotalForwards++
		return nil
	})
	if err != nil {
		return models.Stats{}, err
	}
	return doc.Stats, nil
}

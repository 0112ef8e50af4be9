package menu

import (
	"fmt"
	"lecturebot/internal/models"
	"lecturebot/internal/payload"
	"strings"
)

func adminMenuButton() []Button {
	return single("⬅️ Admin Menu", payload.AdminAction(payload.ActionMenu))
}

func adminSubjectMenuButton(label, subject string) []Button {
	return single(label, payload.AdminSubject(payload.ActionSubjectMenu, subject))
}

func AdminRoot() Screen {
	return Screen{
		Text:     "⚙️ *Admin Settings Menu*",
		Markdown: true,
		Buttons: [][]Button{
			single("📊 Show Usage Stats", payload.AdminAction(payload.ActionShowUsage)),
			single("📚 Manage Subjects", payload.AdminAction(payload.ActionManageSubjects)),
		},
	}
}

func Usage(stats models.Stats) Screen {
	return Screen{
		Text:     fmt.Sprintf("*Global Usage Statistics:*\nTotal Lectures Forwarded: *%d*", stats.TotalForwards),
		Markdown: true,
		Buttons:  [][]Button{adminMenuButton()},
	}
}

func ManageSubjects(doc *models.Document) Screen {
	names := doc.SubjectNames()
	rows := make([][]Button, 0, len(names)+1)
	for _, name := range names {
		rows = append(rows, single(name, payload.AdminSubject(payload.ActionSubjectMenu, name)))
	}
	rows = append(rows, adminMenuButton())
	return Screen{
		Text:     "*Manage Subjects:*\nSelect a subject to manage.",
		Markdown: true,
		Buttons:  rows,
	}
}

// SubjectMenu offers the destructive actions of a subject. Its buttons only
// ever lead to confirmation screens.
func SubjectMenu(doc *models.Document, subject string) (Screen, error) {
	s, ok := doc.Subject(subject)
	if !ok {
		return Screen{}, fmt.Errorf("subject %q: %w", subject, models.ErrNotFound)
	}
	total := s.Total()
	return Screen{
		Text:     fmt.Sprintf("📚 *Subject: %s* (Total Lectures: %d)", md(subject), total),
		Markdown: true,
		Buttons: [][]Button{
			single(fmt.Sprintf("➡️ Manage Specific Lectures (%d)", total), payload.AdminSubject(payload.ActionManageLectures, subject)),
			single(truncate(fmt.Sprintf("🗑️ Delete ALL Lectures in '%s'", subject)), payload.AdminSubject(payload.ActionDeleteAllLectures.Confirmation(), subject)),
			single(truncate(fmt.Sprintf("❌ Delete Entire Subject '%s'", subject)), payload.AdminSubject(payload.ActionDeleteSubject.Confirmation(), subject)),
			single("⬅️ Back to Subjects", payload.AdminAction(payload.ActionManageSubjects)),
		},
	}, nil
}

// ManageLectures lists every entry of a subject, documents first.
func ManageLectures(doc *models.Document, subject string) (Screen, error) {
	s, ok := doc.Subject(subject)
	if !ok {
		return Screen{}, fmt.Errorf("subject %q: %w", subject, models.ErrNotFound)
	}
	if s.Total() == 0 {
		return Notice("No lectures found to manage.", adminSubjectMenuButton("⬅️ Back", subject)), nil
	}

	rows := make([][]Button, 0, s.Total()+1)
	for _, ct := range models.ContentTypes {
		for _, title := range s.Titles(ct) {
			label := truncate(fmt.Sprintf("🗑️ %s (%s)", title, ct.Capitalized()))
			rows = append(rows, single(label, payload.AdminLecture(payload.ActionDeleteLecture.Confirmation(), subject, ct, title)))
		}
	}
	rows = append(rows, adminSubjectMenuButton("⬅️ Back to Subject Menu", subject))
	return Screen{
		Text:     fmt.Sprintf("*Manage Lectures in %s:*\nTap a lecture title to delete it.", md(subject)),
		Markdown: true,
		Buttons:  rows,
	}, nil
}

// Confirm renders the confirmation step for a confirm_* payload. The "yes"
// button carries the same arguments under the destructive action; cancel
// returns to the screen the confirmation was opened from.
func Confirm(p payload.Admin) (Screen, error) {
	if !p.Action.IsConfirmation() || !p.Action.Confirmed().IsDestructive() {
		return Screen{}, fmt.Errorf("%s is not a confirmation step: %w", p.Action, models.ErrMalformedPayload)
	}
	yes := payload.Admin{Action: p.Action.Confirmed(), Args: p.Args}
	subject := p.Subject()

	var text, yesLabel string
	cancel := payload.AdminSubject(payload.ActionSubjectMenu, subject)
	switch yes.Action {
	case payload.ActionDeleteSubject:
		text = fmt.Sprintf("🚨 *ARE YOU SURE?* This will permanently delete the entire subject: *%s* and all its lectures.", md(subject))
		yesLabel = "✅ CONFIRM DELETE SUBJECT"
	case payload.ActionDeleteAllLectures:
		text = fmt.Sprintf("🚨 *ARE YOU SURE?* This will permanently delete all lectures in *%s* (Documents and Media).", md(subject))
		yesLabel = "✅ CONFIRM DELETE ALL LECTURES"
	case payload.ActionDeleteLecture:
		_, ct, title := p.Lecture()
		text = fmt.Sprintf("🚨 *ARE YOU SURE?* Delete lecture: *%s* from *%s*?", md(title), md(subject))
		yesLabel = truncate(fmt.Sprintf("✅ CONFIRM DELETE: %s (%s)", title, ct.Capitalized()))
		cancel = payload.AdminSubject(payload.ActionManageLectures, subject)
	}

	return Screen{
		Text:     text,
		Markdown: true,
		Buttons: [][]Button{
			single(yesLabel, yes),
			single("❌ Cancel", cancel),
		},
	}, nil
}

func SubjectDeleted(subject string) Screen {
	return Screen{
		Text:     fmt.Sprintf("✅ Subject *%s* and all its lectures have been permanently deleted.", md(subject)),
		Markdown: true,
		Buttons:  [][]Button{single("⬅️ Back to Subjects", payload.AdminAction(payload.ActionManageSubjects))},
	}
}

func LecturesCleared(subject string) Screen {
	return Screen{
		Text:     fmt.Sprintf("✅ All lectures (Documents and Media) removed from subject *%s*.", md(subject)),
		Markdown: true,
		Buttons:  [][]Button{adminSubjectMenuButton("⬅️ Back to Subject Menu", subject)},
	}
}

// LectureDeleted points back at the lecture list while entries remain,
// otherwise at the subject menu.
func LectureDeleted(subject string, ct models.ContentType, title string, remaining int) Screen {
	back := adminSubjectMenuButton("⬅️ Back to Subject Menu", subject)
	if remaining > 0 {
		back = single("⬅️ Back to Lecture List", payload.AdminSubject(payload.ActionManageLectures, subject))
	}
	return Screen{
		Text:     fmt.Sprintf("✅ Lecture *%s* (%s) deleted from *%s*.", md(title), ct, md(subject)),
		Markdown: true,
		Buttons:  [][]Button{back},
	}
}

// DeleteTargetMissing is shown when a confirmed delete finds nothing to remove.
func DeleteTargetMissing(p payload.Admin) Screen {
	if p.Action == payload.ActionDeleteLecture {
		return Notice("Lecture or Subject not found.", adminSubjectMenuButton("⬅️ Back to Subject Menu", p.Subject()))
	}
	return Screen{
		Text:     fmt.Sprintf("Subject *%s* not found.", md(p.Subject())),
		Markdown: true,
		Buttons:  [][]Button{single("⬅️ Back to Subjects", payload.AdminAction(payload.ActionManageSubjects))},
	}
}

// CatalogListing is the /list dump of every subject and entry.
func CatalogListing(doc *models.Document) Screen {
	names := doc.SubjectNames()
	if len(names) == 0 {
		return Notice("No subjects/lectures indexed yet.")
	}

	var lines []string
	for _, name := range names {
		s, _ := doc.Subject(name)
		thread := "None"
		if s.ThreadID != nil {
			thread = fmt.Sprint(*s.ThreadID)
		}
		lines = append(lines, fmt.Sprintf("*%s* (thread_id: %s) - Docs: %d, Media: %d",
			md(name), thread, s.Count(models.ContentDocument), s.Count(models.ContentMedia)))

		lines = append(lines, "  *Documents*:")
		for _, t := range s.Titles(models.ContentDocument) {
			lines = append(lines, fmt.Sprintf("    • %s → %d", md(t), s.DocumentLectures[t]))
		}
		lines = append(lines, "  *Media (Videos/Audio)*:")
		for _, t := range s.Titles(models.ContentMedia) {
			lines = append(lines, fmt.Sprintf("    • %s → %d", md(t), s.MediaLectures[t]))
		}
	}
	return Screen{Text: strings.Join(lines, "\n"), Markdown: true}
}

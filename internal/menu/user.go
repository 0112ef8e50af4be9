package menu

import (
	"fmt"
	"lecturebot/internal/models"
	"lecturebot/internal/payload"
	"lecturebot/internal/quiz"
	"strings"
)

const minSearchLength = 3

func backButton() []Button {
	return single("⬅️ Back", payload.Back{})
}

func subjectButtons(doc *models.Document) [][]Button {
	names := doc.SubjectNames()
	rows := make([][]Button, 0, len(names))
	for _, name := range names {
		rows = append(rows, single(name, payload.Subject{Subject: name}))
	}
	return rows
}

// Welcome is the TopMenu with a greeting, shown on /start.
func Welcome(doc *models.Document, firstName string) Screen {
	if len(models.GetSubjects(doc)) == 0 {
		return Notice("No subjects configured yet. Admins: use /admin or /help.")
	}
	if firstName == "" {
		firstName = "student"
	}
	return Screen{
		Text:    fmt.Sprintf("Hi %s 👋\nChoose a subject:", firstName),
		Buttons: subjectButtons(doc),
	}
}

// TopMenu lists every subject.
func TopMenu(doc *models.Document) Screen {
	if len(models.GetSubjects(doc)) == 0 {
		return Notice("No subjects configured yet. Admins: use /admin or /help.")
	}
	return Screen{Text: "Choose a subject:", Buttons: subjectButtons(doc)}
}

// ContentTypeMenu offers the content types of a subject that have entries.
func ContentTypeMenu(doc *models.Document, subject string) (Screen, error) {
	s, ok := doc.Subject(subject)
	if !ok {
		return Screen{}, fmt.Errorf("subject %q: %w", subject, models.ErrNotFound)
	}

	var rows [][]Button
	if n := s.Count(models.ContentDocument); n > 0 {
		rows = append(rows, single(fmt.Sprintf("📄 PDF Lectures (%d)", n), payload.TypeMenu{Subject: subject, Type: models.ContentDocument}))
	}
	if n := s.Count(models.ContentMedia); n > 0 {
		rows = append(rows, single(fmt.Sprintf("📹 (Videos/Sound) (%d)", n), payload.TypeMenu{Subject: subject, Type: models.ContentMedia}))
	}

	if len(rows) == 0 {
		return Screen{
			Text:     fmt.Sprintf("No content indexed for *%s* yet.", md(subject)),
			Markdown: true,
			Buttons:  [][]Button{backButton()},
		}, nil
	}

	rows = append(rows, backButton())
	return Screen{
		Text:     fmt.Sprintf("Select content type for *%s*:", md(subject)),
		Markdown: true,
		Buttons:  rows,
	}, nil
}

func subjectMenuButton(subject string) []Button {
	return single("⬅️ Back to Subject Menu", payload.Subject{Subject: subject})
}

// TitleList shows one button per title of a content type.
func TitleList(doc *models.Document, subject string, ct models.ContentType) (Screen, error) {
	s, ok := doc.Subject(subject)
	if !ok {
		return Screen{}, fmt.Errorf("subject %q: %w", subject, models.ErrNotFound)
	}

	titles := s.Titles(ct)
	if len(titles) == 0 {
		return Notice(fmt.Sprintf("No %s found for %s.", ct.Label(), subject), subjectMenuButton(subject)), nil
	}

	rows := make([][]Button, 0, len(titles)+1)
	for _, title := range titles {
		rows = append(rows, single(truncate(title), payload.Lecture{Subject: subject, Type: ct, Title: title}))
	}
	rows = append(rows, subjectMenuButton(subject))

	return Screen{
		Text:     fmt.Sprintf("%s in *%s*:", ct.Label(), md(subject)),
		Markdown: true,
		Buttons:  rows,
	}, nil
}

// LectureDetail follows a successful delivery.
func LectureDetail(subject string, ct models.ContentType, title string) Screen {
	return Screen{
		Text:     fmt.Sprintf("✅ Sent *%s* from *%s*.\n\n_Tap 'Generate Quiz' for an interactive study aid._", md(title), md(subject)),
		Markdown: true,
		Buttons: [][]Button{
			single("🧠 Generate Quiz (LLM)", payload.Quiz{Subject: subject, Type: ct, Title: title}),
			single("⬅️ Back to Lectures", payload.TypeMenu{Subject: subject, Type: ct}),
		},
	}
}

// QuizScreen renders the quiz stub for a title.
func QuizScreen(subject string, ct models.ContentType, title string) Screen {
	return Screen{
		Text:     quiz.Format(md(title), quiz.Generate(md(title))),
		Markdown: true,
		Buttons: [][]Button{
			single("⬅️ Back to Lecture Details", payload.Lecture{Subject: subject, Type: ct, Title: title}),
		},
	}
}

type SearchResult struct {
	Subject string
	Type    models.ContentType
	Title   string
}

func (r SearchResult) label() string {
	icon := "📄"
	if r.Type == models.ContentMedia {
		icon = "📹"
	}
	return fmt.Sprintf("%s %s (%s)", icon, r.Title, r.Subject)
}

// FindLectures matches query case-insensitively against every title of every
// subject. Results are ordered by subject, then documents before media, then title.
func FindLectures(doc *models.Document, query string) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < minSearchLength {
		return nil, fmt.Errorf("search query needs at least %d characters: %w", minSearchLength, models.ErrInvalidArgument)
	}
	needle := strings.ToLower(query)

	var results []SearchResult
	for _, name := range doc.SubjectNames() {
		s, _ := doc.Subject(name)
		for _, ct := range models.ContentTypes {
			for _, title := range s.Titles(ct) {
				if strings.Contains(strings.ToLower(title), needle) {
					results = append(results, SearchResult{Subject: name, Type: ct, Title: title})
				}
			}
		}
	}
	return results, nil
}

// Search renders FindLectures as a flat list of lecture buttons.
func Search(doc *models.Document, query string) (Screen, error) {
	results, err := FindLectures(doc, query)
	if err != nil {
		return Screen{}, err
	}
	query = strings.TrimSpace(query)
	if len(results) == 0 {
		return Screen{Text: fmt.Sprintf("🔍 No lectures found matching *%s*.", md(query)), Markdown: true}, nil
	}

	rows := make([][]Button, 0, len(results))
	for _, r := range results {
		rows = append(rows, single(truncate(r.label()), payload.Lecture{Subject: r.Subject, Type: r.Type, Title: r.Title}))
	}
	return Screen{
		Text:     fmt.Sprintf("🔍 Found %d matches for *%s*:", len(results), md(query)),
		Markdown: true,
		Buttons:  rows,
	}, nil
}

func SearchUsage() Screen {
	return Screen{
		Text:     "Please provide a search query of at least 3 characters. Example: `/search Receptors`",
		Markdown: true,
	}
}

func Help() Screen {
	return Screen{
		Text: "*Student usage:*\n" +
			"/start - open subject menu\n" +
			"/search [query] - search all lectures by title\n\n" +
			"*Admin usage (in the group):*\n" +
			"Reply to a lecture post with:\n" +
			"`/capture SubjectName | Lecture Name`\n" +
			"/list - see indexed lectures\n" +
			"/admin - access settings menu\n" +
			"/rename\\_subject Old | New - rename a subject",
		Markdown: true,
	}
}

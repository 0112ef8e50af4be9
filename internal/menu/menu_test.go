package menu

import (
	"lecturebot/internal/models"
	"lecturebot/internal/payload"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDoc() *models.Document {
	doc := models.NewDocument()
	pharma := models.NewSubject()
	pharma.SetThreadID(11)
	pharma.DocumentLectures["Receptors"] = 101
	pharma.DocumentLectures["Intro to Receptors"] = 100
	pharma.MediaLectures["Receptor lab recording"] = 102
	doc.Subjects["Pharmacology"] = pharma

	micro := models.NewSubject()
	micro.MediaLectures["Bacteria"] = 200
	doc.Subjects["Microbiology"] = micro

	doc.Subjects["Empty"] = models.NewSubject()
	hidden := models.NewSubject()
	hidden.DocumentLectures["Receptor secrets"] = 1
	doc.Subjects["_stats"] = hidden
	return doc
}

func labels(s Screen) []string {
	var out []string
	for _, b := range s.AllButtons() {
		out = append(out, b.Label)
	}
	return out
}

func TestTopMenu_SortedAndHidesReserved(t *testing.T) {
	s := TopMenu(testDoc())
	assert.Equal(t, []string{"Empty", "Microbiology", "Pharmacology"}, labels(s))
	assert.Equal(t, payload.Subject{Subject: "Empty"}, s.Buttons[0][0].Payload)
}

func TestTopMenu_NoSubjects(t *testing.T) {
	s := TopMenu(models.NewDocument())
	assert.Empty(t, s.Buttons)
	assert.Contains(t, s.Text, "No subjects configured")
}

func TestWelcome(t *testing.T) {
	assert.True(t, strings.HasPrefix(Welcome(testDoc(), "Ada").Text, "Hi Ada"))
	assert.True(t, strings.HasPrefix(Welcome(testDoc(), "").Text, "Hi student"))
}

func TestContentTypeMenu(t *testing.T) {
	doc := testDoc()

	s, err := ContentTypeMenu(doc, "Pharmacology")
	require.NoError(t, err)
	assert.Equal(t, []string{"📄 PDF Lectures (2)", "📹 (Videos/Sound) (1)", "⬅️ Back"}, labels(s))

	s, err = ContentTypeMenu(doc, "Microbiology")
	require.NoError(t, err)
	assert.Equal(t, []string{"📹 (Videos/Sound) (1)", "⬅️ Back"}, labels(s), "empty types are hidden")

	s, err = ContentTypeMenu(doc, "Empty")
	require.NoError(t, err)
	assert.Contains(t, s.Text, "No content indexed")
	assert.Equal(t, payload.Back{}, s.Buttons[0][0].Payload)

	_, err = ContentTypeMenu(doc, "_stats")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestTitleList(t *testing.T) {
	s, err := TitleList(testDoc(), "Pharmacology", models.ContentDocument)
	require.NoError(t, err)
	assert.Equal(t, []string{"Intro to Receptors", "Receptors", "⬅️ Back to Subject Menu"}, labels(s))
	assert.Equal(t, payload.Lecture{Subject: "Pharmacology", Type: models.ContentDocument, Title: "Intro to Receptors"}, s.Buttons[0][0].Payload)

	s, err = TitleList(testDoc(), "Empty", models.ContentMedia)
	require.NoError(t, err)
	assert.Equal(t, "No Videos/Sound found for Empty.", s.Text)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short"))
	exact := strings.Repeat("a", maxLabelLength)
	assert.Equal(t, exact, truncate(exact))

	long := strings.Repeat("б", 40)
	got := truncate(long)
	assert.Equal(t, strings.Repeat("б", 27)+"...", got)
	assert.Len(t, []rune(got), maxLabelLength)
}

func TestTitleList_TruncatesLabelsButKeepsPayload(t *testing.T) {
	doc := testDoc()
	title := strings.Repeat("x", 50)
	doc.Subjects["Empty"].DocumentLectures[title] = 9

	s, err := TitleList(doc, "Empty", models.ContentDocument)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("x", 27)+"...", s.Buttons[0][0].Label)
	assert.Equal(t, title, s.Buttons[0][0].Payload.(payload.Lecture).Title)
}

func TestFindLectures(t *testing.T) {
	results, err := FindLectures(testDoc(), "  recEPTor ")
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, r := range results {
		assert.Contains(t, strings.ToLower(r.Title), "receptor")
		assert.NotEqual(t, "_stats", r.Subject)
	}
	assert.Equal(t, SearchResult{Subject: "Pharmacology", Type: models.ContentDocument, Title: "Intro to Receptors"}, results[0])
	assert.Equal(t, models.ContentMedia, results[2].Type)

	_, err = FindLectures(testDoc(), " ab ")
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
}

func TestSearch(t *testing.T) {
	s, err := Search(testDoc(), "bacteria")
	require.NoError(t, err)
	assert.Equal(t, []string{"📹 Bacteria (Microbiology)"}, labels(s))

	s, err = Search(testDoc(), "nothing_here")
	require.NoError(t, err)
	assert.Empty(t, s.Buttons)
	assert.Contains(t, s.Text, `nothing\_here`)
}

func TestLectureDetailAndQuiz(t *testing.T) {
	s := LectureDetail("Pharmacology", models.ContentDocument, "Receptors")
	require.Len(t, s.AllButtons(), 2)
	assert.Equal(t, payload.Quiz{Subject: "Pharmacology", Type: models.ContentDocument, Title: "Receptors"}, s.Buttons[0][0].Payload)
	assert.Equal(t, payload.TypeMenu{Subject: "Pharmacology", Type: models.ContentDocument}, s.Buttons[1][0].Payload)

	q := QuizScreen("Pharmacology", models.ContentDocument, "Receptors")
	assert.Contains(t, q.Text, "Quiz for: Receptors")
	assert.Equal(t, payload.Lecture{Subject: "Pharmacology", Type: models.ContentDocument, Title: "Receptors"}, q.Buttons[0][0].Payload)
}

func TestAdminDestructiveButtonsOnlyConfirm(t *testing.T) {
	doc := testDoc()
	subjectMenu, err := SubjectMenu(doc, "Pharmacology")
	require.NoError(t, err)
	lectures, err := ManageLectures(doc, "Pharmacology")
	require.NoError(t, err)

	for _, s := range []Screen{AdminRoot(), ManageSubjects(doc), subjectMenu, lectures} {
		for _, b := range s.AllButtons() {
			if a, ok := b.Payload.(payload.Admin); ok {
				assert.False(t, a.Action.IsDestructive(), b.Label)
			}
		}
	}
	assert.Len(t, lectures.AllButtons(), 4)
	assert.Equal(t, "🗑️ Intro to Receptors (Docu...", lectures.Buttons[0][0].Label)
}

func TestConfirm(t *testing.T) {
	step := payload.AdminLecture(payload.ActionConfirmDeleteLecture, "Pharmacology", models.ContentMedia, "Lab")
	s, err := Confirm(step)
	require.NoError(t, err)

	yes := s.Buttons[0][0].Payload.(payload.Admin)
	assert.Equal(t, payload.ActionDeleteLecture, yes.Action)
	assert.Equal(t, step.Args, yes.Args)
	assert.Equal(t, payload.AdminSubject(payload.ActionManageLectures, "Pharmacology"), s.Buttons[1][0].Payload)

	s, err = Confirm(payload.AdminSubject(payload.ActionConfirmDeleteSubject, "Pharmacology"))
	require.NoError(t, err)
	assert.Equal(t, payload.AdminSubject(payload.ActionDeleteSubject, "Pharmacology"), s.Buttons[0][0].Payload)
	assert.Equal(t, payload.AdminSubject(payload.ActionSubjectMenu, "Pharmacology"), s.Buttons[1][0].Payload)

	_, err = Confirm(payload.AdminSubject(payload.ActionDeleteSubject, "Pharmacology"))
	assert.ErrorIs(t, err, models.ErrMalformedPayload)
}

func TestLectureDeleted_BackTarget(t *testing.T) {
	s := LectureDeleted("A", models.ContentDocument, "T", 2)
	assert.Equal(t, payload.AdminSubject(payload.ActionManageLectures, "A"), s.Buttons[0][0].Payload)

	s = LectureDeleted("A", models.ContentDocument, "T", 0)
	assert.Equal(t, payload.AdminSubject(payload.ActionSubjectMenu, "A"), s.Buttons[0][0].Payload)
}

func TestCatalogListing(t *testing.T) {
	s := CatalogListing(testDoc())
	assert.Contains(t, s.Text, "*Pharmacology* (thread_id: 11) - Docs: 2, Media: 1")
	assert.Contains(t, s.Text, "*Microbiology* (thread_id: None) - Docs: 0, Media: 1")
	assert.Contains(t, s.Text, "    • Receptors → 101")
	assert.NotContains(t, s.Text, "secrets")

	assert.Equal(t, "No subjects/lectures indexed yet.", CatalogListing(models.NewDocument()).Text)
}

func TestReplies(t *testing.T) {
	s := CaptureSaved(models.ContentDocument, "Pharma_cology", "Intro `x`", 5, 0)
	assert.Equal(t, "✅ Saved lecture as *DOCUMENT* under *Pharma\\_cology*:\n`Intro 'x'`\nmessage_id: 5\nthread_id: None", s.Text)
	assert.Contains(t, CaptureSaved(models.ContentMedia, "A", "t", 5, 9).Text, "thread_id: 9")

	assert.Equal(t, "❌ Subject *a\\*b* already exists.", RenameTargetExists("a*b").Text)
	assert.Contains(t, Renamed("Old", "New").Text, "from *Old* to *New*")
}

package models

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpgrade_CurrentVersionIsNotMigrated(t *testing.T) {
	raw := `{"version":2,"stats":{"total_forwards":3},"subjects":{"Pharmacology":{"thread_id":12,"document_lectures":{"Intro":101},"media_lectures":{}}}}`

	doc, migrated, err := Upgrade([]byte(raw))
	require.NoError(t, err)
	assert.False(t, migrated)
	assert.Equal(t, 3, doc.Stats.TotalForwards)

	s, ok := doc.Subject("Pharmacology")
	require.True(t, ok)
	assert.Equal(t, 12, *s.ThreadID)
	assert.Equal(t, 101, s.DocumentLectures["Intro"])
}

func TestUpgrade_LegacyFlatShape(t *testing.T) {
	raw := `{
		"_stats": {"total_forwards": 9},
		"Microbiology": {"thread_id": null, "document_lectures": {"Bacteria": 5}, "media_lectures": {"Lab video": 6}},
		"Phytochemistry": {"thread_id": 44, "lectures": {"Alkaloids": 7}}
	}`

	doc, migrated, err := Upgrade([]byte(raw))
	require.NoError(t, err)
	assert.True(t, migrated)
	assert.Equal(t, CurrentVersion, doc.Version)
	assert.Equal(t, 9, doc.Stats.TotalForwards)
	assert.Equal(t, []string{"Microbiology", "Phytochemistry"}, doc.SubjectNames())
	assert.NotContains(t, doc.Subjects, "_stats")

	micro, _ := doc.Subject("Microbiology")
	assert.Nil(t, micro.ThreadID)
	assert.Equal(t, 5, micro.DocumentLectures["Bacteria"])
	assert.Equal(t, 6, micro.MediaLectures["Lab video"])

	phyto, _ := doc.Subject("Phytochemistry")
	assert.Equal(t, 44, *phyto.ThreadID)
	assert.Equal(t, map[string]int{"Alkaloids": 7}, phyto.DocumentLectures)
}

func TestUpgrade_LegacyWithoutStats(t *testing.T) {
	doc, migrated, err := Upgrade([]byte(`{"A": {"document_lectures": {}}}`))
	require.NoError(t, err)
	assert.True(t, migrated)
	assert.Equal(t, 0, doc.Stats.TotalForwards)
	assert.Equal(t, []string{"A"}, doc.SubjectNames())
}

func TestUpgrade_SubjectNamedVersionIsLegacy(t *testing.T) {
	// A legacy file may well have a subject called "version".
	raw := `{"version": {"document_lectures": {"v1": 1}}}`
	doc, migrated, err := Upgrade([]byte(raw))
	require.NoError(t, err)
	assert.True(t, migrated)
	s, ok := doc.Subject("version")
	require.True(t, ok)
	assert.Equal(t, 1, s.DocumentLectures["v1"])
}

func TestUpgrade_VersionedWithLegacyLectures(t *testing.T) {
	raw := `{"version":1,"stats":{"total_forwards":2},"subjects":{
		"A":{"thread_id":5,"lectures":{"Old":7,"Intro":9},"document_lectures":{"Intro":8}},
		"B":null
	}}`

	doc, migrated, err := Upgrade([]byte(raw))
	require.NoError(t, err)
	assert.True(t, migrated)
	assert.Equal(t, CurrentVersion, doc.Version)
	assert.Equal(t, 2, doc.Stats.TotalForwards)

	a, ok := doc.Subject("A")
	require.True(t, ok)
	assert.Equal(t, 5, *a.ThreadID)
	assert.Equal(t, map[string]int{"Old": 7, "Intro": 8, "Intro (9)": 9}, a.DocumentLectures)
	assert.Empty(t, a.MediaLectures)

	b, ok := doc.Subject("B")
	require.True(t, ok)
	assert.Equal(t, 0, b.Total())

	// The upgraded form carries no legacy key and is stable.
	out, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.NotContains(t, string(out), `"lectures"`)
	again, migrated, err := Upgrade(out)
	require.NoError(t, err)
	assert.False(t, migrated)
	assert.Equal(t, doc, again)
}

func TestUpgrade_CurrentVersionWithStrayLecturesIsMigrated(t *testing.T) {
	raw := `{"version":2,"stats":{},"subjects":{"A":{"lectures":{"Old":7}}}}`

	doc, migrated, err := Upgrade([]byte(raw))
	require.NoError(t, err)
	assert.True(t, migrated)
	a, _ := doc.Subject("A")
	assert.Equal(t, 7, a.DocumentLectures["Old"])
}

func TestUpgrade_NewerVersionRejected(t *testing.T) {
	_, _, err := Upgrade([]byte(`{"version": 99, "subjects": {}}`))
	assert.Error(t, err)
}

func TestUpgrade_Garbage(t *testing.T) {
	_, _, err := Upgrade([]byte(`not json`))
	assert.Error(t, err)
	_, _, err = Upgrade([]byte(`{"A": 5}`))
	assert.Error(t, err)
}

func TestUpgrade_IsClosedUnderItself(t *testing.T) {
	legacy := `{"_stats": {"total_forwards": 2}, "A": {"thread_id": 1, "lectures": {"x": 10}, "document_lectures": {"x": 11}}}`

	first, migrated, err := Upgrade([]byte(legacy))
	require.NoError(t, err)
	require.True(t, migrated)

	encoded, err := json.Marshal(first)
	require.NoError(t, err)

	second, migrated, err := Upgrade(encoded)
	require.NoError(t, err)
	assert.False(t, migrated)
	assert.Equal(t, first, second)
}

func TestMergeLegacyLectures_UnionWithCollisions(t *testing.T) {
	s := NewSubject()
	s.DocumentLectures["Same"] = 1
	s.DocumentLectures["Clash"] = 2

	MergeLegacyLectures(s, map[string]int{
		"Same":  1,
		"Clash": 3,
		"Fresh": 4,
	})

	assert.Equal(t, map[string]int{
		"Same":      1,
		"Clash":     2,
		"Clash (3)": 3,
		"Fresh":     4,
	}, s.DocumentLectures)
}

func TestDisambiguateTitle(t *testing.T) {
	assert.Equal(t, "Intro (42)", DisambiguateTitle("Intro", 42))
}

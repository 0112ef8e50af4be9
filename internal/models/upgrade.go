package models

import (
	"fmt"
	"sort"

	json "github.com/goccy/go-json"
)

// legacySubject is the unversioned on-disk shape. Older files carry a single
// "lectures" map instead of the document/media split.
type legacySubject struct {
	ThreadID         *int           `json:"thread_id"`
	DocumentLectures map[string]int `json:"document_lectures"`
	MediaLectures    map[string]int `json:"media_lectures"`
	Lectures         map[string]int `json:"lectures"`
}

type legacyStats struct {
	TotalForwards int `json:"total_forwards"`
}

const legacyStatsKey = "_stats"

// Upgrade decodes a persisted catalog of any known schema version and returns
// it in the current shape. migrated reports whether the input was older and
// should be written back.
func Upgrade(raw []byte) (doc *Document, migrated bool, err error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, false, fmt.Errorf("decode catalog: %w", err)
	}

	version, versioned := probeVersion(probe)
	if versioned {
		if version > CurrentVersion {
			return nil, false, fmt.Errorf("catalog schema version %d is newer than supported %d", version, CurrentVersion)
		}
		doc, merged, err := upgradeVersioned(raw, version)
		if err != nil {
			return nil, false, err
		}
		return doc, merged || version != CurrentVersion, nil
	}

	doc, err = upgradeLegacy(probe)
	if err != nil {
		return nil, false, err
	}
	return doc, true, nil
}

func probeVersion(probe map[string]json.RawMessage) (int, bool) {
	rawVersion, ok := probe["version"]
	if !ok {
		return 0, false
	}
	if _, ok := probe["subjects"]; !ok {
		return 0, false
	}
	var v int
	if err := json.Unmarshal(rawVersion, &v); err != nil {
		return 0, false
	}
	return v, true
}

// versionedDocument mirrors Document but keeps subjects in the legacy shape,
// so a leftover "lectures" map is merged instead of dropped.
type versionedDocument struct {
	Stats    Stats                     `json:"stats"`
	Subjects map[string]*legacySubject `json:"subjects"`
}

func upgradeVersioned(raw []byte, version int) (*Document, bool, error) {
	var vd versionedDocument
	if err := json.Unmarshal(raw, &vd); err != nil {
		return nil, false, fmt.Errorf("decode catalog v%d: %w", version, err)
	}

	doc := NewDocument()
	doc.Stats = vd.Stats
	merged := false
	for name, ls := range vd.Subjects {
		if ls == nil {
			doc.Subjects[name] = NewSubject()
			continue
		}
		if len(ls.Lectures) > 0 {
			merged = true
		}
		doc.Subjects[name] = ls.upgrade()
	}
	doc.Normalize()
	return doc, merged, nil
}

func upgradeLegacy(probe map[string]json.RawMessage) (*Document, error) {
	doc := NewDocument()

	if rawStats, ok := probe[legacyStatsKey]; ok {
		var stats legacyStats
		if err := json.Unmarshal(rawStats, &stats); err != nil {
			return nil, fmt.Errorf("decode legacy stats: %w", err)
		}
		doc.Stats.TotalForwards = stats.TotalForwards
	}

	for name, rawSubject := range probe {
		if IsReservedName(name) {
			continue
		}
		var ls legacySubject
		if err := json.Unmarshal(rawSubject, &ls); err != nil {
			return nil, fmt.Errorf("decode legacy subject %q: %w", name, err)
		}
		doc.Subjects[name] = ls.upgrade()
	}
	return doc, nil
}

func (ls *legacySubject) upgrade() *Subject {
	s := NewSubject()
	s.ThreadID = ls.ThreadID
	for t, ref := range ls.DocumentLectures {
		s.DocumentLectures[t] = ref
	}
	for t, ref := range ls.MediaLectures {
		s.MediaLectures[t] = ref
	}
	MergeLegacyLectures(s, ls.Lectures)
	return s
}

// MergeLegacyLectures folds an undifferentiated lecture map into the
// document map. An entry already present under the same title with a
// different reference keeps its title; the legacy one is stored as
// "title (ref)".
func MergeLegacyLectures(s *Subject, legacy map[string]int) {
	titles := make([]string, 0, len(legacy))
	for t := range legacy {
		titles = append(titles, t)
	}
	sort.Strings(titles)

	docs := s.Lectures(ContentDocument)
	for _, t := range titles {
		ref := legacy[t]
		existing, ok := docs[t]
		if ok && existing == ref {
			continue
		}
		if ok {
			t = DisambiguateTitle(t, ref)
			if _, taken := docs[t]; taken {
				continue
			}
		}
		docs[t] = ref
	}
}

// DisambiguateTitle appends the message reference to a colliding title.
func DisambiguateTitle(title string, ref int) string {
	return fmt.Sprintf("%s (%d)", title, ref)
}

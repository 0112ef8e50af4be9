package models

import (
	"fmt"
	"sort"
	"strings"
)

// CurrentVersion is the schema version written by this build.
const CurrentVersion = 2

// ReservedPrefix marks names that can never be subjects.
const ReservedPrefix = "_"

// SeedSubjects are created, empty, when no catalog exists yet.
var SeedSubjects = []string{
	"Phytochemistry",
	"Microbiology",
	"Pharmacology",
	"Pharmaceutics",
	"Analytical Chemistry",
	"Medicinal Chemistry",
}

type ContentType string

const (
	ContentDocument ContentType = "document"
	ContentMedia    ContentType = "media"
)

var ContentTypes = []ContentType{ContentDocument, ContentMedia}

func ParseContentType(s string) (ContentType, error) {
	switch ContentType(s) {
	case ContentDocument, ContentMedia:
		return ContentType(s), nil
	}
	return "", fmt.Errorf("unknown content type %q: %w", s, ErrInvalidArgument)
}

// Label is the human name of the content type used on menus.
func (c ContentType) Label() string {
	if c == ContentMedia {
		return "Videos/Sound"
	}
	return "PDF Lectures"
}

// Capitalized returns "Document" or "Media".
func (c ContentType) Capitalized() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

type Stats struct {
	TotalForwards int `json:"total_forwards"`
}

type Subject struct {
	ThreadID         *int           `json:"thread_id"`
	DocumentLectures map[string]int `json:"document_lectures"`
	MediaLectures    map[string]int `json:"media_lectures"`
}

func NewSubject() *Subject {
	return &Subject{
		DocumentLectures: make(map[string]int),
		MediaLectures:    make(map[string]int),
	}
}

func (s *Subject) normalize() {
	if s.DocumentLectures == nil {
		s.DocumentLectures = make(map[string]int)
	}
	if s.MediaLectures == nil {
		s.MediaLectures = make(map[string]int)
	}
}

// Lectures returns the title → message reference map for ct.
func (s *Subject) Lectures(ct ContentType) map[string]int {
	s.normalize()
	if ct == ContentMedia {
		return s.MediaLectures
	}
	return s.DocumentLectures
}

func (s *Subject) Count(ct ContentType) int {
	return len(s.Lectures(ct))
}

func (s *Subject) Total() int {
	return len(s.DocumentLectures) + len(s.MediaLectures)
}

// Titles returns the titles of ct in lexical order.
func (s *Subject) Titles(ct ContentType) []string {
	lectures := s.Lectures(ct)
	titles := make([]string, 0, len(lectures))
	for t := range lectures {
		titles = append(titles, t)
	}
	sort.Strings(titles)
	return titles
}

// SetThreadID records the thread only if none has been seen yet.
func (s *Subject) SetThreadID(id int) bool {
	if id == 0 || s.ThreadID != nil {
		return false
	}
	s.ThreadID = &id
	return true
}

// Clear drops every entry but keeps the thread.
func (s *Subject) Clear() {
	s.DocumentLectures = make(map[string]int)
	s.MediaLectures = make(map[string]int)
}

func (s *Subject) Clone() *Subject {
	c := NewSubject()
	if s.ThreadID != nil {
		id := *s.ThreadID
		c.ThreadID = &id
	}
	for k, v := range s.DocumentLectures {
		c.DocumentLectures[k] = v
	}
	for k, v := range s.MediaLectures {
		c.MediaLectures[k] = v
	}
	return c
}

type Document struct {
	Version  int                 `json:"version"`
	Stats    Stats               `json:"stats"`
	Subjects map[string]*Subject `json:"subjects"`
}

func NewDocument() *Document {
	return &Document{
		Version:  CurrentVersion,
		Subjects: make(map[string]*Subject),
	}
}

func NewSeedDocument() *Document {
	doc := NewDocument()
	for _, name := range SeedSubjects {
		doc.Subjects[name] = NewSubject()
	}
	return doc
}

func IsReservedName(name string) bool {
	return strings.HasPrefix(name, ReservedPrefix)
}

func (d *Document) Normalize() {
	d.Version = CurrentVersion
	if d.Subjects == nil {
		d.Subjects = make(map[string]*Subject)
	}
	for name, s := range d.Subjects {
		if s == nil {
			d.Subjects[name] = NewSubject()
			continue
		}
		s.normalize()
	}
}

// Subject looks a subject up; reserved names never resolve.
func (d *Document) Subject(name string) (*Subject, bool) {
	if IsReservedName(name) {
		return nil, false
	}
	s, ok := d.Subjects[name]
	if !ok || s == nil {
		return nil, false
	}
	return s, true
}

// GetSubjects returns the subject mapping without reserved keys.
func GetSubjects(d *Document) map[string]*Subject {
	out := make(map[string]*Subject, len(d.Subjects))
	for name, s := range d.Subjects {
		if IsReservedName(name) || s == nil {
			continue
		}
		out[name] = s
	}
	return out
}

// SubjectNames lists subject names in lexical order.
func (d *Document) SubjectNames() []string {
	subjects := GetSubjects(d)
	names := make([]string, 0, len(subjects))
	for name := range subjects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (d *Document) EntryCount() int {
	n := 0
	for _, s := range GetSubjects(d) {
		n += s.Total()
	}
	return n
}

func (d *Document) Clone() *Document {
	c := &Document{
		Version:  d.Version,
		Stats:    d.Stats,
		Subjects: make(map[string]*Subject, len(d.Subjects)),
	}
	for name, s := range d.Subjects {
		if s == nil {
			continue
		}
		c.Subjects[name] = s.Clone()
	}
	return c
}

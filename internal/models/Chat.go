package models

import (
	"fmt"
	"strconv"
	"strings"
)

type ChatRef struct {
	ID       int64
	Username string
}

// SourceGroup identifies the group lectures are captured from, either by
// @username or by numeric chat id.
type SourceGroup struct {
	ID       int64
	Username string
}

func ParseSourceGroup(s string) (SourceGroup, error) {
	s = strings.TrimSpace(s)
	if name, ok := strings.CutPrefix(s, "@"); ok {
		if name == "" {
			return SourceGroup{}, fmt.Errorf("empty source group username: %w", ErrInvalidArgument)
		}
		return SourceGroup{Username: name}, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return SourceGroup{}, fmt.Errorf("source group %q is neither @username nor a chat id: %w", s, ErrInvalidArgument)
	}
	return SourceGroup{ID: id}, nil
}

// Matches compares usernames case-insensitively, ids exactly.
func (g SourceGroup) Matches(chat ChatRef) bool {
	if g.Username != "" {
		return chat.Username != "" && strings.EqualFold(chat.Username, g.Username)
	}
	return chat.ID == g.ID
}

func (g SourceGroup) String() string {
	if g.Username != "" {
		return "@" + g.Username
	}
	return strconv.FormatInt(g.ID, 10)
}

package payload

import (
	"fmt"
	"lecturebot/internal/models"
	"strings"
)

type Action string

const (
	ActionMenu                     Action = "menu"
	ActionShowUsage                Action = "show_usage"
	ActionManageSubjects           Action = "manage_subjects"
	ActionSubjectMenu              Action = "subject_menu"
	ActionManageLectures           Action = "manage_lectures"
	ActionConfirmDeleteSubject     Action = "confirm_delete_subject"
	ActionConfirmDeleteAllLectures Action = "confirm_delete_all_lectures"
	ActionConfirmDeleteLecture     Action = "confirm_delete_lecture"
	ActionDeleteSubject            Action = "delete_subject"
	ActionDeleteAllLectures        Action = "delete_all_lectures"
	ActionDeleteLecture            Action = "delete_lecture"
)

const confirmPrefix = "confirm_"

// actionArity is the number of arguments each admin action carries.
// Three-argument actions are (subject, content type, title).
var actionArity = map[Action]int{
	ActionMenu:                     0,
	ActionShowUsage:                0,
	ActionManageSubjects:           0,
	ActionSubjectMenu:              1,
	ActionManageLectures:           1,
	ActionConfirmDeleteSubject:     1,
	ActionConfirmDeleteAllLectures: 1,
	ActionConfirmDeleteLecture:     3,
	ActionDeleteSubject:            1,
	ActionDeleteAllLectures:        1,
	ActionDeleteLecture:            3,
}

// IsDestructive reports whether executing the action removes catalog data.
func (a Action) IsDestructive() bool {
	switch a {
	case ActionDeleteSubject, ActionDeleteAllLectures, ActionDeleteLecture:
		return true
	}
	return false
}

// IsConfirmation reports whether a is the confirmation step of a destructive action.
func (a Action) IsConfirmation() bool {
	return strings.HasPrefix(string(a), confirmPrefix)
}

// Confirmation maps a destructive action to its confirmation step.
func (a Action) Confirmation() Action {
	if !a.IsDestructive() {
		return a
	}
	return Action(confirmPrefix + string(a))
}

// Confirmed maps a confirmation step to the destructive action it guards.
func (a Action) Confirmed() Action {
	if !a.IsConfirmation() {
		return a
	}
	return Action(strings.TrimPrefix(string(a), confirmPrefix))
}

func decodeAdmin(args []string) (Payload, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("admin payload without action: %w", models.ErrMalformedPayload)
	}
	action, rest := Action(args[0]), args[1:]
	want, ok := actionArity[action]
	if !ok {
		return nil, fmt.Errorf("unknown admin action %q: %w", action, models.ErrMalformedPayload)
	}
	if len(rest) != want {
		return nil, fmt.Errorf("admin %s expects %d fields, got %d: %w", action, want, len(rest), models.ErrMalformedPayload)
	}
	for _, f := range rest {
		if f == "" {
			return nil, fmt.Errorf("admin %s has an empty field: %w", action, models.ErrMalformedPayload)
		}
	}
	if want == 0 {
		rest = nil
	}
	if want == 3 {
		if _, err := models.ParseContentType(rest[1]); err != nil {
			return nil, fmt.Errorf("admin %s: %w", action, models.ErrMalformedPayload)
		}
	}
	return Admin{Action: action, Args: rest}, nil
}

func AdminAction(action Action) Admin {
	return Admin{Action: action}
}

func AdminSubject(action Action, subject string) Admin {
	return Admin{Action: action, Args: []string{subject}}
}

func AdminLecture(action Action, subject string, ct models.ContentType, title string) Admin {
	return Admin{Action: action, Args: []string{subject, string(ct), title}}
}

// Subject returns the first argument, the subject every scoped action targets.
func (p Admin) Subject() string {
	if len(p.Args) == 0 {
		return ""
	}
	return p.Args[0]
}

// Lecture returns the (subject, type, title) target of a lecture-scoped action.
func (p Admin) Lecture() (string, models.ContentType, string) {
	if len(p.Args) != 3 {
		return p.Subject(), "", ""
	}
	return p.Args[0], models.ContentType(p.Args[1]), p.Args[2]
}

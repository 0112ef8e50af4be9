package menu

import (
	"fmt"
	"lecturebot/internal/models"
	"strings"
)

const (
	NotAdminText        = "❌ You are not an admin for this bot."
	NotAuthorizedText   = "❌ You are not authorized to use the admin menu."
	CallbackDeniedText  = "❌ Not authorized."
	NoReplyText         = "Reply to the lecture message in the group when using this command."
	WrongChatText       = "This command must be used inside the designated lecture group or its topics."
	ReservedSubjectText = "Subject name cannot start with an underscore."
	SubjectMissingText  = "Subject not found."
	LectureMissingText  = "Lecture not found."
	DeliveryFailedText  = "Failed to send the lecture. The bot might not have the correct permissions in the source group."
	RateLimitedText     = "⏳ Too many requests. Please wait a moment and try again."
	ExpiredButtonText   = "❌ Not found. This button may have expired, use /start for a fresh menu."
	StorageFailedText   = "⚠️ The catalog is temporarily unavailable. Please try again later."
	QuizPendingText     = "Generating quiz, please wait... 🧠"
)

func CaptureUsage() Screen {
	return Screen{
		Text: "Usage: `/capture SubjectName | Lecture Name`\n\n" +
			"*Example:*\n`/capture Pharmacology | Intro to Receptors`",
		Markdown: true,
	}
}

func CaptureEmptySubject() Screen {
	return Screen{
		Text: "Usage: `/capture SubjectName | Lecture Name`\n\n" +
			"*Error: Subject name cannot be empty.*",
		Markdown: true,
	}
}

// CaptureSaved confirms a new catalog entry.
func CaptureSaved(ct models.ContentType, subject, title string, messageID, threadID int) Screen {
	thread := "None"
	if threadID != 0 {
		thread = fmt.Sprint(threadID)
	}
	return Screen{
		Text: fmt.Sprintf("✅ Saved lecture as *%s* under *%s*:\n`%s`\nmessage_id: %d\nthread_id: %s",
			strings.ToUpper(string(ct)), md(subject), strings.ReplaceAll(title, "`", "'"), messageID, thread),
		Markdown: true,
	}
}

func RenameUsage() Screen {
	return Screen{
		Text: "Usage: `/rename_subject Old Subject Name | New Subject Name`\n\n" +
			"*Example:*\n`/rename_subject Phyto Chem | Phytochemistry`",
		Markdown: true,
	}
}

func RenameEmptyNames() Screen {
	return Notice("❌ Old and New subject names cannot be empty.")
}

func RenameSourceMissing(subject string) Screen {
	return Screen{Text: fmt.Sprintf("❌ Subject *%s* not found or is reserved.", md(subject)), Markdown: true}
}

func RenameTargetExists(subject string) Screen {
	return Screen{Text: fmt.Sprintf("❌ Subject *%s* already exists.", md(subject)), Markdown: true}
}

func Renamed(oldName, newName string) Screen {
	return Screen{
		Text:     fmt.Sprintf("✅ Subject successfully renamed from *%s* to *%s*.", md(oldName), md(newName)),
		Markdown: true,
	}
}

package models

type MediaKind string

const (
	MediaNone      MediaKind = ""
	MediaDocument  MediaKind = "document"
	MediaVideo     MediaKind = "video"
	MediaAnimation MediaKind = "animation"
	MediaAudio     MediaKind = "audio"
	MediaVoice     MediaKind = "voice"
	MediaPhoto     MediaKind = "photo"
)

// SourceMessage is the part of a group message capture needs.
type SourceMessage struct {
	MessageID int
	ThreadID  int
	Media     MediaKind
	FileName  string
	Caption   string
	Text      string
}

// ContentType classifies the message: playable media is media, anything
// else (files, photos, text) is a document.
func (m SourceMessage) ContentType() ContentType {
	switch m.Media {
	case MediaVideo, MediaAnimation, MediaAudio, MediaVoice:
		return ContentMedia
	}
	return ContentDocument
}

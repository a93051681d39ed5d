package wizard

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Classify inspects an inbound message and extracts a normalized Input.
// It never fails: unrecognized updates come back as InputEmpty and the flow
// answers them with the static help text.
func Classify(msg *tgbotapi.Message) Input {
	if msg == nil {
		return Input{Kind: InputEmpty}
	}
	if msg.IsCommand() {
		return Input{
			Kind: InputCommand,
			Text: strings.ToLower(strings.TrimSpace(msg.Command())),
		}
	}
	if len(msg.Photo) > 0 {
		photo := pickLargestPhoto(msg.Photo)
		return Input{Kind: InputPhoto, FileID: photo.FileID}
	}
	if msg.Animation != nil {
		return Input{
			Kind:     InputAnimation,
			FileID:   msg.Animation.FileID,
			Mime:     strings.TrimSpace(msg.Animation.MimeType),
			FileName: strings.TrimSpace(msg.Animation.FileName),
		}
	}
	if msg.Document != nil {
		return Input{
			Kind:     InputDocument,
			FileID:   msg.Document.FileID,
			Mime:     strings.TrimSpace(msg.Document.MimeType),
			FileName: strings.TrimSpace(msg.Document.FileName),
		}
	}
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		text = strings.TrimSpace(msg.Caption)
	}
	if text != "" {
		return Input{Kind: InputText, Text: text}
	}
	return Input{Kind: InputEmpty}
}

// pickLargestPhoto selects the best resolution from the size variants
// Telegram attaches to a photo message.
func pickLargestPhoto(items []tgbotapi.PhotoSize) tgbotapi.PhotoSize {
	best := items[0]
	for _, item := range items[1:] {
		if item.FileSize > best.FileSize {
			best = item
			continue
		}
		if item.Width*item.Height > best.Width*best.Height {
			best = item
		}
	}
	return best
}

// isImageAttachment reports whether a document/animation input should be
// treated as artwork: an image or gif mime, or a matching file extension.
func isImageAttachment(in Input) bool {
	mime := strings.ToLower(in.Mime)
	if strings.HasPrefix(mime, "image/") {
		return true
	}
	name := strings.ToLower(in.FileName)
	for _, ext := range []string{".png", ".jpg", ".jpeg", ".gif", ".webp"} {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

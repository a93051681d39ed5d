// Package wizard drives the conversational mint flow: it classifies inbound
// updates, owns the step state machine, and coordinates the importer,
// uploader, and orchestrator.
package wizard

// InputKind labels the normalized shape of an inbound update.
type InputKind int

const (
	InputEmpty InputKind = iota
	InputCommand
	InputText
	InputPhoto
	InputAnimation
	InputDocument
)

// Input is the classified payload of one inbound update.
type Input struct {
	Kind InputKind

	// Text carries the message text (or caption) for text inputs, and the
	// command name (lower-cased, without slash) for commands.
	Text string

	// FileID references the transport file for photo/animation/document
	// inputs. The largest photo resolution is always picked.
	FileID   string
	Mime     string
	FileName string
}

package tui

import "time"

type Mode int

const (
	ModeStartup Mode = iota
	ModeNormal
	ModeEditing
	ModeSearch
	ModeFileInput
	ModeConfirm
	ModeHelp
)

func (m Mode) String() string {
	switch m {
	case ModeStartup:
		return "STARTUP"
	case ModeNormal:
		return "NORMAL"
	case ModeEditing:
		return "EDIT"
	case ModeSearch:
		return "SEARCH"
	case ModeFileInput:
		return "FILE"
	case ModeConfirm:
		return "CONFIRM"
	case ModeHelp:
		return "HELP"
	default:
		return "UNKNOWN"
	}
}

type FileOperation int

const (
	FileOpSave FileOperation = iota
	FileOpOpen
	FileOpExport
)

type ConfirmAction int

const (
	ConfirmQuit ConfirmAction = iota
	ConfirmNewDocument
	ConfirmOverwriteFile
	ConfirmReload
)

const (
	// cellWidth and cellHeight are the content units covered by one
	// terminal cell at scale 1.
	cellWidth  = 8.0
	cellHeight = 16.0

	frameInterval = time.Second / 60

	minimapCols = 26
	minimapRows = 9

	panStep = 4

	selfWriteGrace = 500 * time.Millisecond
)

// Package protocol decodes the editor bridge's newline-delimited JSON
// records and encodes the replies.
//
// Inbound records carry a "type" field:
//
//	init            first load: lines, currentPath, cursorLine
//	entry           a different file was opened: adds an optional hash
//	cursor_move     cursorLine, and lines when the file changed
//	content_change  lines, linesCountChange
//	update_config   action: [name, arg], or a full config object
//	goodbye         the editor is exiting
//
// Cursor lines are zero-based. A null or missing cursorLine means the editor
// has no line context.
package protocol

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// Errors returned while decoding.
var (
	// ErrMalformed indicates a record that is not a JSON object.
	ErrMalformed = errors.New("malformed record")

	// ErrUnknownType indicates a record type this program does not handle.
	ErrUnknownType = errors.New("unknown record type")
)

// Kind is the record type.
type Kind string

// Record types.
const (
	KindInit          Kind = "init"
	KindEntry         Kind = "entry"
	KindCursorMove    Kind = "cursor_move"
	KindContentChange Kind = "content_change"
	KindUpdateConfig  Kind = "update_config"
	KindGoodbye       Kind = "goodbye"
)

// Action is a raw config update as sent on the wire.
type Action struct {
	Name string
	Arg  any
}

// Message is one decoded inbound record.
type Message struct {
	Kind        Kind
	CurrentPath string

	// Lines is the full document. HasLines distinguishes an absent field
	// from an empty document.
	Lines    []string
	HasLines bool

	// CursorLine is nil when the editor reported no line.
	CursorLine *int

	// Hash is the URL fragment of an entry record, e.g. "#L10-L20".
	Hash string

	// LinesCountChange is set by content_change when lines were added or
	// removed.
	LinesCountChange bool

	// Action is set by update_config records that carry an action.
	Action *Action
	// Config is set by update_config records that carry settings.
	Config map[string]any
}

// Decode parses a single record.
func Decode(data []byte) (Message, error) {
	if !gjson.ValidBytes(data) {
		return Message{}, fmt.Errorf("%w: invalid JSON", ErrMalformed)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return Message{}, fmt.Errorf("%w: expected an object", ErrMalformed)
	}

	msg := Message{Kind: Kind(root.Get("type").String())}

	switch msg.Kind {
	case KindInit, KindEntry, KindCursorMove, KindContentChange:
		msg.CurrentPath = root.Get("currentPath").String()
		msg.Lines, msg.HasLines = decodeLines(root.Get("lines"))
		msg.CursorLine = decodeLine(root.Get("cursorLine"))
		msg.Hash = root.Get("hash").String()
		msg.LinesCountChange = root.Get("linesCountChange").Bool()

	case KindUpdateConfig:
		if action := root.Get("action"); action.IsArray() {
			parts := action.Array()
			if len(parts) == 0 || parts[0].Type != gjson.String {
				return Message{}, fmt.Errorf("%w: action must start with a name", ErrMalformed)
			}
			msg.Action = &Action{Name: parts[0].String()}
			if len(parts) > 1 {
				msg.Action.Arg = parts[1].Value()
			}
		}
		if cfg := root.Get("config"); cfg.IsObject() {
			msg.Config, _ = cfg.Value().(map[string]any)
		}
		if msg.Action == nil && msg.Config == nil {
			return Message{}, fmt.Errorf("%w: update_config needs action or config", ErrMalformed)
		}

	case KindGoodbye:

	case "":
		return Message{}, fmt.Errorf("%w: missing type", ErrMalformed)

	default:
		return Message{}, fmt.Errorf("%w: %q", ErrUnknownType, msg.Kind)
	}

	return msg, nil
}

func decodeLines(v gjson.Result) ([]string, bool) {
	if !v.IsArray() {
		return nil, false
	}
	items := v.Array()
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = item.String()
	}
	return lines, true
}

func decodeLine(v gjson.Result) *int {
	if v.Type != gjson.Number {
		return nil
	}
	n := int(v.Int())
	if n < 0 {
		return nil
	}
	return &n
}

package protocol

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/tidwall/sjson"
)

// MaxRecordSize bounds a single inbound record.
const MaxRecordSize = 64 << 20

// Reader decodes records from a stream, one per line.
type Reader struct {
	sc   *bufio.Scanner
	line int
}

// NewReader creates a Reader.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxRecordSize)
	return &Reader{sc: sc}
}

// Next returns the next record. Blank lines are skipped. It returns io.EOF
// when the stream ends. Decode errors carry the line number and leave the
// reader usable.
func (r *Reader) Next() (Message, error) {
	for r.sc.Scan() {
		r.line++
		data := bytes.TrimSpace(r.sc.Bytes())
		if len(data) == 0 {
			continue
		}
		msg, err := Decode(data)
		if err != nil {
			return Message{}, fmt.Errorf("record %d: %w", r.line, err)
		}
		return msg, nil
	}
	if err := r.sc.Err(); err != nil {
		return Message{}, err
	}
	return Message{}, io.EOF
}

// Line returns the input line of the record last returned by Next.
func (r *Reader) Line() int {
	return r.line
}

// Writer encodes outbound records, one per line. It is safe for concurrent
// use.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter creates a Writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// SendInit announces that the view is ready for the initial document.
func (w *Writer) SendInit() error {
	return w.write(EncodeInit())
}

// SendAction reports a config change made in the view.
func (w *Writer) SendAction(a Action) error {
	data, err := EncodeAction(a)
	if err != nil {
		return err
	}
	return w.write(data)
}

func (w *Writer) write(data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing record: %w", err)
	}
	return nil
}

// EncodeInit returns the init record.
func EncodeInit() []byte {
	data, _ := sjson.SetBytes([]byte(`{}`), "type", "init")
	return data
}

// EncodeAction returns an update_config record for a.
func EncodeAction(a Action) ([]byte, error) {
	data, err := sjson.SetBytes([]byte(`{}`), "type", string(KindUpdateConfig))
	if err != nil {
		return nil, err
	}
	action := []any{a.Name}
	if a.Arg != nil {
		action = append(action, a.Arg)
	}
	return sjson.SetBytes(data, "action", action)
}

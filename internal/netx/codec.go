package netx

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"seabattle/internal/protocol"
)

// Frames on stream transports are a big-endian u32 length followed by the
// JSON envelope.
const (
	headerLen = 4
	maxFrame  = 1 << 20
)

var ErrFrameTooLarge = errors.New("frame too large")

// WriteFrame encodes env and writes header and body in a single Write.
func WriteFrame(w io.Writer, env protocol.Envelope) error {
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode %s: %w", env.Type, err)
	}
	if len(body) > maxFrame {
		return fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(body))
	}
	frame := make([]byte, headerLen+len(body))
	binary.BigEndian.PutUint32(frame, uint32(len(body)))
	copy(frame[headerLen:], body)
	_, err = w.Write(frame)
	return err
}

// ReadFrame reads one envelope. A clean EOF before the header is returned
// as io.EOF; a frame cut short is io.ErrUnexpectedEOF.
func ReadFrame(r io.Reader) (protocol.Envelope, error) {
	var env protocol.Envelope
	var header [headerLen]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return env, err
	}
	n := binary.BigEndian.Uint32(header[:])
	if n > maxFrame {
		return env, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, n)
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return env, err
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return env, fmt.Errorf("decode frame: %w", err)
	}
	return env, nil
}

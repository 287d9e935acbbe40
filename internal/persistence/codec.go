package persistence

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/talgya/maigreifinn/internal/engine"
)

// Format names the blob format in the header line.
const Format = "maigreifinn"

// ErrCorrupt is returned for blobs that cannot be decoded.
var ErrCorrupt = errors.New("corrupt snapshot blob")

// Header is the first line of every blob, before compression.
type Header struct {
	Format  string `json:"format"`
	Version int    `json:"version"`
}

// Encode serializes a snapshot as a JSON header line followed by the
// snapshot JSON, all zstd-compressed.
func Encode(snap engine.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("zstd writer: %w", err)
	}

	bw := bufio.NewWriter(enc)
	hb, _ := json.Marshal(Header{Format: Format, Version: engine.SnapshotVersion})
	if _, err := bw.Write(hb); err != nil {
		enc.Close()
		return nil, err
	}
	if err := bw.WriteByte('\n'); err != nil {
		enc.Close()
		return nil, err
	}
	if err := json.NewEncoder(bw).Encode(&snap); err != nil {
		enc.Close()
		return nil, fmt.Errorf("json encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("zstd close: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode reverses Encode. The snapshot is validated before it is returned,
// so a nil error means it can be handed to engine.FromSnapshot.
func Decode(blob []byte) (engine.Snapshot, error) {
	var snap engine.Snapshot
	if len(blob) == 0 {
		return snap, fmt.Errorf("%w: empty", ErrCorrupt)
	}

	dec, err := zstd.NewReader(bytes.NewReader(blob))
	if err != nil {
		return snap, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	defer dec.Close()

	br := bufio.NewReader(dec)
	line, err := br.ReadBytes('\n')
	if err != nil {
		return snap, fmt.Errorf("%w: header: %v", ErrCorrupt, err)
	}
	var h Header
	if err := json.Unmarshal(line, &h); err != nil {
		return snap, fmt.Errorf("%w: header: %v", ErrCorrupt, err)
	}
	if h.Format != Format {
		return snap, fmt.Errorf("%w: format %q", ErrCorrupt, h.Format)
	}
	if h.Version != engine.SnapshotVersion {
		return snap, fmt.Errorf("%w: version %d, want %d", engine.ErrInvalidSnapshot, h.Version, engine.SnapshotVersion)
	}

	body, err := io.ReadAll(br)
	if err != nil {
		return snap, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if err := json.Unmarshal(body, &snap); err != nil {
		return engine.Snapshot{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if err := snap.Validate(); err != nil {
		return engine.Snapshot{}, err
	}
	return snap, nil
}

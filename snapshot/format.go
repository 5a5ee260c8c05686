package snapshot

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Snapshot binary layout:
//
//	[magic:4]["VSNP"] [version:2] [codecLen:1][codec] [compLen:1][compression] [payload]
//
// The header is uncompressed and self-describing; payload bytes are the
// codec-encoded document, run through the named compression.
var magic = [4]byte{'V', 'S', 'N', 'P'}

const formatVersion uint16 = 1

// Compression names the payload compression applied after encoding.
type Compression string

const (
	// CompressionNone stores the payload as-is.
	CompressionNone Compression = "none"
	// CompressionZstd compresses with zstd (good default).
	CompressionZstd Compression = "zstd"
	// CompressionLZ4 compresses with lz4 (faster, lighter ratio).
	CompressionLZ4 Compression = "lz4"
)

func writeHeader(w io.Writer, codecName string, comp Compression) error {
	if _, err := w.Write(magic[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, formatVersion); err != nil {
		return err
	}
	for _, s := range []string{codecName, string(comp)} {
		if len(s) > 255 {
			return fmt.Errorf("snapshot header field too long: %q", s)
		}
		if _, err := w.Write([]byte{byte(len(s))}); err != nil {
			return err
		}
		if _, err := w.Write([]byte(s)); err != nil {
			return err
		}
	}
	return nil
}

func readHeader(r io.Reader) (codecName string, comp Compression, err error) {
	var m [4]byte
	if _, err := io.ReadFull(r, m[:]); err != nil {
		return "", "", fmt.Errorf("reading snapshot magic: %w", err)
	}
	if m != magic {
		return "", "", fmt.Errorf("not a snapshot: bad magic %q", m[:])
	}

	var version uint16
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return "", "", fmt.Errorf("reading snapshot version: %w", err)
	}
	if version != formatVersion {
		return "", "", fmt.Errorf("unsupported snapshot version %d", version)
	}

	fields := make([]string, 2)
	for i := range fields {
		var n [1]byte
		if _, err := io.ReadFull(r, n[:]); err != nil {
			return "", "", fmt.Errorf("reading snapshot header: %w", err)
		}
		buf := make([]byte, n[0])
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", "", fmt.Errorf("reading snapshot header: %w", err)
		}
		fields[i] = string(buf)
	}
	return fields[0], Compression(fields[1]), nil
}

func compress(payload []byte, comp Compression) ([]byte, error) {
	switch comp {
	case CompressionNone, "":
		return payload, nil
	case CompressionZstd:
		var buf bytes.Buffer
		enc, err := zstd.NewWriter(&buf)
		if err != nil {
			return nil, err
		}
		if _, err := enc.Write(payload); err != nil {
			_ = enc.Close()
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case CompressionLZ4:
		var buf bytes.Buffer
		w := lz4.NewWriter(&buf)
		if _, err := w.Write(payload); err != nil {
			_ = w.Close()
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported snapshot compression %q", comp)
	}
}

func decompress(payload []byte, comp Compression) ([]byte, error) {
	switch comp {
	case CompressionNone, "":
		return payload, nil
	case CompressionZstd:
		dec, err := zstd.NewReader(bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		return io.ReadAll(dec)
	case CompressionLZ4:
		return io.ReadAll(lz4.NewReader(bytes.NewReader(payload)))
	default:
		return nil, fmt.Errorf("unsupported snapshot compression %q", comp)
	}
}

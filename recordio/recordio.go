package recordio

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"iter"
)

var (
	uint64Size = int64(binary.Size(uint64(0)))
	// MagicBytes identify valid record files (CLX).
	MagicBytes           = []byte{0x43, 0x4C, 0x58}
	ErrInvalidMagicBytes = errors.New("invalid magic bytes - not a valid recordio file")
)

// Write writes a single record to the writer and returns the number of
// bytes written.
func Write(w io.Writer, record []byte) (int64, error) {
	n, err := w.Write(MagicBytes)
	if err != nil {
		return int64(n), fmt.Errorf("failed to write magic bytes: %w", err)
	}
	total := int64(n)

	if err := binary.Write(w, binary.LittleEndian, uint64(len(record))); err != nil {
		return total, fmt.Errorf("error writing record length: %w", err)
	}
	total += uint64Size

	n, err = w.Write(record)
	total += int64(n)
	if err != nil {
		return total, fmt.Errorf("error writing record content: %w", err)
	}
	return total, nil
}

// ReadRecord reads a single record from the reader.
func ReadRecord(r io.Reader) ([]byte, error) {
	magic := make([]byte, len(MagicBytes))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, fmt.Errorf("failed to read magic bytes: %w", err)
	}
	if !bytes.Equal(magic, MagicBytes) {
		return nil, ErrInvalidMagicBytes
	}

	var length uint64
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return nil, fmt.Errorf("error reading record length: %w", err)
	}

	record := make([]byte, length)
	if _, err := io.ReadFull(r, record); err != nil {
		return nil, fmt.Errorf("error reading record content: %w", err)
	}
	return record, nil
}

// Seq creates an iterator over records, stopping at end of stream or the
// first malformed record.
func Seq(r io.Reader) iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		for {
			record, err := ReadRecord(r)
			if err != nil {
				return
			}
			if !yield(record) {
				return
			}
		}
	}
}

// ReadRecords reads all records into a slice.
func ReadRecords(r io.Reader) [][]byte {
	records := make([][]byte, 0, 1)
	for record := range Seq(r) {
		records = append(records, record)
	}
	return records
}

// Size calculates the total size in bytes a record will occupy when
// written, including magic bytes and the length prefix.
func Size(record []byte) int64 {
	return int64(len(MagicBytes)) + uint64Size + int64(len(record))
}

// Writer writes a stream of records to an underlying writer, optionally
// gzip-compressed, and counts the records written.
type Writer struct {
	w     io.Writer
	gz    *gzip.Writer
	count int64
}

// NewWriter returns a record writer over w. When compress is true the
// record stream is gzip-compressed; Close must be called to flush it.
func NewWriter(w io.Writer, compress bool) *Writer {
	rw := &Writer{w: w}
	if compress {
		rw.gz = gzip.NewWriter(w)
		rw.w = rw.gz
	}
	return rw
}

// Write appends one record.
func (w *Writer) Write(record []byte) error {
	if _, err := Write(w.w, record); err != nil {
		return err
	}
	w.count++
	return nil
}

// Count returns the number of records written so far.
func (w *Writer) Count() int64 {
	return w.count
}

// Close flushes the compressor, if any. The underlying writer is not
// closed.
func (w *Writer) Close() error {
	if w.gz == nil {
		return nil
	}
	if err := w.gz.Close(); err != nil {
		return fmt.Errorf("failed to close gzip writer: %w", err)
	}
	return nil
}

// NewReader returns a reader for a record stream written by Writer with
// the same compress setting.
func NewReader(r io.Reader, compressed bool) (io.Reader, error) {
	if !compressed {
		return r, nil
	}
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open gzip reader: %w", err)
	}
	return gz, nil
}

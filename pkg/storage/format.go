package storage

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	// Magic bytes to identify our file format
	MagicBytes = "GJIX"
	// Current version
	FormatVersion = 1
	// File extension for index files
	FileExtension = ".gjix"
)

const (
	// FlagLZ4 marks a payload compressed as an lz4 frame
	FlagLZ4 uint8 = 1 << iota
)

// FileHeader represents the header of our storage file
type FileHeader struct {
	Magic    [4]byte // "GJIX"
	Version  uint8   // Format version
	Flags    uint8   // Payload encoding flags
	Reserved [2]byte // Reserved for future use
}

// WriteHeader writes the file header to the given writer
func WriteHeader(w io.Writer, flags uint8) error {
	header := FileHeader{
		Magic:    [4]byte{'G', 'J', 'I', 'X'},
		Version:  FormatVersion,
		Flags:    flags,
		Reserved: [2]byte{0, 0},
	}

	return binary.Write(w, binary.LittleEndian, header)
}

// ReadHeader reads and validates the file header
func ReadHeader(r io.Reader) (*FileHeader, error) {
	var header FileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Validate magic bytes
	if string(header.Magic[:]) != MagicBytes {
		return nil, fmt.Errorf("invalid file format: expected %s, got %s", MagicBytes, string(header.Magic[:]))
	}

	// Validate version
	if header.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported file version: %d", header.Version)
	}

	return &header, nil
}

// StorageData represents the actual data structure we store. Each index is
// kept in its own encoded form as produced by indexing.Index.ToBytes.
type StorageData struct {
	Indexes  map[string][]byte      `msgpack:"indexes"`
	Metadata map[string]interface{} `msgpack:"metadata,omitempty"`
}

// NewStorageData creates a new empty storage data structure
func NewStorageData() *StorageData {
	return &StorageData{
		Indexes:  make(map[string][]byte),
		Metadata: make(map[string]interface{}),
	}
}

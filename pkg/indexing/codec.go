package indexing

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/adfharrison1/go-jsonindex/pkg/domain"
)

// indexData is the persisted form of an index. Secondary trees are derived
// and never written.
type indexData struct {
	Config  domain.IndexConfig `msgpack:"config"`
	Records []domain.Record    `msgpack:"records"`
}

// ToBytes encodes the config and the primary store with MessagePack.
func (idx *Index) ToBytes() ([]byte, error) {
	data := indexData{
		Config:  idx.config,
		Records: idx.store.snapshot(),
	}
	b, err := msgpack.Marshal(&data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode MessagePack: %w", err)
	}
	return b, nil
}

// FromBytes decodes an index written by ToBytes, re-filters its records and
// rebuilds the secondary trees.
func FromBytes(b []byte, opts ...IndexOption) (*Index, error) {
	var data indexData
	if err := msgpack.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("failed to decode MessagePack: %w", err)
	}
	return NewWithRecords(data.Config, data.Records, opts...)
}

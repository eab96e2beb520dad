package index

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/rcomplete/rindex-mcp/pkg/types"
)

// Nested metadata columns (exports, types, formals) are stored as msgpack
// blobs: they are only ever read back whole, never queried field-by-field.

func encodeStrings(values []string) ([]byte, error) {
	return msgpack.Marshal(values)
}

func decodeStrings(blob []byte) ([]string, error) {
	if len(blob) == 0 {
		return []string{}, nil
	}
	var values []string
	if err := msgpack.Unmarshal(blob, &values); err != nil {
		return nil, fmt.Errorf("failed to decode string blob: %w", err)
	}
	return values, nil
}

func encodeInts(values []int) ([]byte, error) {
	return msgpack.Marshal(values)
}

func decodeInts(blob []byte) ([]int, error) {
	if len(blob) == 0 {
		return []int{}, nil
	}
	var values []int
	if err := msgpack.Unmarshal(blob, &values); err != nil {
		return nil, fmt.Errorf("failed to decode int blob: %w", err)
	}
	return values, nil
}

func encodeFormals(formals []types.FormalInformation) ([]byte, error) {
	return msgpack.Marshal(formals)
}

func decodeFormals(blob []byte) ([]types.FormalInformation, error) {
	if len(blob) == 0 {
		return nil, nil
	}
	var formals []types.FormalInformation
	if err := msgpack.Unmarshal(blob, &formals); err != nil {
		return nil, fmt.Errorf("failed to decode formals blob: %w", err)
	}
	return formals, nil
}

package walstore

import (
	"encoding/json"
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/codegraph-ir/codegraph/internal/types"
)

// marshalChanges renders a transaction's changes as the line's
// payload_json field.
func marshalChanges(changes []types.ChangeOp) (string, error) {
	if changes == nil {
		changes = []types.ChangeOp{}
	}
	b, err := json.Marshal(changes)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// unmarshalChanges parses a recovered line's payload_json field.
func unmarshalChanges(payload string) ([]types.ChangeOp, error) {
	var changes []types.ChangeOp
	if err := json.Unmarshal([]byte(payload), &changes); err != nil {
		return nil, err
	}
	return changes, nil
}

// lineChecksum hashes the line's non-checksum fields. The spec allows
// FNV-1a as a placeholder for CRC32; xxhash64 is used here instead,
// the teacher's own corruption-detection primitive, serving the same
// "cheap integrity check, not cryptographic" role.
func lineChecksum(txnID types.TxnID, agentID string, unixTimestamp int64, payload string) uint64 {
	canonical := fmt.Sprintf("%d|%s|%d|%s", txnID, agentID, unixTimestamp, payload)
	return xxhash.Sum64String(canonical)
}

package multiindex

import (
	"encoding/json"
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/codegraph-ir/codegraph/internal/types"
)

// Delta is the incremental-path unit handed to IndexPlugin.ApplyDelta:
// one transaction's changes plus the files they (and any accompanying
// analysis pass) touched.
type Delta struct {
	TxnID         types.TxnID
	Changes       []types.ChangeOp
	AffectedFiles []string
}

// DeriveAffectedFiles computes a delta's affected-file set from its
// change list's node payloads (spec §4.13: "affected files are derived
// from node add/modify/remove and analysis regions"), merged with any
// extra paths an accompanying analysis pass names. RemoveNode and
// edge-only changes carry no file path of their own — a plugin that
// needs theirs should also be wired with the original node's path via
// analysisFiles.
func DeriveAffectedFiles(changes []types.ChangeOp, analysisFiles []string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(path string) {
		if path == "" || seen[path] {
			return
		}
		seen[path] = true
		out = append(out, path)
	}

	for _, c := range changes {
		if c.Node != nil {
			add(c.Node.FilePath)
		}
	}
	for _, path := range analysisFiles {
		add(path)
	}

	sort.Strings(out)
	return out
}

// deltaHash hashes a delta's identity for the IndexWAL's DeltaApply
// verification field.
func deltaHash(d Delta) uint64 {
	payload, err := json.Marshal(d.Changes)
	if err != nil {
		payload = nil
	}
	return xxhash.Sum64String(strconv.FormatUint(uint64(d.TxnID), 10) + "|" + string(payload))
}

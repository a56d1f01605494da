package run

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"

	"assaystat/domain/core"
)

// Fingerprint identifies the determinism parameters of a run: the same
// input bytes analysed with the same columns and options always give the
// same fingerprint, whatever the run ID.
func Fingerprint(kind Kind, inputHash core.Hash, columns []string, options map[string]string) core.Hash {
	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + options[k]
	}

	data := fmt.Sprintf("kind:%s|input:%s|columns:%s|options:%s",
		kind, inputHash, strings.Join(columns, ","), strings.Join(pairs, ";"))

	sum := sha256.Sum256([]byte(data))
	return core.Hash(fmt.Sprintf("%x", sum))
}

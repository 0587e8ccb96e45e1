package tracker

import (
	"strconv"
	"strings"
	"sync/atomic"
)

const tempPrefix = "tmp-"

// TempIDs issues temporary set ids. Store ids are UUIDs and never carry
// the "tmp-" prefix, so the two namespaces cannot collide.
type TempIDs struct {
	n atomic.Uint64
}

// processTempIDs is shared by every Manager so ids stay unique for the
// lifetime of the process.
var processTempIDs TempIDs

// Next returns a fresh temporary id.
func (t *TempIDs) Next() string {
	return tempPrefix + strconv.FormatUint(t.n.Add(1), 10)
}

// IsTemp reports whether id was issued by TempIDs.
func IsTemp(id string) bool {
	return strings.HasPrefix(id, tempPrefix)
}

package scene

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint computes a deterministic version token over a scene.
//
// Each element contributes an xxhash over its identity, version and tombstone
// flag; contributions are combined with a commutative sum so the result does
// not depend on display order. Two scenes with the same fingerprint are
// treated as content-identical for sync purposes. The empty scene has
// fingerprint 0.
func Fingerprint(elements []Element) uint64 {
	var fp uint64
	var buf [8]byte
	for i := range elements {
		el := &elements[i]

		d := xxhash.New()
		_, _ = d.WriteString(el.ID)
		_, _ = d.Write([]byte{0})
		binary.LittleEndian.PutUint64(buf[:], uint64(el.Version))
		_, _ = d.Write(buf[:])
		if el.Deleted {
			_, _ = d.Write([]byte{1})
		} else {
			_, _ = d.Write([]byte{0})
		}

		fp += d.Sum64()
	}
	return fp
}

package dataio

import (
	"encoding/binary"
	"math"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"gonum.org/v1/gonum/mat"
)

// Fingerprint returns the xxHash64 of the shapes and values of the given
// matrices. Identical inputs always give the same fingerprint, so it can be
// used to tie logs and metrics to a dataset.
func Fingerprint(ms ...mat.Matrix) uint64 {
	d := xxhash.New()
	var buf [8]byte
	for _, m := range ms {
		r, c := m.Dims()
		binary.LittleEndian.PutUint64(buf[:], uint64(r))
		_, _ = d.Write(buf[:])
		binary.LittleEndian.PutUint64(buf[:], uint64(c))
		_, _ = d.Write(buf[:])
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				binary.LittleEndian.PutUint64(buf[:], math.Float64bits(m.At(i, j)))
				_, _ = d.Write(buf[:])
			}
		}
	}
	return d.Sum64()
}

// FingerprintHex returns Fingerprint as a 16-digit hex string.
func FingerprintHex(ms ...mat.Matrix) string {
	s := strconv.FormatUint(Fingerprint(ms...), 16)
	for len(s) < 16 {
		s = "0" + s
	}
	return s
}

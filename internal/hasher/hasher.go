// Package hasher computes the xxHash64 digests recorded for converted files.
// Digests are 16 lowercase hex digits; identical bytes always give the same
// digest, which is how repeated conversions are compared.
package hasher

import (
	"encoding/binary"
	"encoding/hex"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

// Sum returns the digest of data.
func Sum(data []byte) string {
	return format(xxhash.Sum64(data))
}

// SumReader streams r through the hash and returns the digest and byte count.
func SumReader(r io.Reader) (string, int64, error) {
	h := xxhash.New()
	n, err := io.Copy(h, r)
	if err != nil {
		return "", n, err
	}
	return format(h.Sum64()), n, nil
}

// SumFile returns the digest and size of the file at path.
func SumFile(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()
	return SumReader(f)
}

func format(v uint64) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return hex.EncodeToString(b[:])
}

// Package cache provides a BoltDB-backed memo of server-side rendered math.
// Entries are keyed by a hash of their input, so they never need invalidation.
package cache

import (
	"github.com/vmihailenco/msgpack/v5"
)

// ArtifactMath marks KaTeX output. Inline and display math share it since
// the display flag is already part of the key.
const ArtifactMath = "math"

// SSRArtifact stores one server-side rendered expression
type SSRArtifact struct {
	Type       string `msgpack:"type"`       // ArtifactMath
	Compressed bool   `msgpack:"compressed"` // Data is zstd-encoded
	Size       int    `msgpack:"size"`       // uncompressed length
	CreatedAt  int64  `msgpack:"created_at"`
	Data       []byte `msgpack:"data"`
}

// Stats summarizes memo usage for the current process.
type Stats struct {
	Hits    int64
	Misses  int64
	Writes  int64
	Entries int
	Builds  uint64
}

const (
	RawThreshold  = 4 * 1024 // smaller payloads are stored raw
	SchemaVersion = 1
)

// Encode serializes a value to msgpack bytes
func Encode(v interface{}) ([]byte, error) {
	return msgpack.Marshal(v)
}

// Decode deserializes msgpack bytes to a value
func Decode(data []byte, v interface{}) error {
	return msgpack.Unmarshal(data, v)
}

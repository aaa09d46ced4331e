// Package encoding holds the compact codecs shared by snapshots and the
// observation stream.
package encoding

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
)

// EncodeRLE encodes a sequence of tile kind ids into base64(varint pairs).
// The pairs are (kind_id, run_len) repeated. Tile maps are dominated by long
// runs of Floor/Wall, so this stays small without a general compressor.
func EncodeRLE(ids []uint8) string {
	var buf bytes.Buffer
	var tmp [binary.MaxVarintLen64]byte

	i := 0
	for i < len(ids) {
		k := ids[i]
		run := 1
		for j := i + 1; j < len(ids) && ids[j] == k && run < 1<<31; j++ {
			run++
		}

		n := binary.PutUvarint(tmp[:], uint64(k))
		buf.Write(tmp[:n])
		n = binary.PutUvarint(tmp[:], uint64(run))
		buf.Write(tmp[:n])

		i += run
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func DecodeRLE(b64 string) ([]uint8, error) {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, err
	}
	var out []uint8
	for i := 0; i < len(raw); {
		k, n := binary.Uvarint(raw[i:])
		if n <= 0 {
			return nil, fmt.Errorf("bad varint at %d", i)
		}
		i += n
		run, n := binary.Uvarint(raw[i:])
		if n <= 0 {
			return nil, fmt.Errorf("bad varint at %d", i)
		}
		i += n
		if k > 0xFF {
			return nil, fmt.Errorf("tile kind id too large: %d", k)
		}
		for j := 0; j < int(run); j++ {
			out = append(out, uint8(k))
		}
	}
	return out, nil
}

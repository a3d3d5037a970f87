package savegame

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// ErrCorrupt is returned by Decode when the trailer is missing or does not
// match the body.
var ErrCorrupt = errors.New("save is corrupt")

// trailerPrefix starts the last line of every encoded save. It is a YAML
// comment, so the body stays valid YAML for people reading the file.
const trailerPrefix = "# blake2b-256 "

func digest(body []byte) string {
	sum := blake2b.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// seal appends the checksum trailer to body.
func seal(body []byte) []byte {
	out := make([]byte, 0, len(body)+len(trailerPrefix)+blake2b.Size256*2+1)
	out = append(out, body...)
	out = append(out, trailerPrefix...)
	out = append(out, digest(body)...)
	return append(out, '\n')
}

// unseal verifies and strips the checksum trailer.
func unseal(data []byte) ([]byte, error) {
	data = bytes.TrimRight(data, "\n")
	i := bytes.LastIndexByte(data, '\n')
	body, last := data[:i+1], data[i+1:]
	sum, ok := bytes.CutPrefix(last, []byte(trailerPrefix))
	if !ok {
		return nil, fmt.Errorf("missing checksum trailer: %w", ErrCorrupt)
	}
	if string(sum) != digest(body) {
		return nil, fmt.Errorf("checksum mismatch: %w", ErrCorrupt)
	}
	return body, nil
}

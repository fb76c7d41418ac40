package database

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/wulab/labsite/internal/model"
	"golang.org/x/crypto/blake2b"
)

// HashPublications returns the hex BLAKE2b-256 hash of the encoded records.
// Order matters: the same records in another order hash differently, as
// they render differently.
func HashPublications(pubs []model.Publication) (string, error) {
	if pubs == nil {
		pubs = []model.Publication{}
	}
	data, err := json.Marshal(pubs)
	if err != nil {
		return "", fmt.Errorf("failed to encode publications: %w", err)
	}
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

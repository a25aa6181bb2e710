package utils

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GenerateETag derives a strong ETag from a document id and its last
// modification time, so conditional GETs can short-circuit unchanged reads.
func GenerateETag(id primitive.ObjectID, updatedAt time.Time) string {
	sum := sha1.Sum([]byte(id.Hex() + ":" + fmt.Sprintf("%d", updatedAt.UnixNano())))
	return `"` + hex.EncodeToString(sum[:]) + `"`
}

// GenerateListETag covers a whole result set: it hashes every member id
// plus the newest modification time, so both an update and a membership
// change (insert or delete) invalidate the tag.
func GenerateListETag(ids []primitive.ObjectID, updatedAt time.Time) string {
	h := sha1.New()
	for _, id := range ids {
		h.Write([]byte(id.Hex()))
		h.Write([]byte(","))
	}
	fmt.Fprintf(h, "%d", updatedAt.UnixNano())
	return `"` + hex.EncodeToString(h.Sum(nil)) + `"`
}

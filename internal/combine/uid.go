package combine

import (
	"crypto/sha1"
	"encoding/hex"
	"regexp"

	"github.com/google/uuid"

	"github.com/combcal/combcal/internal/model"
)

// uidShape matches an RFC 4122 identifier: 32 hex digits grouped
// 8-4-4-4-12 with valid version and variant nibbles. UIDs already in
// this shape pass through unchanged.
var uidShape = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[1-5][0-9a-fA-F]{3}-[89abAB][0-9a-fA-F]{3}-[0-9a-fA-F]{12}$`)

// HashUID derives a stable RFC 4122 identifier from an arbitrary input
// string: the hex-encoded SHA-1 of the input is fed as the name of a
// version-5 UUID in the DNS namespace. The same input always yields
// the same identifier.
func HashUID(input string) string {
	sum := sha1.Sum([]byte(input))
	return uuid.NewSHA1(uuid.NameSpaceDNS, []byte(hex.EncodeToString(sum[:]))).String()
}

// CanonicalUID resolves the output identifier for an event. Sources
// with MakeUnique mix their own id into the hash so two feeds carrying
// the same event do not collide in the deduplication stage.
func CanonicalUID(src model.Source, uid string) string {
	if src.MakeUnique {
		return HashUID(src.ID + "-" + uid)
	}
	if uidShape.MatchString(uid) {
		return uid
	}
	return HashUID(uid)
}

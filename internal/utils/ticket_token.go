package utils

import (
	"crypto/sha256" // SHA-256 hashing for ticket tokens
	"encoding/hex"  // hex encoding of the digest
	"fmt"
	"time"
)

// TicketToken derives the opaque token printed on an issued ticket.  It
// is a SHA-256 digest over the holder's national ID (empty string when
// absent), the event identifier and the issuance instant at nanosecond
// precision.  The timestamp makes the token unique per issuance rather
// than a deterministic function of identity: reissuing for the same
// person at a later instant yields a fresh, non-colliding token.
func TicketToken(nationalID string, eventID uint64, issuedAt time.Time) string {
	payload := fmt.Sprintf("%s-%d-%d", nationalID, eventID, issuedAt.UTC().UnixNano())
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

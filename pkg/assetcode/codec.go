// Package assetcode encodes ticket metadata into Stellar credit_alphanum12
// asset codes and recovers an approximate type/name from a bare code.
//
// The encoding is lossy: two tickets with the same type, a near-identical
// event name prefix and colliding ticket id prefixes map to the same code.
// Uniqueness is the caller's job (random ticket id suffix) or the ledger's.
package assetcode

import (
	"strings"

	"github.com/ticketfolio/ticketfolio-backend/pkg/enums"
)

// MaxLength is Stellar's credit_alphanum12 limit.
const MaxLength = 12

const (
	typePrefixLen    = 3
	eventFragmentLen = 5
	idFragmentLen    = 4
)

// typePrefixes maps the 4-letter code prefix to its ticket type. Order is
// fixed; the prefixes are disjoint so the first match is the only match.
var typePrefixes = []struct {
	prefix string
	kind   enums.TicketType
}{
	{"FOOT", enums.TicketTypeFootball},
	{"UNIV", enums.TicketTypeUniversity},
	{"MUSE", enums.TicketTypeMuseum},
	{"CONC", enums.TicketTypeConcert},
}

// likelyTicketPrefixes also admits generic event/ticket codes that Infer
// cannot classify beyond the default type.
var likelyTicketPrefixes = []string{"FOOT", "UNIV", "MUSE", "CONC", "EVEN", "TICK"}

// Encode derives the constrained asset code from ticket metadata.
// The result is deterministic, upper-case alphanumeric and at most 12 chars:
// 3 from the type, up to 5 from the stripped event name, 4 from the ticket id.
func Encode(kind enums.TicketType, eventName, ticketID string) string {
	prefix := upperHead(string(kind), typePrefixLen)
	fragment := upperHead(stripNonAlphanumeric(eventName), eventFragmentLen)
	id := upperHead(stripNonAlphanumeric(ticketID), idFragmentLen)

	code := prefix + fragment + id
	if len(code) > MaxLength {
		code = code[:MaxLength]
	}
	return code
}

// InferTicketType recovers the ticket type from a bare asset code.
// Codes without a known prefix default to the generic event type.
func InferTicketType(code string) enums.TicketType {
	upper := strings.ToUpper(code)
	for _, candidate := range typePrefixes {
		if strings.HasPrefix(upper, candidate.prefix) {
			return candidate.kind
		}
	}
	return enums.TicketTypeEvent
}

// IsLikelyTicket reports whether the asset code looks like one of ours.
// Holdings that fail this check are unrelated assets, not tickets.
func IsLikelyTicket(code string) bool {
	upper := strings.ToUpper(code)
	for _, prefix := range likelyTicketPrefixes {
		if strings.HasPrefix(upper, prefix) {
			return true
		}
	}
	return false
}

// ParseEventName strips the known type prefix and spaces out the remaining
// fragment. The original casing, spacing and punctuation are gone for good;
// the result is an approximation for display, never authoritative metadata.
func ParseEventName(code string) string {
	upper := strings.ToUpper(code)
	rest := code
	for _, prefix := range likelyTicketPrefixes {
		if strings.HasPrefix(upper, prefix) {
			rest = code[len(prefix):]
			break
		}
	}

	var b strings.Builder
	for i, r := range rest {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

func stripNonAlphanumeric(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}
	return b.String()
}

func upperHead(s string, n int) string {
	if len(s) > n {
		s = s[:n]
	}
	return strings.ToUpper(s)
}

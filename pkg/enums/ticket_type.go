package enums

import "fmt"

// TicketType describes the allowed values for a ticket's event category.
type TicketType string

const (
	TicketTypeFootball   TicketType = "football"
	TicketTypeUniversity TicketType = "university"
	TicketTypeMuseum     TicketType = "museum"
	TicketTypeConcert    TicketType = "concert"
	TicketTypeEvent      TicketType = "event"
)

var validTicketTypes = []TicketType{
	TicketTypeFootball,
	TicketTypeUniversity,
	TicketTypeMuseum,
	TicketTypeConcert,
	TicketTypeEvent,
}

// IsValid reports whether the value matches the canonical ticket type enum.
func (t TicketType) IsValid() bool {
	for _, candidate := range validTicketTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTicketType converts the raw string to TicketType.
func ParseTicketType(value string) (TicketType, error) {
	for _, candidate := range validTicketTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ticket type %q", value)
}

// TicketTypes returns the canonical ordering of ticket types.
func TicketTypes() []TicketType {
	out := make([]TicketType, len(validTicketTypes))
	copy(out, validTicketTypes)
	return out
}

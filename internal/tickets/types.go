package tickets

import (
	"time"

	"github.com/ticketfolio/ticketfolio-backend/pkg/enums"
)

// Provenance tags which source produced a ticket instance. Only local
// tickets are mutable; ledger-sourced tickets are read-only here.
type Provenance string

const (
	ProvenanceLocal  Provenance = "local"
	ProvenanceLedger Provenance = "ledger"
)

// MetadataSource separates authoritative cache metadata from the lossy
// reconstruction the codec produces for pure ledger-sourced tickets.
type MetadataSource string

const (
	MetadataAuthoritative MetadataSource = "authoritative"
	MetadataInferred      MetadataSource = "inferred"
)

// TicketMetadata is the human-meaningful side of a ticket.
type TicketMetadata struct {
	TicketID    string           `json:"ticket_id"`
	Type        enums.TicketType `json:"type"`
	EventName   string           `json:"event_name"`
	EventDate   string           `json:"event_date,omitempty"`
	Location    string           `json:"location,omitempty"`
	Organizer   string           `json:"organizer,omitempty"`
	Description string           `json:"description,omitempty"`
	MintedAt    time.Time        `json:"minted_at,omitempty"`
}

// Ticket is one entry of a holder's collection.
type Ticket struct {
	AssetCode      string         `json:"asset_code"`
	Issuer         string         `json:"issuer"`
	Balance        string         `json:"balance"`
	Provenance     Provenance     `json:"provenance"`
	MetadataSource MetadataSource `json:"metadata_source"`
	Metadata       TicketMetadata `json:"metadata"`
}

// MintTicketInput carries the fields a holder supplies when minting.
type MintTicketInput struct {
	Type        string `json:"type" validate:"omitempty,oneof=football university museum concert event"`
	EventName   string `json:"event_name" validate:"required"`
	EventDate   string `json:"event_date" validate:"required,datetime=2006-01-02"`
	Location    string `json:"location"`
	Organizer   string `json:"organizer"`
	Description string `json:"description"`
	// Recipient is only consulted in the ledger-backed configuration.
	Recipient string `json:"recipient"`
}

// MintedTicket is the mint result; TransactionHash is set only when the
// ledger-backed configuration submitted an asset transfer.
type MintedTicket struct {
	Ticket          Ticket `json:"ticket"`
	TransactionHash string `json:"transaction_hash,omitempty"`
}

// FilterAll selects every ticket regardless of type.
const FilterAll = "all"

// Package model defines the domain types for the committee's donor,
// pledge and funding records.
package model

import "strings"

// DonorStatus is the paid/unpaid flag of the donor ledger.
type DonorStatus int

const (
	StatusUnknown DonorStatus = iota
	StatusPaid
	StatusUnpaid
)

// Sheet sentinels for DonorStatus. Matching is exact.
const (
	SentinelPaid   = "LUNAS"
	SentinelUnpaid = "BELUM"
)

// ParseDonorStatus maps a status cell to a DonorStatus using an exact
// match against the sheet sentinels.
func ParseDonorStatus(raw string) DonorStatus {
	switch raw {
	case SentinelPaid:
		return StatusPaid
	case SentinelUnpaid:
		return StatusUnpaid
	default:
		return StatusUnknown
	}
}

func (s DonorStatus) String() string {
	switch s {
	case StatusPaid:
		return "paid"
	case StatusUnpaid:
		return "unpaid"
	default:
		return "unknown"
	}
}

// MarshalText lets DonorStatus appear as a string in JSON.
func (s DonorStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// DonorEntry is one row of the donor status sheet.
type DonorEntry struct {
	Name      string      `json:"name"`
	Region    string      `json:"region"`
	Status    DonorStatus `json:"status"`
	RawStatus string      `json:"raw_status,omitempty"`
}

// Channel is how a pledge is being paid.
type Channel int

const (
	ChannelOnline Channel = iota
	ChannelCard
)

// ParseChannel maps the channel cell; only "kartu" means card.
func ParseChannel(raw string) Channel {
	if strings.EqualFold(strings.TrimSpace(raw), "kartu") {
		return ChannelCard
	}
	return ChannelOnline
}

func (c Channel) String() string {
	if c == ChannelCard {
		return "card"
	}
	return "online"
}

// Label is the Indonesian badge text shown next to a pledge.
func (c Channel) Label() string {
	if c == ChannelCard {
		return "Kartu"
	}
	return "Online"
}

// MarshalText lets Channel appear as a string in JSON.
func (c Channel) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// PledgeEntry is one row of the Janji Iman pledge sheet.
type PledgeEntry struct {
	Name    string  `json:"name"`
	Pledged int64   `json:"pledged"`
	Paid    int64   `json:"paid"`
	Channel Channel `json:"channel"`
}

// Remaining is the unpaid part of the pledge. Overpayment makes it
// negative; it is not clamped.
func (p PledgeEntry) Remaining() int64 {
	return p.Pledged - p.Paid
}

// PaymentState classifies how much of a pledge has been paid.
type PaymentState int

const (
	PaymentNone PaymentState = iota
	PaymentPartial
	PaymentFull
)

// State reports the payment state of the pledge.
func (p PledgeEntry) State() PaymentState {
	switch {
	case p.Paid >= p.Pledged:
		return PaymentFull
	case p.Paid > 0:
		return PaymentPartial
	default:
		return PaymentNone
	}
}

func (s PaymentState) String() string {
	switch s {
	case PaymentFull:
		return "full"
	case PaymentPartial:
		return "partial"
	default:
		return "none"
	}
}

// Label is the Indonesian badge text for the state.
func (s PaymentState) Label() string {
	switch s {
	case PaymentFull:
		return "Lunas"
	case PaymentPartial:
		return "Sebagian"
	default:
		return "Belum"
	}
}

// MarshalText lets PaymentState appear as a string in JSON.
func (s PaymentState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// IncomeLine is one income category of the funding dashboard.
// Static fallback lines carry no realized figure.
type IncomeLine struct {
	Category    string `json:"category" yaml:"category"`
	Target      int64  `json:"target" yaml:"amount"`
	Realized    int64  `json:"realized" yaml:"-"`
	HasRealized bool   `json:"has_realized" yaml:"-"`
}

// CostLine is one budgeted cost category. Costs are always static.
type CostLine struct {
	Category string `json:"category" yaml:"category"`
	Amount   int64  `json:"amount" yaml:"amount"`
}

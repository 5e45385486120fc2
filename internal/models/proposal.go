package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProposalPriority string
type ProposalStatus string
type Gateway string
type TerminalType string

const (
	PriorityP1 ProposalPriority = "P1"
	PriorityP2 ProposalPriority = "P2"
	PriorityP3 ProposalPriority = "P3"

	StatusOngoing ProposalStatus = "ONGOING"
	StatusBlocked ProposalStatus = "BLOCKED"
	StatusClosed  ProposalStatus = "CLOSED"

	GatewayJAV Gateway = "JAV"
	GatewaySUB Gateway = "SUB"
	GatewayBHI Gateway = "BHI"
	GatewayPAK Gateway = "PAK"

	Terminal1m2 TerminalType = "1m2_3W_MDM2510"
	Terminal1m8 TerminalType = "1m8_5W_MDM2510"
	Terminal2m4 TerminalType = "2m4_8W_MDM2510"
)

var (
	Priorities    = []ProposalPriority{PriorityP1, PriorityP2, PriorityP3}
	Statuses      = []ProposalStatus{StatusOngoing, StatusBlocked, StatusClosed}
	Gateways      = []Gateway{GatewayJAV, GatewaySUB, GatewayBHI, GatewayPAK}
	TerminalTypes = []TerminalType{Terminal1m2, Terminal1m8, Terminal2m4}
)

// Defaults used to prefill a new proposal.
const (
	DefaultBandwidth     = "100Mbps"
	DefaultPresalesOwner = "admin@example.com"
	DefaultProposalLink  = "https://example.com"
)

func (p ProposalPriority) Label() string {
	switch p {
	case PriorityP1:
		return "P1 - Critical"
	case PriorityP2:
		return "P2 - High"
	case PriorityP3:
		return "P3 - Medium"
	}
	return string(p)
}

func (s ProposalStatus) Label() string {
	switch s {
	case StatusOngoing:
		return "Ongoing"
	case StatusBlocked:
		return "Blocked"
	case StatusClosed:
		return "Closed"
	}
	return string(s)
}

func (s ProposalStatus) Valid() bool {
	switch s {
	case StatusOngoing, StatusBlocked, StatusClosed:
		return true
	}
	return false
}

func (g Gateway) Label() string { return string(g) }

func (t TerminalType) Label() string {
	switch t {
	case Terminal1m2:
		return "1m2 3W MDM2510"
	case Terminal1m8:
		return "1m8 5W MDM2510"
	case Terminal2m4:
		return "2m4 8W MDM2510"
	}
	return string(t)
}

type Proposal struct {
	gorm.Model
	ProjectID uint `gorm:"not null;index"`
	Project   Project

	Priority ProposalPriority `gorm:"type:varchar(20);not null"`

	// technical
	Bandwidth     string       `gorm:"size:100;not null;default:'100Mbps'"`
	Gateway       Gateway      `gorm:"type:varchar(20);not null;default:'JAV'"`
	TerminalCount uint         `gorm:"not null;default:1;check:terminal_count >= 1"`
	TerminalType  TerminalType `gorm:"type:varchar(50);not null;default:'1m2_3W_MDM2510'"`

	// commercial
	SalesDirector   string          `gorm:"size:200;not null;index"`
	PresalesOwner   string          `gorm:"size:254"`
	SubmissionDate  time.Time       `gorm:"type:date;not null;index"`
	ProposalLink    string          `gorm:"size:200"`
	CommercialValue decimal.Decimal `gorm:"type:decimal(15,2);not null;check:commercial_value >= 0"`
	Status          ProposalStatus  `gorm:"type:varchar(20);not null;default:'ONGOING';index"`
	Remarks         *string         `gorm:"type:text"`

	CreatedByID uint `gorm:"not null;index"`
	CreatedBy   User
}

// ProposalOrder is the default listing order, latest submission first.
const ProposalOrder = "proposals.submission_date desc, proposals.id desc"

func (p *Proposal) String() string {
	return p.Project.ProjectName + " (" + p.Status.Label() + ")"
}

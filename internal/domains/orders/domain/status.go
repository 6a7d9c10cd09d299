package domain

import (
	"errors"
	"strings"
)

// Status enumerates order progression. Values are the canonical wire labels.
type Status string

const (
	StatusPending       Status = "Pending"
	StatusInPreparation Status = "InPreparation"
	StatusReady         Status = "Ready"
	StatusDelivered     Status = "Delivered"
)

var (
	ErrInvalidStatus     = errors.New("order status is invalid")
	ErrInvalidTransition = errors.New("order status may only move forward")
	ErrInvalidQuantity   = errors.New("line item quantity must be at least one")
)

// Lifecycle is the ordered sequence every order walks through.
var Lifecycle = []Status{StatusPending, StatusInPreparation, StatusReady, StatusDelivered}

// Lanes are the statuses shown on the panel; Delivered is never displayed.
var Lanes = []Status{StatusPending, StatusInPreparation, StatusReady}

// aliases maps lowercased labels, including the counter's Italian ones, to statuses.
var aliases = map[string]Status{
	"pending":         StatusPending,
	"in attesa":       StatusPending,
	"inpreparation":   StatusInPreparation,
	"in_preparation":  StatusInPreparation,
	"in preparation":  StatusInPreparation,
	"in preparazione": StatusInPreparation,
	"ready":           StatusReady,
	"pronto":          StatusReady,
	"delivered":       StatusDelivered,
	"consegnato":      StatusDelivered,
}

var labels = map[Status]string{
	StatusPending:       "In Attesa",
	StatusInPreparation: "In Preparazione",
	StatusReady:         "Pronto",
	StatusDelivered:     "Consegnato",
}

// ParseStatus resolves a wire or display label to a Status.
func ParseStatus(raw string) (Status, error) {
	if s, ok := aliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return s, nil
	}
	return "", ErrInvalidStatus
}

// Rank returns the position of s in the lifecycle, or -1 when unknown.
func (s Status) Rank() int {
	for i, candidate := range Lifecycle {
		if candidate == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is part of the lifecycle.
func (s Status) Valid() bool { return s.Rank() >= 0 }

// IsTerminal reports whether no further transition is expected.
func (s Status) IsTerminal() bool { return s == StatusDelivered }

// Next returns the status that follows s.
func (s Status) Next() (Status, bool) {
	rank := s.Rank()
	if rank < 0 || rank+1 >= len(Lifecycle) {
		return "", false
	}
	return Lifecycle[rank+1], true
}

// Label is the staff-facing name of the status.
func (s Status) Label() string {
	if label, ok := labels[s]; ok {
		return label
	}
	return string(s)
}

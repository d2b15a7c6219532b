package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUnknownStatus     = errors.New("unknown order status")
	ErrUnknownNiveau     = errors.New("unknown order niveau")
	ErrInvalidTransition = errors.New("invalid order status transition")
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "non-confirmé"
	StatusConfirmed OrderStatus = "confirmé"
	StatusPreparing OrderStatus = "en-préparation"
	StatusShipping  OrderStatus = "en-livraison"
	StatusDelivered OrderStatus = "livré"
	StatusCancelled OrderStatus = "annulé"
)

var Statuses = []OrderStatus{
	StatusPending,
	StatusConfirmed,
	StatusPreparing,
	StatusShipping,
	StatusDelivered,
	StatusCancelled,
}

// legacy spellings written by older dashboards
var statusAliases = map[string]OrderStatus{
	"non-confirmé":   StatusPending,
	"non confirmé":   StatusPending,
	"en attente":     StatusPending,
	"pending":        StatusPending,
	"confirmé":       StatusConfirmed,
	"confirmée":      StatusConfirmed,
	"en-préparation": StatusPreparing,
	"en préparation": StatusPreparing,
	"en-livraison":   StatusShipping,
	"en livraison":   StatusShipping,
	"livré":          StatusDelivered,
	"livrée":         StatusDelivered,
	"annulé":         StatusCancelled,
	"annulée":        StatusCancelled,
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	if st, ok := statusAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

// Spellings lists every lower-cased value that ParseOrderStatus maps to s,
// the canonical one first.
func (s OrderStatus) Spellings() []string {
	out := []string{string(s)}
	for alias, st := range statusAliases {
		if st == s && alias != string(s) {
			out = append(out, alias)
		}
	}
	sort.Strings(out[1:])
	return out
}

func (s OrderStatus) String() string { return string(s) }

func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusPreparing, StatusShipping, StatusDelivered, StatusCancelled},
	StatusPreparing: {StatusShipping, StatusDelivered, StatusCancelled},
	StatusShipping:  {StatusDelivered, StatusCancelled},
}

// CanTransitionTo reports whether an order in status s may move to next.
// Writing the current status again is always allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Niveau string

const (
	NiveauReceived  Niveau = "Commande reçue"
	NiveauPreparing Niveau = "En préparation"
	NiveauShipping  Niveau = "En livraison"
	NiveauDelivered Niveau = "Livrée"
)

// Niveaux lists the tracking steps in display order.
var Niveaux = []Niveau{NiveauReceived, NiveauPreparing, NiveauShipping, NiveauDelivered}

func ParseNiveau(s string) (Niveau, error) {
	for _, n := range Niveaux {
		if strings.EqualFold(string(n), strings.TrimSpace(s)) {
			return n, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownNiveau, s)
}

func (n Niveau) String() string { return string(n) }

// Step returns the index of n in Niveaux. Empty or unknown values count as
// the first step.
func (n Niveau) Step() int {
	for i, step := range Niveaux {
		if strings.EqualFold(string(step), string(n)) {
			return i
		}
	}
	return 0
}

// Progress is the completion percentage shown on the tracking page.
func (n Niveau) Progress() int {
	return n.Step() * 100 / (len(Niveaux) - 1)
}

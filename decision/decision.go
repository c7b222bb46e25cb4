// Package decision classifies extracted availability signals into a
// normalized verdict, and scores records for ranking.
//
// The classifier is an ordered rule table: the first rule whose condition
// holds decides the outcome, so precedence is explicit and auditable.
package decision

import (
	"regexp"

	"github.com/hanbitlee/ebookscout/models"
)

// Signals are the inputs to the classifier. Count fields are nil when the
// extractor found no reliable value.
type Signals struct {
	Text        string
	Holdings    *int
	Available   *int
	Reservation *int
}

var (
	availableToken   = regexp.MustCompile(`대출\s*가능|대출가능|바로대출|즉시대출`)
	unavailableToken = regexp.MustCompile(`미소장|소장없음`)
	serviceToken     = regexp.MustCompile(`서비스\s*없음`)
	reservationToken = regexp.MustCompile(`예약가능|예약중|예약\s*대기|대기중|대기자|예약자`)
)

type rule struct {
	reason     string
	state      models.DecisionState
	confidence models.Confidence
	match      func(s Signals) bool
}

// rules encode precedence by position; order is load-bearing. Rules 3 and 4
// overlap in intent but their exact non-overlap conditions match observed
// source markup, so they stay separate.
var rules = []rule{
	{
		reason: "available_count_positive", state: models.StateBorrowNow, confidence: models.ConfidenceHigh,
		match: func(s Signals) bool {
			return positive(s.Available)
		},
	},
	{
		reason: "available_token_without_reservation", state: models.StateBorrowNow, confidence: models.ConfidenceMedium,
		match: func(s Signals) bool {
			return availableToken.MatchString(s.Text) &&
				(s.Available == nil || *s.Available > 0) &&
				(s.Reservation == nil || *s.Reservation == 0)
		},
	},
	{
		reason: "holdings_zero_or_unavailable_token", state: models.StateUnavailable, confidence: models.ConfidenceHigh,
		match: func(s Signals) bool {
			return (s.Holdings != nil && *s.Holdings == 0) || unavailableToken.MatchString(s.Text)
		},
	},
	{
		reason: "service_unavailable_token", state: models.StateUnavailable, confidence: models.ConfidenceMedium,
		match: func(s Signals) bool {
			return serviceToken.MatchString(s.Text) &&
				!availableToken.MatchString(s.Text) &&
				!positive(s.Available) &&
				(s.Holdings == nil || *s.Holdings <= 0)
		},
	},
	{
		reason: "single_holding_with_reservation_queue", state: models.StateReserve, confidence: models.ConfidenceHigh,
		match: func(s Signals) bool {
			return s.Holdings != nil && *s.Holdings == 1 &&
				positive(s.Reservation) &&
				!positive(s.Available) &&
				!availableToken.MatchString(s.Text)
		},
	},
	{
		reason: "reservation_signal_detected", state: models.StateReserve, confidence: models.ConfidenceMedium,
		match: func(s Signals) bool {
			if positive(s.Reservation) {
				return true
			}
			return reservationToken.MatchString(s.Text) && (s.Reservation == nil || *s.Reservation != 0)
		},
	},
	{
		reason: "holdings_positive_but_no_clear_availability", state: models.StateUnknown, confidence: models.ConfidenceLow,
		match: func(s Signals) bool {
			return positive(s.Holdings)
		},
	},
	{
		reason: "insufficient_signals", state: models.StateUnknown, confidence: models.ConfidenceLow,
		match: func(s Signals) bool {
			return true
		},
	},
}

// Decide maps signals to the first matching rule's outcome.
func Decide(s Signals) models.Decision {
	for _, r := range rules {
		if r.match(s) {
			return models.Decision{State: r.state, Confidence: r.confidence, Reason: r.reason}
		}
	}
	// Unreachable: the last rule always matches.
	return models.Decision{State: models.StateUnknown, Confidence: models.ConfidenceLow, Reason: "insufficient_signals"}
}

// SubscriptionOverride is the decision attached to every title listed by a
// subscription-model provider, where listing alone implies access. Applied
// at orchestration time, outside the rule table.
func SubscriptionOverride() models.Decision {
	return models.Decision{
		State:      models.StateBorrowNow,
		Confidence: models.ConfidenceMedium,
		Reason:     "subscription_provider_listed",
	}
}

// SubscriptionReason identifies override decisions so that flow activation
// can exclude them from the immediate-borrow check.
const SubscriptionReason = "subscription_provider_listed"

// Score ranks a record for sorting and dedup: immediate borrows first,
// boosted by spare copies; reservations penalized by queue length.
func Score(d models.Decision, available, reservation *int) int {
	switch d.State {
	case models.StateBorrowNow:
		return 100 + orZero(available)
	case models.StateReserve:
		return 70 - orZero(reservation)
	case models.StateUnknown:
		return 40
	default:
		return 0
	}
}

func positive(v *int) bool {
	return v != nil && *v > 0
}

func orZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

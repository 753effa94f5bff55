// Package health computes the weighted financial health score of the
// business from a full ledger snapshot.
package health

import (
	"math"
	"time"

	"github.com/maison-erp/maison-erp/internal/analytics"
	"github.com/maison-erp/maison-erp/internal/ledger"
)

// Canonical factor weights, summing to 100. These constants are the single
// source of truth for the composite score.
const (
	WeightPaymentTimeliness = 25
	WeightCashFlow          = 25
	WeightInventoryTurnover = 20
	WeightProfitMargin      = 20
	WeightClientRetention   = 10
)

// Factor score thresholds below which a recommendation is emitted.
const (
	thresholdTimeliness = 80
	thresholdCashFlow   = 60
	thresholdTurnover   = 50
	thresholdMargin     = 30
	thresholdRetention  = 40
)

const cashFlowWindow = 30 * 24 * time.Hour

// Factors holds the five sub-scores, each on a 0-100 scale.
type Factors struct {
	PaymentTimeliness float64 `json:"paymentTimeliness"`
	CashFlow          float64 `json:"cashFlow"`
	InventoryTurnover float64 `json:"inventoryTurnover"`
	ProfitMargin      float64 `json:"profitMargin"`
	ClientRetention   float64 `json:"clientRetention"`
}

// Score is the composite health report. RawMargin carries the unclamped
// net margin, which may be negative even though the ProfitMargin factor is
// clamped for scoring.
type Score struct {
	Score           int      `json:"score"`
	Grade           string   `json:"grade"`
	Factors         Factors  `json:"factors"`
	RawMargin       float64  `json:"rawMargin"`
	Recommendations []string `json:"recommendations"`
}

// Compute derives the health score from a full ledger snapshot at a point
// in time.
func Compute(snap analytics.Snapshot, now time.Time) Score {
	factors := Factors{
		PaymentTimeliness: timelinessScore(snap.Installments),
		InventoryTurnover: turnoverScore(snap.Items),
		ClientRetention:   retentionScore(snap.Payments),
	}
	factors.CashFlow = cashFlowScore(snap.Payments, now)

	var raw float64
	factors.ProfitMargin, raw = marginScore(snap)

	composite := (WeightPaymentTimeliness*factors.PaymentTimeliness +
		WeightCashFlow*factors.CashFlow +
		WeightInventoryTurnover*factors.InventoryTurnover +
		WeightProfitMargin*factors.ProfitMargin +
		WeightClientRetention*factors.ClientRetention) / 100

	score := Score{
		Score:     int(math.Round(composite)),
		Factors:   roundFactors(factors),
		RawMargin: round2(raw),
	}
	score.Grade = grade(score.Score)
	score.Recommendations = recommendations(factors)
	return score
}

// timelinessScore is the share of installment plans already settled. A
// ledger without installment plans has nothing overdue and scores full.
func timelinessScore(plans []ledger.InstallmentPlan) float64 {
	if len(plans) == 0 {
		return 100
	}
	paid := 0
	for _, plan := range plans {
		if plan.Status == ledger.InstallmentPaid {
			paid++
		}
	}
	return clamp(float64(paid)/float64(len(plans))*100, 0, 100)
}

// cashFlowScore compares the trailing 30-day revenue with the 30 days
// before it. With no prior-period revenue the score defaults to neutral.
func cashFlowScore(payments []ledger.Payment, now time.Time) float64 {
	var current, previous float64
	currentStart := now.Add(-cashFlowWindow)
	previousStart := now.Add(-2 * cashFlowWindow)
	for _, payment := range payments {
		switch {
		case payment.PaidAt.After(now):
		case payment.PaidAt.After(currentStart):
			current += payment.Amount
		case payment.PaidAt.After(previousStart):
			previous += payment.Amount
		}
	}
	if previous == 0 {
		return 50
	}
	return math.Min(current/previous*50, 100)
}

func turnoverScore(items []ledger.Item) float64 {
	if len(items) == 0 {
		return 0
	}
	sold := 0
	for _, item := range items {
		if item.Status == ledger.StatusSold {
			sold++
		}
	}
	return float64(sold) / float64(len(items)) * 100
}

func marginScore(snap analytics.Snapshot) (scored, raw float64) {
	var revenue, payouts, expenses float64
	for _, payment := range snap.Payments {
		revenue += payment.Amount
	}
	for _, payout := range snap.Payouts {
		payouts += payout.Amount
	}
	for _, expense := range snap.Expenses {
		expenses += expense.Amount
	}
	if revenue == 0 {
		return 0, 0
	}
	raw = (revenue - payouts - expenses) / revenue * 100
	return clamp(raw, 0, 100), raw
}

// retentionScore is the share of paying clients with more than one payment.
func retentionScore(payments []ledger.Payment) float64 {
	counts := make(map[int64]int)
	for _, payment := range payments {
		counts[payment.ClientID]++
	}
	if len(counts) == 0 {
		return 0
	}
	repeat := 0
	for _, count := range counts {
		if count > 1 {
			repeat++
		}
	}
	return float64(repeat) / float64(len(counts)) * 100
}

func grade(score int) string {
	switch {
	case score >= 90:
		return "A+"
	case score >= 80:
		return "A"
	case score >= 70:
		return "B"
	case score >= 60:
		return "C"
	case score >= 50:
		return "D"
	default:
		return "F"
	}
}

func recommendations(factors Factors) []string {
	var messages []string
	if factors.PaymentTimeliness < thresholdTimeliness {
		messages = append(messages, "Follow up on overdue installment plans to improve payment timeliness.")
	}
	if factors.CashFlow < thresholdCashFlow {
		messages = append(messages, "Revenue is trailing the previous period; review pricing and promotions.")
	}
	if factors.InventoryTurnover < thresholdTurnover {
		messages = append(messages, "A large share of inventory is unsold; consider markdowns or vendor returns.")
	}
	if factors.ProfitMargin < thresholdMargin {
		messages = append(messages, "Margins are thin; review payout agreements and item expenses.")
	}
	if factors.ClientRetention < thresholdRetention {
		messages = append(messages, "Few clients return for a second purchase; invest in client relationships.")
	}
	if len(messages) == 0 {
		messages = append(messages, "Maintain current performance.")
	}
	return messages
}

func roundFactors(factors Factors) Factors {
	return Factors{
		PaymentTimeliness: round2(factors.PaymentTimeliness),
		CashFlow:          round2(factors.CashFlow),
		InventoryTurnover: round2(factors.InventoryTurnover),
		ProfitMargin:      round2(factors.ProfitMargin),
		ClientRetention:   round2(factors.ClientRetention),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

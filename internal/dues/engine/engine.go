// Package engine computes the line items and aggregate statistics of a dues
// generation run. It is pure: no I/O, no persistence, deterministic for
// identical inputs, and it never mutates its arguments.
package engine

import (
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// ItemType classifies a billed line item.
type ItemType string

const (
	ItemTypeSocietary ItemType = "SOCIETARY"
	ItemTypePrincipal ItemType = "PRINCIPAL_SPORT"
	ItemTypeSecondary ItemType = "SECONDARY_SPORT"
)

// OverrideKey addresses a per-run custom amount for one member's enrollment
// in one sport.
type OverrideKey struct {
	MemberID snowflake.ID
	SportID  snowflake.ID
}

// Config is the instruction set for one generation run. Selection-mode
// filtering happens before the engine is invoked; SelectedSports is still
// re-applied here to each member's own enrollment list so roster filtering
// and per-member sport scoping cannot drift apart.
type Config struct {
	Month                     int
	Year                      int
	IncludeSocietary          bool
	IncludeNonPrincipalSports bool
	SelectedSports            []snowflake.ID
	Overrides                 map[OverrideKey]decimal.Decimal
	Notes                     string
}

// QuoteRef is the fee tier bound to an enrollment at computation time.
type QuoteRef struct {
	ID    snowflake.ID
	Name  string
	Price decimal.Decimal
}

// Enrollment is one member/sport association as the engine sees it. A nil
// Quote marks an incomplete enrollment: it is priced at zero and flagged,
// never skipped.
type Enrollment struct {
	SportID   snowflake.ID
	SportName string
	Principal bool
	Quote     *QuoteRef
}

// MemberInput is the roster entry the engine consumes. Display fields pass
// through untouched into the breakdown.
type MemberInput struct {
	ID          snowflake.ID
	Name        string
	DNI         string
	Societary   *QuoteRef
	Enrollments []Enrollment
}

// BreakdownItem is one attributed component of a principal-sport line item.
type BreakdownItem struct {
	Type       ItemType        `json:"type"`
	MemberID   snowflake.ID    `json:"member_id"`
	MemberName string          `json:"member_name"`
	Concept    string          `json:"concept"`
	Amount     decimal.Decimal `json:"amount"`
}

// ItemBreakdown itemizes a principal-sport line item: the sport fee plus the
// bundled societary fee when present.
type ItemBreakdown struct {
	Items []BreakdownItem `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// LineItem is one due to be created for a member.
type LineItem struct {
	Type        ItemType        `json:"type"`
	SportID     *snowflake.ID   `json:"sport_id,omitempty"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Breakdown   *ItemBreakdown  `json:"breakdown,omitempty"`
}

// MemberBreakdown groups the line items emitted for one member. Members with
// no items do not appear in the result at all.
type MemberBreakdown struct {
	MemberID   snowflake.ID `json:"member_id"`
	MemberName string       `json:"member_name"`
	MemberDNI  string       `json:"member_dni"`
	Payments   []LineItem   `json:"payments"`
}

// Result carries the per-bucket aggregates, grand totals, the per-member
// breakdown, and the enrollments that were billed at zero for lack of a
// bound fee tier. Totals are accumulated in the same pass that builds the
// line items, so they always reconcile with the breakdown.
type Result struct {
	OnlySocietaryCount    int64           `json:"only_societary_count"`
	OnlySocietaryAmount   decimal.Decimal `json:"only_societary_amount"`
	PrincipalSportsCount  int64           `json:"principal_sports_count"`
	PrincipalSportsAmount decimal.Decimal `json:"principal_sports_amount"`
	SecondarySportsCount  int64           `json:"secondary_sports_count"`
	SecondarySportsAmount decimal.Decimal `json:"secondary_sports_amount"`
	TotalPayments         int64           `json:"total_payments"`
	TotalAmount           decimal.Decimal `json:"total_amount"`

	Breakdown  []MemberBreakdown `json:"breakdown"`
	Incomplete []OverrideKey     `json:"incomplete,omitempty"`
}

// Compute turns a roster and a generation config into priced line items and
// aggregates. Output order follows input order.
func Compute(members []MemberInput, cfg Config) Result {
	result := Result{
		OnlySocietaryAmount:   decimal.Zero,
		PrincipalSportsAmount: decimal.Zero,
		SecondarySportsAmount: decimal.Zero,
		TotalAmount:           decimal.Zero,
		Breakdown:             []MemberBreakdown{},
	}

	selected := make(map[snowflake.ID]struct{}, len(cfg.SelectedSports))
	for _, id := range cfg.SelectedSports {
		selected[id] = struct{}{}
	}

	for _, member := range members {
		effective := effectiveEnrollments(member.Enrollments, selected)

		var items []LineItem

		if len(effective) == 0 {
			if cfg.IncludeSocietary && member.Societary != nil {
				amount := clampAmount(member.Societary.Price)
				items = append(items, LineItem{
					Type:        ItemTypeSocietary,
					Description: member.Societary.Name,
					Amount:      amount,
				})
				result.OnlySocietaryCount++
				result.OnlySocietaryAmount = result.OnlySocietaryAmount.Add(amount)
			}
		} else {
			societaryBundled := false
			for _, enrollment := range effective {
				price, incomplete := resolvePrice(member.ID, enrollment, cfg.Overrides)

				if enrollment.Principal {
					if incomplete {
						result.Incomplete = append(result.Incomplete, OverrideKey{
							MemberID: member.ID,
							SportID:  enrollment.SportID,
						})
					}
					sportID := enrollment.SportID
					breakdown := ItemBreakdown{
						Items: []BreakdownItem{{
							Type:       ItemTypePrincipal,
							MemberID:   member.ID,
							MemberName: member.Name,
							Concept:    enrollment.SportName,
							Amount:     price,
						}},
					}
					// The societary fee rides the first principal item of the
					// run; it is never billed twice for one member.
					if cfg.IncludeSocietary && member.Societary != nil && !societaryBundled {
						breakdown.Items = append(breakdown.Items, BreakdownItem{
							Type:       ItemTypeSocietary,
							MemberID:   member.ID,
							MemberName: member.Name,
							Concept:    member.Societary.Name,
							Amount:     clampAmount(member.Societary.Price),
						})
						societaryBundled = true
					}
					total := decimal.Zero
					for _, item := range breakdown.Items {
						total = total.Add(item.Amount)
					}
					breakdown.Total = total

					items = append(items, LineItem{
						Type:        ItemTypePrincipal,
						SportID:     &sportID,
						Description: enrollment.SportName,
						Amount:      total,
						Breakdown:   &breakdown,
					})
					result.PrincipalSportsCount++
					result.PrincipalSportsAmount = result.PrincipalSportsAmount.Add(total)
					continue
				}

				if !cfg.IncludeNonPrincipalSports {
					continue
				}
				// Flagged only when billed: an excluded secondary enrollment
				// never reaches the batch, tier or not.
				if incomplete {
					result.Incomplete = append(result.Incomplete, OverrideKey{
						MemberID: member.ID,
						SportID:  enrollment.SportID,
					})
				}
				sportID := enrollment.SportID
				items = append(items, LineItem{
					Type:        ItemTypeSecondary,
					SportID:     &sportID,
					Description: enrollment.SportName,
					Amount:      price,
				})
				result.SecondarySportsCount++
				result.SecondarySportsAmount = result.SecondarySportsAmount.Add(price)
			}
		}

		if len(items) == 0 {
			continue
		}

		result.Breakdown = append(result.Breakdown, MemberBreakdown{
			MemberID:   member.ID,
			MemberName: member.Name,
			MemberDNI:  member.DNI,
			Payments:   items,
		})
	}

	result.TotalPayments = result.OnlySocietaryCount + result.PrincipalSportsCount + result.SecondarySportsCount
	result.TotalAmount = result.OnlySocietaryAmount.
		Add(result.PrincipalSportsAmount).
		Add(result.SecondarySportsAmount)

	return result
}

// effectiveEnrollments intersects a member's enrollments with the selected
// sport set; an empty set selects everything.
func effectiveEnrollments(enrollments []Enrollment, selected map[snowflake.ID]struct{}) []Enrollment {
	if len(selected) == 0 {
		return enrollments
	}
	var effective []Enrollment
	for _, enrollment := range enrollments {
		if _, ok := selected[enrollment.SportID]; ok {
			effective = append(effective, enrollment)
		}
	}
	return effective
}

// resolvePrice applies the override when present, otherwise the bound tier
// price. An enrollment without a tier prices at zero and is reported
// incomplete so validation can refuse persistence upstream.
func resolvePrice(memberID snowflake.ID, enrollment Enrollment, overrides map[OverrideKey]decimal.Decimal) (decimal.Decimal, bool) {
	incomplete := enrollment.Quote == nil

	if override, ok := overrides[OverrideKey{MemberID: memberID, SportID: enrollment.SportID}]; ok {
		return clampAmount(override), incomplete
	}
	if incomplete {
		return decimal.Zero, true
	}
	return clampAmount(enrollment.Quote.Price), false
}

// clampAmount floors negative amounts at zero; a malformed override must not
// produce a negative total.
func clampAmount(amount decimal.Decimal) decimal.Decimal {
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}

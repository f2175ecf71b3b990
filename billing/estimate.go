/*
estimate.go - Forward rent estimates for reporting

PURPOSE:
  Statements and financial reports need a figure for months the generator
  has not materialized yet. The estimator re-derives that figure from the
  SAME rate and proration functions the generator uses, so an estimate for
  a month always equals the row the generator will eventually write.

  Do not reimplement any math here. If reporting needs a new shape of
  number, extend proration.go and call it from both sides.
*/
package billing

import "github.com/shopspring/decimal"

// EstimateMonth returns the expected rent charge for one member and one
// month with no materialized row. ok=false means the month produces no
// charge (no overlap, or the amount rounds to zero).
//
// Numerically identical to the generator's own computation by
// construction: it is the same call.
func EstimateMonth(target Month, start Date, end *Date, rentPPPW decimal.Decimal) (Obligation, bool) {
	return ProrateMonth(target, start, end, rentPPPW)
}

// EstimateRange sums the expected charges for the consecutive months
// [from, to], inclusive. Used by statement projections.
func EstimateRange(from, to Month, start Date, end *Date, rentPPPW decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for m := from; !m.After(to); m = m.Next() {
		if ob, ok := ProrateMonth(m, start, end, rentPPPW); ok {
			total = total.Add(ob.Amount)
		}
	}
	return total
}

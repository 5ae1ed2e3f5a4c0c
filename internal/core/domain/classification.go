package domain

// Classification narrows an account within its type.
type Classification string

const (
	CurrentAsset    Classification = "current-asset"
	FixedAsset      Classification = "fixed-asset"
	NonCurrentAsset Classification = "non-current-asset"
	OtherAsset      Classification = "other-asset"

	CurrentLiability  Classification = "current-liability"
	LongTermLiability Classification = "long-term-liability"
	OtherLiability    Classification = "other-liability"

	OwnerEquity      Classification = "owner-equity"
	RetainedEarnings Classification = "retained-earnings"

	OperatingRevenue    Classification = "operating-revenue"
	NonOperatingRevenue Classification = "non-operating-revenue"

	OperatingExpense    Classification = "operating-expense"
	NonOperatingExpense Classification = "non-operating-expense"
	Tax                 Classification = "tax"
)

var classificationsByType = map[AccountType][]Classification{
	Asset:     {CurrentAsset, FixedAsset, NonCurrentAsset, OtherAsset},
	Liability: {CurrentLiability, LongTermLiability, OtherLiability},
	Equity:    {OwnerEquity, RetainedEarnings},
	Income:    {OperatingRevenue, NonOperatingRevenue},
	Expense:   {OperatingExpense, NonOperatingExpense, Tax},
}

// ClassificationsFor returns the classifications allowed for t, or nil for an unknown type.
func ClassificationsFor(t AccountType) []Classification {
	allowed := classificationsByType[t]
	out := make([]Classification, len(allowed))
	copy(out, allowed)
	return out
}

// ValidFor reports whether c belongs to the set associated with t.
func (c Classification) ValidFor(t AccountType) bool {
	for _, allowed := range classificationsByType[t] {
		if allowed == c {
			return true
		}
	}
	return false
}

package models

// Group is a recurring-merchant cluster. Transactions reference a group via
// GroupID; the group does not own them. MerchantKey is the normalization key
// used to auto-assign matching transactions, including ones imported later.
type Group struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MerchantKey string `json:"merchantKey,omitempty"`

	// AmountKey is the rounded-amount qualifier for amount-specific groups.
	// Empty for merchant-only groups.
	AmountKey string `json:"amountKey,omitempty"`
}

// Matches reports whether a transaction with the given normalization key and
// rounded amount belongs to this group.
func (g *Group) Matches(merchantKey, amountKey string) bool {
	if g.MerchantKey == "" || g.MerchantKey != merchantKey {
		return false
	}
	if g.AmountKey != "" && g.AmountKey != amountKey {
		return false
	}
	return true
}

package models

// Category labels form a fixed closed set. CategoryFees and
// CategoryEducation are matched by signature regexes ahead of the merchant
// lookup table; CategoryOther is the default.
const (
	CategoryFees          = "Fees"
	CategoryEducation     = "Education"
	CategoryGroceries     = "Groceries"
	CategoryFood          = "Food & Dining"
	CategoryTransport     = "Transport"
	CategoryEntertainment = "Entertainment"
	CategoryShopping      = "Shopping"
	CategoryTravel        = "Travel"
	CategoryUtilities     = "Utilities"
	CategoryOther         = "Other"
)

// Categories lists every valid category label.
var Categories = []string{
	CategoryFees,
	CategoryEducation,
	CategoryGroceries,
	CategoryFood,
	CategoryTransport,
	CategoryEntertainment,
	CategoryShopping,
	CategoryTravel,
	CategoryUtilities,
	CategoryOther,
}

// DefaultCurrency is the statement currency context when none is detected.
const DefaultCurrency = "SGD"

// DefaultBank is the issuing bank of the reference statement grammar.
const DefaultBank = "Standard Chartered Bank (Singapore)"

// TemplateSCBSmartV1 identifies the Standard Chartered Smart Credit Card
// statement grammar.
const TemplateSCBSmartV1 = "scb_smart_v1"

// Package classify assigns spending categories to transactions. Rules fire
// in fixed precedence order: the fee signature first, then the education
// signature, then the merchant keyword table, then the fallback category.
// The keyword table can be extended from a YAML overrides file.
package classify

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	"billbuddy/statements/internal/logging"
	"billbuddy/statements/internal/models"
	"billbuddy/statements/internal/parsererror"

	"gopkg.in/yaml.v3"
)

var (
	// Fee wording anywhere in the description. Checked before everything
	// else so "UNIVERSITY LATE FEE" lands in Fees, not Education.
	feeRe = regexp.MustCompile(`(?i)\b(FEE|FEES|CHARGE|CHARGES|INTEREST|LATE\s+PAYMENT|ANNUAL\s+MEMBERSHIP)\b`)

	// School and tuition wording.
	educationRe = regexp.MustCompile(`(?i)\b(SCHOOL|UNIVERSITY|COLLEGE|TUITION|POLYTECHNIC|KINDERGARTEN|ENRICHMENT|CAMPUS)\b`)
)

// keywordRule maps a merchant substring to a category. Order matters: the
// first matching rule wins.
type keywordRule struct {
	Keyword  string `yaml:"keyword"`
	Category string `yaml:"category"`
}

// defaultRules cover common Singapore merchants.
var defaultRules = []keywordRule{
	{"FAIRPRICE", models.CategoryGroceries},
	{"NTUC", models.CategoryGroceries},
	{"COLD STORAGE", models.CategoryGroceries},
	{"SHENG SIONG", models.CategoryGroceries},
	{"GIANT", models.CategoryGroceries},
	{"CHEERS", models.CategoryGroceries},
	{"7-ELEVEN", models.CategoryGroceries},
	{"KOPITIAM", models.CategoryFood},
	{"MCDONALD", models.CategoryFood},
	{"KFC", models.CategoryFood},
	{"STARBUCKS", models.CategoryFood},
	{"TOAST BOX", models.CategoryFood},
	{"YA KUN", models.CategoryFood},
	{"FOODPANDA", models.CategoryFood},
	{"DELIVEROO", models.CategoryFood},
	{"GRABFOOD", models.CategoryFood},
	{"RESTAURANT", models.CategoryFood},
	{"CAFE", models.CategoryFood},
	{"BAKERY", models.CategoryFood},
	{"MRT", models.CategoryTransport},
	{"TRANSIT", models.CategoryTransport},
	{"EZ-LINK", models.CategoryTransport},
	{"GRAB", models.CategoryTransport},
	{"GOJEK", models.CategoryTransport},
	{"COMFORT", models.CategoryTransport},
	{"TADA", models.CategoryTransport},
	{"SHELL", models.CategoryTransport},
	{"CALTEX", models.CategoryTransport},
	{"ESSO", models.CategoryTransport},
	{"NETFLIX", models.CategoryEntertainment},
	{"SPOTIFY", models.CategoryEntertainment},
	{"DISNEY", models.CategoryEntertainment},
	{"CINEMA", models.CategoryEntertainment},
	{"GOLDEN VILLAGE", models.CategoryEntertainment},
	{"SHAW", models.CategoryEntertainment},
	{"STEAM", models.CategoryEntertainment},
	{"SHOPEE", models.CategoryShopping},
	{"LAZADA", models.CategoryShopping},
	{"AMAZON", models.CategoryShopping},
	{"QOO10", models.CategoryShopping},
	{"UNIQLO", models.CategoryShopping},
	{"IKEA", models.CategoryShopping},
	{"TAKASHIMAYA", models.CategoryShopping},
	{"AIRLINE", models.CategoryTravel},
	{"AIRLINES", models.CategoryTravel},
	{"SINGAPORE AIR", models.CategoryTravel},
	{"SCOOT", models.CategoryTravel},
	{"AGODA", models.CategoryTravel},
	{"BOOKING.COM", models.CategoryTravel},
	{"AIRBNB", models.CategoryTravel},
	{"HOTEL", models.CategoryTravel},
	{"SP SERVICES", models.CategoryUtilities},
	{"SINGTEL", models.CategoryUtilities},
	{"STARHUB", models.CategoryUtilities},
	{"M1 ", models.CategoryUtilities},
	{"CIRCLES.LIFE", models.CategoryUtilities},
}

// rulesFile is the overrides file shape.
type rulesFile struct {
	Rules []keywordRule `yaml:"rules"`
}

// Classifier resolves categories for merchant descriptions. Safe for
// concurrent use once built.
type Classifier struct {
	mu    sync.RWMutex
	rules []keywordRule
	log   logging.Logger

	// Suggester, when set, is consulted for merchants the rule table
	// cannot place. Its failures degrade to the fallback category.
	Suggester Suggester
}

// New builds a classifier with the built-in rule table.
func New(log logging.Logger) *Classifier {
	if log == nil {
		log = logging.GetLogger()
	}
	rules := make([]keywordRule, len(defaultRules))
	copy(rules, defaultRules)
	return &Classifier{rules: rules, log: log}
}

// LoadOverrides prepends rules from a YAML file so user rules win over the
// built-ins.
func (c *Classifier) LoadOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading category overrides: %w", err)
	}

	var file rulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return &parsererror.InvalidFormatError{
			FilePath:       path,
			ExpectedFormat: "YAML rules list",
			Msg:            err.Error(),
		}
	}

	valid := make([]keywordRule, 0, len(file.Rules))
	for _, r := range file.Rules {
		if r.Keyword == "" || r.Category == "" {
			c.log.Warn("Skipping category override with empty keyword or category",
				logging.Field{Key: logging.FieldFile, Value: path})
			continue
		}
		r.Keyword = strings.ToUpper(r.Keyword)
		valid = append(valid, r)
	}

	c.mu.Lock()
	c.rules = append(valid, c.rules...)
	c.mu.Unlock()

	c.log.Info("Loaded category overrides",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(valid)})
	return nil
}

// Categorize resolves the category for one merchant description.
func (c *Classifier) Categorize(merchant string) string {
	if feeRe.MatchString(merchant) {
		return models.CategoryFees
	}
	if educationRe.MatchString(merchant) {
		return models.CategoryEducation
	}

	upper := strings.ToUpper(merchant)
	c.mu.RLock()
	rules := c.rules
	c.mu.RUnlock()
	for _, r := range rules {
		if strings.Contains(upper, r.Keyword) {
			return r.Category
		}
	}

	if c.Suggester != nil {
		if category, ok := c.suggest(merchant); ok {
			return category
		}
	}
	return models.CategoryOther
}

func (c *Classifier) suggest(merchant string) (string, bool) {
	category, err := c.Suggester.Suggest(merchant)
	if err != nil {
		c.log.WithError(err).Warn("Category suggestion failed",
			logging.Field{Key: logging.FieldMerchant, Value: merchant})
		return "", false
	}
	for _, known := range models.Categories {
		if strings.EqualFold(category, known) {
			return known, true
		}
	}
	c.log.Debug("Suggested category not in the known set",
		logging.Field{Key: logging.FieldCategory, Value: category})
	return "", false
}

var digitRe = regexp.MustCompile(`\d`)

// NormalizeMerchant builds the grouping key: uppercase, every digit replaced
// by a placeholder so store numbers and terminal IDs collapse together, and
// whitespace runs reduced to one space.
func NormalizeMerchant(merchant string) string {
	key := strings.ToUpper(strings.TrimSpace(merchant))
	key = digitRe.ReplaceAllString(key, "#")
	return strings.Join(strings.Fields(key), " ")
}

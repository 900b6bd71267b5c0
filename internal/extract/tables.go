package extract

import (
	"regexp"
	"strconv"
	"strings"

	"billbuddy/statements/internal/logging"
	"billbuddy/statements/internal/models"
	"billbuddy/statements/internal/normalize"
)

// Section tables live below a heading line; rows are matched only after it.
var (
	instalmentRowRe = regexp.MustCompile(`(?i)^\s*(\d{4}[-\s]?[\dX*]{4}[-\s]?[\dX*]{4}[-\s]?\d{4})\s+(.+?)\s+(\d+)\s*/\s*(\d+)\s+(\d+)\s+\(?([\d,]+\.\d{2})\)?\s+\(?([\d,]+\.\d{2})\)?\s+\(?([\d,]+\.\d{2})\)?\s*$`)
	rewardsRowRe    = regexp.MustCompile(`(?i)^\s*(\d{4}[-\s]?[\dX*]{4}[-\s]?[\dX*]{4}[-\s]?\d{4})\s+([\d,]+)\s+([\d,]+)\s+([\d,]+)\s+([\d,]+)\s+([\d,]+)\s+(\d{1,2})\s+([A-Za-z]{3,9})\s+(\d{4})\s*$`)

	pointsAwardedRe = regexp.MustCompile(`(?i)Points\s+Awarded(?:\s+in\s+this\s+Statement)?\s*:?\s*([\d,]+)`)
	pointsForwardRe = regexp.MustCompile(`(?i)Points\s+Brought\s+Forward\s*:?\s*([\d,]+)`)
	pointsUsedRe    = regexp.MustCompile(`(?i)Points\s+Used\s+or\s+Expired\s*:?\s*([\d,]+)`)
	pointsAdjustRe  = regexp.MustCompile(`(?i)Points\s+Adjustment\s*:?\s*([\d,]+)`)
	pointsAvailRe   = regexp.MustCompile(`(?i)Points\s+Available\s*:?\s*([\d,]+)`)
)

const rewardsAnchor = "REWARDS POINTS SUMMARY"

// Instalments extracts the instalment plan table. Statements without the
// section yield an empty slice.
func Instalments(doc normalize.Document, log logging.Logger) []models.Instalment {
	if log == nil {
		log = logging.GetLogger()
	}

	start := sectionStart(doc.Lines, "INSTALMENT")
	if start < 0 {
		log.Debug("No instalment section found")
		return nil
	}

	var plans []models.Instalment
	for _, line := range doc.Lines[start+1:] {
		m := instalmentRowRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		principal, ok := normalize.ParseMoney(m[6])
		if !ok {
			continue
		}
		billed, _ := strconv.Atoi(m[3])
		total, _ := strconv.Atoi(m[4])
		remaining, _ := strconv.Atoi(m[5])
		monthly, _ := normalize.ParseMoney(m[7])
		outstanding, _ := normalize.ParseMoney(m[8])

		plans = append(plans, models.Instalment{
			CardMasked:         m[1],
			Merchant:           strings.TrimSpace(m[2]),
			Billed:             billed,
			Total:              total,
			RemainingMonths:    remaining,
			PrincipalAmount:    principal,
			CurrentMonthBilled: monthly,
			RemainingPrincipal: outstanding,
		})
	}
	return plans
}

// Rewards extracts the rewards points section: the summary counters from
// the collapsed view and the per-card rows below the section heading.
func Rewards(doc normalize.Document, log logging.Logger) models.RewardsSummary {
	if log == nil {
		log = logging.GetLogger()
	}

	summary := models.RewardsSummary{
		TotalAwarded:   points(doc.Collapsed, pointsAwardedRe),
		BroughtForward: points(doc.Collapsed, pointsForwardRe),
		UsedOrExpired:  points(doc.Collapsed, pointsUsedRe),
		Adjustment:     points(doc.Collapsed, pointsAdjustRe),
		TotalAvailable: points(doc.Collapsed, pointsAvailRe),
	}

	start := sectionStart(doc.Lines, rewardsAnchor)
	if start < 0 {
		return summary
	}

	for _, line := range doc.Lines[start+1:] {
		m := rewardsRowRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		row := models.RewardsByCard{
			CardMasked:      m[1],
			PreviousBalance: parsePoints(m[2]),
			Earned:          parsePoints(m[3]),
			Redeemed:        parsePoints(m[4]),
			Adjustment:      parsePoints(m[5]),
			CurrentBalance:  parsePoints(m[6]),
		}
		if expiry, ok := normalize.ParseDayMonthYear(m[7], m[8], m[9]); ok {
			row.ExpiryDate = expiry
		}
		summary.ByCard = append(summary.ByCard, row)
	}
	return summary
}

// sectionStart finds the first line containing the heading keyword.
func sectionStart(lines []string, keyword string) int {
	for i, line := range lines {
		if strings.Contains(strings.ToUpper(line), keyword) {
			return i
		}
	}
	return -1
}

func points(collapsed string, re *regexp.Regexp) int {
	m := re.FindStringSubmatch(collapsed)
	if m == nil {
		return 0
	}
	return parsePoints(m[1])
}

func parsePoints(value string) int {
	n, err := strconv.Atoi(strings.ReplaceAll(value, ",", ""))
	if err != nil {
		return 0
	}
	return n
}

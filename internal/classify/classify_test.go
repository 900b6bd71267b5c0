package classify

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"billbuddy/statements/internal/logging"
	"billbuddy/statements/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorizePrecedence(t *testing.T) {
	c := New(&logging.MockLogger{})

	tests := []struct {
		name     string
		merchant string
		want     string
	}{
		{"fee beats education", "UNIVERSITY LATE FEE", models.CategoryFees},
		{"education", "NATIONAL UNIVERSITY OF SG", models.CategoryEducation},
		{"keyword groceries", "NTUC FAIRPRICE BEDOK", models.CategoryGroceries},
		{"keyword transport", "BUS/MRT 109238471", models.CategoryTransport},
		{"keyword entertainment", "NETFLIX.COM", models.CategoryEntertainment},
		{"interest charge", "INTEREST CHARGED ON PURCHASES", models.CategoryFees},
		{"unknown", "ZZYZX TRADING", models.CategoryOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Categorize(tt.merchant))
		})
	}
}

func TestLoadOverridesWinsOverBuiltins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.yaml")
	content := "rules:\n" +
		"  - keyword: NETFLIX\n" +
		"    category: Utilities\n" +
		"  - keyword: \"\"\n" +
		"    category: Shopping\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	log := &logging.MockLogger{}
	c := New(log)
	require.NoError(t, c.LoadOverrides(path))

	assert.Equal(t, models.CategoryUtilities, c.Categorize("NETFLIX.COM"))
	assert.True(t, log.HasMessage("Skipping category override with empty keyword or category"))
}

func TestLoadOverridesRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\n\t- bad"), 0600))

	c := New(&logging.MockLogger{})
	assert.Error(t, c.LoadOverrides(path))
}

type stubSuggester struct {
	category string
	err      error
}

func (s *stubSuggester) Suggest(string) (string, error) { return s.category, s.err }

func TestSuggesterOnlyConsultedForUnknownMerchants(t *testing.T) {
	c := New(&logging.MockLogger{})
	c.Suggester = &stubSuggester{category: models.CategoryTravel}

	// Rule match never reaches the suggester.
	assert.Equal(t, models.CategoryGroceries, c.Categorize("NTUC FAIRPRICE"))
	// Unknown merchant takes the suggestion.
	assert.Equal(t, models.CategoryTravel, c.Categorize("ZZYZX TRADING"))
}

func TestSuggesterFailureFallsBackToOther(t *testing.T) {
	c := New(&logging.MockLogger{})
	c.Suggester = &stubSuggester{err: errors.New("quota exceeded")}

	assert.Equal(t, models.CategoryOther, c.Categorize("ZZYZX TRADING"))
}

func TestSuggesterUnknownCategoryIgnored(t *testing.T) {
	c := New(&logging.MockLogger{})
	c.Suggester = &stubSuggester{category: "Cryptocurrency"}

	assert.Equal(t, models.CategoryOther, c.Categorize("ZZYZX TRADING"))
}

func TestNormalizeMerchant(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Grab *Trip 12345", "GRAB *TRIP #####"},
		{"  NTUC   FairPrice  ", "NTUC FAIRPRICE"},
		{"CHEERS - PARKLANE S", "CHEERS - PARKLANE S"},
		{"7-ELEVEN STORE 042", "#-ELEVEN STORE ###"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeMerchant(tt.input))
		})
	}
}

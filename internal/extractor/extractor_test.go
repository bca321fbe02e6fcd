package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract_MarkedForm(t *testing.T) {
	tickers := Extract("$NVDA surged after hours")
	assert.Contains(t, tickers, "NVDA")
}

func TestExtract_MarkedFormBypassesDenylist(t *testing.T) {
	// CASH is denylisted as a bare token, but the sigil overrides that.
	assert.Contains(t, Extract("$CASH is my favorite meme"), "CASH")
	assert.NotContains(t, Extract("the CASH is low"), "CASH")
}

func TestExtract_ContextualForm(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"stock keyword", "AAPL stock is climbing", "AAPL"},
		{"earnings keyword", "NVDA earnings tomorrow", "NVDA"},
		{"calls keyword", "grabbed some MSFT calls", "MSFT"},
		{"price keyword", "TSLA price looks rough", "TSLA"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, Extract(tt.text), tt.want)
		})
	}
}

func TestExtract_ActionForm(t *testing.T) {
	tickers := Extract("bought AAPL today")
	assert.Contains(t, tickers, "AAPL")

	tickers = Extract("thinking about selling AMZN before the report")
	assert.Contains(t, tickers, "AMZN")
}

func TestExtract_DenylistedWordsRejected(t *testing.T) {
	assert.Empty(t, Extract("this that with what"))
	assert.Empty(t, Extract("THIS THAT WITH WHAT"))
	assert.Empty(t, Extract("THE CASH IS LOW"))
}

func TestExtract_FinancialContextSentence(t *testing.T) {
	tickers := Extract("NVDA stock target raised, buying MSFT calls")
	assert.Contains(t, tickers, "NVDA")
	assert.Contains(t, tickers, "MSFT")
}

func TestExtract_StandaloneWithContext(t *testing.T) {
	// Financial context lowers the bar to any 2+ letter token.
	tickers := Extract("the market is wild today, GM looks cheap")
	assert.Contains(t, tickers, "GM")
}

func TestExtract_StandaloneWithoutContext(t *testing.T) {
	// No finance context: short tokens are suppressed, 4+ letter unknown
	// tokens still pass.
	tickers := Extract("my friend AB went hiking")
	assert.NotContains(t, tickers, "AB")

	tickers = Extract("talked to my buddy about PLTR yesterday")
	assert.Contains(t, tickers, "PLTR")
}

func TestExtract_SupplementalWordsSuppressedWithoutContext(t *testing.T) {
	tickers := Extract("WORK and PLAY all day")
	assert.NotContains(t, tickers, "WORK")
	assert.NotContains(t, tickers, "PLAY")
}

func TestExtract_Deterministic(t *testing.T) {
	text := "buying MSFT calls while $NVDA and AAPL stock rip, GME to the moon"
	first := Extract(text)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Extract(text))
	}
}

func TestExtract_EmptyAndNonMatching(t *testing.T) {
	assert.Empty(t, Extract(""))
	assert.Empty(t, Extract("just a plain lowercase sentence"))
}

func TestExtract_ResultSortedAndDeduped(t *testing.T) {
	tickers := Extract("$TSLA $TSLA TSLA stock, bought TSLA")
	assert.Equal(t, []string{"TSLA"}, tickers)
}

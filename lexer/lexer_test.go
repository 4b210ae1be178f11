package lexer

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func kinds(toks []Token) []Kind {
	out := make([]Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestScanAllPriceLine(t *testing.T) {
	toks, err := New([]byte("P 2016-05-20 17:05:30 TSLA $220.28"), 0, nil).ScanAll()
	assert.NoError(t, err)
	assert.Equal(t, []Kind{IDENT, DATE, TIME, IDENT, DOLLAR, NUMBER}, kinds(toks))
	assert.Equal(t, "220.28", toks[5].Text)
}

func TestScanAllPostingLine(t *testing.T) {
	toks, err := New([]byte("Expenses:Transit:Taxi     $8.19"), 0, nil).ScanAll()
	assert.NoError(t, err)
	assert.Equal(t, []Kind{IDENT, DOLLAR, NUMBER}, kinds(toks))
	assert.Equal(t, "Expenses:Transit:Taxi", toks[0].Text)
}

func TestScanAllStripsThousandsSeparators(t *testing.T) {
	toks, err := New([]byte("1,234.50"), 0, nil).ScanAll()
	assert.NoError(t, err)
	assert.Equal(t, 1, len(toks))
	assert.Equal(t, "1234.50", toks[0].Text)
}

func TestScanAllNegativeNumber(t *testing.T) {
	toks, err := New([]byte("-40 SCHH"), 0, nil).ScanAll()
	assert.NoError(t, err)
	assert.Equal(t, []Kind{NUMBER, IDENT}, kinds(toks))
	assert.Equal(t, "-40", toks[0].Text)
}

func TestScanAllQuotedString(t *testing.T) {
	toks, err := New([]byte(`"Lamb tagine with wine"`), 0, nil).ScanAll()
	assert.NoError(t, err)
	assert.Equal(t, []Kind{STRING}, kinds(toks))
	assert.Equal(t, "Lamb tagine with wine", toks[0].Text)
}

func TestScanAllUnterminatedStringErrors(t *testing.T) {
	_, err := New([]byte(`"oops`), 0, nil).ScanAll()
	assert.Error(t, err)
}

func TestScanAllSpansAreOffsetByBase(t *testing.T) {
	toks, err := New([]byte("$8.19"), 100, nil).ScanAll()
	assert.NoError(t, err)
	assert.Equal(t, 100, toks[0].Span.Start)
}

func TestScanAllLotAndPriceMarkers(t *testing.T) {
	toks, err := New([]byte("{$39.90} [2016-01-05] @ $40.1513"), 0, nil).ScanAll()
	assert.NoError(t, err)
	assert.Equal(t, []Kind{LBRACE, DOLLAR, NUMBER, RBRACE, LBRACKET, DATE, RBRACKET, AT, DOLLAR, NUMBER}, kinds(toks))
}

func TestScanAllTagsAndLinks(t *testing.T) {
	toks, err := New([]byte("Lunch #food ^receipt-042"), 0, nil).ScanAll()
	assert.NoError(t, err)
	assert.Equal(t, []Kind{IDENT, HASH, IDENT, CARET, IDENT}, kinds(toks))
	assert.Equal(t, "food", toks[2].Text)
	assert.Equal(t, "receipt-042", toks[4].Text)
}

func TestScanAllSignedZoneOffset(t *testing.T) {
	toks, err := New([]byte("P 2016-05-20 17:05:30 +02:00 TSLA $220.28"), 0, nil).ScanAll()
	assert.NoError(t, err)
	assert.Equal(t, []Kind{IDENT, DATE, TIME, ZONE, IDENT, DOLLAR, NUMBER}, kinds(toks))
	assert.Equal(t, "+02:00", toks[3].Text)
}

func TestScanAllInternerDeduplicates(t *testing.T) {
	in := NewInterner(8)
	a := in.Intern("USD")
	b := in.Intern("USD")
	assert.Equal(t, a, b)
}

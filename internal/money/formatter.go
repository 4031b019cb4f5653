// Package money renders integer minor-unit amounts for display.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Options mirror the switches price displays need.
type Options struct {
	// NoCentsIfWhole drops the minor units when they are all zero: "$24" instead of "$24.00".
	NoCentsIfWhole bool
	// Symbol prefixes the currency symbol.
	Symbol bool
}

// Formatter converts an amount in the currency's smallest unit to a display string.
type Formatter interface {
	Format(amount int64, currency string, opts Options) string
}

type currencyInfo struct {
	symbol   string
	decimals int32
}

var currencies = map[string]currencyInfo{
	"usd": {"$", 2},
	"eur": {"€", 2},
	"gbp": {"£", 2},
	"jpy": {"¥", 0},
	"krw": {"₩", 0},
	"inr": {"₹", 2},
	"aud": {"A$", 2},
	"cad": {"C$", 2},
	"nzd": {"NZ$", 2},
	"sgd": {"S$", 2},
	"hkd": {"HK$", 2},
	"brl": {"R$", 2},
	"chf": {"CHF ", 2},
	"pln": {"zł", 2},
	"idr": {"Rp", 2},
	"php": {"₱", 2},
	"ils": {"₪", 2},
	"zar": {"R", 2},
}

type decimalFormatter struct{}

// NewFormatter returns the default Formatter backed by decimal arithmetic.
func NewFormatter() Formatter {
	return decimalFormatter{}
}

func (decimalFormatter) Format(amount int64, currency string, opts Options) string {
	info := lookup(currency)

	value := decimal.New(amount, -info.decimals)
	places := info.decimals
	if opts.NoCentsIfWhole && value.Equal(value.Truncate(0)) {
		places = 0
	}

	text := value.Abs().StringFixed(places)
	text = groupThousands(text)

	var b strings.Builder
	if value.IsNegative() {
		b.WriteByte('-')
	}
	if opts.Symbol {
		b.WriteString(info.symbol)
	}
	b.WriteString(text)
	return b.String()
}

// Decimals returns the number of minor-unit digits for currency.
func Decimals(currency string) int32 {
	return lookup(currency).decimals
}

func lookup(currency string) currencyInfo {
	code := strings.ToLower(strings.TrimSpace(currency))
	if info, ok := currencies[code]; ok {
		return info
	}
	return currencyInfo{symbol: strings.ToUpper(code) + " ", decimals: 2}
}

func groupThousands(text string) string {
	whole, frac, hasFrac := strings.Cut(text, ".")
	if len(whole) <= 3 {
		return text
	}

	var b strings.Builder
	lead := len(whole) % 3
	if lead > 0 {
		b.WriteString(whole[:lead])
	}
	for i := lead; i < len(whole); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(whole[i : i+3])
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

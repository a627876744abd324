package transformers

import (
	"regexp"
	"strings"

	"onchain-re-lending/internal/models"
)

const cityPrefix = "新北市"

var (
	districtPattern = regexp.MustCompile(`^([^市]+?[區鎮鄉市])`)
	alleyPattern    = regexp.MustCompile(`^([^０-９0-9]*?[街路道][^巷]*?巷)`)
	streetPattern   = regexp.MustCompile(`^([^０-９0-9]*?[街路道])`)
)

type addressTransformer struct{}

func NewAddressTransformer() AddressTransformer {
	return &addressTransformer{}
}

// ParseAddress splits a New Taipei address into district and street tokens.
// The street is kept in the dataset's full-width numerals, with a half-width copy.
func (t *addressTransformer) ParseAddress(address string) models.AddressComponents {
	clean := strings.TrimPrefix(strings.TrimSpace(address), cityPrefix)

	var components models.AddressComponents
	m := districtPattern.FindStringSubmatch(clean)
	if m == nil {
		return components
	}
	components.District = m[1]

	rest := strings.Replace(clean, components.District, "", 1)
	if alley := alleyPattern.FindStringSubmatch(rest); alley != nil {
		components.StreetFullWidth = strings.TrimSpace(alley[1])
	} else if street := streetPattern.FindStringSubmatch(rest); street != nil {
		components.StreetFullWidth = strings.TrimSpace(street[1])
	}

	if components.StreetFullWidth != "" {
		components.StreetHalfWidth = ToHalfWidthDigits(components.StreetFullWidth)
	}
	return components
}

// MainStreet drops any lane/alley qualifier, keeping the token through 街/路/道.
// Returns "" when the token has no street suffix before a numeral.
func (t *addressTransformer) MainStreet(street string) string {
	if m := streetPattern.FindStringSubmatch(street); m != nil {
		return m[1]
	}
	return ""
}

// ToHalfWidthDigits maps U+FF10..U+FF19 to ASCII digits and leaves other runes alone.
func ToHalfWidthDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '０' && r <= '９' {
			return r - 0xFEE0
		}
		return r
	}, s)
}

// ToFullWidthDigits is the inverse of ToHalfWidthDigits on ASCII digits.
func ToFullWidthDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r + 0xFEE0
		}
		return r
	}, s)
}

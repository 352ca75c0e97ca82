package inventory

import (
	"math/rand/v2"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultSkuLength is the total length of generated SKU codes.
const DefaultSkuLength = 11

var asciiFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// GenerateSku derives a stock-keeping code of the form BRA-NAM-ddd from a
// brand and product name. Both parts are transliterated to uppercase ASCII;
// the brand keeps letters only, the name keeps letters and digits. The code
// is padded with random decimal digits up to length. Uniqueness is enforced
// by the sku_code constraint, not here; callers retry on collision.
func GenerateSku(brand, productName string, length int) string {
	if length < DefaultSkuLength {
		length = DefaultSkuLength
	}

	brandPart := takePrefix(normalizeAlpha(brand), 3)
	namePart := takePrefix(normalizeAlnum(productName), 3)

	var sb strings.Builder
	sb.WriteString(brandPart)
	sb.WriteByte('-')
	sb.WriteString(namePart)
	sb.WriteByte('-')
	for sb.Len() < length {
		sb.WriteByte(byte('0' + rand.IntN(10)))
	}
	return sb.String()
}

func transliterate(value string) string {
	folded, _, err := transform.String(asciiFold, value)
	if err != nil {
		folded = value
	}
	return strings.ToUpper(folded)
}

func normalizeAlpha(value string) string {
	var sb strings.Builder
	for _, r := range transliterate(value) {
		if r >= 'A' && r <= 'Z' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func normalizeAlnum(value string) string {
	var sb strings.Builder
	for _, r := range transliterate(value) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func takePrefix(value string, n int) string {
	if len(value) <= n {
		return value
	}
	return value[:n]
}

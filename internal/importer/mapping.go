package importer

import (
	"math/rand/v2"
	"strings"

	"plantstore/internal/domain"

	"github.com/shopspring/decimal"
)

// Column names of the plant dataset. Hard-coded on purpose: this importer
// serves exactly one file format.
const (
	colCategory    = "kategori"
	colName        = "nama_tanaman"
	colDifficulty  = "tingkat_kesulitan"
	colLight       = "kebutuhan_cahaya"
	colTags        = "tags"
	colDescription = "deskripsi"
)

// MapDifficulty classifies the free-text difficulty column. Missing or
// unrecognized text falls back to Easy; the mapping is total and never errors.
func MapDifficulty(s string) domain.DifficultyLevel {
	s = strings.ToLower(s)
	switch {
	case strings.Contains(s, "sulit"):
		return domain.DifficultyHard
	case strings.Contains(s, "sedang"):
		return domain.DifficultyMedium
	default:
		return domain.DifficultyEasy
	}
}

// MapLight classifies the free-text light requirement column. Missing or
// unrecognized text falls back to Medium.
func MapLight(s string) domain.LightRequirement {
	s = strings.ToLower(s)
	switch {
	case strings.Contains(s, "tinggi"):
		return domain.LightHigh
	case strings.Contains(s, "rendah"):
		return domain.LightLow
	default:
		return domain.LightMedium
	}
}

// ParseTags splits the comma-separated tag column, trimming each token. Empty
// tokens between commas are kept as-is.
func ParseTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		tags = append(tags, strings.TrimSpace(part))
	}
	return tags
}

const skuAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateSKU builds an XXX-YYYYY code: the first three characters of the
// plant name uppercased (padded with X for shorter names) joined to five
// random base-36 characters. Uniqueness is not guaranteed and not checked.
func GenerateSKU(name string) string {
	prefix := []rune(strings.ToUpper(name))
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	for len(prefix) < 3 {
		prefix = append(prefix, 'X')
	}

	suffix := make([]byte, 5)
	for i := range suffix {
		suffix[i] = skuAlphabet[rand.IntN(len(skuAlphabet))]
	}

	return string(prefix) + "-" + string(suffix)
}

// RandomPrice draws a placeholder price in [10.00, 100.00) with exactly two
// decimal digits. The dataset carries no price column; this stays synthetic
// until it does.
func RandomPrice() decimal.Decimal {
	cents := int64(rand.IntN(9000) + 1000)
	return decimal.New(cents, -2)
}

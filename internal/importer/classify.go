package importer

import (
	"math"
	"strings"
	"unicode"

	"tyrehub/catalog/internal/common"
	"tyrehub/catalog/internal/config"
	"tyrehub/catalog/internal/constants"
)

// Classifier maps the feed's free-text product type to a tyre type tag.
// Rules are tried in order; the first whose substring occurs in the text wins.
type Classifier struct {
	rules []config.TypeRule
}

func NewClassifier(rules []config.TypeRule) *Classifier {
	folded := make([]config.TypeRule, 0, len(rules))
	for _, r := range rules {
		needle := common.Fold(strings.TrimSpace(r.Contains))
		if needle == "" {
			continue
		}
		if r.Word {
			if needle = words(needle); needle == "" {
				continue
			}
		}
		folded = append(folded, config.TypeRule{
			Contains: needle,
			Tag:      strings.ToUpper(strings.TrimSpace(r.Tag)),
			Word:     r.Word,
		})
	}
	return &Classifier{rules: folded}
}

// Classify compares case- and diacritic-insensitively. Unmatched text is NEW.
func (c *Classifier) Classify(text string) string {
	folded := common.Fold(text)
	if folded == "" {
		return constants.TyreTypeNew
	}
	padded := words(folded)
	for _, r := range c.rules {
		haystack := folded
		if r.Word {
			haystack = padded
		}
		if strings.Contains(haystack, r.Contains) {
			return r.Tag
		}
	}
	return constants.TyreTypeNew
}

// words rewrites s as its letter and digit runs, each surrounded by single
// spaces, so " sh " only occurs where "sh" is a whole word.
func words(s string) string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(fields) == 0 {
		return ""
	}
	return " " + strings.Join(fields, " ") + " "
}

// DepthBucket groups second-hand tyres by remaining tread:
// floor(depth / window). Everything else has no bucket.
func DepthBucket(tyreType string, depthMM *float64, windowMM float64) *int {
	if tyreType != constants.TyreTypeSH || depthMM == nil || windowMM <= 0 {
		return nil
	}
	b := int(math.Floor(*depthMM / windowMM))
	return &b
}

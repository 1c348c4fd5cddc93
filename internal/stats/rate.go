package stats

import (
	"fmt"

	"github.com/vytor/matchlog/internal/i18n"
)

// FormatRate renders num/den as a percentage with one decimal, or the
// translated "not applicable" string when den is zero.
func FormatRate(num, den int, t i18n.Translator) string {
	if den <= 0 {
		return notApplicable(t)
	}
	return fmt.Sprintf("%.1f%%", float64(num)/float64(den)*100)
}

func notApplicable(t i18n.Translator) string {
	if t == nil {
		t = i18n.For(i18n.DefaultLanguage)
	}
	return t(i18n.KeyNotApplicable, nil)
}

package cldr

import (
	"github.com/go-playground/locales"
	"github.com/go-playground/locales/ar"
	"github.com/go-playground/locales/be"
	"github.com/go-playground/locales/bg"
	"github.com/go-playground/locales/cs"
	"github.com/go-playground/locales/da"
	"github.com/go-playground/locales/de"
	"github.com/go-playground/locales/el"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/es"
	"github.com/go-playground/locales/et"
	"github.com/go-playground/locales/fi"
	"github.com/go-playground/locales/fr"
	"github.com/go-playground/locales/hr"
	"github.com/go-playground/locales/hu"
	"github.com/go-playground/locales/it"
	"github.com/go-playground/locales/ja"
	"github.com/go-playground/locales/ko"
	"github.com/go-playground/locales/lt"
	"github.com/go-playground/locales/nb"
	"github.com/go-playground/locales/nl"
	"github.com/go-playground/locales/pl"
	"github.com/go-playground/locales/pt"
	"github.com/go-playground/locales/ro"
	"github.com/go-playground/locales/ru"
	"github.com/go-playground/locales/sk"
	"github.com/go-playground/locales/sl"
	"github.com/go-playground/locales/sr"
	"github.com/go-playground/locales/sv"
	"github.com/go-playground/locales/th"
	"github.com/go-playground/locales/tr"
	"github.com/go-playground/locales/uk"
	"github.com/go-playground/locales/vi"
	"github.com/go-playground/locales/zh"
)

type builtinRules struct {
	nplurals   int
	formula    string
	translator func() locales.Translator
}

const (
	formulaOneOther  = "n != 1"
	formulaZeroOne   = "n > 1"
	formulaOnlyOther = "0"
	formulaWestSlav  = "(n == 1) ? 0 : ((n >= 2 && n <= 4) ? 1 : 2)"
	formulaRomanian  = "(n == 1) ? 0 : ((n == 0 || (n % 100 > 0 && n % 100 < 20)) ? 1 : 2)"

	formulaEastSlav = "(n % 10 == 1 && n % 100 != 11) ? 0 : " +
		"((n % 10 >= 2 && n % 10 <= 4 && (n % 100 < 12 || n % 100 > 14)) ? 1 : 2)"

	formulaPolish = "(n == 1) ? 0 : ((n % 10 >= 2 && n % 10 <= 4 && " +
		"(n % 100 < 12 || n % 100 > 14)) ? 1 : 2)"

	formulaArabic = "(n == 0) ? 0 : ((n == 1) ? 1 : ((n == 2) ? 2 : " +
		"((n % 100 >= 3 && n % 100 <= 10) ? 3 : ((n % 100 >= 11) ? 4 : 5))))"

	formulaLithuanian = "(n % 10 == 1 && n % 100 != 11) ? 0 : " +
		"((n % 10 >= 2 && (n % 100 < 10 || n % 100 >= 20)) ? 1 : 2)"

	formulaSlovenian = "(n % 100 == 1) ? 0 : ((n % 100 == 2) ? 1 : " +
		"((n % 100 == 3 || n % 100 == 4) ? 2 : 3))"
)

// builtin is keyed by base language.
var builtin = map[string]builtinRules{
	"ar": {6, formulaArabic, ar.New},
	"be": {3, formulaEastSlav, be.New},
	"bg": {2, formulaOneOther, bg.New},
	"cs": {3, formulaWestSlav, cs.New},
	"da": {2, formulaOneOther, da.New},
	"de": {2, formulaOneOther, de.New},
	"el": {2, formulaOneOther, el.New},
	"en": {2, formulaOneOther, en.New},
	"es": {2, formulaOneOther, es.New},
	"et": {2, formulaOneOther, et.New},
	"fi": {2, formulaOneOther, fi.New},
	"fr": {2, formulaZeroOne, fr.New},
	"hr": {3, formulaEastSlav, hr.New},
	"hu": {2, formulaOneOther, hu.New},
	"it": {2, formulaOneOther, it.New},
	"ja": {1, formulaOnlyOther, ja.New},
	"ko": {1, formulaOnlyOther, ko.New},
	"lt": {3, formulaLithuanian, lt.New},
	"nb": {2, formulaOneOther, nb.New},
	"nl": {2, formulaOneOther, nl.New},
	"pl": {3, formulaPolish, pl.New},
	"pt": {2, formulaZeroOne, pt.New},
	"ro": {3, formulaRomanian, ro.New},
	"ru": {3, formulaEastSlav, ru.New},
	"sk": {3, formulaWestSlav, sk.New},
	"sl": {4, formulaSlovenian, sl.New},
	"sr": {3, formulaEastSlav, sr.New},
	"sv": {2, formulaOneOther, sv.New},
	"th": {1, formulaOnlyOther, th.New},
	"tr": {2, formulaOneOther, tr.New},
	"uk": {3, formulaEastSlav, uk.New},
	"vi": {1, formulaOnlyOther, vi.New},
	"zh": {1, formulaOnlyOther, zh.New},
}

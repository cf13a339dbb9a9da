package ftauth

// countryLanguages maps an ISO 3166-1 alpha-2 country code to the default
// email language for accounts created from that country. Unlisted countries
// fall back to English.
var countryLanguages = map[string]string{
	"MA": "ar",
	"SA": "ar",
	"AE": "ar",
	"EG": "ar",
	"IQ": "ar",
	"FR": "fr",
	"IT": "it",
	"DE": "de",
	"AT": "de",
	"CH": "de",
	"ES": "es",
	"AR": "es",
	"BR": "pt",
	"PT": "pt",
	"TR": "tr",
}

// LanguageForCountry returns the default language for a country code.
func LanguageForCountry(country string) string {
	if lang, ok := countryLanguages[country]; ok {
		return lang
	}
	return "en"
}

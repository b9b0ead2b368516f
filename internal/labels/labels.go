// Package labels resolves symbolic string keys to localized UI text.
// Callers never embed display strings directly; they ask a Provider so
// the language can be swapped without touching rendering code.
package labels

import "time"

// Key identifies one localizable string.
type Key string

const (
	StatsMileageAvg Key = "stats_mileage_avg"
	StatsMileageMin Key = "stats_mileage_min"
	StatsMileageMax Key = "stats_mileage_max"
	StatsDistance   Key = "stats_distance"
	StatsCost       Key = "stats_cost"
	StatsGallons    Key = "stats_gallons"
	StatsPrice      Key = "stats_price"

	UITitle       Key = "ui_title"
	UIAddRecord   Key = "ui_add_record"
	UIRecords     Key = "ui_records"
	UIHiddenBadge Key = "ui_hidden_badge"
)

var catalogs = map[string]map[Key]string{
	"en": {
		StatsMileageAvg: "Average",
		StatsMileageMin: "Minimum",
		StatsMileageMax: "Maximum",
		StatsDistance:   "Distance",
		StatsCost:       "Cost",
		StatsGallons:    "Fuel",
		StatsPrice:      "Price",
		UITitle:         "Fuel Log",
		UIAddRecord:     "Add fill-up",
		UIRecords:       "Fill-ups",
		UIHiddenBadge:   "hidden",
	},
	"it": {
		StatsMileageAvg: "Media",
		StatsMileageMin: "Minimo",
		StatsMileageMax: "Massimo",
		StatsDistance:   "Distanza",
		StatsCost:       "Costo",
		StatsGallons:    "Carburante",
		StatsPrice:      "Prezzo",
		UITitle:         "Registro carburante",
		UIAddRecord:     "Aggiungi rifornimento",
		UIRecords:       "Rifornimenti",
		UIHiddenBadge:   "nascosto",
	},
}

var monthNames = map[string][12]string{
	"en": {"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December"},
	"it": {"Gennaio", "Febbraio", "Marzo", "Aprile", "Maggio", "Giugno",
		"Luglio", "Agosto", "Settembre", "Ottobre", "Novembre", "Dicembre"},
}

// Provider resolves keys for one language.
type Provider struct {
	lang string
}

// NewProvider returns a Provider for the given language code, falling
// back to English when the language has no catalog.
func NewProvider(lang string) *Provider {
	if _, ok := catalogs[lang]; !ok {
		lang = "en"
	}
	return &Provider{lang: lang}
}

// Resolve returns the localized string for key. A missing entry falls
// back to English and finally to the key itself, so lookups are total.
func (p *Provider) Resolve(key Key) string {
	if s, ok := catalogs[p.lang][key]; ok {
		return s
	}
	if s, ok := catalogs["en"][key]; ok {
		return s
	}
	return string(key)
}

// MonthName returns the localized name of a month.
func (p *Provider) MonthName(m time.Month) string {
	names, ok := monthNames[p.lang]
	if !ok {
		names = monthNames["en"]
	}
	if m < time.January || m > time.December {
		return ""
	}
	return names[m-1]
}

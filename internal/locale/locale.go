// Package locale resolves week conventions and weekday display names for a
// requested language. It is the calendar's only locale collaborator; callers
// receive plain values and never depend on the translation machinery.
package locale

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// weekdayKeys maps time.Weekday to the message id of its display name.
var weekdayKeys = [7]string{
	"weekday.sunday",
	"weekday.monday",
	"weekday.tuesday",
	"weekday.wednesday",
	"weekday.thursday",
	"weekday.friday",
	"weekday.saturday",
}

// Provider localizes weekday names from the embedded message files.
type Provider struct {
	bundle *i18n.Bundle
	langs  []string
}

// New loads every embedded active.<lang>.json message file into a bundle.
// English is the fallback language.
func New() (*Provider, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}

	var langs []string
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			continue
		}
		lang := strings.TrimSuffix(strings.TrimPrefix(name, "active."), ".json")
		if lang == "" {
			continue
		}
		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			return nil, fmt.Errorf("load locale %s: %w", name, err)
		}
		langs = append(langs, lang)
	}

	return &Provider{bundle: bundle, langs: langs}, nil
}

// Languages returns the language codes of the loaded message files.
func (p *Provider) Languages() []string {
	return append([]string(nil), p.langs...)
}

// WeekdayLabels returns the seven localized weekday names in display order,
// starting at first. Missing translations fall back to the English name.
func (p *Provider) WeekdayLabels(lang string, first time.Weekday) []string {
	localizer := i18n.NewLocalizer(p.bundle, lang)
	labels := make([]string, 7)
	for i := range labels {
		day := time.Weekday((int(first) + i) % 7)
		msg, err := localizer.Localize(&i18n.LocalizeConfig{MessageID: weekdayKeys[day]})
		if err != nil {
			msg = day.String()
		}
		labels[i] = msg
	}
	return labels
}

// sundayFirstRegions are the territories whose week starts on Sunday,
// per CLDR week data. Everything not listed here or in
// saturdayFirstRegions starts on Monday.
var sundayFirstRegions = map[string]struct{}{
	"AS": {}, "AU": {}, "BD": {}, "BR": {}, "BS": {}, "BT": {}, "BZ": {},
	"CA": {}, "CN": {}, "CO": {}, "DM": {}, "DO": {}, "ET": {}, "GT": {},
	"GU": {}, "HK": {}, "HN": {}, "ID": {}, "IL": {}, "IN": {}, "JM": {},
	"JP": {}, "KE": {}, "KH": {}, "KR": {}, "LA": {}, "MH": {}, "MM": {},
	"MO": {}, "MT": {}, "MX": {}, "MZ": {}, "NI": {}, "NP": {}, "PA": {},
	"PE": {}, "PH": {}, "PK": {}, "PR": {}, "PT": {}, "PY": {}, "SA": {},
	"SG": {}, "SV": {}, "TH": {}, "TT": {}, "TW": {}, "UM": {}, "US": {},
	"VE": {}, "VI": {}, "WS": {}, "YE": {}, "ZA": {}, "ZW": {},
}

// saturdayFirstRegions are the territories whose week starts on Saturday.
var saturdayFirstRegions = map[string]struct{}{
	"AE": {}, "AF": {}, "BH": {}, "DJ": {}, "DZ": {}, "EG": {}, "IQ": {},
	"IR": {}, "JO": {}, "KW": {}, "LY": {}, "OM": {}, "QA": {}, "SD": {},
	"SY": {},
}

// FirstDayOfWeek returns the first day of the week for the given BCP 47
// language tag. Unknown or region-less tags resolve through language
// matching, so "en" yields the en-US convention (Sunday) while "fr" yields
// Monday. Unparseable input defaults to Monday.
func FirstDayOfWeek(lang string) time.Weekday {
	tag, err := language.Parse(lang)
	if err != nil {
		return time.Monday
	}
	region, _ := tag.Region()
	code := region.String()
	if _, ok := sundayFirstRegions[code]; ok {
		return time.Sunday
	}
	if _, ok := saturdayFirstRegions[code]; ok {
		return time.Saturday
	}
	return time.Monday
}

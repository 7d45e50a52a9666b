// Package coerce normalizes raw request-body values into storage-safe typed
// values.  Every writable column of the interventions table has a fixed
// kind, and every kind degrades malformed input to nil instead of failing:
// a bad date or a non-numeric quantity stores NULL, silently.  The only
// rejection this package performs is on unknown field names, which are a
// client bug rather than a sloppy value.
package coerce

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Kind classifies how a raw field value is normalized before storage.
type Kind int

const (
	Text Kind = iota // string or nil
	Date             // calendar date
	TimeOfDay        // HH:MM on today's date, or a full date-time
	Number           // float64 or nil
)

// fieldKinds enumerates every writable column and its kind.  The map is
// the single source of truth: handlers validate body keys against it and
// the repository walks it to build statements.
var fieldKinds = map[string]Kind{
	"pilote_rmec":           Text,
	"type":                  Text,
	"service_demandeur":     Text,
	"date":                  Date,
	"chaine":                Text,
	"equipement":            Text,
	"reference":             Text,
	"symptome":              Text,
	"intervention_demandee": Text,
	"heure_panne":           TimeOfDay,
	"heure_debut":           TimeOfDay,
	"heure_fin":             TimeOfDay,
	"diagnostic":            Text,
	"causes":                Text,
	"travaux":               Text,
	"pieces_rechange":       Text,
	"quantite":              Number,
	"mecanicien":            Text,
	"fin_intervention":      Text,
	"nature_panne":          Text,
	"tps_reponse":           Number,
	"duree_intervention":    Number,
	"disponibilite":         Text,
}

// fieldOrder fixes the column order used for inserts and updates so
// generated SQL is deterministic.
var fieldOrder = []string{
	"pilote_rmec", "type", "service_demandeur", "date", "chaine",
	"equipement", "reference", "symptome", "intervention_demandee",
	"heure_panne", "heure_debut", "heure_fin", "diagnostic", "causes",
	"travaux", "pieces_rechange", "quantite", "mecanicien",
	"fin_intervention", "nature_panne", "tps_reponse",
	"duree_intervention", "disponibilite",
}

// FieldNames returns the writable columns in their canonical order.  The
// returned slice is shared; callers must not mutate it.
func FieldNames() []string { return fieldOrder }

// KindOf reports the kind of a writable column and whether it exists.
func KindOf(name string) (Kind, bool) {
	k, ok := fieldKinds[name]
	return k, ok
}

// ValidateKeys rejects any body key that is not a recognized writable
// column.  Unknown keys are a client error, not something to silently
// drop or insert.
func ValidateKeys(body map[string]any) error {
	for k := range body {
		if _, ok := fieldKinds[k]; !ok {
			return fmt.Errorf("unknown field: %s", k)
		}
	}
	return nil
}

var hhmm = regexp.MustCompile(`^\d{2}:\d{2}$`)

// dateLayouts are tried in order when parsing date and date-time strings.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Value normalizes a raw client value according to kind.  The result is
// nil, string, float64 or time.Time, all directly bindable as SQL
// parameters.  Malformed input never produces an error, only nil.
func Value(kind Kind, raw any) any {
	switch kind {
	case Date:
		return safeDate(raw)
	case TimeOfDay:
		return safeDateTime(raw)
	case Number:
		return safeNumber(raw)
	default:
		return safeText(raw)
	}
}

func safeDate(raw any) any {
	s, ok := nonEmptyString(raw)
	if !ok {
		// Non-string date inputs (already a time, for round trips).
		if t, isTime := raw.(time.Time); isTime {
			return t
		}
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return nil
}

func safeDateTime(raw any) any {
	s, ok := nonEmptyString(raw)
	if !ok {
		if t, isTime := raw.(time.Time); isTime {
			return t
		}
		return nil
	}
	// An HH:MM literal means that time of day on today's date.
	if hhmm.MatchString(s) {
		now := time.Now()
		if t, err := time.Parse("2006-01-02T15:04", now.Format("2006-01-02")+"T"+s); err == nil {
			return t
		}
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return nil
}

func safeNumber(raw any) any {
	switch v := raw.(type) {
	case nil:
		return nil
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		if v == "" {
			return nil
		}
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n
		}
		return nil
	default:
		return nil
	}
}

func safeText(raw any) any {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		if v == "" {
			return nil
		}
		return v
	default:
		// Numbers and booleans arrive untyped from JSON; store their
		// string form as the original did.
		return fmt.Sprint(v)
	}
}

// nonEmptyString unwraps raw into a usable string, reporting false for
// nil, empty strings and non-string values.
func nonEmptyString(raw any) (string, bool) {
	s, ok := raw.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

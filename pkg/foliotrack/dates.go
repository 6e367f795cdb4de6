package foliotrack

import "time"

const dateLayout = "2006-01-02"

// dayFromUnix normalizes a provider bar timestamp (unix seconds) to a UTC
// calendar day. Returns false when the timestamp is missing, non-finite, or
// outside the representable range; such bars are skipped, not fatal.
func dayFromUnix(ts *float64) (string, bool) {
	sec, ok := finiteValue(ts)
	if !ok {
		return "", false
	}
	t := time.Unix(int64(sec), 0).UTC()
	if t.Year() < 1 || t.Year() > 9999 {
		return "", false
	}
	return t.Format(dateLayout), true
}

// isValidDate reports whether value is a calendar day in YYYY-MM-DD form.
func isValidDate(value string) bool {
	_, err := time.Parse(dateLayout, value)
	return err == nil
}

// todayISO returns the current UTC calendar day.
func todayISO() string {
	return time.Now().UTC().Format(dateLayout)
}

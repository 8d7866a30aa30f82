package api

// CalendarResponse represents the Al Adhan calendar API response.
// The calendar endpoint returns an array of daily data objects for a whole month.
type CalendarResponse struct {
	Code   int           `json:"code"`
	Status string        `json:"status"`
	Data   []CalendarDay `json:"data"`
}

// CalendarDay is one raw day record from the calendar endpoint.
type CalendarDay struct {
	Timings Timings  `json:"timings"`
	Date    DateInfo `json:"date"`
	Meta    Meta     `json:"meta"`
}

// Timings contains all prayer and event times as HH:MM strings.
// The API may include a timezone suffix like " (+06)" which we strip
// during normalization.
type Timings struct {
	Fajr     string `json:"Fajr"`
	Sunrise  string `json:"Sunrise"`
	Dhuhr    string `json:"Dhuhr"`
	Asr      string `json:"Asr"`
	Sunset   string `json:"Sunset"`
	Maghrib  string `json:"Maghrib"`
	Isha     string `json:"Isha"`
	Imsak    string `json:"Imsak"`
	Midnight string `json:"Midnight"`
}

// DateInfo contains date representations.
type DateInfo struct {
	Readable  string        `json:"readable"`
	Timestamp string        `json:"timestamp"`
	Hijri     HijriDate     `json:"hijri"`
	Gregorian GregorianDate `json:"gregorian"`
}

// HijriDate represents the Hijri (Islamic) date from the API response.
type HijriDate struct {
	Date             string     `json:"date"` // e.g. "10-09-1447"
	Day              string     `json:"day"`
	Month            HijriMonth `json:"month"`
	Year             string     `json:"year"`
	Holidays         []string   `json:"holidays"`
	AdjustedHolidays []string   `json:"adjustedHolidays"`
}

// HijriMonth represents the month in the Hijri calendar.
type HijriMonth struct {
	Number int    `json:"number"`
	En     string `json:"en"` // English name, e.g. "Ramaḍān"
	Ar     string `json:"ar"` // Arabic name
}

// GregorianDate represents the Gregorian date from the API response.
type GregorianDate struct {
	Date    string         `json:"date"` // e.g. "19-02-2026" (DD-MM-YYYY)
	Day     string         `json:"day"`
	Weekday GregorianDay   `json:"weekday"`
	Month   GregorianMonth `json:"month"`
	Year    string         `json:"year"`
}

// GregorianDay contains the weekday name.
type GregorianDay struct {
	En string `json:"en"` // e.g. "Thursday"
}

// GregorianMonth contains the month details.
type GregorianMonth struct {
	Number int    `json:"number"`
	En     string `json:"en"` // e.g. "February"
}

// Meta contains request metadata returned by the API. The normalization
// pipeline does not consume it; it is carried for diagnostics only.
type Meta struct {
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	Timezone  string     `json:"timezone"`
	Method    MethodInfo `json:"method"`
	School    string     `json:"school"`
}

// MethodInfo identifies a calculation method.
type MethodInfo struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MethodsResponse represents the /methods endpoint response. The data block
// is keyed by method code, each value carrying the numeric id and name.
type MethodsResponse struct {
	Code   int                   `json:"code"`
	Status string                `json:"status"`
	Data   map[string]MethodInfo `json:"data"`
}

// MethodEntry is one selectable calculation method.
type MethodEntry struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

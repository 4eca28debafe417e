package domain

import "unicode/utf8"

// AreaCode is a Brazilian DDD: a two-digit regional telephone prefix.
// Rows are seeded reference data and are never created or changed by the API.
type AreaCode struct {
	Code   int    `json:"code" yaml:"code"`
	Region string `json:"region" yaml:"region"`
	State  string `json:"state" yaml:"state"`
}

// ParseAreaCode splits a raw phone string into its two-character area code
// prefix and the local subscriber number that follows it.
//
// ok is false when the input is shorter than two characters or the prefix is
// not two ASCII digits; areaCode is then 0. A numeric prefix of "00" parses
// with ok == true and areaCode == 0. Characters are runes, so local is always
// valid UTF-8 when raw is.
func ParseAreaCode(raw string) (areaCode int, local string, ok bool) {
	if len(raw) >= 2 && isDigit(raw[0]) && isDigit(raw[1]) {
		return int(raw[0]-'0')*10 + int(raw[1]-'0'), raw[2:], true
	}

	rest := raw
	for range 2 {
		if rest == "" {
			return 0, "", false
		}
		_, size := utf8.DecodeRuneInString(rest)
		rest = rest[size:]
	}
	return 0, rest, false
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

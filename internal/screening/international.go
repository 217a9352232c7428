package screening

import "github.com/nyaruka/phonenumbers"

// isInternational reports whether the raw number carries a country code
// different from the home network's. Unparseable numbers count as domestic
// so a parse failure never blocks a call.
func isInternational(raw, home string) bool {
	if raw == "" || home == "" {
		return false
	}

	parsed, err := phonenumbers.Parse(raw, home)
	if err != nil {
		return false
	}

	homeCode := phonenumbers.GetCountryCodeForRegion(home)
	if homeCode == 0 {
		return false
	}

	return int(parsed.GetCountryCode()) != homeCode
}

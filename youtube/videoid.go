package youtube

import "regexp"

var videoIDRE = regexp.MustCompile(`v=([^&]+)`)

// ExtractVideoID returns the value of the first "v=" parameter in rawURL,
// up to the next '&'.
func ExtractVideoID(rawURL string) (string, bool) {
	m := videoIDRE.FindStringSubmatch(rawURL)
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}

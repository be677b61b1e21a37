// Package format guesses a media file extension from its URL.
package format

import "strings"

// tokens are tested in this order and the first substring hit wins,
// so a URL containing both "jpeg" and "mpg" resolves to .jpeg.
var tokens = []string{"jpeg", "jpg", "png", "gif", "webm", "avi", "mp4", "mpg", "mpeg"}

// Resolve returns the leading-dot extension of the first known token
// contained in url.
func Resolve(url string) (string, bool) {
	for _, tok := range tokens {
		if strings.Contains(url, tok) {
			return "." + tok, true
		}
	}
	return "", false
}

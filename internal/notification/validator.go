// Package notification holds the routing core: validating notification
// requests, normalizing webhook payloads, resolving target device tokens, and
// orchestrating dispatch to the push gateway.
package notification

import "regexp"

// wordChar matches any word character. A title or body with no word character
// at all ("-", "   ", "!!!") carries no content worth pushing.
var wordChar = regexp.MustCompile(`\w`)

// meaningful reports whether s contains at least one word character.
func meaningful(s string) bool {
	return wordChar.MatchString(s)
}

// IsSendable reports whether a notification with the given title and body is
// well-formed enough to send. The body is mandatory content; the title is
// optional decoration but, when present, must itself be meaningful. This
// rejects garbage titles while still allowing title-less alerts.
func IsSendable(title, body string) bool {
	if meaningful(title) && meaningful(body) {
		return true
	}
	return title == "" && meaningful(body)
}

package domain

import "strings"

// Identifier is a monitored channel reference: either a username in the
// form "@name" or a chat id rendered as a string (e.g. "-1001234567890").
type Identifier string

// Canonicalize normalizes a raw channel reference. Username form keeps its
// leading "@" and is lowercased so that add, remove and routing agree on
// one casing; every other form has any "@" stripped and is kept verbatim.
func Canonicalize(raw string) Identifier {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "@") {
		return Identifier(strings.ToLower(raw))
	}
	return Identifier(strings.ReplaceAll(raw, "@", ""))
}

// IsUsername reports whether the identifier is in username form.
func (id Identifier) IsUsername() bool {
	return strings.HasPrefix(string(id), "@")
}

// MatchesChat reports whether a post from the given chat belongs to this
// identifier. Username identifiers match the chat username
// case-insensitively; all others compare against the chat id string.
func (id Identifier) MatchesChat(chatID string, username string) bool {
	if id.IsUsername() {
		return username != "" && strings.EqualFold(strings.TrimPrefix(string(id), "@"), username)
	}
	return string(id) == chatID
}

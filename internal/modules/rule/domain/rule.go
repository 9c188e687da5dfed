package domain

// Origin says where a substitution rule came from.
type Origin string

const (
	// OriginStatic marks rules fixed in configuration.
	OriginStatic Origin = "static"
	// OriginUser marks rules added through bot commands.
	OriginUser Origin = "user"
)

// Rule is one text substitution: a regular expression and its replacement.
type Rule struct {
	Pattern     string `json:"pattern"`
	Replacement string `json:"replacement"`
	Origin      Origin `json:"origin"`
}

// MatchReport is the result of dry-running a pattern against sample text.
type MatchReport struct {
	Pattern     string
	Sample      string
	Matches     []string
	Highlighted string
}

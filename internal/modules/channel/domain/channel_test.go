package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Identifier
	}{
		{name: "username lowered", in: "@MyChannel", want: "@mychannel"},
		{name: "whitespace trimmed", in: "  @chan  ", want: "@chan"},
		{name: "numeric id untouched", in: "-1001234567", want: "-1001234567"},
		{name: "stray at signs stripped from ids", in: "-100@123", want: "-100123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Canonicalize(tt.in))
		})
	}
}

func TestMatchesChat(t *testing.T) {
	assert.True(t, Identifier("@mychannel").MatchesChat("-1001", "MyChannel"))
	assert.False(t, Identifier("@mychannel").MatchesChat("-1001", "other"))
	assert.True(t, Identifier("-1001").MatchesChat("-1001", ""))
	assert.False(t, Identifier("-1001").MatchesChat("-1002", "mychannel"))
}

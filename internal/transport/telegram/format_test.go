package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"

	channelDomain "github.com/reshetovitsme/channel-editor-bot/internal/modules/channel/domain"
	ruleDomain "github.com/reshetovitsme/channel-editor-bot/internal/modules/rule/domain"
)

func TestFormatRules(t *testing.T) {
	static := []ruleDomain.Rule{
		{Pattern: "foo", Replacement: "bar", Origin: ruleDomain.OriginStatic},
	}
	user := []ruleDomain.Rule{
		{Pattern: "baz", Replacement: "qux", Origin: ruleDomain.OriginUser},
	}

	out := FormatRules(static, user)

	assert.Contains(t, out, "Static filters (from config):")
	assert.Contains(t, out, "1. foo → bar")
	assert.Contains(t, out, "User-defined filters:")
	assert.Contains(t, out, "1. baz → qux")
}

func TestFormatRulesEmpty(t *testing.T) {
	assert.Equal(t, "No text filters configured.", FormatRules(nil, nil))
}

func TestFormatChannels(t *testing.T) {
	out := FormatChannels([]channelDomain.Identifier{"@first", "-1001234"})

	assert.Contains(t, out, "1. @first")
	assert.Contains(t, out, "2. -1001234")
}

func TestFormatChannelsEmpty(t *testing.T) {
	assert.Equal(t, "No channels are being monitored.", FormatChannels(nil))
}

func TestFormatMatchReport(t *testing.T) {
	out := FormatMatchReport(&ruleDomain.MatchReport{
		Pattern:     "hello",
		Sample:      "hello world",
		Matches:     []string{"hello"},
		Highlighted: "*hello* world",
	})

	assert.Contains(t, out, "Pattern: hello")
	assert.Contains(t, out, "Matches found: 1")
	assert.Contains(t, out, "*hello* world")
}

func TestFormatMatchReportNoMatches(t *testing.T) {
	out := FormatMatchReport(&ruleDomain.MatchReport{
		Pattern: "absent",
		Sample:  "some text",
	})

	assert.Contains(t, out, "No matches found")
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reshetovitsme/channel-editor-bot/internal/shared/errors"
)

func TestParseAllowedUsers(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []int64
	}{
		{name: "empty", in: "", want: []int64{}},
		{name: "single", in: "123456", want: []int64{123456}},
		{name: "multiple with spaces", in: "1, 2 ,3", want: []int64{1, 2, 3}},
		{name: "garbage skipped", in: "1,abc,,3", want: []int64{1, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAllowedUsers(tt.in))
		})
	}
}

func TestValidateRequiresToken(t *testing.T) {
	cfg := &Config{Time: TimeConfig{Mode: TimeModeOffset}}

	assert.ErrorIs(t, cfg.validate(), errors.ErrMissingBotToken)
}

func TestValidateRejectsBadStaticPattern(t *testing.T) {
	cfg := &Config{
		TelegramBotToken: "token",
		StaticRules:      []StaticRule{{Pattern: "(unclosed", Replacement: "x"}},
		Time:             TimeConfig{Mode: TimeModeOffset},
	}

	assert.Error(t, cfg.validate())
}

func TestValidateRejectsUnknownTimezone(t *testing.T) {
	cfg := &Config{
		TelegramBotToken: "token",
		Time: TimeConfig{
			Mode:           TimeModeTimezone,
			SourceTimezone: "Nowhere/Nonexistent",
			TargetTimezone: "UTC",
		},
	}

	assert.Error(t, cfg.validate())
}

func TestValidateRejectsUnknownMode(t *testing.T) {
	cfg := &Config{
		TelegramBotToken: "token",
		Time:             TimeConfig{Mode: "lunar"},
	}

	assert.Error(t, cfg.validate())
}

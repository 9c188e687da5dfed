package errors

import "errors"

var (
	ErrMissingBotToken = errors.New("telegram_bot_token is required")
	ErrChannelNotFound = errors.New("channel not found in monitoring list")
	ErrChannelExists   = errors.New("channel already in monitoring list")
	ErrRuleNotFound    = errors.New("rule not found")
	ErrStaticRule      = errors.New("static rules cannot be modified")
	ErrUserNotFound    = errors.New("user not found")
)

package domain

import "time"

// Correction is the audit record of one delivered correction.
type Correction struct {
	MessageID int64     `json:"message_id"`
	ChannelID string    `json:"channel_id"`
	Original  string    `json:"original"`
	Corrected string    `json:"corrected"`
	Tier      string    `json:"tier"`
	IsCaption bool      `json:"is_caption"`
	Date      time.Time `json:"date"`
}

// Package service implements tiered delivery of message corrections: edit
// the message directly, retry the edit through the transport, fall back to
// a reply, or give up silently.
package service

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot/models"
	"github.com/samber/oops"
)

// Tier identifies one delivery tier of the escalation chain.
type Tier string

const (
	TierDirectEdit    Tier = "direct_edit"
	TierTransportEdit Tier = "transport_edit"
	TierFallbackReply Tier = "fallback_reply"
)

// Outcome is the terminal state of one delivery.
type Outcome string

const (
	// OutcomeUnchanged means the correction equals the original and no
	// delivery was attempted.
	OutcomeUnchanged Outcome = "unchanged"
	// OutcomeDelivered means some tier succeeded.
	OutcomeDelivered Outcome = "delivered"
	// OutcomeSuppressed means every permitted tier failed and the message
	// was left as originally posted.
	OutcomeSuppressed Outcome = "suppressed"
)

// Attempt records one tier attempt, in order.
type Attempt struct {
	Tier Tier
	Err  error
}

// Transport is the messaging capability the escalator consumes. It is the
// whole surface: the escalator never calls anything else.
type Transport interface {
	EditText(ctx context.Context, chatID int64, messageID int, text string, entities []models.MessageEntity) error
	EditCaption(ctx context.Context, chatID int64, messageID int, caption string, entities []models.MessageEntity) error
	SendMessage(ctx context.Context, chatID int64, text string, replyToMessageID int) error
}

// Request describes one correction to deliver. For caption corrections the
// entities are caption entities and the edit goes through EditCaption.
type Request struct {
	ChatID    int64
	MessageID int
	Original  string
	Corrected string
	Entities  []models.MessageEntity
	IsCaption bool
}

// Escalator drives the delivery state machine. Each tier is attempted at
// most once per request; transport errors select the next tier and are
// never propagated to the caller.
type Escalator struct {
	transport      Transport
	replyOnFailure bool
}

// New creates an escalator. The transport is attached later, once the bot
// client exists.
func New(replyOnFailure bool) *Escalator {
	return &Escalator{replyOnFailure: replyOnFailure}
}

// SetTransport attaches the messaging transport.
func (e *Escalator) SetTransport(t Transport) {
	e.transport = t
}

// Deliver runs the escalation chain for one correction and returns the
// terminal outcome together with the ordered tier attempts.
func (e *Escalator) Deliver(ctx context.Context, req Request) (Outcome, []Attempt) {
	if req.Corrected == req.Original {
		return OutcomeUnchanged, nil
	}
	if e.transport == nil {
		slog.Error("Escalator has no transport, suppressing correction", "chat_id", req.ChatID, "message_id", req.MessageID)
		return OutcomeSuppressed, nil
	}

	var attempts []Attempt

	// Direct edit, preserving the formatting entities of the original.
	err := e.edit(ctx, req)
	if err == nil {
		return OutcomeDelivered, append(attempts, Attempt{Tier: TierDirectEdit})
	}
	slog.Warn("Direct edit failed", "chat_id", req.ChatID, "message_id", req.MessageID, "error", err)
	attempts = append(attempts, Attempt{Tier: TierDirectEdit, Err: err})

	// Same edit through the transport a second time, with equivalent
	// parameters.
	err = e.edit(ctx, req)
	if err == nil {
		return OutcomeDelivered, append(attempts, Attempt{Tier: TierTransportEdit})
	}
	slog.Error("Transport edit failed", "chat_id", req.ChatID, "message_id", req.MessageID, "error", err)
	attempts = append(attempts, Attempt{Tier: TierTransportEdit, Err: err})

	if !e.replyOnFailure {
		slog.Error("Both edit tiers failed, correction suppressed", "chat_id", req.ChatID, "message_id", req.MessageID)
		return OutcomeSuppressed, attempts
	}

	// Last resort: reply to the original quoting the corrected content.
	if err := e.transport.SendMessage(ctx, req.ChatID, fallbackText(req), req.MessageID); err != nil {
		slog.Error("Fallback reply failed", "chat_id", req.ChatID, "message_id", req.MessageID, "error", err)
		return OutcomeSuppressed, append(attempts, Attempt{Tier: TierFallbackReply, Err: err})
	}

	return OutcomeDelivered, append(attempts, Attempt{Tier: TierFallbackReply})
}

func (e *Escalator) edit(ctx context.Context, req Request) error {
	if req.IsCaption {
		if err := e.transport.EditCaption(ctx, req.ChatID, req.MessageID, req.Corrected, req.Entities); err != nil {
			return oops.With("chat_id", req.ChatID, "message_id", req.MessageID).Wrap(err)
		}
		return nil
	}
	if err := e.transport.EditText(ctx, req.ChatID, req.MessageID, req.Corrected, req.Entities); err != nil {
		return oops.With("chat_id", req.ChatID, "message_id", req.MessageID).Wrap(err)
	}
	return nil
}

func fallbackText(req Request) string {
	if req.IsCaption {
		return "*Caption should be:*\n\n" + req.Corrected
	}
	return "*Message text should be:*\n\n" + req.Corrected
}

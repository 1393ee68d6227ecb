package intake

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/fedguard/appealbot/internal/config"
	"github.com/fedguard/appealbot/internal/federation"
	"github.com/fedguard/appealbot/internal/models"
	"github.com/fedguard/appealbot/internal/storage"
	"gopkg.in/telebot.v4"
)

const (
	msgWelcome      = "📝 Use /appeal to submit a FedBan appeal or request Fed Admin status"
	msgSelectType   = "Select appeal type:"
	msgUnauthorized = "⛔ Unauthorized access!"
	msgInvalidType  = "❌ Invalid appeal type selected!"
	msgNotFound     = "⚠ Appeal ID not found!"
	msgNoPending    = "No pending appeals!"
	msgGenericError = "❌ Error processing request"
	msgUsagePending = "Usage: /pending [page]"
	adminNotifyTime = "15:04 02-01-2006"
)

// Service holds the appeal intake and review handlers. Dispatch is wired up
// in cmd/bot by binding each command to a wrapped handler.
type Service struct {
	config   *config.Config
	storage  *storage.Storage
	bot      telebot.API
	notifier *federation.Notifier
}

func NewService(cfg *config.Config, storage *storage.Storage, bot telebot.API, notifier *federation.Notifier) *Service {
	return &Service{
		config:   cfg,
		storage:  storage,
		bot:      bot,
		notifier: notifier,
	}
}

type HandlerFunc func(uc *UpdateContext) error

// Handler adapts a HandlerFunc to telebot. It is the error boundary: any
// failure escaping a handler is logged and turned into a generic reply, never
// propagated into the poller.
func (s *Service) Handler(fn HandlerFunc) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		ctx, cancel := context.WithTimeout(context.Background(), s.config.BotHandleTimeout)
		defer cancel()

		uc := NewUpdateContext(ctx, c)

		if err := fn(uc); err != nil {
			uc.L().Errorf("failed to handle update: %v", err)
			if err := c.Send(msgGenericError); err != nil {
				uc.L().Errorf("failed to send error reply: %v", err)
			}
		}
		return nil
	}
}

// AdminOnly gates a handler on the configured administrator id. A mismatch
// replies with the unauthorized message and performs no further work; admin
// id zero (unset) rejects everyone.
func (s *Service) AdminOnly(fn HandlerFunc) HandlerFunc {
	return func(uc *UpdateContext) error {
		if !s.Authorize(uc.Sender()) {
			uc.L().Warnf("unauthorized access to admin command")
			return uc.TC().Send(msgUnauthorized)
		}
		return fn(uc)
	}
}

func (s *Service) Authorize(user *telebot.User) bool {
	return s.config.AdminID != 0 && user != nil && user.ID == s.config.AdminID
}

func (s *Service) HandleStart(uc *UpdateContext) error {
	return uc.TC().Send(msgWelcome)
}

func (s *Service) HandleAppeal(uc *UpdateContext) error {
	return uc.TC().Send(msgSelectType, appealTypeMarkup())
}

// HandleCallback receives every inline keyboard tap: appeal type selections
// from /appeal and page navigation from /pending.
func (s *Service) HandleCallback(uc *UpdateContext) error {
	cb := uc.Callback()
	if cb == nil {
		return nil
	}

	data := normalizeCallbackData(cb.Data)

	if page, ok := ParsePageCallback(data); ok {
		if !s.Authorize(uc.Sender()) {
			uc.L().Warnf("unauthorized page navigation")
			return uc.TC().Respond(&telebot.CallbackResponse{Text: msgUnauthorized})
		}
		if err := s.showPendingPage(uc, page, true); err != nil {
			return err
		}
		return uc.TC().Respond()
	}

	if err := s.handleSelection(uc, data); err != nil {
		return err
	}
	return uc.TC().Respond()
}

func (s *Service) handleSelection(uc *UpdateContext, data string) error {
	appealType, err := models.ParseAppealType(data)
	if err != nil {
		uc.L().Errorf("invalid appeal type: %v", err)
		return uc.TC().Edit(msgInvalidType)
	}

	sender := uc.Sender()
	now := time.Now()

	id, err := s.storage.CreateAppeal(uc, sender.ID, sender.Username, appealType, now)
	if err != nil {
		return fmt.Errorf("creating appeal: %w", err)
	}

	uc.L().Infof("appeal %d (%s) created for user %d", id, appealType, sender.ID)

	if err := uc.TC().Edit(fmt.Sprintf("✅ %s appeal submitted!", capitalize(appealType.String()))); err != nil {
		uc.L().Errorf("failed to edit selection message: %v", err)
	}

	// The appeal is already persisted, admin notification is best-effort.
	if s.config.AdminID != 0 {
		notification := fmt.Sprintf(
			"🚨 New Appeal\nUser: @%s\nType: %s\nTime: %s\n\nUse /pending to view all appeals",
			sender.Username,
			appealType,
			now.Format(adminNotifyTime),
		)
		if _, err := s.bot.Send(&telebot.User{ID: s.config.AdminID}, notification); err != nil {
			uc.L().Errorf("failed to notify admin about appeal %d: %v", id, err)
		}
	}

	return nil
}

func (s *Service) HandlePending(uc *UpdateContext) error {
	page := 0
	if args := uc.TC().Args(); len(args) > 0 {
		p, err := strconv.Atoi(args[0])
		if err != nil || p < 0 {
			return uc.TC().Send(msgUsagePending)
		}
		page = p
	}
	return s.showPendingPage(uc, page, false)
}

func (s *Service) showPendingPage(uc *UpdateContext, page int, edit bool) error {
	reply := uc.TC().Send
	if edit {
		reply = uc.TC().Edit
	}

	total, err := s.storage.CountByStatus(uc, models.AppealStatusPending)
	if err != nil {
		return fmt.Errorf("counting pending appeals: %w", err)
	}

	appeals, err := s.storage.ListByStatus(uc, models.AppealStatusPending, PageSize, page*PageSize)
	if err != nil {
		return fmt.Errorf("listing pending appeals: %w", err)
	}

	if len(appeals) == 0 {
		return reply(msgNoPending)
	}

	text := renderPendingPage(appeals, page)
	if markup := pendingMarkup(page, total); markup != nil {
		return reply(text, markup)
	}
	return reply(text)
}

func (s *Service) HandleApprove(uc *UpdateContext) error {
	return s.resolve(uc, models.AppealStatusApproved)
}

func (s *Service) HandleReject(uc *UpdateContext) error {
	return s.resolve(uc, models.AppealStatusRejected)
}

// resolve flips a pending appeal into a terminal status. The status update
// is authoritative: once committed it is not rolled back even if the
// follow-up notifications fail.
func (s *Service) resolve(uc *UpdateContext, status models.AppealStatus) error {
	args := uc.TC().Args()
	if len(args) == 0 {
		return uc.TC().Send(usageResolve(status))
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return uc.TC().Send(usageResolve(status))
	}

	affected, err := s.storage.UpdateStatus(uc, id, status)
	if err != nil {
		return fmt.Errorf("updating appeal %d: %w", id, err)
	}
	if affected == 0 {
		return uc.TC().Send(msgNotFound)
	}

	userID, err := s.storage.GetAppealUserID(uc, id)
	if err != nil {
		return fmt.Errorf("getting appeal %d owner: %w", id, err)
	}

	uc.L().Infof("appeal %d resolved as %s for user %d", id, status, userID)

	if err := uc.TC().Send(fmt.Sprintf("%s appeal #%d", capitalize(status.String()), id)); err != nil {
		uc.L().Errorf("failed to confirm resolution: %v", err)
	}

	if _, err := s.bot.Send(
		&telebot.User{ID: userID},
		fmt.Sprintf("📨 Your appeal has been %s!\n\nReference ID: %d", status, id),
	); err != nil {
		uc.L().Errorf("failed to notify user %d about appeal %d: %v", userID, id, err)
	}

	if err := s.notifier.AppealResolved(uc, id, userID, status); err != nil {
		uc.L().Errorf("failed to deliver federation event for appeal %d: %v", id, err)
	}

	return nil
}

func usageResolve(status models.AppealStatus) string {
	command := "approve"
	if status == models.AppealStatusRejected {
		command = "reject"
	}
	return fmt.Sprintf("Usage: /%s <appeal_id>", command)
}

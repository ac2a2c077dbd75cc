package telegram

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"ent-bot/internal/app"
	"ent-bot/internal/domain"
	"ent-bot/internal/i18n"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const leaderboardSize = 10

// HandleUpdate routes one update. Errors are rendered to the chat and logged, never returned.
func (b *Bot) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	switch {
	case upd.CallbackQuery != nil:
		b.metrics.Update("callback")
		b.handleCallback(ctx, upd.CallbackQuery)
	case upd.Message != nil && upd.Message.IsCommand():
		b.metrics.Update("command")
		b.handleCommand(ctx, upd.Message)
	case upd.Message != nil:
		b.metrics.Update("message")
		b.handleText(ctx, upd.Message)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	from := msg.From
	if from == nil {
		return
	}
	to := app.Target{ChatID: msg.Chat.ID, Language: b.svc.Users.Language(ctx, from.ID)}

	switch msg.Command() {
	case "start":
		u, created, err := b.svc.Users.Register(ctx, domain.User{
			ID:        from.ID,
			Username:  from.UserName,
			FirstName: from.FirstName,
			Language:  from.LanguageCode,
		})
		if err != nil {
			b.fail(ctx, to, "register", from.ID, err)
			return
		}
		b.log.Debug("start", zap.Int64("user_id", u.ID), zap.Bool("created", created))
		b.reply(ctx, to, i18n.T(u.Language, "welcome", u.DisplayName()), app.LanguageKeyboard())
	case "language":
		b.reply(ctx, to, i18n.T(to.Language, "choose_language"), app.LanguageKeyboard())
	case "test":
		b.showSection(ctx, from.ID, to, app.MenuTest)
	case "schedule":
		b.showSection(ctx, from.ID, to, app.MenuSchedule)
	case "top":
		b.showSection(ctx, from.ID, to, app.MenuTop)
	case "materials":
		b.showSection(ctx, from.ID, to, app.MenuMaterials)
	case "profile":
		b.showSection(ctx, from.ID, to, app.MenuProfile)
	case "menu":
		b.showSection(ctx, from.ID, to, app.MenuMain)
	case "help":
		b.reply(ctx, to, i18n.T(to.Language, "help"), nil)
	case "admin":
		b.showAdmin(ctx, from.ID, to, app.CallbackAdminMain)
	case "stats":
		b.showAdmin(ctx, from.ID, to, app.CallbackAdminStats)
	case "broadcast":
		b.broadcast(ctx, from.ID, msg.CommandArguments(), to)
	case "cancel":
		err := b.svc.Schedule.CancelWizard(ctx, from.ID, to)
		if errors.Is(err, domain.ErrNoWizard) {
			b.showSection(ctx, from.ID, to, app.MenuMain)
			return
		}
		b.report("cancel wizard", from.ID, err)
	default:
		b.reply(ctx, to, i18n.T(to.Language, "unknown_command"), nil)
	}
}

// handleText feeds free text into an admin's wizard; anyone else gets the main menu.
func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message) {
	from := msg.From
	if from == nil {
		return
	}
	to := app.Target{ChatID: msg.Chat.ID, Language: b.svc.Users.Language(ctx, from.ID)}
	if b.svc.Schedule.InWizard(ctx, from.ID) {
		err := b.svc.Schedule.AdvanceWizard(ctx, from.ID, app.Text(msg.Text), to)
		b.report("advance wizard", from.ID, err)
		return
	}
	b.showSection(ctx, from.ID, to, app.MenuMain)
}

func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		b.log.Debug("answer callback", zap.Error(err))
	}
	if cq.From == nil || cq.Message == nil || cq.Message.Chat == nil {
		return
	}
	userID := cq.From.ID
	to := app.Target{
		ChatID:    cq.Message.Chat.ID,
		MessageID: cq.Message.MessageID,
		Language:  b.svc.Users.Language(ctx, userID),
	}
	data := cq.Data

	switch {
	case strings.HasPrefix(data, app.CallbackLanguage):
		lang, err := b.svc.Users.SetLanguage(ctx, userID, strings.TrimPrefix(data, app.CallbackLanguage))
		if err != nil {
			b.fail(ctx, to, "set language", userID, err)
			return
		}
		to.Language = lang
		b.reply(ctx, to, i18n.T(lang, "language_selected")+"\n\n"+i18n.T(lang, "main_menu"), app.MainMenuKeyboard(lang))

	case strings.HasPrefix(data, app.CallbackMenu):
		b.showSection(ctx, userID, to, strings.TrimPrefix(data, app.CallbackMenu))

	case strings.HasPrefix(data, app.CallbackSubject):
		err := b.svc.Quiz.StartQuiz(ctx, userID, strings.TrimPrefix(data, app.CallbackSubject), to)
		b.report("start quiz", userID, err)

	case strings.HasPrefix(data, app.CallbackAnswer):
		err := b.svc.Quiz.SubmitAnswer(ctx, userID, strings.TrimPrefix(data, app.CallbackAnswer), to)
		b.report("submit answer", userID, err)

	case data == app.CallbackQuizExit:
		err := b.svc.Quiz.AbandonQuiz(ctx, userID, to)
		b.report("abandon quiz", userID, err)

	case strings.HasPrefix(data, app.CallbackMaterials):
		subject := strings.TrimPrefix(data, app.CallbackMaterials)
		list, err := b.svc.Users.Materials(ctx, subject, to.Language)
		if err != nil {
			b.fail(ctx, to, "materials", userID, err)
			return
		}
		b.reply(ctx, to, app.MaterialsText(to.Language, subject, list), app.BackKeyboard(to.Language))

	case data == app.CallbackTimeCustom:
		b.advance(ctx, userID, app.Custom(), to)
	case data == app.CallbackTimeSkip:
		b.advance(ctx, userID, app.Skip(), to)
	case strings.HasPrefix(data, app.CallbackTime):
		b.advance(ctx, userID, app.Select(strings.TrimPrefix(data, app.CallbackTime)), to)
	case strings.HasPrefix(data, app.CallbackDay):
		b.advance(ctx, userID, app.Select(strings.TrimPrefix(data, app.CallbackDay)), to)
	case strings.HasPrefix(data, app.CallbackAdminSubject):
		b.advance(ctx, userID, app.Select(strings.TrimPrefix(data, app.CallbackAdminSubject)), to)

	case data == app.CallbackAdminAdd:
		err := b.svc.Schedule.BeginWizard(ctx, userID, to)
		b.report("begin wizard", userID, err)

	case strings.HasPrefix(data, app.CallbackAdminDeleteItem):
		b.deleteEntry(ctx, userID, strings.TrimPrefix(data, app.CallbackAdminDeleteItem), to)

	default:
		b.showAdmin(ctx, userID, to, data)
	}
}

func (b *Bot) advance(ctx context.Context, userID int64, in app.WizardInput, to app.Target) {
	err := b.svc.Schedule.AdvanceWizard(ctx, userID, in, to)
	b.report("advance wizard", userID, err)
}

// showSection renders one of the main menu screens into to.
func (b *Bot) showSection(ctx context.Context, userID int64, to app.Target, section string) {
	lang := to.Language
	switch section {
	case app.MenuMain:
		b.reply(ctx, to, i18n.T(lang, "main_menu"), app.MainMenuKeyboard(lang))
	case app.MenuTest:
		b.reply(ctx, to, i18n.T(lang, "choose_subject"), app.SubjectKeyboard(lang, app.CallbackSubject, b.cfg.Subjects))
	case app.MenuMaterials:
		b.reply(ctx, to, i18n.T(lang, "choose_material"), app.SubjectKeyboard(lang, app.CallbackMaterials, b.cfg.Subjects))
	case app.MenuSchedule:
		entries, err := b.svc.Schedule.ListSchedule(ctx)
		if err != nil {
			b.fail(ctx, to, "list schedule", userID, err)
			return
		}
		b.reply(ctx, to, app.ScheduleText(lang, entries), app.BackKeyboard(lang))
	case app.MenuTop:
		top, err := b.svc.Users.Leaderboard(ctx, leaderboardSize)
		if err != nil {
			b.fail(ctx, to, "leaderboard", userID, err)
			return
		}
		b.reply(ctx, to, app.LeaderboardText(lang, top), app.BackKeyboard(lang))
	case app.MenuProfile:
		u, err := b.svc.Users.Profile(ctx, userID)
		if err != nil {
			b.fail(ctx, to, "profile", userID, err)
			return
		}
		b.reply(ctx, to, app.ProfileText(lang, u), app.BackKeyboard(lang))
	default:
		b.log.Debug("unknown menu section", zap.String("section", section))
	}
}

// showAdmin renders the admin panel screens. Unknown payloads are ignored.
func (b *Bot) showAdmin(ctx context.Context, userID int64, to app.Target, data string) {
	switch data {
	case app.CallbackAdminMain, app.CallbackAdminView, app.CallbackAdminDelete, app.CallbackAdminStats, app.CallbackAdminBroadcast:
	default:
		b.log.Debug("unknown callback", zap.String("data", data), zap.Int64("user_id", userID))
		return
	}
	if !b.auth.IsAdmin(userID) {
		b.fail(ctx, to, "admin panel", userID, domain.ErrUnauthorized)
		return
	}
	lang := to.Language

	switch data {
	case app.CallbackAdminMain:
		b.reply(ctx, to, i18n.T(lang, "admin_panel"), app.AdminKeyboard(lang))
	case app.CallbackAdminView:
		entries, err := b.svc.Schedule.ListSchedule(ctx)
		if err != nil {
			b.fail(ctx, to, "list schedule", userID, err)
			return
		}
		b.reply(ctx, to, app.ScheduleText(lang, entries), app.AdminBackKeyboard(lang))
	case app.CallbackAdminDelete:
		b.showDeletePicker(ctx, userID, to, "")
	case app.CallbackAdminStats:
		st, err := b.svc.Admin.Stats(ctx, userID)
		if err != nil {
			b.fail(ctx, to, "stats", userID, err)
			return
		}
		b.reply(ctx, to, app.StatsText(lang, st), app.AdminBackKeyboard(lang))
	case app.CallbackAdminBroadcast:
		b.reply(ctx, to, i18n.T(lang, "broadcast_usage"), app.AdminBackKeyboard(lang))
	}
}

func (b *Bot) showDeletePicker(ctx context.Context, userID int64, to app.Target, header string) {
	entries, err := b.svc.Schedule.ListSchedule(ctx)
	if err != nil {
		b.fail(ctx, to, "list schedule", userID, err)
		return
	}
	lang := to.Language
	if len(entries) == 0 {
		b.reply(ctx, to, header+i18n.T(lang, "no_schedule"), app.AdminBackKeyboard(lang))
		return
	}
	b.reply(ctx, to, header+i18n.T(lang, "schedule_delete_pick"), app.DeleteScheduleKeyboard(lang, entries))
}

func (b *Bot) deleteEntry(ctx context.Context, userID int64, raw string, to app.Target) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		b.log.Debug("bad schedule id", zap.String("raw", raw))
		return
	}
	if err := b.svc.Schedule.DeleteScheduleEntry(ctx, userID, id); err != nil {
		b.fail(ctx, to, "delete schedule entry", userID, err)
		return
	}
	b.showDeletePicker(ctx, userID, to, i18n.T(to.Language, "schedule_deleted")+"\n\n")
}

func (b *Bot) broadcast(ctx context.Context, adminID int64, text string, to app.Target) {
	report, err := b.svc.Admin.Broadcast(ctx, adminID, text)
	if errors.Is(err, domain.ErrRequiredField) {
		b.reply(ctx, to, i18n.T(to.Language, "broadcast_usage"), nil)
		return
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		b.fail(ctx, to, "broadcast", adminID, err)
		return
	}
	b.reply(ctx, to, app.BroadcastReportText(to.Language, report), app.AdminBackKeyboard(to.Language))
}

func (b *Bot) reply(ctx context.Context, to app.Target, text string, kb domain.Keyboard) {
	if _, err := app.Present(ctx, b.out, to, text, kb); err != nil {
		b.log.Warn("deliver reply", zap.Int64("chat_id", to.ChatID), zap.Error(err))
	}
}

// fail renders err for operations whose services return data instead of rendering.
func (b *Bot) fail(ctx context.Context, to app.Target, op string, userID int64, err error) {
	key := "store_unavailable"
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		key = "not_admin"
	case errors.Is(err, domain.ErrUserNotFound):
		key = "register_first"
	case errors.Is(err, domain.ErrScheduleNotFound):
		key = "schedule_not_found"
	}
	b.reply(ctx, to, i18n.T(to.Language, key), nil)
	b.report(op, userID, err)
}

func (b *Bot) report(op string, userID int64, err error) {
	switch {
	case err == nil, errors.Is(err, domain.ErrNoWizard):
	case errors.Is(err, domain.ErrStoreUnavailable):
		b.log.Error(op, zap.Int64("user_id", userID), zap.Error(err))
	case errors.Is(err, context.Canceled):
		b.log.Debug(op+" canceled", zap.Int64("user_id", userID))
	default:
		b.log.Info(op+" rejected", zap.Int64("user_id", userID), zap.Error(err))
	}
}

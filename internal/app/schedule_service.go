package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ent-bot/internal/domain"
	"ent-bot/internal/i18n"
	"go.uber.org/zap"
)

// ScheduleService runs the admin schedule wizard and manages committed entries.
type ScheduleService struct {
	wizards   Registry[Wizard]
	entries   ScheduleStore
	auth      Authorizer
	messenger Messenger
	subjects  []string
	options
}

func NewScheduleService(wizards Registry[Wizard], entries ScheduleStore, auth Authorizer, messenger Messenger, subjects []string, opts ...Option) *ScheduleService {
	return &ScheduleService{
		wizards:   wizards,
		entries:   entries,
		auth:      auth,
		messenger: messenger,
		subjects:  subjects,
		options:   buildOptions(opts),
	}
}

// BeginWizard starts a fresh wizard for adminID, dropping any unfinished one.
func (s *ScheduleService) BeginWizard(ctx context.Context, adminID int64, to Target) error {
	if !s.auth.IsAdmin(adminID) {
		return s.reject(ctx, adminID, to)
	}
	w := Wizard{Stage: AwaitingDay}
	if err := s.wizards.Put(ctx, adminID, w); err != nil {
		notice(ctx, s.messenger, s.log, to, "store_unavailable")
		return unavailable("save wizard", err)
	}
	s.log.Info("schedule wizard started", zap.Int64("admin_id", adminID))
	text, kb := s.prompt(to.Language, w)
	_, err := Present(ctx, s.messenger, to, text, kb)
	return err
}

// AdvanceWizard feeds one input into the admin's wizard.
// Rejected input re-prompts the same stage and returns the rejection error.
func (s *ScheduleService) AdvanceWizard(ctx context.Context, adminID int64, in WizardInput, to Target) error {
	if !s.auth.IsAdmin(adminID) {
		return s.reject(ctx, adminID, to)
	}
	w, ok, err := s.wizards.Get(ctx, adminID)
	if err != nil {
		notice(ctx, s.messenger, s.log, to, "store_unavailable")
		return unavailable("load wizard", err)
	}
	if !ok {
		return domain.ErrNoWizard
	}

	next, err := Advance(w, in)
	if err != nil {
		key := "wizard_unexpected"
		if errors.Is(err, domain.ErrRequiredField) {
			key = "wizard_required"
		}
		text, kb := s.prompt(to.Language, w)
		_, _ = Present(ctx, s.messenger, to.Fresh(), i18n.T(to.Language, key)+"\n\n"+text, kb)
		return err
	}

	if next.Stage == Committed {
		return s.commit(ctx, adminID, w, next.Draft, to)
	}
	if err := s.wizards.Put(ctx, adminID, next); err != nil {
		notice(ctx, s.messenger, s.log, to, "store_unavailable")
		return unavailable("save wizard", err)
	}
	text, kb := s.prompt(to.Language, next)
	_, err = Present(ctx, s.messenger, to, text, kb)
	return err
}

// commit drops the wizard before persisting so a resent last answer cannot add the entry twice.
// If the entry cannot be stored, before is put back at its last stage.
func (s *ScheduleService) commit(ctx context.Context, adminID int64, before Wizard, draft domain.ScheduleDraft, to Target) error {
	if err := s.wizards.Remove(ctx, adminID); err != nil {
		notice(ctx, s.messenger, s.log, to, "store_unavailable")
		return unavailable("remove committed wizard", err)
	}
	entry := domain.EntryFromDraft(draft)
	entry.CreatedAt = s.now()
	id, err := s.entries.Add(ctx, entry)
	if err != nil {
		if perr := s.wizards.Put(context.WithoutCancel(ctx), adminID, before); perr != nil {
			s.log.Error("restore wizard", zap.Int64("admin_id", adminID), zap.Error(perr))
		}
		notice(ctx, s.messenger, s.log, to, "store_unavailable")
		return unavailable("persist schedule entry", err)
	}
	s.metrics.EntryCommitted()
	s.log.Info("schedule entry committed",
		zap.Int64("admin_id", adminID),
		zap.Int64("entry_id", id),
		zap.Int("day", draft.DayOfWeek),
		zap.String("subject", draft.Subject),
	)
	_, err = Present(ctx, s.messenger, to, ConfirmationText(to.Language, draft), AdminBackKeyboard(to.Language))
	return err
}

// CancelWizard drops the admin's wizard, if any.
func (s *ScheduleService) CancelWizard(ctx context.Context, adminID int64, to Target) error {
	if !s.auth.IsAdmin(adminID) {
		return s.reject(ctx, adminID, to)
	}
	_, ok, err := s.wizards.Get(ctx, adminID)
	if err != nil {
		return unavailable("load wizard", err)
	}
	if !ok {
		return domain.ErrNoWizard
	}
	if err := s.wizards.Remove(ctx, adminID); err != nil {
		notice(ctx, s.messenger, s.log, to, "store_unavailable")
		return unavailable("remove wizard", err)
	}
	_, err = Present(ctx, s.messenger, to, i18n.T(to.Language, "wizard_cancelled"), AdminBackKeyboard(to.Language))
	return err
}

// InWizard reports whether adminID has a wizard waiting for input.
func (s *ScheduleService) InWizard(ctx context.Context, adminID int64) bool {
	if !s.auth.IsAdmin(adminID) {
		return false
	}
	_, ok, err := s.wizards.Get(ctx, adminID)
	return err == nil && ok
}

// ListSchedule returns every entry ordered by day and start time.
func (s *ScheduleService) ListSchedule(ctx context.Context) ([]domain.ScheduleEntry, error) {
	entries, err := s.entries.List(ctx)
	if err != nil {
		return nil, unavailable("list schedule", err)
	}
	return entries, nil
}

// CreateEntry stores a complete entry without the wizard.
func (s *ScheduleService) CreateEntry(ctx context.Context, adminID int64, entry domain.ScheduleEntry) (domain.ScheduleEntry, error) {
	if !s.auth.IsAdmin(adminID) {
		return domain.ScheduleEntry{}, domain.ErrUnauthorized
	}
	entry.TimeStart = strings.TrimSpace(entry.TimeStart)
	entry.Subject = strings.TrimSpace(entry.Subject)
	if entry.DayOfWeek < 0 || entry.DayOfWeek > 6 || entry.TimeStart == "" || entry.Subject == "" {
		return domain.ScheduleEntry{}, domain.ErrRequiredField
	}
	entry.CreatedAt = s.now()
	id, err := s.entries.Add(ctx, entry)
	if err != nil {
		return domain.ScheduleEntry{}, unavailable("persist schedule entry", err)
	}
	entry.ID = id
	s.metrics.EntryCommitted()
	return entry, nil
}

// DeleteScheduleEntry removes one entry; admins only.
func (s *ScheduleService) DeleteScheduleEntry(ctx context.Context, adminID, id int64) error {
	if !s.auth.IsAdmin(adminID) {
		return domain.ErrUnauthorized
	}
	ok, err := s.entries.Delete(ctx, id)
	if err != nil {
		return unavailable("delete schedule entry", err)
	}
	if !ok {
		return fmt.Errorf("entry %d: %w", id, domain.ErrScheduleNotFound)
	}
	s.log.Info("schedule entry deleted", zap.Int64("admin_id", adminID), zap.Int64("entry_id", id))
	return nil
}

func (s *ScheduleService) prompt(lang string, w Wizard) (string, domain.Keyboard) {
	switch w.Stage {
	case AwaitingDay:
		return i18n.T(lang, "wizard_day"), dayKeyboard(lang)
	case AwaitingTimeStart:
		if w.Manual {
			return i18n.T(lang, "wizard_time_manual"), nil
		}
		return i18n.T(lang, "field_day", i18n.Day(lang, w.Draft.DayOfWeek)) + "\n\n" + i18n.T(lang, "wizard_time_start"), timeKeyboard(lang, false)
	case AwaitingTimeEnd:
		if w.Manual {
			return i18n.T(lang, "wizard_time_manual"), nil
		}
		return i18n.T(lang, "field_time", w.Draft.TimeStart) + "\n\n" + i18n.T(lang, "wizard_time_end"), timeKeyboard(lang, true)
	case AwaitingSubject:
		return i18n.T(lang, "wizard_subject"), adminSubjectKeyboard(lang, s.subjects)
	case AwaitingTopic:
		return i18n.T(lang, "field_subject", i18n.Subject(lang, w.Draft.Subject)) + "\n\n" + i18n.T(lang, "wizard_topic"), nil
	case AwaitingTeacher:
		return i18n.T(lang, "wizard_teacher"), nil
	case AwaitingClassroom:
		return i18n.T(lang, "wizard_classroom"), nil
	}
	return "", nil
}

func (s *ScheduleService) reject(ctx context.Context, userID int64, to Target) error {
	s.log.Warn("admin operation rejected", zap.Int64("user_id", userID))
	notice(ctx, s.messenger, s.log, to, "not_admin")
	return domain.ErrUnauthorized
}

package app

import (
	"context"
	"fmt"

	"ent-bot/internal/domain"
	"ent-bot/internal/i18n"
	"go.uber.org/zap"
)

// Registry holds at most one value per id. Implementations must make each call atomic per id.
type Registry[T any] interface {
	Put(ctx context.Context, id int64, value T) error
	Get(ctx context.Context, id int64) (T, bool, error)
	Remove(ctx context.Context, id int64) error
}

// QuestionBank returns up to limit questions for a subject and language in random order.
// An empty result is not an error.
type QuestionBank interface {
	FetchQuestions(ctx context.Context, subject, language string, limit int) ([]domain.Question, error)
}

// UserStore persists user records. AddPoints recomputes the level.
// Upsert inserts a new user in full; for an existing one it only refreshes the names,
// so points and language changed concurrently are never overwritten.
type UserStore interface {
	Get(ctx context.Context, id int64) (domain.User, error)
	Upsert(ctx context.Context, user domain.User) (domain.User, error)
	SetLanguage(ctx context.Context, id int64, language string) error
	AddPoints(ctx context.Context, id int64, amount int) (domain.User, error)
	Top(ctx context.Context, limit int) ([]domain.User, error)
	All(ctx context.Context) ([]domain.User, error)
	Stats(ctx context.Context) (domain.Stats, error)
}

// ScheduleStore appends, lists and deletes schedule records.
type ScheduleStore interface {
	Add(ctx context.Context, entry domain.ScheduleEntry) (int64, error)
	List(ctx context.Context) ([]domain.ScheduleEntry, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// MaterialStore lists study materials.
type MaterialStore interface {
	BySubject(ctx context.Context, subject, language string) ([]domain.Material, error)
}

// Messenger delivers rendered text to a chat.
type Messenger interface {
	Send(ctx context.Context, chatID int64, text string, kb domain.Keyboard) (int, error)
	Edit(ctx context.Context, chatID int64, messageID int, text string, kb domain.Keyboard) error
}

// Authorizer decides who may run admin operations.
type Authorizer interface {
	IsAdmin(userID int64) bool
}

// AllowList is a fixed set of admin ids.
type AllowList map[int64]struct{}

func NewAllowList(ids ...int64) AllowList {
	list := make(AllowList, len(ids))
	for _, id := range ids {
		list[id] = struct{}{}
	}
	return list
}

func (l AllowList) IsAdmin(userID int64) bool {
	_, ok := l[userID]
	return ok
}

// Target says where a reply goes. A zero MessageID means a new message; otherwise
// that message is edited in place.
type Target struct {
	ChatID    int64
	MessageID int
	Language  string
}

// Fresh drops the message reference so the next render is a new message.
func (t Target) Fresh() Target {
	t.MessageID = 0
	return t
}

// Present sends a new message or edits to.MessageID, returning the target that now holds the text.
func Present(ctx context.Context, m Messenger, to Target, text string, kb domain.Keyboard) (Target, error) {
	if to.MessageID == 0 {
		id, err := m.Send(ctx, to.ChatID, text, kb)
		if err != nil {
			return to, err
		}
		to.MessageID = id
		return to, nil
	}
	return to, m.Edit(ctx, to.ChatID, to.MessageID, text, kb)
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}

// notice sends a standalone message; the message being answered stays as it is.
func notice(ctx context.Context, m Messenger, log *zap.Logger, to Target, key string) {
	if _, err := m.Send(ctx, to.ChatID, i18n.T(to.Language, key), nil); err != nil {
		log.Warn("send notice", zap.String("key", key), zap.Error(err))
	}
}

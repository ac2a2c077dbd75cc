package telegram

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path"
	"strings"
	"sync"
	"testing"
	"time"

	"ent-bot/internal/app"
	"ent-bot/internal/domain"
	"ent-bot/internal/infra/memory"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap/zaptest"
)

const adminID = 900

type apiCall struct {
	Method    string
	ChatID    string
	MessageID string
	Text      string
	Markup    string
}

// fakeAPI answers the handful of Bot API methods the bot uses and records every call.
type fakeAPI struct {
	mu    sync.Mutex
	next  int
	calls []apiCall
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	method := path.Base(r.URL.Path)
	w.Header().Set("Content-Type", "application/json")

	f.mu.Lock()
	defer f.mu.Unlock()
	if method == "getMe" {
		fmt.Fprint(w, `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"ent","username":"ent_bot"}}`)
		return
	}
	call := apiCall{
		Method:    method,
		ChatID:    r.FormValue("chat_id"),
		MessageID: r.FormValue("message_id"),
		Text:      r.FormValue("text"),
		Markup:    r.FormValue("reply_markup"),
	}
	f.calls = append(f.calls, call)
	if method == "sendMessage" {
		f.next++
		fmt.Fprintf(w, `{"ok":true,"result":{"message_id":%d,"date":0,"chat":{"id":%s,"type":"private"}}}`, f.next, call.ChatID)
		return
	}
	fmt.Fprint(w, `{"ok":true,"result":true}`)
}

func (f *fakeAPI) last(method string) apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i].Method == method {
			return f.calls[i]
		}
	}
	return apiCall{}
}

type fixture struct {
	bot      *Bot
	api      *fakeAPI
	users    *memory.UserStore
	schedule *memory.ScheduleStore
	quiz     *app.QuizService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fake := &fakeAPI{}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	api, err := tgbotapi.NewBotAPIWithClient("TOKEN", server.URL+"/bot%s/%s", server.Client())
	if err != nil {
		t.Fatalf("bot api: %v", err)
	}
	out := NewMessenger(api)
	users := memory.NewUserStore()
	schedule := memory.NewScheduleStore()
	auth := app.NewAllowList(adminID)
	subjects := []string{"physics", "mathematics"}

	quiz := app.NewQuizService(
		memory.NewRegistry[app.QuizSession](time.Hour),
		memory.NewQuestionBank(memory.NewStaticLoader(memory.SeedQuestions()), time.Minute),
		users, out, app.QuizConfig{MaxQuestions: 10, PointsPerAnswer: 10},
	)
	svc := Services{
		Quiz:     quiz,
		Schedule: app.NewScheduleService(memory.NewRegistry[app.Wizard](time.Hour), schedule, auth, out, subjects),
		Admin:    app.NewAdminService(users, auth, out, app.BroadcastConfig{Concurrency: 2}),
		Users:    app.NewUserService(users, memory.NewMaterialStore(memory.SeedMaterials())),
	}
	bot := New(api, svc, auth, Config{Subjects: subjects}, zaptest.NewLogger(t), nil)
	return &fixture{bot: bot, api: fake, users: users, schedule: schedule, quiz: quiz}
}

func scheduleEntry() domain.ScheduleEntry {
	return domain.ScheduleEntry{DayOfWeek: 2, TimeStart: "10:00", TimeEnd: "11:30", Subject: "mathematics"}
}

func command(userID int64, text string) tgbotapi.Update {
	name := strings.SplitN(text, " ", 2)[0]
	return tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 1,
		From:      &tgbotapi.User{ID: userID, FirstName: "Aida", LanguageCode: "ru"},
		Chat:      &tgbotapi.Chat{ID: userID},
		Text:      text,
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name)}},
	}}
}

func text(userID int64, body string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 2,
		From:      &tgbotapi.User{ID: userID},
		Chat:      &tgbotapi.Chat{ID: userID},
		Text:      body,
	}}
}

func callback(userID int64, messageID int, data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    &tgbotapi.User{ID: userID},
		Message: &tgbotapi.Message{MessageID: messageID, Chat: &tgbotapi.Chat{ID: userID}},
		Data:    data,
	}}
}

func TestStartRegistersAndOffersLanguages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.bot.HandleUpdate(ctx, command(42, "/start"))

	u, err := f.users.Get(ctx, 42)
	if err != nil {
		t.Fatalf("user not registered: %v", err)
	}
	if u.Language != "ru" || u.Points != 0 || u.Level != 1 {
		t.Fatalf("unexpected user: %+v", u)
	}
	sent := f.api.last("sendMessage")
	if !strings.Contains(sent.Text, "Aida") || !strings.Contains(sent.Markup, "lang_kz") {
		t.Fatalf("unexpected welcome: %+v", sent)
	}
}

func TestLanguageCallbackEditsInPlace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.bot.HandleUpdate(ctx, command(42, "/start"))

	f.bot.HandleUpdate(ctx, callback(42, 7, "lang_en"))

	if u, _ := f.users.Get(ctx, 42); u.Language != "en" {
		t.Fatalf("expected language en, got %q", u.Language)
	}
	edit := f.api.last("editMessageText")
	if edit.MessageID != "7" || !strings.Contains(edit.Text, "Main menu") {
		t.Fatalf("unexpected edit: %+v", edit)
	}
	if f.api.last("answerCallbackQuery").Method == "" {
		t.Fatalf("callback was not answered")
	}
}

func TestQuizOverCallbacksAwardsPoints(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.bot.HandleUpdate(ctx, command(42, "/start"))

	f.bot.HandleUpdate(ctx, callback(42, 10, "subject_physics"))
	if edit := f.api.last("editMessageText"); !strings.Contains(edit.Text, "Вопрос 1/2") {
		t.Fatalf("expected first question, got %+v", edit)
	}

	for i := 0; i < 2; i++ {
		session, ok, err := f.quiz.ActiveSession(ctx, 42)
		if err != nil || !ok {
			t.Fatalf("expected active session: ok=%v err=%v", ok, err)
		}
		q, _ := session.Current()
		f.bot.HandleUpdate(ctx, callback(42, 10+i, "answer_"+string(q.CorrectAnswer)))
	}

	if _, ok, _ := f.quiz.ActiveSession(ctx, 42); ok {
		t.Fatalf("session should be gone after the last answer")
	}
	u, _ := f.users.Get(ctx, 42)
	if u.Points != 20 {
		t.Fatalf("expected 20 points, got %d", u.Points)
	}
	if edit := f.api.last("editMessageText"); !strings.Contains(edit.Text, "2/2") || !strings.Contains(edit.Text, "100%") {
		t.Fatalf("unexpected result message: %+v", edit)
	}
}

func TestAnswerWithoutSessionReportsExpiry(t *testing.T) {
	f := newFixture(t)
	f.bot.HandleUpdate(context.Background(), callback(42, 3, "answer_A"))

	if edit := f.api.last("editMessageText"); !strings.Contains(edit.Text, "истекла") {
		t.Fatalf("expected expiry notice, got %+v", edit)
	}
}

func TestAdminPanelRejectsNonAdmins(t *testing.T) {
	f := newFixture(t)
	f.bot.HandleUpdate(context.Background(), callback(42, 3, "admin_main"))

	if edit := f.api.last("editMessageText"); !strings.Contains(edit.Text, "нет прав") {
		t.Fatalf("expected refusal, got %+v", edit)
	}
}

func TestScheduleWizardThroughUpdates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	steps := []tgbotapi.Update{
		callback(adminID, 5, "admin_schedule_add"),
		callback(adminID, 5, "day_0"),
		callback(adminID, 5, "time_09:00"),
		callback(adminID, 5, "time_skip"),
		callback(adminID, 5, "admin_subject_physics"),
		text(adminID, "Kinematics"),
		text(adminID, "-"),
		text(adminID, "101"),
	}
	for _, upd := range steps {
		f.bot.HandleUpdate(ctx, upd)
	}

	entries, _ := f.schedule.List(ctx)
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	e := entries[0]
	if e.DayOfWeek != 0 || e.TimeStart != "09:00" || e.TimeEnd != "" || e.Subject != "physics" ||
		e.Topic != "Kinematics" || e.Teacher != "" || e.Classroom != "101" {
		t.Fatalf("unexpected entry: %+v", e)
	}
	if f.bot.svc.Schedule.InWizard(ctx, adminID) {
		t.Fatalf("wizard should be cleared after commit")
	}

	// Text after the commit is no longer wizard input.
	f.bot.HandleUpdate(ctx, text(adminID, "stray"))
	if entries, _ := f.schedule.List(ctx); len(entries) != 1 {
		t.Fatalf("stray text changed the schedule")
	}
}

func TestDeleteScheduleEntryRefreshesPicker(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	entry, err := f.bot.svc.Schedule.CreateEntry(ctx, adminID, scheduleEntry())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	f.bot.HandleUpdate(ctx, callback(adminID, 8, fmt.Sprintf("admin_delete_schedule_%d", entry.ID)))

	if entries, _ := f.schedule.List(ctx); len(entries) != 0 {
		t.Fatalf("entry not deleted")
	}
	if edit := f.api.last("editMessageText"); !strings.Contains(edit.Text, "удалено") {
		t.Fatalf("unexpected edit: %+v", edit)
	}

	f.bot.HandleUpdate(ctx, callback(adminID, 8, fmt.Sprintf("admin_delete_schedule_%d", entry.ID)))
	if edit := f.api.last("editMessageText"); !strings.Contains(edit.Text, "не найдено") {
		t.Fatalf("expected not found, got %+v", edit)
	}
}

func TestBroadcastCommandReportsDeliveries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, id := range []int64{adminID, 1, 2} {
		f.bot.HandleUpdate(ctx, command(id, "/start"))
	}

	f.bot.HandleUpdate(ctx, command(adminID, "/broadcast exam moved"))

	report := f.api.last("sendMessage")
	if report.ChatID != fmt.Sprint(adminID) || !strings.Contains(report.Text, "Успешно: 2") {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestUpdatesFromOneChatStayOrdered(t *testing.T) {
	f := newFixture(t)
	var mu sync.Mutex
	seen := map[int64][]int{}
	f.bot.handle = func(_ context.Context, upd tgbotapi.Update) {
		time.Sleep(time.Millisecond)
		mu.Lock()
		seen[upd.Message.Chat.ID] = append(seen[upd.Message.Chat.ID], upd.UpdateID)
		mu.Unlock()
	}

	ctx := context.Background()
	for i := 0; i < 20; i++ {
		for _, chat := range []int64{1, 2} {
			upd := text(chat, "x")
			upd.UpdateID = i
			f.bot.enqueue(ctx, upd)
		}
	}
	f.bot.wg.Wait()

	for chat, ids := range seen {
		if len(ids) != 20 {
			t.Fatalf("chat %d: expected 20 updates, got %d", chat, len(ids))
		}
		for i, id := range ids {
			if id != i {
				t.Fatalf("chat %d: out of order at %d: %v", chat, i, ids)
			}
		}
	}
	if len(f.bot.queues) != 0 {
		t.Fatalf("queues not drained: %v", f.bot.queues)
	}
}

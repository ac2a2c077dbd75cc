package app

import (
	"strconv"
	"strings"

	"ent-bot/internal/domain"
	"ent-bot/internal/i18n"
)

// Callback payloads carried by inline buttons.
const (
	CallbackLanguage        = "lang_"
	CallbackSubject         = "subject_"
	CallbackAnswer          = "answer_"
	CallbackQuizExit        = "quiz_exit"
	CallbackMaterials       = "materials_"
	CallbackMenu            = "menu_"
	CallbackDay             = "day_"
	CallbackTime            = "time_"
	CallbackTimeCustom      = "time_custom"
	CallbackTimeSkip        = "time_skip"
	CallbackAdminSubject    = "admin_subject_"
	CallbackAdminAdd        = "admin_schedule_add"
	CallbackAdminView       = "admin_schedule_view"
	CallbackAdminDelete     = "admin_schedule_delete"
	CallbackAdminDeleteItem = "admin_delete_schedule_"
	CallbackAdminStats      = "admin_stats"
	CallbackAdminBroadcast  = "admin_broadcast"
	CallbackAdminMain       = "admin_main"
)

// Main menu sections, sent as CallbackMenu + section.
const (
	MenuMain      = "main"
	MenuTest      = "test"
	MenuSchedule  = "schedule"
	MenuTop       = "top"
	MenuMaterials = "materials"
	MenuProfile   = "profile"
)

// QuickTimes are offered as buttons for the wizard time stages.
var QuickTimes = []string{
	"08:00", "08:30", "09:00",
	"09:30", "10:00", "10:30",
	"11:00", "11:30", "12:00",
	"13:00", "14:00", "15:00",
	"16:00", "17:00", "18:00",
}

var languageLabels = map[string]string{
	i18n.Russian: "🇷🇺 Русский",
	i18n.Kazakh:  "🇰🇿 Қазақша",
	i18n.English: "🇬🇧 English",
}

func LanguageKeyboard() domain.Keyboard {
	row := make([]domain.Button, 0, len(i18n.Languages))
	for _, code := range i18n.Languages {
		row = append(row, domain.Button{Text: languageLabels[code], Data: CallbackLanguage + code})
	}
	return domain.Keyboard{row}
}

func MainMenuKeyboard(lang string) domain.Keyboard {
	return domain.Keyboard{
		domain.Row(
			domain.Button{Text: i18n.T(lang, "btn_test"), Data: CallbackMenu + MenuTest},
			domain.Button{Text: i18n.T(lang, "btn_schedule"), Data: CallbackMenu + MenuSchedule},
		),
		domain.Row(
			domain.Button{Text: i18n.T(lang, "btn_top"), Data: CallbackMenu + MenuTop},
			domain.Button{Text: i18n.T(lang, "btn_materials"), Data: CallbackMenu + MenuMaterials},
		),
		domain.Row(domain.Button{Text: i18n.T(lang, "btn_profile"), Data: CallbackMenu + MenuProfile}),
	}
}

// SubjectKeyboard lists subjects with prefix as the callback (quiz or materials).
func SubjectKeyboard(lang, prefix string, subjects []string) domain.Keyboard {
	kb := make(domain.Keyboard, 0, len(subjects)+1)
	for _, subject := range subjects {
		kb = append(kb, domain.Row(domain.Button{Text: i18n.Subject(lang, subject), Data: prefix + subject}))
	}
	return append(kb, backRow(lang))
}

// BackKeyboard returns to the main menu.
func BackKeyboard(lang string) domain.Keyboard {
	return domain.Keyboard{backRow(lang)}
}

func backRow(lang string) []domain.Button {
	return domain.Row(domain.Button{Text: i18n.T(lang, "btn_back"), Data: CallbackMenu + MenuMain})
}

func questionKeyboard(lang string) domain.Keyboard {
	row := make([]domain.Button, 0, len(domain.Choices))
	for _, c := range domain.Choices {
		row = append(row, domain.Button{Text: string(c), Data: CallbackAnswer + string(c)})
	}
	return domain.Keyboard{
		row,
		domain.Row(domain.Button{Text: i18n.T(lang, "btn_exit_quiz"), Data: CallbackQuizExit}),
	}
}

func questionText(s QuizSession) string {
	q, ok := s.Current()
	if !ok {
		return ""
	}
	var b strings.Builder
	b.WriteString(i18n.T(s.Language, "test_question", s.CurrentIndex+1, s.Total()))
	b.WriteString("\n\n")
	b.WriteString(q.Text)
	b.WriteString("\n")
	for _, c := range domain.Choices {
		b.WriteString("\n")
		b.WriteString(string(c))
		b.WriteString(") ")
		b.WriteString(q.Option(c))
	}
	return b.String()
}

func AdminKeyboard(lang string) domain.Keyboard {
	return domain.Keyboard{
		domain.Row(domain.Button{Text: i18n.T(lang, "admin_btn_add"), Data: CallbackAdminAdd}),
		domain.Row(domain.Button{Text: i18n.T(lang, "admin_btn_view"), Data: CallbackAdminView}),
		domain.Row(domain.Button{Text: i18n.T(lang, "admin_btn_delete"), Data: CallbackAdminDelete}),
		domain.Row(
			domain.Button{Text: i18n.T(lang, "admin_btn_broadcast"), Data: CallbackAdminBroadcast},
			domain.Button{Text: i18n.T(lang, "admin_btn_stats"), Data: CallbackAdminStats},
		),
	}
}

func AdminBackKeyboard(lang string) domain.Keyboard {
	return domain.Keyboard{domain.Row(domain.Button{Text: i18n.T(lang, "btn_back"), Data: CallbackAdminMain})}
}

func dayKeyboard(lang string) domain.Keyboard {
	kb := make(domain.Keyboard, 0, 7)
	for day := 0; day < 7; day++ {
		kb = append(kb, domain.Row(domain.Button{Text: i18n.Day(lang, day), Data: CallbackDay + strconv.Itoa(day)}))
	}
	return kb
}

func timeKeyboard(lang string, skippable bool) domain.Keyboard {
	var kb domain.Keyboard
	for i := 0; i < len(QuickTimes); i += 3 {
		end := min(i+3, len(QuickTimes))
		row := make([]domain.Button, 0, 3)
		for _, t := range QuickTimes[i:end] {
			row = append(row, domain.Button{Text: t, Data: CallbackTime + t})
		}
		kb = append(kb, row)
	}
	last := domain.Row(domain.Button{Text: i18n.T(lang, "wizard_btn_custom"), Data: CallbackTimeCustom})
	if skippable {
		last = append(last, domain.Button{Text: i18n.T(lang, "wizard_btn_skip"), Data: CallbackTimeSkip})
	}
	return append(kb, last)
}

func adminSubjectKeyboard(lang string, subjects []string) domain.Keyboard {
	row := make([]domain.Button, 0, len(subjects))
	for _, subject := range subjects {
		row = append(row, domain.Button{Text: i18n.Subject(lang, subject), Data: CallbackAdminSubject + subject})
	}
	return domain.Keyboard{row}
}

// DeleteScheduleKeyboard offers one button per entry.
func DeleteScheduleKeyboard(lang string, entries []domain.ScheduleEntry) domain.Keyboard {
	kb := make(domain.Keyboard, 0, len(entries)+1)
	for _, e := range entries {
		label := "🗑 " + i18n.Day(lang, e.DayOfWeek) + " " + timeRange(e.TimeStart, e.TimeEnd) + " " + i18n.Subject(lang, e.Subject)
		kb = append(kb, domain.Row(domain.Button{Text: label, Data: CallbackAdminDeleteItem + strconv.FormatInt(e.ID, 10)}))
	}
	return append(kb, AdminBackKeyboard(lang)...)
}

func timeRange(start, end string) string {
	if end == "" {
		return start
	}
	return start + " - " + end
}

// ScheduleText groups entries by weekday, Monday first.
func ScheduleText(lang string, entries []domain.ScheduleEntry) string {
	if len(entries) == 0 {
		return i18n.T(lang, "no_schedule")
	}
	byDay := make(map[int][]domain.ScheduleEntry)
	for _, e := range entries {
		byDay[e.DayOfWeek] = append(byDay[e.DayOfWeek], e)
	}

	var b strings.Builder
	b.WriteString(i18n.T(lang, "schedule_title"))
	for day := 0; day < 7; day++ {
		list := byDay[day]
		if len(list) == 0 {
			continue
		}
		b.WriteString("\n\n")
		b.WriteString(i18n.Day(lang, day))
		for _, e := range list {
			b.WriteString("\n• ")
			b.WriteString(timeRange(e.TimeStart, e.TimeEnd))
			b.WriteString(" ")
			b.WriteString(i18n.Subject(lang, e.Subject))
			if e.Topic != "" {
				b.WriteString(": ")
				b.WriteString(e.Topic)
			}
			if e.Teacher != "" {
				b.WriteString(", ")
				b.WriteString(e.Teacher)
			}
			if e.Classroom != "" {
				b.WriteString(" (")
				b.WriteString(e.Classroom)
				b.WriteString(")")
			}
		}
	}
	return b.String()
}

// ConfirmationText lists every field that was set on a committed draft.
func ConfirmationText(lang string, d domain.ScheduleDraft) string {
	lines := []string{
		i18n.T(lang, "wizard_saved"),
		"",
		i18n.T(lang, "field_day", i18n.Day(lang, d.DayOfWeek)),
		i18n.T(lang, "field_time", timeRange(d.TimeStart, d.TimeEnd)),
		i18n.T(lang, "field_subject", i18n.Subject(lang, d.Subject)),
	}
	if d.Topic != "" {
		lines = append(lines, i18n.T(lang, "field_topic", d.Topic))
	}
	if d.Teacher != "" {
		lines = append(lines, i18n.T(lang, "field_teacher", d.Teacher))
	}
	if d.Classroom != "" {
		lines = append(lines, i18n.T(lang, "field_classroom", d.Classroom))
	}
	return strings.Join(lines, "\n")
}

func LeaderboardText(lang string, users []domain.User) string {
	if len(users) == 0 {
		return i18n.T(lang, "no_leaderboard")
	}
	lines := []string{i18n.T(lang, "leaderboard_title"), ""}
	for i, u := range users {
		lines = append(lines, i18n.T(lang, "leaderboard_entry", i+1, u.DisplayName(), u.Points, u.Level))
	}
	return strings.Join(lines, "\n")
}

func ProfileText(lang string, u domain.User) string {
	return i18n.T(lang, "profile", u.DisplayName(), u.Points, u.Level, u.Language)
}

func MaterialsText(lang, subject string, materials []domain.Material) string {
	if len(materials) == 0 {
		return i18n.T(lang, "no_materials")
	}
	lines := []string{i18n.T(lang, "materials_title", i18n.Subject(lang, subject))}
	for _, m := range materials {
		line := "\n• " + m.Title
		if m.Topic != "" {
			line += " (" + m.Topic + ")"
		}
		if m.URL != "" {
			line += "\n  " + m.URL
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func StatsText(lang string, st domain.Stats) string {
	lines := []string{i18n.T(lang, "stats", st.TotalUsers, st.ActiveUsers)}
	for _, code := range i18n.Languages {
		if n, ok := st.ByLanguage[code]; ok {
			lines = append(lines, i18n.T(lang, "stats_language", code, n))
		}
	}
	return strings.Join(lines, "\n")
}

func BroadcastReportText(lang string, r BroadcastReport) string {
	return i18n.T(lang, "broadcast_done", r.Success, r.Errors)
}

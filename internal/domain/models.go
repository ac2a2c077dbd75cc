package domain

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// Choice is one of the four answer letters of a question.
type Choice string

const (
	ChoiceA Choice = "A"
	ChoiceB Choice = "B"
	ChoiceC Choice = "C"
	ChoiceD Choice = "D"
)

// Choices lists the answer letters in display order.
var Choices = []Choice{ChoiceA, ChoiceB, ChoiceC, ChoiceD}

// ParseChoice normalizes a letter into a Choice.
func ParseChoice(raw string) (Choice, bool) {
	c := Choice(strings.ToUpper(strings.TrimSpace(raw)))
	switch c {
	case ChoiceA, ChoiceB, ChoiceC, ChoiceD:
		return c, true
	}
	return "", false
}

// Question models an ЕНТ multiple-choice question with exactly one correct option.
type Question struct {
	ID            int64  `json:"id"`
	Subject       string `json:"subject"`
	Text          string `json:"question"`
	OptionA       string `json:"option_a"`
	OptionB       string `json:"option_b"`
	OptionC       string `json:"option_c"`
	OptionD       string `json:"option_d"`
	CorrectAnswer Choice `json:"correct_answer"`
	Explanation   string `json:"explanation,omitempty"`
	Language      string `json:"language"`
}

// Option returns the option text for a letter.
func (q Question) Option(c Choice) string {
	switch c {
	case ChoiceA:
		return q.OptionA
	case ChoiceB:
		return q.OptionB
	case ChoiceC:
		return q.OptionC
	case ChoiceD:
		return q.OptionD
	}
	return ""
}

// SampleQuestions returns up to limit questions from pool in random order.
// The pool itself is left untouched.
func SampleQuestions(pool []Question, limit int) []Question {
	shuffled := make([]Question, len(pool))
	copy(shuffled, pool)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if limit <= 0 || limit > len(shuffled) {
		limit = len(shuffled)
	}
	return shuffled[:limit]
}

// PointsPerLevel is the number of points needed to climb one level.
const PointsPerLevel = 100

// LevelFor derives a level from a point balance.
func LevelFor(points int) int {
	if points < 0 {
		points = 0
	}
	return points/PointsPerLevel + 1
}

// User is a registered bot user.
type User struct {
	ID           int64     `json:"telegram_id"`
	Username     string    `json:"username,omitempty"`
	FirstName    string    `json:"first_name,omitempty"`
	Language     string    `json:"language"`
	Points       int       `json:"points"`
	Level        int       `json:"level"`
	RegisteredAt time.Time `json:"registration_date"`
}

// DisplayName picks the friendliest available name.
func (u User) DisplayName() string {
	switch {
	case u.FirstName != "":
		return u.FirstName
	case u.Username != "":
		return u.Username
	}
	return "User" + strconv.FormatInt(u.ID, 10)
}

// ScheduleDraft accumulates schedule fields while the admin wizard runs.
type ScheduleDraft struct {
	DayOfWeek int    `json:"day_of_week"`
	TimeStart string `json:"time_start"`
	TimeEnd   string `json:"time_end,omitempty"`
	Subject   string `json:"subject"`
	Topic     string `json:"topic,omitempty"`
	Teacher   string `json:"teacher,omitempty"`
	Classroom string `json:"classroom,omitempty"`
}

// ScheduleEntry is one committed class in the weekly schedule.
type ScheduleEntry struct {
	ID          int64     `json:"id"`
	DayOfWeek   int       `json:"day_of_week"` // 0=Monday, 6=Sunday
	TimeStart   string    `json:"time_start"`
	TimeEnd     string    `json:"time_end,omitempty"`
	Subject     string    `json:"subject"`
	Topic       string    `json:"topic"`
	Teacher     string    `json:"teacher"`
	Classroom   string    `json:"classroom"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// EntryFromDraft turns a finished draft into a schedule record.
func EntryFromDraft(d ScheduleDraft) ScheduleEntry {
	return ScheduleEntry{
		DayOfWeek: d.DayOfWeek,
		TimeStart: d.TimeStart,
		TimeEnd:   d.TimeEnd,
		Subject:   d.Subject,
		Topic:     d.Topic,
		Teacher:   d.Teacher,
		Classroom: d.Classroom,
	}
}

// Material is a study resource linked from the bot.
type Material struct {
	ID          int64  `json:"id"`
	Subject     string `json:"subject"`
	Topic       string `json:"topic"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
	Language    string `json:"language"`
}

// Stats summarizes the user base for admins.
type Stats struct {
	TotalUsers  int            `json:"total_users"`
	ActiveUsers int            `json:"active_users"`
	ByLanguage  map[string]int `json:"language_stats"`
}

// Button is an inline button: a label and the payload sent back when pressed.
type Button struct {
	Text string `json:"text"`
	Data string `json:"data"`
}

// Keyboard is a grid of inline buttons, row by row.
type Keyboard [][]Button

// Row builds a keyboard row.
func Row(buttons ...Button) []Button {
	return buttons
}

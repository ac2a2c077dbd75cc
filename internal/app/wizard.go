package app

import (
	"fmt"
	"strconv"
	"strings"

	"ent-bot/internal/domain"
)

// Stage is the field a schedule wizard is waiting for.
type Stage int

const (
	AwaitingDay Stage = iota
	AwaitingTimeStart
	AwaitingTimeEnd
	AwaitingSubject
	AwaitingTopic
	AwaitingTeacher
	AwaitingClassroom
	Committed
)

var stageNames = [...]string{
	"awaiting_day", "awaiting_time_start", "awaiting_time_end", "awaiting_subject",
	"awaiting_topic", "awaiting_teacher", "awaiting_classroom", "committed",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "stage(" + strconv.Itoa(int(s)) + ")"
	}
	return stageNames[s]
}

// Wizard is an admin's in-progress schedule entry.
// Manual is set after the admin asked to type a time instead of picking a button.
type Wizard struct {
	Stage  Stage                `json:"stage"`
	Draft  domain.ScheduleDraft `json:"draft"`
	Manual bool                 `json:"manual,omitempty"`
}

// InputKind tags a WizardInput.
type InputKind int

const (
	InputSelect InputKind = iota // button press carrying a value
	InputText                    // free text
	InputCustom                  // request to type the value by hand
	InputSkip                    // explicit skip button
)

type WizardInput struct {
	Kind  InputKind
	Value string
}

func Select(value string) WizardInput { return WizardInput{Kind: InputSelect, Value: value} }
func Text(value string) WizardInput   { return WizardInput{Kind: InputText, Value: value} }
func Custom() WizardInput             { return WizardInput{Kind: InputCustom} }
func Skip() WizardInput               { return WizardInput{Kind: InputSkip} }

// skipMark is typed to leave an optional field empty.
const skipMark = "-"

// Advance applies one input to w. On error the returned wizard is w unchanged.
func Advance(w Wizard, in WizardInput) (Wizard, error) {
	value := strings.TrimSpace(in.Value)
	next := w
	next.Manual = false

	switch w.Stage {
	case AwaitingDay:
		if in.Kind != InputSelect {
			return w, domain.ErrUnexpectedInput
		}
		day, err := strconv.Atoi(value)
		if err != nil || day < 0 || day > 6 {
			return w, fmt.Errorf("day %q: %w", value, domain.ErrUnexpectedInput)
		}
		next.Draft.DayOfWeek = day
		next.Stage = AwaitingTimeStart

	case AwaitingTimeStart:
		switch in.Kind {
		case InputCustom:
			next.Manual = true
			return next, nil
		case InputSkip:
			return w, domain.ErrRequiredField
		}
		if value == "" || value == skipMark {
			return w, domain.ErrRequiredField
		}
		next.Draft.TimeStart = value
		next.Stage = AwaitingTimeEnd

	case AwaitingTimeEnd:
		switch in.Kind {
		case InputCustom:
			next.Manual = true
			return next, nil
		case InputSkip:
			value = ""
		}
		if value == skipMark {
			value = ""
		}
		next.Draft.TimeEnd = value
		next.Stage = AwaitingSubject

	case AwaitingSubject:
		if in.Kind != InputSelect && in.Kind != InputText {
			if in.Kind == InputSkip {
				return w, domain.ErrRequiredField
			}
			return w, domain.ErrUnexpectedInput
		}
		if value == "" || value == skipMark {
			return w, domain.ErrRequiredField
		}
		next.Draft.Subject = value
		next.Stage = AwaitingTopic

	case AwaitingTopic, AwaitingTeacher, AwaitingClassroom:
		value, err := optionalText(in, value)
		if err != nil {
			return w, err
		}
		switch w.Stage {
		case AwaitingTopic:
			next.Draft.Topic = value
			next.Stage = AwaitingTeacher
		case AwaitingTeacher:
			next.Draft.Teacher = value
			next.Stage = AwaitingClassroom
		default:
			next.Draft.Classroom = value
			next.Stage = Committed
		}

	default:
		return w, domain.ErrUnexpectedInput
	}
	return next, nil
}

func optionalText(in WizardInput, value string) (string, error) {
	switch in.Kind {
	case InputSkip:
		return "", nil
	case InputText:
		if value == skipMark {
			return "", nil
		}
		return value, nil
	}
	return "", domain.ErrUnexpectedInput
}

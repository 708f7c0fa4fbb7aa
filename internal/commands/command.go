package commands

import (
	"fmt"
	"strings"

	"github.com/joaoVitorVallim/ToDoList/internal/model"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeDates  Type = "dates"
	TypeToggle Type = "toggle"
	TypeRemove Type = "remove"
	TypeTime   Type = "time"
	TypeGoto   Type = "goto"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func invalid(format string, args ...any) error {
	return &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// AddArgs creates a task on the focused day. "add title | description @HH:MM"
type AddArgs struct {
	Title       string
	Description string
	Time        *model.TimeOfDay
}

type DatesMode string

const (
	DatesRange DatesMode = "range"
	DatesMonth DatesMode = "month"
	DatesYear  DatesMode = "year"
	DatesList  DatesMode = "list"
)

// DatesArgs adds days to the selected task. Month and year expand from the
// focused day, so the handler resolves them.
type DatesArgs struct {
	Mode DatesMode
	From model.Day
	To   model.Day
	Days []model.Day
}

// DayArgs targets a day of the selected task; a nil Day means the focused day.
type DayArgs struct {
	Day   *model.Day
	Prune bool
}

// TimeArgs sets or clears the selected task's time.
type TimeArgs struct {
	Time *model.TimeOfDay
}

type GotoArgs struct {
	Day   model.Day
	Today bool
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Dates  *DatesArgs
	Toggle *DayArgs
	Remove *DayArgs
	Time   *TimeArgs
	Goto   *GotoArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeDates:
		return parseDates(input, args)
	case TypeToggle:
		day, err := parseDayArgs("toggle", args, false)
		if err != nil {
			return Command{}, err
		}
		return Command{Type: TypeToggle, Raw: input, Toggle: day}, nil
	case TypeRemove:
		day, err := parseDayArgs("remove", args, true)
		if err != nil {
			return Command{}, err
		}
		return Command{Type: TypeRemove, Raw: input, Remove: day}, nil
	case TypeTime:
		return parseTime(input, args)
	case TypeGoto:
		return parseGoto(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	var tm *model.TimeOfDay
	words := make([]string, 0, len(args))
	for _, arg := range args {
		if strings.HasPrefix(arg, "@") && len(arg) > 1 {
			parsed, err := model.ParseTimeOfDay(arg[1:])
			if err != nil {
				return Command{}, invalid("add: bad time %q", arg[1:])
			}
			tm = &parsed
			continue
		}
		words = append(words, arg)
	}
	text := strings.Join(words, " ")
	title, description, _ := strings.Cut(text, "|")
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" {
		return Command{}, invalid("add requires a title")
	}
	if description == "" {
		description = title
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Title: title, Description: description, Time: tm}}, nil
}

func parseDates(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, invalid("dates requires range A B, month, year or a list of dates")
	}
	switch DatesMode(strings.ToLower(args[0])) {
	case DatesRange:
		if len(args) != 3 {
			return Command{}, invalid("dates range requires a start and an end date")
		}
		from, err := model.ParseDay(args[1])
		if err != nil {
			return Command{}, invalid("dates range: %v", err)
		}
		to, err := model.ParseDay(args[2])
		if err != nil {
			return Command{}, invalid("dates range: %v", err)
		}
		if from.After(to) {
			return Command{}, invalid("dates range: %s is after %s", from, to)
		}
		return Command{Type: TypeDates, Raw: raw, Dates: &DatesArgs{Mode: DatesRange, From: from, To: to}}, nil
	case DatesMonth:
		return Command{Type: TypeDates, Raw: raw, Dates: &DatesArgs{Mode: DatesMonth}}, nil
	case DatesYear:
		return Command{Type: TypeDates, Raw: raw, Dates: &DatesArgs{Mode: DatesYear}}, nil
	}
	days, err := model.NormalizeAll(args)
	if err != nil {
		return Command{}, invalid("dates: %v", err)
	}
	return Command{Type: TypeDates, Raw: raw, Dates: &DatesArgs{Mode: DatesList, Days: days}}, nil
}

func parseDayArgs(name string, args []string, allowPrune bool) (*DayArgs, error) {
	out := &DayArgs{}
	for _, arg := range args {
		if allowPrune && (arg == "--prune" || arg == "prune") {
			out.Prune = true
			continue
		}
		if out.Day != nil {
			return nil, invalid("%s takes at most one date", name)
		}
		day, err := model.ParseDay(arg)
		if err != nil {
			return nil, invalid("%s: %v", name, err)
		}
		out.Day = &day
	}
	return out, nil
}

func parseTime(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("time requires HH:MM or none")
	}
	if strings.EqualFold(args[0], "none") {
		return Command{Type: TypeTime, Raw: raw, Time: &TimeArgs{}}, nil
	}
	tm, err := model.ParseTimeOfDay(args[0])
	if err != nil {
		return Command{}, invalid("time: %v", err)
	}
	return Command{Type: TypeTime, Raw: raw, Time: &TimeArgs{Time: &tm}}, nil
}

func parseGoto(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("goto requires a date or today")
	}
	if strings.EqualFold(args[0], "today") {
		return Command{Type: TypeGoto, Raw: raw, Goto: &GotoArgs{Today: true}}, nil
	}
	day, err := model.ParseDay(args[0])
	if err != nil {
		return Command{}, invalid("goto: %v", err)
	}
	return Command{Type: TypeGoto, Raw: raw, Goto: &GotoArgs{Day: day}}, nil
}

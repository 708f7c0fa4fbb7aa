package tasks

import (
	"fmt"

	"github.com/joaoVitorVallim/ToDoList/internal/model"
	"github.com/joaoVitorVallim/ToDoList/internal/storage"
)

func toRecord(t model.Task) storage.Task {
	timeOfDay := ""
	if t.Time != nil {
		timeOfDay = t.Time.String()
	}
	return storage.Task{
		ID:            t.ID,
		OwnerID:       t.OwnerID,
		Title:         t.Title,
		Description:   t.Description,
		TimeOfDay:     timeOfDay,
		PendingDays:   t.Pending.Strings(),
		CompletedDays: t.Completed.Strings(),
		NotifiedDays:  t.Notified.Strings(),
		Version:       t.Version,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

// fromRecord rebuilds a task from storage. Anything that does not parse back
// into a valid task is reported as ErrCorruptRecord.
func fromRecord(rec storage.Task) (model.Task, error) {
	if rec.DecodeErr != nil {
		return model.Task{}, fmt.Errorf("%w: task %s: %v", ErrCorruptRecord, rec.ID, rec.DecodeErr)
	}
	tm, err := model.ParseOptionalTimeOfDay(rec.TimeOfDay)
	if err != nil {
		return model.Task{}, fmt.Errorf("%w: task %s: %v", ErrCorruptRecord, rec.ID, err)
	}
	pending, err := parseDaySet(rec.ID, rec.PendingDays)
	if err != nil {
		return model.Task{}, err
	}
	completed, err := parseDaySet(rec.ID, rec.CompletedDays)
	if err != nil {
		return model.Task{}, err
	}
	notified, err := parseDaySet(rec.ID, rec.NotifiedDays)
	if err != nil {
		return model.Task{}, err
	}
	out := model.Task{
		ID:          rec.ID,
		OwnerID:     rec.OwnerID,
		Title:       rec.Title,
		Description: rec.Description,
		Time:        tm,
		Pending:     pending,
		Completed:   completed,
		Notified:    notified,
		Version:     rec.Version,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
	if err := out.Validate(); err != nil {
		return model.Task{}, fmt.Errorf("%w: task %s: %v", ErrCorruptRecord, rec.ID, err)
	}
	return out, nil
}

func parseDaySet(taskID string, raw []string) (model.DaySet, error) {
	set := make(model.DaySet, len(raw))
	for _, value := range raw {
		d, err := model.ParseDay(value)
		if err != nil {
			return nil, fmt.Errorf("%w: task %s: %v", ErrCorruptRecord, taskID, err)
		}
		set.Add(d)
	}
	return set, nil
}

func userToRecord(u model.User) storage.User {
	return storage.User{
		ID:                   u.ID,
		Name:                 u.Name,
		Email:                u.Email,
		TelegramChatID:       u.TelegramChatID,
		NotificationsEnabled: u.NotificationsEnabled,
		CreatedAt:            u.CreatedAt,
	}
}

func userFromRecord(rec storage.User) model.User {
	return model.User{
		ID:                   rec.ID,
		Name:                 rec.Name,
		Email:                rec.Email,
		TelegramChatID:       rec.TelegramChatID,
		NotificationsEnabled: rec.NotificationsEnabled,
		CreatedAt:            rec.CreatedAt,
	}
}

// Package schedule runs the shopping reminder on the configured days.
package schedule

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ramanasai/shoppingify/internal/config"
	"github.com/ramanasai/shoppingify/internal/model"
	"github.com/ramanasai/shoppingify/internal/notify"
)

// NextAt computes the next reminder time that falls on a configured workday
// and is not a holiday. With no workdays configured every day qualifies.
func NextAt(now time.Time, cfg config.ReminderConfig, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)

	hour, minute := 10, 0
	if t, err := time.ParseInLocation("15:04", strings.TrimSpace(cfg.Time), loc); err == nil {
		hour, minute = t.Hour(), t.Minute()
	}
	workdays := map[string]bool{}
	for _, d := range cfg.Workdays {
		d = strings.ToLower(strings.TrimSpace(d))
		if len(d) >= 3 {
			workdays[d[:3]] = true
		}
	}
	holidays := map[string]bool{}
	for _, h := range cfg.Holidays {
		holidays[strings.TrimSpace(h)] = true
	}
	ok := func(t time.Time) bool {
		day := strings.ToLower(t.Weekday().String()[:3])
		if len(workdays) > 0 && !workdays[day] {
			return false
		}
		return !holidays[t.Format("2006-01-02")]
	}

	cand := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, loc)
	if !now.Before(cand) {
		cand = cand.AddDate(0, 0, 1)
	}
	// a year of holidays is the most that can block every candidate
	for i := 0; i < 366 && !ok(cand); i++ {
		cand = cand.AddDate(0, 0, 1)
	}
	return cand
}

// ActiveListFunc returns the list the reminder talks about; nil means none.
type ActiveListFunc func(ctx context.Context) (*model.ShoppingList, error)

// Reminder announces how many entries are still pending on the active list.
type Reminder struct {
	Config   config.ReminderConfig
	Location *time.Location
	Active   ActiveListFunc
	Send     notify.Sender
	Log      *zap.Logger

	now func() time.Time
}

// Fire sends one reminder. An absent or empty list sends nothing.
func (r *Reminder) Fire(ctx context.Context) error {
	l, err := r.Active(ctx)
	if err != nil {
		return err
	}
	if l.IsEmpty() {
		return nil
	}
	title, msg := notify.FormatReminder(l.Name, l.Pending())
	return r.Send(title, msg)
}

// Run fires the reminder at each scheduled time until ctx is canceled.
func (r *Reminder) Run(ctx context.Context) {
	now := r.now
	if now == nil {
		now = time.Now
	}
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}

	next := NextAt(now(), r.Config, r.Location)
	log.Debug("reminder scheduled", zap.Time("at", next))
	t := time.NewTimer(next.Sub(now()))
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := r.Fire(ctx); err != nil {
				log.Warn("reminder failed", zap.Error(err))
			}
			next = NextAt(now(), r.Config, r.Location)
			t.Reset(next.Sub(now()))
		}
	}
}

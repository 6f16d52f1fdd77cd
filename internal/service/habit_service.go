package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"habittrack/internal/model"
	"habittrack/internal/util"
)

type HabitService struct {
	habits    HabitStore
	overrides OverrideStore
	logger    *zap.Logger
	now       func() time.Time
}

func NewHabitService(habits HabitStore, overrides OverrideStore, logger *zap.Logger) *HabitService {
	return &HabitService{
		habits:    habits,
		overrides: overrides,
		logger:    logger,
		now:       time.Now,
	}
}

// ListCurrent returns the user's live habits with their current defaults.
func (s *HabitService) ListCurrent(ctx context.Context, userID int) ([]model.Habit, error) {
	return s.habits.ListCurrent(ctx, userID)
}

// ListForMonth returns the habits as they appeared in (year, month): habits
// visible that month, each carrying the month's override name/goal when one
// exists and the habit default otherwise.
func (s *HabitService) ListForMonth(ctx context.Context, userID, year, month int) ([]model.MonthHabit, error) {
	habits, err := s.habits.ListForMonth(ctx, userID, util.EndOfMonth(year, month))
	if err != nil {
		return nil, err
	}

	goals, err := s.overrides.GoalsForMonth(ctx, userID, year, month)
	if err != nil {
		return nil, err
	}
	names, err := s.overrides.NamesForMonth(ctx, userID, year, month)
	if err != nil {
		return nil, err
	}

	return ResolveMonth(habits, goals, names), nil
}

// ResolveMonth merges the override patch layer into the habit defaults.
// Absence of an override means "inherit the default", never "no value".
func ResolveMonth(habits []model.Habit, goals map[int]int, names map[int]string) []model.MonthHabit {
	resolved := make([]model.MonthHabit, 0, len(habits))
	for _, h := range habits {
		mh := model.MonthHabit{Habit: h, OriginalName: h.Name}
		if goal, ok := goals[h.ID]; ok {
			mh.Goal = goal
		}
		if name, ok := names[h.ID]; ok {
			mh.Name = name
		}
		resolved = append(resolved, mh)
	}
	return resolved
}

// Create appends a habit at the end of the user's display order.
func (s *HabitService) Create(ctx context.Context, userID int, name string, goal int, color string) (*model.Habit, error) {
	count, err := s.habits.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	h := &model.Habit{
		UserID:    userID,
		Name:      name,
		Goal:      goal,
		Color:     color,
		Order:     count,
		CreatedAt: s.now(),
	}
	if h.Goal == 0 {
		h.Goal = 30
	}
	if h.Color == "" {
		h.Color = "#4CAF50"
	}

	if err := s.habits.Insert(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

// Update patches a habit's mutable fields.
func (s *HabitService) Update(ctx context.Context, userID, habitID int, name *string, goal *int, color *string, order *int) (*model.Habit, error) {
	return s.habits.Update(ctx, userID, habitID, name, goal, color, order)
}

// UpdateGoal sets the goal for (habit, year, month) and makes it the new
// default: the month gets an override, the habit default changes, and past
// months keep showing their own overrides or the pre-change default they were
// resolved against.
func (s *HabitService) UpdateGoal(ctx context.Context, userID, habitID, year, month, goal int) error {
	if _, err := s.habits.FindByID(ctx, userID, habitID); err != nil {
		return err
	}

	override := &model.MonthlyGoal{
		UserID:  userID,
		HabitID: habitID,
		Year:    year,
		Month:   month,
		Goal:    goal,
	}
	if err := s.overrides.UpsertGoal(ctx, override); err != nil {
		return err
	}

	return s.habits.SetDefaultGoal(ctx, habitID, goal)
}

// UpdateName applies one of two rename policies.
//
// Past month (isCurrentMonth false): only that month's override changes.
//
// Current month (isCurrentMonth true): the rename applies "going forward".
// Every month from the habit's creation up to the target month that has no
// override yet gets one frozen at the old name, the habit default flips to
// the new name, and the target month's override is removed so the default
// shows through. The freeze uses insert-if-absent; existing overrides are
// never clobbered. The inserts are independent statements, so a failure
// mid-way leaves a partial freeze; re-running the rename completes it.
func (s *HabitService) UpdateName(ctx context.Context, userID, habitID, year, month int, name string, isCurrentMonth bool) error {
	habit, err := s.habits.FindByID(ctx, userID, habitID)
	if err != nil {
		return err
	}

	if !isCurrentMonth {
		return s.overrides.UpsertName(ctx, &model.MonthlyHabitName{
			UserID:  userID,
			HabitID: habitID,
			Year:    year,
			Month:   month,
			Name:    name,
		})
	}

	oldName := habit.Name

	existing, err := s.overrides.NameMonths(ctx, userID, habitID)
	if err != nil {
		return err
	}

	for _, ym := range util.MonthsBefore(habit.CreatedAt, year, month) {
		if existing[ym] {
			continue
		}
		err := s.overrides.InsertNameIfAbsent(ctx, &model.MonthlyHabitName{
			UserID:  userID,
			HabitID: habitID,
			Year:    ym[0],
			Month:   ym[1],
			Name:    oldName,
		})
		if err != nil {
			return err
		}
	}

	if err := s.habits.SetDefaultName(ctx, habitID, name); err != nil {
		return err
	}

	if err := s.overrides.DeleteName(ctx, userID, habitID, year, month); err != nil {
		return err
	}

	s.logger.Info("Habit renamed",
		zap.Int("habit_id", habitID),
		zap.String("old_name", oldName),
		zap.String("new_name", name),
	)
	return nil
}

// Delete soft-deletes the habit; tracking history stays.
func (s *HabitService) Delete(ctx context.Context, userID, habitID int) (bool, error) {
	return s.habits.SoftDelete(ctx, userID, habitID, s.now())
}

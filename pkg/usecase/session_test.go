package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/grocerly/grocery-admin/pkg/domain/types"
	"github.com/grocerly/grocery-admin/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func TestFormSessions(t *testing.T) {
	now := time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)
	sessions := usecase.NewFormSessions(usecase.WithSessionClock(func() time.Time { return now }))
	uc := newUseCases(t, newMockBackend())

	idle, err := uc.NewForm(types.ResourceCategory)
	gt.NoError(t, err).Required()
	busy, err := uc.NewForm(types.ResourceCategory)
	gt.NoError(t, err).Required()

	idleID := sessions.Add(idle)
	busyID := sessions.Add(busy)
	gt.Value(t, sessions.Len()).Equal(2)

	now = now.Add(20 * time.Minute)
	_, err = sessions.Get(busyID)
	gt.NoError(t, err).Required()

	now = now.Add(15 * time.Minute)
	gt.Value(t, sessions.DisposeIdle(30*time.Minute)).Equal(1)
	gt.Bool(t, idle.Disposed()).True()
	gt.Bool(t, busy.Disposed()).False()

	_, err = sessions.Get(idleID)
	gt.Error(t, err).Is(usecase.ErrSessionNotFound)

	gt.NoError(t, sessions.Close(busyID)).Required()
	gt.Bool(t, busy.Disposed()).True()
	gt.Error(t, sessions.Close(busyID)).Is(usecase.ErrSessionNotFound)
}

func TestFormSessions_KeepsSubmittingForms(t *testing.T) {
	backend := newMockBackend()
	access := backend.access(types.ResourceDeal)
	access.block = make(chan struct{})
	access.entered = make(chan struct{}, 1)
	uc := newUseCases(t, backend)

	now := time.Now()
	sessions := usecase.NewFormSessions(usecase.WithSessionClock(func() time.Time { return now }))

	form, err := uc.NewForm(types.ResourceDeal)
	gt.NoError(t, err).Required()
	fillDeal(t, form)
	sessions.Add(form)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = form.Submit(context.Background())
	}()
	<-access.entered

	now = now.Add(time.Hour)
	gt.Value(t, sessions.DisposeIdle(time.Minute)).Equal(0)

	close(access.block)
	<-done
	gt.Value(t, sessions.DisposeIdle(time.Minute)).Equal(1)
}

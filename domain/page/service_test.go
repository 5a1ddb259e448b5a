package page

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/feastline/prelaunch/internal/content"
	"github.com/feastline/prelaunch/internal/log"
)

type fakeRevealStore struct {
	mu     sync.Mutex
	values map[string]string
	err    error
}

func newFakeRevealStore() *fakeRevealStore {
	return &fakeRevealStore{values: map[string]string{}}
}

func (f *fakeRevealStore) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	return f.values[key], nil
}

func (f *fakeRevealStore) SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	if _, exists := f.values[key]; exists {
		return false, nil
	}
	f.values[key] = value
	return true, nil
}

func newTestService(store RevealStore, launchAt time.Time) PageService {
	return NewPageService(log.NewLoggerWithJSONOutput(), launchAt, store, nil)
}

func TestPageService_BuildView(t *testing.T) {
	launchAt := time.Date(2026, 11, 1, 12, 0, 0, 0, time.UTC)
	service := newTestService(nil, launchAt)

	now := launchAt.Add(-48 * time.Hour)
	view := service.BuildView(context.Background(), "visitor-1", now)

	assert.Equal(t, len(content.SectionIDs()), len(view.Sections))
	for i, id := range content.SectionIDs() {
		assert.Equal(t, id, view.Sections[i].ID)
		assert.False(t, view.Sections[i].Revealed)
	}

	assert.Equal(t, 2, view.Countdown.Days)
	assert.False(t, view.Countdown.Expired)
	assert.Equal(t, launchAt.UnixMilli(), view.LaunchAtMillis)
	assert.Equal(t, now.Year(), view.Year)
}

func TestPageService_BuildView_HumanizesSectionLabels(t *testing.T) {
	service := newTestService(nil, time.Now().Add(time.Hour))

	view := service.BuildView(context.Background(), "visitor-1", time.Now())

	labels := make(map[string]string, len(view.Sections))
	for _, s := range view.Sections {
		labels[s.ID] = s.Label
	}

	assert.Equal(t, "How It Works", labels[content.SectionHowItWorks])
	assert.Equal(t, "Hero", labels[content.SectionHero])
}

func TestPageService_Countdown_ExpiredAfterLaunch(t *testing.T) {
	launchAt := time.Now().Add(-time.Minute)
	service := newTestService(nil, launchAt)

	resp := service.Countdown(time.Now())

	assert.True(t, resp.Expired)
	assert.Zero(t, resp.Days)
	assert.Zero(t, resp.Hours)
	assert.Zero(t, resp.Minutes)
	assert.Zero(t, resp.Seconds)
}

func TestPageService_MarkSeen_FirstViewWinsOnce(t *testing.T) {
	service := newTestService(nil, time.Now().Add(time.Hour))

	first, err := service.MarkSeen(context.Background(), "visitor-1", content.SectionHero)
	assert.NoError(t, err)
	assert.True(t, first.FirstView)

	repeat, err := service.MarkSeen(context.Background(), "visitor-1", content.SectionHero)
	assert.NoError(t, err)
	assert.False(t, repeat.FirstView)

	// A different visitor still gets their own first view.
	other, err := service.MarkSeen(context.Background(), "visitor-2", content.SectionHero)
	assert.NoError(t, err)
	assert.True(t, other.FirstView)
}

func TestPageService_MarkSeen_PersistsIntoBuildView(t *testing.T) {
	service := newTestService(nil, time.Now().Add(time.Hour))

	_, err := service.MarkSeen(context.Background(), "visitor-1", content.SectionProblem)
	assert.NoError(t, err)

	view := service.BuildView(context.Background(), "visitor-1", time.Now())
	for _, s := range view.Sections {
		if s.ID == content.SectionProblem {
			assert.True(t, s.Revealed)
		} else {
			assert.False(t, s.Revealed)
		}
	}

	// The other visitor's page is untouched.
	otherView := service.BuildView(context.Background(), "visitor-2", time.Now())
	for _, s := range otherView.Sections {
		assert.False(t, s.Revealed)
	}
}

func TestPageService_MarkSeen_UsesStoreWhenPresent(t *testing.T) {
	store := newFakeRevealStore()
	service := newTestService(store, time.Now().Add(time.Hour))

	first, err := service.MarkSeen(context.Background(), "visitor-1", content.SectionCTA)
	assert.NoError(t, err)
	assert.True(t, first.FirstView)

	repeat, err := service.MarkSeen(context.Background(), "visitor-1", content.SectionCTA)
	assert.NoError(t, err)
	assert.False(t, repeat.FirstView)

	view := service.BuildView(context.Background(), "visitor-1", time.Now())
	for _, s := range view.Sections {
		if s.ID == content.SectionCTA {
			assert.True(t, s.Revealed)
		}
	}
}

func TestPageService_MarkSeen_FallsBackWhenStoreFails(t *testing.T) {
	store := newFakeRevealStore()
	store.err = errors.New("redis down")
	service := newTestService(store, time.Now().Add(time.Hour))

	first, err := service.MarkSeen(context.Background(), "visitor-1", content.SectionFooter)
	assert.NoError(t, err)
	assert.True(t, first.FirstView)

	repeat, err := service.MarkSeen(context.Background(), "visitor-1", content.SectionFooter)
	assert.NoError(t, err)
	assert.False(t, repeat.FirstView)
}

func TestPageService_MarkSeen_RejectsUnknownSection(t *testing.T) {
	service := newTestService(nil, time.Now().Add(time.Hour))

	resp, err := service.MarkSeen(context.Background(), "visitor-1", "sidebar")
	assert.Error(t, err)
	assert.Nil(t, resp)
}

func TestPageService_MarkSeen_RequiresVisitor(t *testing.T) {
	service := newTestService(nil, time.Now().Add(time.Hour))

	resp, err := service.MarkSeen(context.Background(), "", content.SectionHero)
	assert.Error(t, err)
	assert.Nil(t, resp)
}

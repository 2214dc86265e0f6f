package presence_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/facewatch/attendance/internal/presence"
)

type fakeNotifier struct {
	mu      sync.Mutex
	changes []presence.RoomChange
}

func (f *fakeNotifier) NotifyRoomChange(c presence.RoomChange) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.changes = append(f.changes, c)
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.changes)
}

func TestTouch_FirstTimeIsAddedAndNotifies(t *testing.T) {
	notifier := &fakeNotifier{}
	tr := presence.NewTracker(30*time.Second, notifier)

	res := tr.Touch("room-1", 1, "cam-1", time.Now(), 0.9)
	require.Equal(t, presence.Added, res)
	require.Equal(t, 1, notifier.count())
}

func TestTouch_SecondTimeIsRefreshedWithoutNotify(t *testing.T) {
	notifier := &fakeNotifier{}
	tr := presence.NewTracker(30*time.Second, notifier)
	now := time.Now()

	tr.Touch("room-1", 1, "cam-1", now, 0.9)
	res := tr.Touch("room-1", 1, "cam-1", now.Add(time.Second), 0.95)
	require.Equal(t, presence.Refreshed, res)
	require.Equal(t, 1, notifier.count())
}

func TestSnapshot_ExcludesExpiredEntries(t *testing.T) {
	tr := presence.NewTracker(10*time.Second, nil)
	now := time.Now()

	tr.Touch("room-1", 1, "cam-1", now.Add(-20*time.Second), 0.9)
	tr.Touch("room-1", 2, "cam-1", now, 0.9)

	entries := tr.Snapshot("room-1", now)
	require.Len(t, entries, 1)
	require.Equal(t, int64(2), entries[0].PersonID)
}

func TestSnapshot_SortedByLastSeenDescending(t *testing.T) {
	tr := presence.NewTracker(time.Minute, nil)
	now := time.Now()

	tr.Touch("room-1", 1, "cam-1", now.Add(-5*time.Second), 0.9)
	tr.Touch("room-1", 2, "cam-1", now, 0.9)

	entries := tr.Snapshot("room-1", now)
	require.Len(t, entries, 2)
	require.Equal(t, int64(2), entries[0].PersonID)
	require.Equal(t, int64(1), entries[1].PersonID)
}

func TestSnapshotAll_DedupesPersonAcrossRoomsByMostRecent(t *testing.T) {
	tr := presence.NewTracker(time.Minute, nil)
	now := time.Now()

	tr.Touch("room-1", 1, "cam-1", now.Add(-10*time.Second), 0.9)
	tr.Touch("room-2", 1, "cam-2", now, 0.9) // same person, newer, different room

	rooms, unique := tr.SnapshotAll(now)
	require.Equal(t, 1, unique)
	require.Len(t, rooms, 2)
}

func TestLocate_ReturnsMostRecentRoom(t *testing.T) {
	tr := presence.NewTracker(time.Minute, nil)
	now := time.Now()

	tr.Touch("room-1", 1, "cam-1", now.Add(-10*time.Second), 0.9)
	tr.Touch("room-2", 1, "cam-2", now, 0.9)

	room, ok := tr.Locate(1, now)
	require.True(t, ok)
	require.Equal(t, "room-2", room)
}

func TestLocate_NoneWhenAllExpired(t *testing.T) {
	tr := presence.NewTracker(5*time.Second, nil)
	now := time.Now()
	tr.Touch("room-1", 1, "cam-1", now.Add(-time.Minute), 0.9)

	_, ok := tr.Locate(1, now)
	require.False(t, ok)
}

func TestEvictionSweep_RemovesExpiredAndNotifies(t *testing.T) {
	notifier := &fakeNotifier{}
	tr := presence.NewTracker(20*time.Millisecond, notifier)
	tr.Touch("room-1", 1, "cam-1", time.Now(), 0.9)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	go tr.RunEvictionSweep(ctx, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		entries := tr.Snapshot("room-1", time.Now())
		return len(entries) == 0
	}, 500*time.Millisecond, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		return notifier.count() >= 2 // one "added" from Touch, one "evicted" from the sweep
	}, 500*time.Millisecond, 10*time.Millisecond)
}

func TestRemovePerson_DropsEveryRoomAndNotifies(t *testing.T) {
	notifier := &fakeNotifier{}
	tr := presence.NewTracker(time.Minute, notifier)
	now := time.Now()

	tr.Touch("room-1", 1, "cam-1", now, 0.9)
	tr.Touch("room-2", 1, "cam-2", now, 0.8)
	tr.Touch("room-1", 2, "cam-1", now, 0.7)
	before := notifier.count()

	removed := tr.RemovePerson(1)
	require.Equal(t, 2, removed)
	require.Equal(t, before+2, notifier.count())

	_, ok := tr.Locate(1, now)
	require.False(t, ok)

	// The other occupant is untouched.
	entries := tr.Snapshot("room-1", now)
	require.Len(t, entries, 1)
	require.Equal(t, int64(2), entries[0].PersonID)
}

func TestRemovePerson_UnknownPersonIsNoop(t *testing.T) {
	notifier := &fakeNotifier{}
	tr := presence.NewTracker(time.Minute, notifier)

	require.Equal(t, 0, tr.RemovePerson(99))
	require.Equal(t, 0, notifier.count())
}

package worker

import (
	"github.com/facewatch/attendance/internal/hub"
	"github.com/facewatch/attendance/internal/presence"
)

// PresenceHubNotifier adapts presence.Notifier onto the subscription hub,
// so every room-change notification (from Touch or the eviction sweep)
// reaches room:<id> subscribers regardless of which camera produced it.
// One instance is shared by every worker and the presence tracker itself.
type PresenceHubNotifier struct {
	Hub *hub.Hub
}

func (n *PresenceHubNotifier) NotifyRoomChange(change presence.RoomChange) {
	n.Hub.Publish(roomTopic(change.RoomID), hub.KindEvent, nil, change)
}

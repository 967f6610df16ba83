package workflow

import (
	"time"

	"github.com/SahilDudhatWork/Synthia.AI/internal/models"
)

type ChatGroup struct {
	Label string        `json:"label"`
	Chats []models.Chat `json:"chats"`
}

// HistoryLabel buckets a chat by how many whole days ago it was created.
func HistoryLabel(createdAt, now time.Time) string {
	days := int(now.Sub(createdAt) / (24 * time.Hour))
	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days <= 7:
		return "Last 7 Days"
	case days <= 30:
		return "Last 30 Days"
	default:
		return createdAt.Format("January 2006")
	}
}

// GroupChatsByDate keeps the input order inside each group, and groups appear
// in the order their first chat does.
func GroupChatsByDate(chats []models.Chat, now time.Time) []ChatGroup {
	groups := []ChatGroup{}
	index := map[string]int{}
	for _, chat := range chats {
		label := HistoryLabel(chat.CreatedAt, now)
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, ChatGroup{Label: label})
		}
		groups[i].Chats = append(groups[i].Chats, chat)
	}
	return groups
}

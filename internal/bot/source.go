package bot

import "github.com/line/line-bot-sdk-go/v8/linebot/webhook"

// GetUserID returns the acting user's ID for any source type. Sessions
// are keyed by this value, so the same user keeps one dialog whether
// they write in a personal chat, a group, or a room. Empty when LINE
// withholds the ID (unconsented group members).
func GetUserID(source webhook.SourceInterface) string {
	switch s := source.(type) {
	case webhook.UserSource:
		return s.UserId
	case webhook.GroupSource:
		return s.UserId
	case webhook.RoomSource:
		return s.UserId
	}
	return ""
}

// GetChatID returns the conversation ID: the user ID for personal
// chats, the group or room ID otherwise. The loading animation targets
// this ID. Empty for unknown source types.
func GetChatID(source webhook.SourceInterface) string {
	switch s := source.(type) {
	case webhook.UserSource:
		return s.UserId
	case webhook.GroupSource:
		return s.GroupId
	case webhook.RoomSource:
		return s.RoomId
	}
	return ""
}

// IsPersonalChat reports whether the source is a 1-on-1 chat. Only
// personal chats get usage hints for unmatched text; in groups and
// rooms the bot answers explicit keywords and stays quiet otherwise.
func IsPersonalChat(source webhook.SourceInterface) bool {
	_, ok := source.(webhook.UserSource)
	return ok
}

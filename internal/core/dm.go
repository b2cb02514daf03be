package core

import (
	"strconv"
	"strings"
)

// A sentinel channel id is the textual form "-" + userId. It is never
// registered as a real channel; the send path recognizes it and routes the
// message point-to-point instead. The id is conversation-relative: each party
// sees the conversation keyed by the *other* party's user id.
//
// This addressing scheme is kept as a compatibility shim for existing
// clients; sendPrivateMessage is the primary DM primitive.

// IsSentinelChannelID reports whether id denotes a direct-message target.
func IsSentinelChannelID(id string) bool {
	return strings.HasPrefix(id, "-")
}

// ParseSentinelChannelID extracts the target user id from a sentinel channel
// id. Returns false for malformed (non-numeric) targets.
func ParseSentinelChannelID(id string) (int64, bool) {
	if !strings.HasPrefix(id, "-") {
		return 0, false
	}
	n, err := strconv.ParseInt(id[1:], 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// SentinelChannelID builds the sentinel id for a user.
func SentinelChannelID(userID int64) string {
	return "-" + strconv.FormatInt(userID, 10)
}

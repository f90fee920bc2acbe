package model

// ConversationKey identifies a conversation: one listing plus an unordered
// pair of participants. There is no conversations table; a conversation
// exists implicitly once its first message does. UserA is always the smaller
// id so keys compare equal regardless of who sent first.
type ConversationKey struct {
	ListingID uint64
	UserA     uint64
	UserB     uint64
}

func NewConversationKey(listingID, u1, u2 uint64) ConversationKey {
	if u1 > u2 {
		u1, u2 = u2, u1
	}
	return ConversationKey{ListingID: listingID, UserA: u1, UserB: u2}
}

// Has reports whether uid is one of the two participants.
func (k ConversationKey) Has(uid uint64) bool {
	return k.UserA == uid || k.UserB == uid
}

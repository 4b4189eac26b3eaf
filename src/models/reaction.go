package models

type ReactionKind string

const (
	ReactionLike  ReactionKind = "like"
	ReactionLove  ReactionKind = "love"
	ReactionHaha  ReactionKind = "haha"
	ReactionWow   ReactionKind = "wow"
	ReactionSad   ReactionKind = "sad"
	ReactionAngry ReactionKind = "angry"
)

// ReactionKinds lists every valid kind, in display order
var ReactionKinds = []ReactionKind{
	ReactionLike, ReactionLove, ReactionHaha, ReactionWow, ReactionSad, ReactionAngry,
}

func (k ReactionKind) Valid() bool {
	switch k {
	case ReactionLike, ReactionLove, ReactionHaha, ReactionWow, ReactionSad, ReactionAngry:
		return true
	}
	return false
}

// Reactions maps a user ID (hex) to the single reaction kind that user
// currently holds on the target. Storing one entry per user makes setting,
// switching, and removing a reaction each a single atomic field write, and
// guarantees a user is never counted in zero or two kinds.
type Reactions map[string]ReactionKind

// Counts tallies reactions per kind, with every kind present in the result
func (r Reactions) Counts() map[ReactionKind]int {
	counts := make(map[ReactionKind]int, len(ReactionKinds))
	for _, kind := range ReactionKinds {
		counts[kind] = 0
	}
	for _, kind := range r {
		counts[kind]++
	}
	return counts
}

// Total is the number of users holding any reaction
func (r Reactions) Total() int {
	return len(r)
}

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReactionKindValid(t *testing.T) {
	for _, kind := range ReactionKinds {
		assert.True(t, kind.Valid(), string(kind))
	}
	assert.False(t, ReactionKind("dislike").Valid())
	assert.False(t, ReactionKind("").Valid())
}

func TestReactionsSingleEntryPerUser(t *testing.T) {
	r := Reactions{"user1": ReactionLike}

	// switching kinds replaces the entry, it never adds a second one
	r["user1"] = ReactionLove

	assert.Equal(t, 1, r.Total())
	counts := r.Counts()
	assert.Equal(t, 0, counts[ReactionLike])
	assert.Equal(t, 1, counts[ReactionLove])
}

func TestReactionsCountsIncludeEveryKind(t *testing.T) {
	counts := Reactions{}.Counts()
	assert.Len(t, counts, len(ReactionKinds))
	for _, kind := range ReactionKinds {
		assert.Equal(t, 0, counts[kind])
	}
}

func TestReactionsCountsSumToTotal(t *testing.T) {
	r := Reactions{
		"a": ReactionLike,
		"b": ReactionLike,
		"c": ReactionSad,
		"d": ReactionAngry,
	}

	sum := 0
	for _, n := range r.Counts() {
		sum += n
	}
	assert.Equal(t, r.Total(), sum)
	assert.Equal(t, 4, r.Total())
}

package match_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tetatet/backend/internal/match"
	"tetatet/backend/internal/models"
)

func participant(gender string, age int, findGender string, ageFrom, ageTo int) models.Participant {
	return models.Participant{
		Gender:     gender,
		Age:        age,
		FindGender: findGender,
		AgeFrom:    ageFrom,
		AgeTo:      ageTo,
	}
}

func TestIsMatch_MutualAcceptance(t *testing.T) {
	a := participant("male", 30, "female", 25, 35)
	b := participant("female", 28, "male", 25, 40)

	assert.True(t, match.IsMatch(a, b))
	assert.True(t, match.IsMatch(b, a), "predicate should not depend on argument order")
}

func TestIsMatch_GenderRejectsOneDirection(t *testing.T) {
	// B підходить A, але A шукає жінку, а B - жінку, тобто A не підходить B.
	a := participant("male", 30, "female", 20, 40)
	b := participant("female", 28, "female", 20, 40)

	assert.False(t, match.IsMatch(a, b))
	assert.False(t, match.IsMatch(b, a))
}

func TestIsMatch_AnyGenderMatchesBoth(t *testing.T) {
	seeker := participant("female", 25, "any", 18, 99)
	maleHost := participant("male", 25, "any", 18, 99)
	femaleHost := participant("female", 25, "any", 18, 99)

	assert.True(t, match.IsMatch(seeker, maleHost))
	assert.True(t, match.IsMatch(seeker, femaleHost))
}

func TestIsMatch_AgeBoundariesInclusive(t *testing.T) {
	a := participant("male", 20, "any", 20, 20)
	b := participant("female", 20, "any", 20, 20)

	assert.True(t, match.IsMatch(a, b), "identical ages at inclusive boundary must match")
}

func TestIsMatch_AdjacentAgeRangesDoNotOverlap(t *testing.T) {
	// Вік A (20) не входить у [21,25], вік B (21) не входить у [18,20].
	a := participant("male", 20, "any", 18, 20)
	b := participant("female", 21, "any", 21, 25)

	assert.False(t, match.IsMatch(a, b))
	assert.False(t, match.IsMatch(b, a))
}

func TestIsMatch_OneSidedAgeMismatch(t *testing.T) {
	// B приймає вік A, але вік B поза діапазоном A.
	a := participant("male", 30, "any", 18, 25)
	b := participant("female", 28, "any", 25, 35)

	assert.False(t, match.IsMatch(a, b))
}

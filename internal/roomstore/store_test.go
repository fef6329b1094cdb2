package roomstore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tetatet/backend/internal/roomstore"
)

func TestFormatRoomKey_EmbedsCreatorGender(t *testing.T) {
	key := roomstore.FormatRoomKey("male", "abc-123")

	assert.Equal(t, "room:male:abc-123", key)
}

func TestRoomScanPrefix(t *testing.T) {
	tests := []struct {
		findGender string
		want       string
	}{
		{"male", "room:male:"},
		{"female", "room:female:"},
		{"any", "room:"},
		{"", "room:"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, roomstore.RoomScanPrefix(tt.findGender), "findGender=%q", tt.findGender)
	}
}

func TestFormatUserRoomKey(t *testing.T) {
	assert.Equal(t, "user_room:42", roomstore.FormatUserRoomKey(42))
}

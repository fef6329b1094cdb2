package models

// PartnerRequest — тіло запиту POST /api/find-partner.
// Gender тут — це стать, яку шукає користувач ("any" за замовчуванням).
type PartnerRequest struct {
	ID      int64  `json:"id" binding:"required"`
	AgeFrom int    `json:"age_from"`
	AgeTo   int    `json:"age_to"`
	Gender  string `json:"gender"`
}

// PartnerInfo — публічні поля співрозмовника. Токен партнера сюди не потрапляє.
type PartnerInfo struct {
	ID       int64  `json:"id"`
	Nickname string `json:"nickname"`
}

// MatchResult — результат пошуку партнера або опитування статусу кімнати.
type MatchResult struct {
	Status  RoomState    `json:"status"`
	RoomKey string       `json:"room_key"`
	Token   string       `json:"token,omitempty"`
	Partner *PartnerInfo `json:"partner,omitempty"`
	Message string       `json:"message,omitempty"`
}

// ChatMessage — повідомлення, яке транспортний шар публікує в канал кімнати.
// Ядро не зберігає і не інтерпретує вміст.
type ChatMessage struct {
	Nickname string `json:"nickname"`
	Message  string `json:"message"`
}

// RoomEvent — подія життєвого циклу кімнати для push-сповіщень (/ws).
type RoomEvent struct {
	Type    string       `json:"type"` // "match_found", "room_closed"
	RoomKey string       `json:"room_key"`
	Partner *PartnerInfo `json:"partner,omitempty"`
}

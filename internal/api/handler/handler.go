package handler

import (
	"tetatet/backend/internal/match"
	"tetatet/backend/internal/relay"
	"tetatet/backend/internal/token"
)

// Handler тримає посилання на сервіси ядра.
type Handler struct {
	Matcher *match.Service
	Relay   *relay.Publisher
	Tokens  *token.Issuer
}

func NewHandler(matcher *match.Service, r *relay.Publisher, tokens *token.Issuer) *Handler {
	return &Handler{Matcher: matcher, Relay: r, Tokens: tokens}
}

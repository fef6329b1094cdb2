// Package token mints the short-lived credentials that authorize a
// participant to use a room's message channel. Verification on the channel
// side only needs the same shared secret.
package token

import (
	"fmt"
	"strconv"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Issuer підписує JWT спільним секретом процесу.
type Issuer struct {
	Secret []byte
	TTL    time.Duration
}

// NewIssuer створює Issuer. ttl <= 0 означає політику за замовчуванням (60 хв).
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Issuer{Secret: []byte(secret), TTL: ttl}
}

// Issue видає новий токен для користувача в кімнаті. Кожен успішний
// join/create/повторний poll - це свіжий грант, токен не перевикористовується.
func (i *Issuer) Issue(userID int64, roomKey string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(userID, 10),
		"room": roomKey,
		"exp":  time.Now().Add(i.TTL).Unix(),
		"iss":  "tetatet-service",
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(i.Secret)
	if err != nil {
		return "", fmt.Errorf("sign token for user %d: %w", userID, err)
	}
	return signed, nil
}

// Verify перевіряє підпис і термін дії та повертає user ID і ключ кімнати.
// Використовується /ws-потоком подій; зовнішні споживачі перевіряють самі.
func (i *Issuer) Verify(tokenString string) (int64, string, error) {
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.Secret, nil
	})
	if err != nil {
		return 0, "", fmt.Errorf("parse token: %w", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return 0, "", fmt.Errorf("invalid token claims")
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return 0, "", fmt.Errorf("token subject: %w", err)
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("token subject %q is not a user id: %w", sub, err)
	}

	roomKey, _ := claims["room"].(string)
	return userID, roomKey, nil
}

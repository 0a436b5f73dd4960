package api

import (
	"context"
	"fmt"
	stdsync "sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/roomboard/roomboard-core/internal/infrastructure/config"
)

// ticketCleanInterval is how often expired ticket IDs are purged.
const ticketCleanInterval = time.Minute

// ticketRegistry issues short-lived single-use WebSocket tickets.
//
// Tickets are HS256 JWTs carrying a unique ID and a short expiry. A ticket
// can be redeemed exactly once; redeemed IDs are remembered until they
// expire so replays are rejected. When no signing secret is configured the
// registry is disabled and WebSocket connections are accepted without a
// ticket, mirroring the open-access behaviour of an empty API token.
type ticketRegistry struct {
	secret []byte
	ttl    time.Duration

	mu   stdsync.Mutex
	used map[string]time.Time // jti -> expiry
}

func newTicketRegistry(cfg config.WSTicketConfig) *ticketRegistry {
	ttl := time.Duration(cfg.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &ticketRegistry{
		secret: []byte(cfg.Secret),
		ttl:    ttl,
		used:   make(map[string]time.Time),
	}
}

// enabled reports whether ticket validation is active.
func (t *ticketRegistry) enabled() bool {
	return len(t.secret) > 0
}

// issue creates a new signed ticket and returns it with its expiry.
func (t *ticketRegistry) issue() (string, time.Time, error) {
	if !t.enabled() {
		return "", time.Time{}, fmt.Errorf("ticket signing secret not configured")
	}

	expiry := time.Now().Add(t.ttl)
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiry),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing ticket: %w", err)
	}
	return signed, expiry, nil
}

// redeem validates a ticket and marks it as used. A ticket can only be
// redeemed once; subsequent redemptions fail even before the ticket expires.
func (t *ticketRegistry) redeem(ticket string) error {
	if !t.enabled() {
		return nil
	}

	parsed, err := jwt.ParseWithClaims(ticket, &jwt.RegisteredClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return fmt.Errorf("parsing ticket: %w", err)
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.ID == "" {
		return fmt.Errorf("ticket missing ID claim")
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, seen := t.used[claims.ID]; seen {
		return fmt.Errorf("ticket already redeemed")
	}
	t.used[claims.ID] = claims.ExpiresAt.Time
	return nil
}

// cleanLoop periodically removes expired ticket IDs from the used set.
func (t *ticketRegistry) cleanLoop(ctx context.Context) {
	ticker := time.NewTicker(ticketCleanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			t.mu.Lock()
			for id, expiry := range t.used {
				if now.After(expiry) {
					delete(t.used, id)
				}
			}
			t.mu.Unlock()
		}
	}
}

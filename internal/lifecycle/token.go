package lifecycle

import (
	"fmt"
	"math/rand"

	"cafesync-order-service/internal/models"
)

const tokenAttempts = 8

// newToken generates the short human-readable order code: one random
// uppercase letter plus a 3-digit number, e.g. "A-123". Collisions
// against live orders are retried a bounded number of times; after
// that a duplicate is accepted, which at single-café volume is a
// cosmetic inconvenience rather than a correctness problem.
func (s *Service) newToken(orders []models.Order) string {
	taken := make(map[string]bool)
	for _, order := range orders {
		if !order.Status.Terminal() {
			taken[order.TokenNumber] = true
		}
	}

	token := randomToken()
	for attempt := 0; attempt < tokenAttempts && taken[token]; attempt++ {
		token = randomToken()
	}
	return token
}

func randomToken() string {
	letter := rune('A' + rand.Intn(26))
	number := 100 + rand.Intn(900)
	return fmt.Sprintf("%c-%d", letter, number)
}

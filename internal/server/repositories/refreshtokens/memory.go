package refreshtokens

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/authdash/internal/common"
	"github.com/dmitrijs2005/authdash/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository keeps refresh tokens in a map. Expired tokens are
// dropped whenever a new one is created.
type MemoryRepository struct {
	mu     sync.Mutex
	tokens map[string]models.RefreshToken
	now    func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{tokens: make(map[string]models.RefreshToken), now: time.Now}
}

func (r *MemoryRepository) Create(_ context.Context, userID string, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.purge(now)

	if _, ok := r.tokens[token]; ok {
		return common.ErrorAlreadyExists
	}
	r.tokens[token] = models.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: now.UTC(),
	}
	return nil
}

// purge drops tokens expired at now. Callers hold r.mu.
func (r *MemoryRepository) purge(now time.Time) {
	for k, rt := range r.tokens {
		if !rt.ExpiresAt.After(now) {
			delete(r.tokens, k)
		}
	}
}

func (r *MemoryRepository) Consume(_ context.Context, token string) (*models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rt, ok := r.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(r.tokens, token)
	return &rt, nil
}

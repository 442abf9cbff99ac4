package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/authdash/internal/server/models"
)

// Repository stores server-side refresh tokens. Consume removes the token
// and returns the row it held, so each token can be redeemed once.
type Repository interface {
	Create(ctx context.Context, userID string, token string, expiresAt time.Time) error
	Consume(ctx context.Context, token string) (*models.RefreshToken, error)
}

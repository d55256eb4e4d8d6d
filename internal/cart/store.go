package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNotFound indicates the requested cart could not be located.
var ErrNotFound = errors.New("cart not found")

// Store persists carts in Redis as JSON arrays keyed by cart id.
type Store struct {
	R      *redis.Client
	Prefix string
	TTL    time.Duration
}

func (s Store) ttl() time.Duration {
	if s.TTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return s.TTL
}

func (s Store) key(id string) string {
	if s.Prefix == "" {
		return "cart:" + id
	}
	return s.Prefix + ":cart:" + id
}

// Create stores an empty cart and returns its identifier.
func (s Store) Create(ctx context.Context) (string, error) {
	if s.R == nil {
		return "", errors.New("cart store not configured")
	}
	id := uuid.NewString()
	if err := s.Save(ctx, id, NewMemory()); err != nil {
		return "", err
	}
	return id, nil
}

// Load returns the cart identified by id. Reading refreshes nothing; only
// Save extends the TTL.
func (s Store) Load(ctx context.Context, id string) (*Memory, error) {
	if s.R == nil {
		return nil, errors.New("cart store not configured")
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	data, err := s.R.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load cart: %w", err)
	}
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return NewMemory(items...), nil
}

// Save overwrites the stored contents of the cart.
func (s Store) Save(ctx context.Context, id string, c Cart) error {
	if s.R == nil {
		return errors.New("cart store not configured")
	}
	items := c.Items().Slice()
	if items == nil {
		items = []Item{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.R.Set(ctx, s.key(id), data, s.ttl()).Err(); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

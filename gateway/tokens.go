package gateway

import (
	"sync"
	"time"

	"github.com/Kariqs/tablefy/models"
	"github.com/Kariqs/tablefy/storage"
	"github.com/golang-jwt/jwt/v5"
)

// expirySkew refreshes a little before the access token actually lapses.
const expirySkew = 30 * time.Second

// Claims are the fields the API puts in its access tokens.
type Claims struct {
	UserID     string `json:"userId"`
	Role       string `json:"role"`
	Restaurant string `json:"restaurant"`
	jwt.RegisteredClaims
}

// TokenStore owns the persisted credential pair.
type TokenStore struct {
	mu    sync.RWMutex
	store storage.Storage
	pair  models.TokenPair
}

func NewTokenStore(s storage.Storage) *TokenStore {
	t := &TokenStore{store: s}
	storage.LoadJSON(s, storage.KeyAuth, &t.pair)
	return t
}

func (t *TokenStore) Pair() (models.TokenPair, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.pair, t.pair.AccessToken != ""
}

func (t *TokenStore) AccessToken() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.pair.AccessToken
}

func (t *TokenStore) RefreshToken() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.pair.RefreshToken
}

func (t *TokenStore) Save(p models.TokenPair) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pair = p
	return storage.SaveJSON(t.store, storage.KeyAuth, p)
}

func (t *TokenStore) Clear() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pair = models.TokenPair{}
	return t.store.Remove(storage.KeyAuth)
}

// Claims decodes the access token without verifying its signature.
func (t *TokenStore) Claims() (Claims, bool) {
	tok := t.AccessToken()
	if tok == "" {
		return Claims{}, false
	}
	var c Claims
	if _, _, err := jwt.NewParser().ParseUnverified(tok, &c); err != nil {
		return Claims{}, false
	}
	return c, true
}

// Expired reports whether the access token carries an exp that has passed.
// Tokens that are not JWTs never count as expired.
func (t *TokenStore) Expired(now time.Time) bool {
	c, ok := t.Claims()
	if !ok || c.ExpiresAt == nil {
		return false
	}
	return !c.ExpiresAt.After(now.Add(expirySkew))
}

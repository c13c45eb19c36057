// Package auth handles OAuth2 consent, token refresh and token file persistence.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

var (
	// ErrTokenNotSet indicates no OAuth token is available.
	ErrTokenNotSet = errors.New("no token defined")
	// ErrConsentDenied is returned by Wait when the user refused access.
	ErrConsentDenied = errors.New("consent denied")
)

const stateTTL = 5 * time.Minute

// Token owns the Gmail credential: loaded from disk, obtained through consent,
// refreshed by the oauth2 library and written back on Persist.
type Token struct {
	mu          sync.RWMutex
	cfg         *oauth2.Config
	token       *oauth2.Token
	persistPath string
	stateStore  map[string]time.Time
	ready       chan struct{}
	consentErr  error
}

// NewToken creates a Token manager, loading from disk if path provided.
// A stored token that is expired and cannot be refreshed is dropped.
func NewToken(cfg *oauth2.Config, persistPath string) (*Token, error) {
	t := &Token{
		cfg:         cfg,
		persistPath: persistPath,
		stateStore:  make(map[string]time.Time),
		ready:       make(chan struct{}),
	}
	if persistPath == "" {
		return t, nil
	}

	f, err := os.Open(persistPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Printf("File %s doesn't exist, consent is required", persistPath)

			return t, nil
		}

		return nil, fmt.Errorf("os.Open failed: %w", err)
	}
	defer func() { _ = f.Close() }()

	token := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(token); err != nil {
		return nil, fmt.Errorf("json.NewDecoder.Decode failed: %w", err)
	}

	if !token.Valid() && token.RefreshToken == "" {
		log.Printf("Token in %s is expired and has no refresh token, consent is required", persistPath)

		return t, nil
	}

	t.setToken(token)

	return t, nil
}

// RedirectURL generates the OAuth2 authorization URL with a secure random state.
func (t *Token) RedirectURL() (string, error) {
	state, err := t.generateState()
	if err != nil {
		return "", fmt.Errorf("generateState failed: %w", err)
	}

	return t.cfg.AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}

func (t *Token) generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("rand.Read failed: %w", err)
	}
	state := base64.URLEncoding.EncodeToString(b)

	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	t.stateStore[state] = now.Add(stateTTL)

	for s, exp := range t.stateStore {
		if exp.Before(now) {
			delete(t.stateStore, s)
		}
	}

	return state, nil
}

func (t *Token) validateState(state string) bool {
	if state == "" {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	expiry, exists := t.stateStore[state]
	if !exists {
		return false
	}

	delete(t.stateStore, state)

	return !time.Now().After(expiry)
}

// AuthorizeCode exchanges an authorization code for an access token after validating state.
func (t *Token) AuthorizeCode(ctx context.Context, code string, state string) error {
	if !t.validateState(state) {
		return errors.New("invalid or expired state parameter")
	}

	tok, err := t.cfg.Exchange(ctx, code)
	if err != nil {
		err = fmt.Errorf("cfg.Exchange failed: %w", err)
		t.Fail(err)
		return err
	}

	t.setToken(tok)

	return nil
}

// Fail ends the consent flow with err and wakes up Wait.
// It has no effect once a token is set.
func (t *Token) Fail(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.token != nil || t.consentErr != nil {
		return
	}
	t.consentErr = err
	close(t.ready)
}

// Wait blocks until a token is available, consent fails or ctx is done.
func (t *Token) Wait(ctx context.Context) (*oauth2.Token, error) {
	select {
	case <-t.ready:
		t.mu.RLock()
		defer t.mu.RUnlock()
		if t.token == nil && t.consentErr != nil {
			return nil, t.consentErr
		}
		if t.token == nil {
			return nil, ErrTokenNotSet
		}
		return t.token, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for consent: %w", ctx.Err())
	}
}

// OAuthToken returns the current OAuth2 token.
func (t *Token) OAuthToken() (*oauth2.Token, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.token == nil {
		return nil, ErrTokenNotSet
	}

	return t.token, nil
}

// TokenSource returns a source that refreshes the current token when it expires.
// Refreshed tokens replace the stored one so Persist writes the latest credential.
func (t *Token) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	tok, err := t.OAuthToken()
	if err != nil {
		return nil, err
	}

	return &persistingSource{
		src:  t.cfg.TokenSource(ctx, tok),
		last: tok.AccessToken,
		tok:  t,
	}, nil
}

// Persist saves the token to disk.
func (t *Token) Persist() error {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.persistPath == "" || t.token == nil {
		return nil
	}

	f, err := os.OpenFile(t.persistPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("os.OpenFile failed: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := json.NewEncoder(f).Encode(t.token); err != nil {
		return fmt.Errorf("json.NewEncoder.Encode failed: %w", err)
	}

	return nil
}

func (t *Token) setToken(tok *oauth2.Token) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.token = tok
	select {
	case <-t.ready:
	default:
		close(t.ready)
	}
}

type persistingSource struct {
	mu   sync.Mutex
	src  oauth2.TokenSource
	last string
	tok  *Token
}

func (s *persistingSource) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tok, err := s.src.Token()
	if err != nil {
		return nil, fmt.Errorf("src.Token failed: %w", err)
	}

	if tok.AccessToken != s.last {
		log.Println("OAuth token refreshed")
		s.last = tok.AccessToken
		s.tok.setToken(tok)
	}

	return tok, nil
}

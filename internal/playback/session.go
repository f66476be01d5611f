package playback

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
)

const (
	callbackTimeout = 2 * time.Minute

	// tokenExpirySkew is how close to expiry a cached token is still
	// trusted without a verification round trip.
	tokenExpirySkew = time.Minute
)

var (
	// ErrMissingCredentials is returned when the Spotify client ID or secret is not set.
	ErrMissingCredentials = errors.New("missing Spotify credentials (set SPOTIFY_ID and SPOTIFY_SECRET)")

	// ErrAuthTimeout is returned when the OAuth callback is not received in time.
	ErrAuthTimeout = errors.New("authorization timed out waiting for callback")

	// ErrStateMismatch is returned when the OAuth state parameter doesn't match.
	ErrStateMismatch = errors.New("OAuth state mismatch")
)

// URLOpener opens a URL with the system browser. The authorization flow
// falls back to printing the URL when no opener is set or opening fails.
type URLOpener interface {
	Open(url string) error
}

// SessionConfig configures a Session.
type SessionConfig struct {
	ClientID     string
	ClientSecret string

	// RedirectURI must be registered with the Spotify application and use
	// a loopback host; its port and path decide where the transient
	// callback server listens.
	RedirectURI string

	// CachePath is the token cache file location.
	CachePath string

	// Opener, when set, opens the authorization URL in the browser.
	Opener URLOpener
}

// Session owns the authorized Spotify API client. The zero state has no
// client; one is built from the token cache, or by running the OAuth
// authorization code flow with a local callback server.
type Session struct {
	auth         *spotifyauth.Authenticator
	cache        *TokenCache
	opener       URLOpener
	listenAddr   string
	callbackPath string

	mu     sync.Mutex
	client *spotify.Client
}

// NewSession validates the configuration and prepares the OAuth
// authenticator with the playback scopes.
func NewSession(config SessionConfig) (*Session, error) {
	if config.ClientID == "" || config.ClientSecret == "" {
		return nil, ErrMissingCredentials
	}
	if config.CachePath == "" {
		return nil, errors.New("token cache path is required")
	}

	u, err := url.Parse(config.RedirectURI)
	if err != nil {
		return nil, fmt.Errorf("parsing redirect URI: %w", err)
	}
	if u.Host == "" || u.Path == "" {
		return nil, fmt.Errorf("redirect URI %q must include host, port and path", config.RedirectURI)
	}

	auth := spotifyauth.New(
		spotifyauth.WithClientID(config.ClientID),
		spotifyauth.WithClientSecret(config.ClientSecret),
		spotifyauth.WithRedirectURL(config.RedirectURI),
		spotifyauth.WithScopes(
			spotifyauth.ScopeUserReadPlaybackState,
			spotifyauth.ScopeUserModifyPlaybackState,
			spotifyauth.ScopeUserReadCurrentlyPlaying,
		),
	)

	return &Session{
		auth:         auth,
		cache:        NewTokenCache(config.CachePath),
		opener:       config.Opener,
		listenAddr:   u.Host,
		callbackPath: u.Path,
	}, nil
}

// Client returns the authorized API client, building one from the cached
// token when possible and running the full OAuth flow otherwise.
func (s *Session) Client(ctx context.Context) (*spotify.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return s.client, nil
	}

	token, err := s.cache.Load()
	if err != nil {
		return nil, fmt.Errorf("loading cached token: %w", err)
	}

	if token != nil {
		// oauth2 refreshes the token automatically when it expires.
		client := spotify.New(s.auth.Client(ctx, token), spotify.WithRetry(true))

		if fresh(token) {
			s.client = client
			return client, nil
		}

		// Near or past expiry: verify now so the refresh happens here
		// rather than in the middle of a playback call.
		if _, err := client.CurrentUser(ctx); err == nil {
			s.persist(client, token)
			s.client = client
			return client, nil
		}

		log.Println("Cached token rejected, starting new authorization")
	}

	client, err := s.runFlow(ctx)
	if err != nil {
		return nil, err
	}
	s.client = client
	return client, nil
}

// Reauthorize discards all cached authorization state and runs the full
// OAuth flow again.
func (s *Session) Reauthorize(ctx context.Context) (*spotify.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.client = nil
	if err := s.cache.Delete(); err != nil {
		return nil, err
	}

	client, err := s.runFlow(ctx)
	if err != nil {
		return nil, err
	}
	s.client = client
	return client, nil
}

// Invalidate drops the in-memory client and deletes the cached token.
// The next Client call will run the full OAuth flow.
func (s *Session) Invalidate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.client = nil
	return s.cache.Delete()
}

// runFlow performs the OAuth authorization code flow, catching the redirect
// with a short-lived local HTTP server. Callers hold s.mu.
func (s *Session) runFlow(ctx context.Context) (*spotify.Client, error) {
	state, err := generateState()
	if err != nil {
		return nil, fmt.Errorf("generating state: %w", err)
	}

	tokenCh := make(chan *oauth2.Token, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc(s.callbackPath, func(w http.ResponseWriter, r *http.Request) {
		s.handleCallback(w, r, state, tokenCh, errCh)
	})

	server := &http.Server{
		Addr:    s.listenAddr,
		Handler: mux,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("callback server error: %w", err)
		}
	}()

	authURL := s.auth.AuthURL(state)
	if s.opener != nil {
		if err := s.opener.Open(authURL); err != nil {
			log.Printf("Could not open browser: %v", err)
		}
	}
	fmt.Println("\nComplete the Spotify authorization in your browser:")
	fmt.Println(authURL)
	fmt.Println("\nWaiting for authorization...")

	var token *oauth2.Token
	select {
	case token = <-tokenCh:
		// Success
	case err := <-errCh:
		_ = server.Shutdown(ctx)
		return nil, err
	case <-time.After(callbackTimeout):
		_ = server.Shutdown(ctx)
		return nil, ErrAuthTimeout
	case <-ctx.Done():
		_ = server.Shutdown(ctx)
		return nil, ctx.Err()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)

	if err := s.cache.Save(token); err != nil {
		// Authorization succeeded; a cold cache only costs the next run.
		log.Printf("Warning: failed to cache token: %v", err)
	}

	return spotify.New(s.auth.Client(ctx, token), spotify.WithRetry(true)), nil
}

// handleCallback processes the OAuth callback from Spotify.
func (s *Session) handleCallback(w http.ResponseWriter, r *http.Request, expectedState string, tokenCh chan<- *oauth2.Token, errCh chan<- error) {
	if r.URL.Query().Get("state") != expectedState {
		http.Error(w, "State mismatch", http.StatusBadRequest)
		errCh <- ErrStateMismatch
		return
	}

	if errMsg := r.URL.Query().Get("error"); errMsg != "" {
		http.Error(w, "Authorization failed: "+errMsg, http.StatusBadRequest)
		errCh <- fmt.Errorf("spotify auth error: %s", errMsg)
		return
	}

	token, err := s.auth.Token(r.Context(), expectedState, r)
	if err != nil {
		http.Error(w, "Failed to get token", http.StatusInternalServerError)
		errCh <- fmt.Errorf("exchanging code for token: %w", err)
		return
	}

	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, `<!DOCTYPE html>
<html>
<head><title>Moodplay</title></head>
<body>
<h1>Authorization successful!</h1>
<p>You can close this window and return to the camera.</p>
</body>
</html>`)

	tokenCh <- token
}

// persist saves the possibly refreshed token so the next run skips the flow.
func (s *Session) persist(client *spotify.Client, old *oauth2.Token) {
	newToken, err := client.Token()
	if err != nil || newToken.AccessToken == old.AccessToken {
		return
	}
	if err := s.cache.Save(newToken); err != nil {
		log.Printf("Saving refreshed token: %v", err)
	}
}

// fresh reports whether a cached token can be used without verification.
func fresh(token *oauth2.Token) bool {
	return token.AccessToken != "" &&
		!token.Expiry.IsZero() &&
		time.Until(token.Expiry) >= tokenExpirySkew
}

// generateState creates a random state string for OAuth.
func generateState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

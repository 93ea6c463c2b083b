package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/rs/zerolog/log"
)

// logoutNoticeCooldown suppresses repeated session-expired notices when
// several in-flight requests fail at once
const logoutNoticeCooldown = 3 * time.Second

// GraphQLError is a single error entry from a GraphQL response
type GraphQLError struct {
	Message    string                 `json:"message"`
	Extensions map[string]interface{} `json:"extensions"`
}

// Code returns the machine-readable error code, if present
func (e *GraphQLError) Code() string {
	if code, ok := e.Extensions["code"].(string); ok {
		return code
	}
	return ""
}

func (e *GraphQLError) Error() string {
	return e.Message
}

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []*GraphQLError `json:"errors"`
}

// Client is a GraphQL API client with a persisted session. It attaches
// the session token to every request, proactively drops sessions whose
// token has expired, and logs the user out when the server rejects the
// token.
type Client struct {
	endpoint string
	http     *http.Client
	store    *SessionStore

	mu         sync.Mutex
	session    *Session
	cache      map[string]json.RawMessage
	lastNotice time.Time

	// OnSessionExpired, when set, is invoked (debounced) whenever the
	// client logs the user out because the session stopped being valid
	OnSessionExpired func()
}

// New creates a Client against the given endpoint, loading any persisted
// session
func New(endpoint string, store *SessionStore) (*Client, error) {
	session, err := store.Load()
	if err != nil {
		return nil, err
	}
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 30 * time.Second},
		store:    store,
		session:  session,
		cache:    make(map[string]json.RawMessage),
	}, nil
}

// Session returns a copy of the current session state
func (c *Client) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return *c.session
}

// Do executes a GraphQL operation and decodes the data payload into out.
// Server-side errors are returned as *GraphQLError; an UNAUTHENTICATED
// error additionally ends the local session.
func (c *Client) Do(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	return c.execute(ctx, c.usableToken(ctx), query, variables, out)
}

// post issues an unauthenticated operation. The refresh exchange uses it
// to avoid recursing into the token check.
func (c *Client) post(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	return c.execute(ctx, "", query, variables, out)
}

func (c *Client) execute(ctx context.Context, token, query string, variables map[string]interface{}, out interface{}) error {
	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return err
	}

	// Read operations are cached until a mutation or logout invalidates
	// the whole cache
	isQuery := !strings.HasPrefix(strings.TrimSpace(query), "mutation")
	cacheKey := string(body)
	if isQuery && out != nil {
		c.mu.Lock()
		cached, ok := c.cache[cacheKey]
		c.mu.Unlock()
		if ok {
			return json.Unmarshal(cached, out)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var gqlResp graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&gqlResp); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	if len(gqlResp.Errors) > 0 {
		gqlErr := gqlResp.Errors[0]
		if gqlErr.Code() == "UNAUTHENTICATED" {
			c.endSession()
		}
		return gqlErr
	}

	if out != nil && gqlResp.Data != nil {
		if err := json.Unmarshal(gqlResp.Data, out); err != nil {
			return fmt.Errorf("decoding data: %w", err)
		}
	}

	c.mu.Lock()
	if isQuery {
		if gqlResp.Data != nil {
			c.cache[cacheKey] = gqlResp.Data
		}
	} else {
		// Any successful mutation may invalidate previously read state
		c.cache = make(map[string]json.RawMessage)
	}
	c.mu.Unlock()

	return nil
}

// usableToken returns the session token if it has not visibly expired.
// The check decodes the payload without verifying the signature; the
// server remains the authority. An expired access token is exchanged via
// the refresh token when one is held.
func (c *Client) usableToken(ctx context.Context) string {
	c.mu.Lock()
	token := c.session.Token
	refreshToken := c.session.RefreshToken
	c.mu.Unlock()

	if token == "" {
		return ""
	}
	if !tokenExpired(token) {
		return token
	}

	if refreshToken != "" && !tokenExpired(refreshToken) {
		if payload, err := c.refresh(ctx, refreshToken); err == nil {
			return payload.Token
		}
	}

	c.endSession()
	return ""
}

// tokenExpired decodes the claims without signature verification and
// reports whether exp has passed
func tokenExpired(token string) bool {
	claims := jwt.StandardClaims{}
	parser := jwt.Parser{}
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return true
	}
	return claims.ExpiresAt > 0 && time.Now().Unix() >= claims.ExpiresAt
}

// endSession clears local state and notifies at most once per cooldown
// window
func (c *Client) endSession() {
	c.mu.Lock()
	wasAuthenticated := c.session.IsAuthenticated
	c.session = &Session{}
	c.cache = make(map[string]json.RawMessage)
	notify := wasAuthenticated && time.Since(c.lastNotice) >= logoutNoticeCooldown
	if notify {
		c.lastNotice = time.Now()
	}
	callback := c.OnSessionExpired
	c.mu.Unlock()

	if err := c.store.Clear(); err != nil {
		log.Warn().Err(err).Msg("Failed to clear session file")
	}
	if notify && callback != nil {
		callback()
	}
}

func (c *Client) saveSession(payload *AuthPayload) error {
	session := &Session{
		User:            payload.User,
		Token:           payload.Token,
		RefreshToken:    payload.RefreshToken,
		IsAuthenticated: payload.Token != "",
	}

	c.mu.Lock()
	c.session = session
	c.mu.Unlock()

	return c.store.Save(session)
}

// Logout drops the session and cached results locally. Tokens are
// stateless, so there is nothing to revoke server-side.
func (c *Client) Logout() error {
	c.mu.Lock()
	c.session = &Session{}
	c.cache = make(map[string]json.RawMessage)
	c.mu.Unlock()
	return c.store.Clear()
}

package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	ftauth "github.com/mrra1yan/FootballTalento"
	"github.com/mrra1yan/FootballTalento/notify"
	"github.com/mrra1yan/FootballTalento/password"
	"github.com/mrra1yan/FootballTalento/store/memory"
)

const testAPIKey = "test-api-key"

// captureNotifier records outbound messages so tests can fish tokens out
// of the links.
type captureNotifier struct {
	mu       sync.Mutex
	messages []notify.Message
}

func (n *captureNotifier) Send(_ context.Context, msg notify.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, msg)
	return nil
}

func (n *captureNotifier) waitForMessage(t *testing.T, kind notify.Kind) notify.Message {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		n.mu.Lock()
		for _, msg := range n.messages {
			if msg.Kind == kind {
				n.mu.Unlock()
				return msg
			}
		}
		n.mu.Unlock()
		time.Sleep(5 * time.Millisecond)
	}

	t.Fatalf("no %q message arrived", kind)
	return notify.Message{}
}

func newTestServer(t *testing.T) (*httptest.Server, *captureNotifier) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := ftauth.DefaultConfig()
	cfg.Password = password.Config{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
	cfg.PasswordReset.EnumerationDelay = time.Millisecond

	notifier := &captureNotifier{}
	engine, err := ftauth.New().
		WithConfig(cfg).
		WithRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()})).
		WithCredentialStore(memory.New()).
		WithNotifier(notifier).
		Build()
	require.NoError(t, err)
	t.Cleanup(func() { engine.Close() })

	server := NewServer(engine, zap.NewNop().Sugar(), testAPIKey)
	ts := httptest.NewServer(server.Router())
	t.Cleanup(ts.Close)

	return ts, notifier
}

func doJSON(t *testing.T, ts *httptest.Server, path string, body map[string]any, withKey bool) (*http.Response, envelope) {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, ts.URL+path, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if withKey {
		req.Header.Set(APIKeyHeader, testAPIKey)
	}

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func registerBody() map[string]any {
	return map[string]any{
		"fullName":    "Alice Martin",
		"email":       "alice@example.com",
		"password":    "Str0ng!pass",
		"accountType": "player",
		"country":     "FR",
		"currency":    "EUR",
	}
}

func tokenFromLink(t *testing.T, link string) string {
	t.Helper()

	_, token, ok := strings.Cut(link, "?token=")
	require.True(t, ok, "link %q has no token parameter", link)
	return token
}

func TestHealthzBypassesAPIKey(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthEndpointsRequireAPIKey(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, env := doJSON(t, ts, "/v1/auth/register", registerBody(), false)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "invalid_api_key", env.Code)
	assert.False(t, env.Success)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/v1/auth/register", bytes.NewReader([]byte("{}")))
	require.NoError(t, err)
	req.Header.Set(APIKeyHeader, "wrong-key")
	wrong, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer wrong.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, wrong.StatusCode)
}

func TestRegisterHappyPath(t *testing.T) {
	ts, notifier := newTestServer(t)

	resp, env := doJSON(t, ts, "/v1/auth/register", registerBody(), true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, env.Success)
	assert.Equal(t, "Registration successful. Please check your email to verify your account.", env.Message)

	data, ok := env.Data.(map[string]any)
	require.True(t, ok, "data should be an object")
	assert.NotEmpty(t, data["user_id"])
	assert.Equal(t, "alice", data["username"])
	assert.Equal(t, "alice@example.com", data["email"])
	assert.Equal(t, "Alice Martin", data["display_name"])
	assert.Equal(t, true, data["unverified"])

	msg := notifier.waitForMessage(t, notify.KindVerifyEmail)
	assert.Equal(t, "alice@example.com", msg.To)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ts, _ := newTestServer(t)

	_, env := doJSON(t, ts, "/v1/auth/register", registerBody(), true)
	require.True(t, env.Success)

	resp, env := doJSON(t, ts, "/v1/auth/register", registerBody(), true)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "email_exists", env.Code)
}

func TestRegisterMissingFieldNamesTheField(t *testing.T) {
	ts, _ := newTestServer(t)

	body := registerBody()
	delete(body, "fullName")

	resp, env := doJSON(t, ts, "/v1/auth/register", body, true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "missing_field", env.Code)
	assert.Equal(t, "Missing required field: fullName", env.Message)
}

func TestRegisterWeakPasswordDetail(t *testing.T) {
	ts, _ := newTestServer(t)

	body := registerBody()
	body["password"] = "weak1!pass"

	resp, env := doJSON(t, ts, "/v1/auth/register", body, true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "weak_password", env.Code)
	assert.Equal(t, "Password must contain at least one uppercase letter", env.Message)
}

func TestRegisterHoneypot(t *testing.T) {
	ts, _ := newTestServer(t)

	body := registerBody()
	body["website_url"] = "https://spam.example"

	resp, env := doJSON(t, ts, "/v1/auth/register", body, true)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "honeypot_caught", env.Code)
}

func TestInvalidJSONBody(t *testing.T) {
	ts, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/v1/auth/register", strings.NewReader("{not json"))
	require.NoError(t, err)
	req.Header.Set(APIKeyHeader, testAPIKey)

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_json", env.Code)
}

func TestVerifyLoginValidateLogoutFlow(t *testing.T) {
	ts, notifier := newTestServer(t)

	_, env := doJSON(t, ts, "/v1/auth/register", registerBody(), true)
	require.True(t, env.Success)

	// Login before verification is blocked.
	resp, env := doJSON(t, ts, "/v1/auth/login", map[string]any{
		"emailUsername": "alice@example.com",
		"password":      "Str0ng!pass",
	}, true)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "email_not_verified", env.Code)

	verifyToken := tokenFromLink(t, notifier.waitForMessage(t, notify.KindVerifyEmail).Params["link"])
	resp, env = doJSON(t, ts, "/v1/auth/verify-email", map[string]any{"token": verifyToken}, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Email verified successfully. You can now login.", env.Message)

	resp, env = doJSON(t, ts, "/v1/auth/login", map[string]any{
		"emailUsername": "alice@example.com",
		"password":      "Str0ng!pass",
	}, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, env.Success)

	data, ok := env.Data.(map[string]any)
	require.True(t, ok)
	authToken, ok := data["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, authToken)
	assert.Equal(t, "player", data["account_type"])
	assert.Equal(t, "FR", data["country"])
	assert.Equal(t, "EUR", data["currency"])

	resp, env = doJSON(t, ts, "/v1/auth/validate-token", map[string]any{"token": authToken}, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	account, ok := env.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "alice", account["username"])

	resp, env = doJSON(t, ts, "/v1/auth/logout", map[string]any{"token": authToken}, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Logout successful", env.Message)

	resp, env = doJSON(t, ts, "/v1/auth/validate-token", map[string]any{"token": authToken}, true)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "invalid_token", env.Code)
}

func TestLoginInvalidCredentials(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, env := doJSON(t, ts, "/v1/auth/login", map[string]any{
		"emailUsername": "nobody@example.com",
		"password":      "Str0ng!pass",
	}, true)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "invalid_credentials", env.Code)
	assert.Equal(t, "Invalid email/username or password", env.Message)
}

func TestForgotPasswordNeverRevealsAccounts(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, env := doJSON(t, ts, "/v1/auth/forgot-password", map[string]any{
		"email": "nobody@example.com",
	}, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)
	assert.Equal(t, "If an account exists with this email, you will receive password reset instructions", env.Message)
}

func TestResetPasswordExpiredTokenStatus(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, env := doJSON(t, ts, "/v1/auth/reset-password", map[string]any{
		"token":       "unknown-token",
		"newPassword": "Str0ng!pass2",
	}, true)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "invalid_token", env.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	_, env := doJSON(t, ts, "/v1/auth/register", registerBody(), true)
	require.True(t, env.Success)

	resp, err := ts.Client().Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "ftauth_register_success_total 1")
}

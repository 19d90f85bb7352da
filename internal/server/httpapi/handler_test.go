package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/avolkovs/accountd/internal/common"
	"github.com/avolkovs/accountd/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAccounts struct {
	signupKey string
	signupErr error
	loginKey  string
	loginErr  error

	gotName, gotEmail, gotUsername, gotPassword string
	gotIdentifier                               string
}

func (f *fakeAccounts) Signup(_ context.Context, name, email, username, password string) (string, error) {
	f.gotName, f.gotEmail, f.gotUsername, f.gotPassword = name, email, username, password
	return f.signupKey, f.signupErr
}

func (f *fakeAccounts) Login(_ context.Context, identifier, password string) (string, error) {
	f.gotIdentifier, f.gotPassword = identifier, password
	return f.loginKey, f.loginErr
}

type fakeVerification struct {
	sendErr    error
	confirmErr error

	gotAuthKey, gotCode string
}

func (f *fakeVerification) Send(_ context.Context, authKey string) error {
	f.gotAuthKey = authKey
	return f.sendErr
}

func (f *fakeVerification) Confirm(_ context.Context, authKey, code string) error {
	f.gotAuthKey, f.gotCode = authKey, code
	return f.confirmErr
}

func newTestServer(t *testing.T, a *fakeAccounts, v *fakeVerification) http.Handler {
	t.Helper()
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewServer(":0", time.Minute, a, v, log).routes()
}

func doRequest(t *testing.T, h http.Handler, method, target, body string) (int, apiResponse) {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rdr)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec.Code, resp
}

func TestSignup_Success(t *testing.T) {
	a := &fakeAccounts{signupKey: "key-1"}
	h := newTestServer(t, a, &fakeVerification{})

	body := `{"name":"Alice","username":"alice","email":"alice@example.com","password":"Passw0rd!"}`
	code, resp := doRequest(t, h, http.MethodPost, "/auth/signup", body)

	assert.Equal(t, http.StatusOK, code)
	assert.True(t, resp.Success)
	assert.Equal(t, "key-1", resp.AuthKey)
	assert.Empty(t, resp.Reason)

	assert.Equal(t, "Alice", a.gotName)
	assert.Equal(t, "alice", a.gotUsername)
	assert.Equal(t, "alice@example.com", a.gotEmail)
	assert.Equal(t, "Passw0rd!", a.gotPassword)
}

func TestSignup_Failure(t *testing.T) {
	a := &fakeAccounts{signupErr: common.ErrEmailTaken}
	h := newTestServer(t, a, &fakeVerification{})

	code, resp := doRequest(t, h, http.MethodPost, "/auth/signup", `{"email":"x@example.com"}`)

	assert.Equal(t, http.StatusOK, code, "outcome travels in the body, not the status")
	assert.False(t, resp.Success)
	assert.Equal(t, "Email already in use", resp.Reason)
	assert.Empty(t, resp.AuthKey, "no auth key on failure")
}

func TestSignup_BadBody(t *testing.T) {
	h := newTestServer(t, &fakeAccounts{}, &fakeVerification{})

	_, resp := doRequest(t, h, http.MethodPost, "/auth/signup", `{not json`)

	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Reason)
}

func TestLogin_QueryParams(t *testing.T) {
	a := &fakeAccounts{loginKey: "key-1"}
	h := newTestServer(t, a, &fakeVerification{})

	_, resp := doRequest(t, h, http.MethodGet, "/auth/login?username=alice&password=Passw0rd%21", "")

	assert.True(t, resp.Success)
	assert.Equal(t, "key-1", resp.AuthKey)
	assert.Equal(t, "alice", a.gotIdentifier)
	assert.Equal(t, "Passw0rd!", a.gotPassword)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	a := &fakeAccounts{loginErr: common.ErrInvalidCredentials}
	h := newTestServer(t, a, &fakeVerification{})

	_, resp := doRequest(t, h, http.MethodGet, "/auth/login?username=alice&password=wrong", "")

	assert.False(t, resp.Success)
	assert.Equal(t, "Invalid credentials", resp.Reason)
}

func TestVerifySend(t *testing.T) {
	v := &fakeVerification{}
	h := newTestServer(t, &fakeAccounts{}, v)

	_, resp := doRequest(t, h, http.MethodPost, "/auth/verify/send?auth_key=key-1", "")

	assert.True(t, resp.Success)
	assert.Empty(t, resp.AuthKey)
	assert.Equal(t, "key-1", v.gotAuthKey)
}

func TestVerifySend_InvalidKey(t *testing.T) {
	v := &fakeVerification{sendErr: common.ErrInvalidAuthKey}
	h := newTestServer(t, &fakeAccounts{}, v)

	_, resp := doRequest(t, h, http.MethodPost, "/auth/verify/send?auth_key=bad", "")

	assert.False(t, resp.Success)
	assert.Equal(t, "Invalid auth key", resp.Reason)
}

func TestVerifyConfirm(t *testing.T) {
	v := &fakeVerification{}
	h := newTestServer(t, &fakeAccounts{}, v)

	_, resp := doRequest(t, h, http.MethodPost, "/auth/verify/confirm?auth_key=key-1&verification_code=123456", "")

	assert.True(t, resp.Success)
	assert.Equal(t, "key-1", v.gotAuthKey)
	assert.Equal(t, "123456", v.gotCode)
}

func TestVerifyConfirm_WrongCode(t *testing.T) {
	v := &fakeVerification{confirmErr: common.ErrInvalidVerificationCode}
	h := newTestServer(t, &fakeAccounts{}, v)

	_, resp := doRequest(t, h, http.MethodPost, "/auth/verify/confirm?auth_key=key-1&verification_code=000000", "")

	assert.False(t, resp.Success)
	assert.Equal(t, "Invalid verification code", resp.Reason)
}

func TestUnknownRoute(t *testing.T) {
	h := newTestServer(t, &fakeAccounts{}, &fakeVerification{})

	req := httptest.NewRequest(http.MethodGet, "/auth/nope", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

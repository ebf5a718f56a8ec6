package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dropDatabas3/hellomail/internal/email"
	healthctrl "github.com/dropDatabas3/hellomail/internal/http/controllers/health"
	mailctrl "github.com/dropDatabas3/hellomail/internal/http/controllers/mail"
	userctrl "github.com/dropDatabas3/hellomail/internal/http/controllers/user"
	healthsvc "github.com/dropDatabas3/hellomail/internal/http/services/health"
	mailsvc "github.com/dropDatabas3/hellomail/internal/http/services/mail"
	usersvc "github.com/dropDatabas3/hellomail/internal/http/services/user"
	"github.com/dropDatabas3/hellomail/internal/jwt"
	"github.com/dropDatabas3/hellomail/internal/metrics"
	"github.com/dropDatabas3/hellomail/internal/store/adapters/memory"
)

// ─── fakes ───

type recordingSender struct {
	mu   sync.Mutex
	err  error
	sent []email.Message
}

func (s *recordingSender) Send(_ context.Context, msg email.Message) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	if s.err != nil {
		return "", s.err
	}
	return email.NewMessageID(msg.From), nil
}

type senderFactory struct{ sender *recordingSender }

func (f senderFactory) New(email.TransportConfig) (email.Sender, error) { return f.sender, nil }

// ─── harness ───

type harness struct {
	srv    *httptest.Server
	sender *recordingSender
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	repo := memory.NewUserRepository()
	issuer := jwt.NewIssuer("hellomail", "test-secret", time.Hour)
	sender := &recordingSender{}
	m, err := metrics.New(nil)
	require.NoError(t, err)

	us := usersvc.NewServices(usersvc.Deps{Users: repo, Issuer: issuer, BcryptCost: bcrypt.MinCost})
	ms := mailsvc.NewServices(mailsvc.Deps{Users: repo, Transport: senderFactory{sender}, Metrics: m})
	hs := healthsvc.NewServices(healthsvc.Deps{Issuer: issuer, StoreCheck: func(context.Context) error { return nil }})

	h := New(Deps{
		Issuer:  issuer,
		Metrics: m,
		User:    userctrl.NewControllers(us),
		Mail:    mailctrl.NewControllers(ms, mailctrl.Limits{MaxAttachments: 2, MaxAttachmentBytes: 16}),
		Health:  healthctrl.NewControllers(hs),
	})
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return &harness{srv: srv, sender: sender}
}

func (h *harness) do(t *testing.T, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var rdr *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, h.srv.URL+path, rdr)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return h.send(t, req)
}

func (h *harness) send(t *testing.T, req *http.Request) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := h.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		_ = json.NewDecoder(resp.Body).Decode(&out)
	}
	return resp, out
}

func (h *harness) registerAndLogin(t *testing.T, email string) string {
	t.Helper()
	resp, body := h.do(t, http.MethodPost, "/api/user/register", "", map[string]string{
		"name": "Ana", "email": email, "password": "pw",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "User registered", body["message"])

	resp, body = h.do(t, http.MethodPost, "/api/user/login", "", map[string]string{"email": email, "password": "pw"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func (h *harness) history(t *testing.T, token string) []map[string]any {
	t.Helper()
	req, _ := http.NewRequest(http.MethodGet, h.srv.URL+"/api/mail/history", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := h.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// ─── tests ───

func TestHealth(t *testing.T) {
	h := newHarness(t)

	resp, err := h.srv.Client().Get(h.srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp2, body := h.do(t, http.MethodGet, "/readyz", "", nil)
	assert.Equal(t, http.StatusOK, resp2.StatusCode)
	assert.Equal(t, "ready", body["status"])
}

func TestUnknownRoute(t *testing.T) {
	h := newHarness(t)
	resp, body := h.do(t, http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "ROUTE_NOT_FOUND", body["code"])
}

func TestAuthRequired(t *testing.T) {
	h := newHarness(t)
	for _, p := range []string{"/api/user/me", "/api/mail/history"} {
		resp, body := h.do(t, http.MethodGet, p, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, p)
		assert.Equal(t, "TOKEN_MISSING", body["code"], p)
	}
}

func TestRegisterAndLoginErrors(t *testing.T) {
	h := newHarness(t)
	h.registerAndLogin(t, "ana@x.com")

	resp, body := h.do(t, http.MethodPost, "/api/user/register", "", map[string]string{"name": "B", "email": "ANA@x.com", "password": "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "EMAIL_ALREADY_IN_USE", body["code"])

	resp, body = h.do(t, http.MethodPost, "/api/user/register", "", map[string]string{"email": "c@x.com"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "MISSING_FIELDS", body["code"])

	resp, body = h.do(t, http.MethodPost, "/api/user/login", "", map[string]string{"email": "ana@x.com", "password": "bad"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_CREDENTIALS", body["code"])
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
}

func TestProfileAndSettings(t *testing.T) {
	h := newHarness(t)
	token := h.registerAndLogin(t, "ana@x.com")

	resp, body := h.do(t, http.MethodPut, "/api/user/settings", token, map[string]any{"provider": 42})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "MISSING_FIELDS", body["code"])

	resp, body = h.do(t, http.MethodPut, "/api/user/settings", token, map[string]any{
		"from_mail": "ana@gmail.com", "app_password": "secret-app-pass", "provider": "Gmail",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "gmail", body["provider"])
	assert.Equal(t, true, body["has_app_password"])

	resp, body = h.do(t, http.MethodGet, "/api/user/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ana@x.com", body["email"])
	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, "app_password")
	assert.Equal(t, []any{}, body["mail_history"])
}

func TestSettings_NoValidFieldsKeepsProfile(t *testing.T) {
	h := newHarness(t)
	token := h.registerAndLogin(t, "ana@x.com")

	resp, _ := h.do(t, http.MethodPut, "/api/user/settings", token, map[string]any{
		"from_mail": "ana@gmail.com", "app_password": "secret-app-pass", "provider": "gmail",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, before := h.do(t, http.MethodGet, "/api/user/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for _, payload := range []map[string]any{
		{},
		{"provider": 42, "from_mail": false, "app_password": []string{"x"}},
	} {
		resp, body := h.do(t, http.MethodPut, "/api/user/settings", token, payload)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "MISSING_FIELDS", body["code"])
	}

	resp, after := h.do(t, http.MethodGet, "/api/user/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, before, after)
	assert.Equal(t, before["updatedAt"], after["updatedAt"])
}

func TestSend_UnsupportedProvider(t *testing.T) {
	h := newHarness(t)
	token := h.registerAndLogin(t, "ana@x.com")

	resp, _ := h.do(t, http.MethodPut, "/api/user/settings", token, map[string]string{
		"from_mail": "ana@aol.com", "app_password": "p", "provider": "aol",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := h.do(t, http.MethodPost, "/api/mail/send", token, map[string]string{
		"recruiterEmail": "hr@corp.com", "subject": "Hi", "body": "hello",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "UNSUPPORTED_PROVIDER", body["code"])
	assert.Contains(t, body["detail"], "aol")
	assert.Empty(t, h.sender.sent)

	hist := h.history(t, token)
	require.Len(t, hist, 1)
	assert.Equal(t, "failed", hist[0]["status"])
	assert.Equal(t, "hr@corp.com", hist[0]["recruiterEmail"])
}

func TestSend_NotConfigured(t *testing.T) {
	h := newHarness(t)
	token := h.registerAndLogin(t, "ana@x.com")

	resp, body := h.do(t, http.MethodPost, "/api/mail/send", token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "EMAIL_NOT_CONFIGURED", body["code"])
	assert.Empty(t, h.history(t, token))
}

func configureGmail(t *testing.T, h *harness, token string) {
	t.Helper()
	resp, _ := h.do(t, http.MethodPut, "/api/user/settings", token, map[string]string{
		"from_mail": "ana@gmail.com", "app_password": "p", "provider": "gmail",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSend_JSONSuccess(t *testing.T) {
	h := newHarness(t)
	token := h.registerAndLogin(t, "ana@x.com")
	configureGmail(t, h, token)

	resp, body := h.do(t, http.MethodPost, "/api/mail/send", token, map[string]string{
		"recruiterEmail": "hr@corp.com", "subject": "Hi", "body": "a\nb",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Email sent successfully", body["message"])
	assert.Contains(t, body["messageId"], "@gmail.com>")

	require.Len(t, h.sender.sent, 1)
	assert.Equal(t, "a<br/>b", h.sender.sent[0].HTMLBody)

	hist := h.history(t, token)
	require.Len(t, hist, 1)
	assert.Equal(t, "success", hist[0]["status"])
}

func TestSend_UnsupportedContentType(t *testing.T) {
	h := newHarness(t)
	token := h.registerAndLogin(t, "ana@x.com")
	configureGmail(t, h, token)

	req, err := http.NewRequest(http.MethodPost, h.srv.URL+"/api/mail/send", strings.NewReader("recruiterEmail=hr@corp.com"))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, body := h.send(t, req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "BAD_REQUEST", body["code"])
	assert.Empty(t, h.sender.sent)
	assert.Empty(t, h.history(t, token))
}

func TestSend_TransportFailure(t *testing.T) {
	h := newHarness(t)
	h.sender.err = errors.New("535 5.7.8 Username and Password not accepted")
	token := h.registerAndLogin(t, "ana@x.com")
	configureGmail(t, h, token)

	resp, body := h.do(t, http.MethodPost, "/api/mail/send", token, map[string]string{
		"recruiterEmail": "hr@corp.com", "subject": "Hi",
	})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "SEND_FAILED", body["code"])
	assert.Equal(t, "535 5.7.8 Username and Password not accepted", body["detail"])

	hist := h.history(t, token)
	require.Len(t, hist, 1)
	assert.Equal(t, "failed", hist[0]["status"])
	assert.Equal(t, "535 5.7.8 Username and Password not accepted", hist[0]["errorMessage"])
}

func multipartRequest(t *testing.T, url, token string, fields map[string]string, files map[string][]byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mwr := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mwr.WriteField(k, v))
	}
	for name, data := range files {
		fw, err := mwr.CreateFormFile("attachments", name)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mwr.Close())

	req, err := http.NewRequest(http.MethodPost, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mwr.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestSend_Multipart(t *testing.T) {
	h := newHarness(t)
	token := h.registerAndLogin(t, "ana@x.com")
	configureGmail(t, h, token)
	fields := map[string]string{"recruiterEmail": "hr@corp.com", "subject": "CV"}

	resp, body := h.send(t, multipartRequest(t, h.srv.URL+"/api/mail/send", token, fields, map[string][]byte{
		"cv.pdf": []byte("%PDF-1.4"),
	}))
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	require.Len(t, h.sender.sent, 1)
	require.Len(t, h.sender.sent[0].Attachments, 1)
	assert.Equal(t, "cv.pdf", h.sender.sent[0].Attachments[0].Filename)
	assert.Equal(t, []byte("%PDF-1.4"), h.sender.sent[0].Attachments[0].Data)

	resp, body = h.send(t, multipartRequest(t, h.srv.URL+"/api/mail/send", token, fields, map[string][]byte{
		"a.txt": []byte("a"), "b.txt": []byte("b"), "c.txt": []byte("c"),
	}))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "TOO_MANY_ATTACHMENTS", body["code"])

	resp, body = h.send(t, multipartRequest(t, h.srv.URL+"/api/mail/send", token, fields, map[string][]byte{
		"big.bin": bytes.Repeat([]byte("x"), 17),
	}))
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.Equal(t, "BODY_TOO_LARGE", body["code"])

	hist := h.history(t, token)
	assert.Len(t, hist, 1)
	assert.EqualValues(t, 1, hist[0]["attachmentsCount"])
}

func TestSend_ConcurrentHistory(t *testing.T) {
	h := newHarness(t)
	token := h.registerAndLogin(t, "ana@x.com")
	configureGmail(t, h, token)

	const n = 10
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b, _ := json.Marshal(map[string]string{"recruiterEmail": "hr@corp.com", "subject": "s"})
			req, _ := http.NewRequest(http.MethodPost, h.srv.URL+"/api/mail/send", bytes.NewReader(b))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+token)
			resp, err := h.srv.Client().Do(req)
			if err == nil {
				resp.Body.Close()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, h.history(t, token), n)
}

package translator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// Service configuration
// ---------------------------------------------------------------------------

// DefaultBaseURL is the translation endpoint.
const DefaultBaseURL = "https://openapi.youdao.com/api"

// Service holds the configuration of the signed translation endpoint.
type Service struct {
	// BaseURL is the endpoint receiving the form POST.
	BaseURL string
	// AppKey and AppSecret identify the caller; the secret only enters the signature.
	AppKey    string
	AppSecret string
	// SourceLang and TargetLang are the service language codes.
	SourceLang string
	TargetLang string
	// Proxy is an optional HTTP/HTTPS proxy URL.
	Proxy string
	// Timeout is the request timeout.
	Timeout time.Duration
}

// DefaultService returns the endpoint defaults (credentials left empty).
func DefaultService() Service {
	return Service{
		BaseURL:    DefaultBaseURL,
		SourceLang: "en",
		TargetLang: "zh-CHS",
		Timeout:    10 * time.Second,
	}
}

// ---------------------------------------------------------------------------
// Signed client
// ---------------------------------------------------------------------------

// SignedClient calls the translation endpoint. Each request carries a fresh
// random salt, the current timestamp and a SHA-256 signature.
type SignedClient struct {
	svc    Service
	client *http.Client

	// OnLog receives request debug lines. Nil disables them.
	OnLog func(format string, args ...any)

	now     func() time.Time
	newSalt func() string
}

// NewSignedClient creates a client for svc, filling unset fields from
// DefaultService.
func NewSignedClient(svc Service) *SignedClient {
	def := DefaultService()
	if svc.BaseURL == "" {
		svc.BaseURL = def.BaseURL
	}
	if svc.SourceLang == "" {
		svc.SourceLang = def.SourceLang
	}
	if svc.TargetLang == "" {
		svc.TargetLang = def.TargetLang
	}
	if svc.Timeout <= 0 {
		svc.Timeout = def.Timeout
	}
	return &SignedClient{
		svc:     svc,
		client:  makeHTTPClient(svc.Proxy, svc.Timeout),
		now:     time.Now,
		newSalt: func() string { return uuid.New().String() },
	}
}

var _ Client = (*SignedClient)(nil)

// signInputLimit is the length above which the text is abbreviated before
// signing; signEdge runes are kept from each end.
const (
	signInputLimit = 20
	signEdge       = 10
)

// signInput abbreviates long text to its first and last runes around its
// rune length, bounding signing cost.
func signInput(text string) string {
	runes := []rune(text)
	if len(runes) <= signInputLimit {
		return text
	}
	return string(runes[:signEdge]) + strconv.Itoa(len(runes)) + string(runes[len(runes)-signEdge:])
}

// Sign computes the v3 request signature.
func Sign(appKey, appSecret, text, salt, curtime string) string {
	sum := sha256.Sum256([]byte(appKey + signInput(text) + salt + curtime + appSecret))
	return hex.EncodeToString(sum[:])
}

// languages resolves the service language pair for a direction. Auto
// detection of indeterminate text falls back to the source language.
func (c *SignedClient) languages(text string, dir Direction) (from, to string, err error) {
	switch dir {
	case AutoToTarget:
		to = c.svc.TargetLang
		if Detect(text) == LangTarget {
			from = c.svc.TargetLang
		} else {
			from = c.svc.SourceLang
		}
	case TargetToSource:
		from, to = c.svc.TargetLang, c.svc.SourceLang
	case SourceToTarget:
		from, to = c.svc.SourceLang, c.svc.TargetLang
	default:
		return "", "", fmt.Errorf("unsupported direction %s", dir)
	}
	return from, to, nil
}

// response is the service's JSON envelope.
type response struct {
	ErrorCode   json.Number `json:"errorCode"`
	Translation []string    `json:"translation"`
}

// Translate sends one signed request. Text already in the requested target
// language is returned unchanged without a request.
func (c *SignedClient) Translate(ctx context.Context, text string, dir Direction) Result {
	if strings.TrimSpace(text) == "" {
		return Fail(ErrEmptyText)
	}
	from, to, err := c.languages(text, dir)
	if err != nil {
		return Fail(err)
	}
	if from == to {
		return Ok(text)
	}

	salt := c.newSalt()
	curtime := strconv.FormatInt(c.now().Unix(), 10)
	form := url.Values{
		"q":        {text},
		"from":     {from},
		"to":       {to},
		"appKey":   {c.svc.AppKey},
		"salt":     {salt},
		"sign":     {Sign(c.svc.AppKey, c.svc.AppSecret, text, salt, curtime)},
		"signType": {"v3"},
		"curtime":  {curtime},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.svc.BaseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return Fail(fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "locsync")

	if c.OnLog != nil {
		c.OnLog("POST %s (%s → %s, %d chars)", c.svc.BaseURL, from, to, len([]rune(text)))
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return Fail(fmt.Errorf("%w: %v", ErrTimeout, err))
		}
		return Fail(fmt.Errorf("request failed: %w", err))
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return Fail(fmt.Errorf("reading response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return Fail(fmt.Errorf("service returned status %d: %s", resp.StatusCode, truncate(string(body), 200)))
	}

	var env response
	if err := json.Unmarshal(body, &env); err != nil {
		return Fail(fmt.Errorf("malformed response: %w", err))
	}
	code := env.ErrorCode.String()
	if code == "" {
		code = "0"
	}
	if code != "0" {
		return Fail(&RemoteError{Code: code, Message: ErrorMessage(code)})
	}
	if len(env.Translation) == 0 || env.Translation[0] == "" {
		return Fail(ErrEmptyResult)
	}
	return Ok(env.Translation[0])
}

// ---------------------------------------------------------------------------
// HTTP helpers
// ---------------------------------------------------------------------------

func makeHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	// Support both --proxy flag and HTTP_PROXY/HTTPS_PROXY env vars
	if proxyURL != "" {
		parsed, err := url.Parse(proxyURL)
		if err == nil {
			transport.Proxy = http.ProxyURL(parsed)
		}
	} else {
		transport.Proxy = http.ProxyFromEnvironment
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}

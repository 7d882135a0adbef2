package accounting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// ContactAPI is the slice of the ledger's contact endpoints the sync layer
// needs. BooksClient implements it; tests swap in a fake.
type ContactAPI interface {
	SearchContact(ctx context.Context, phone string) (*Contact, error)
	CreateContact(ctx context.Context, c Contact) (*Contact, error)
	UpdateContact(ctx context.Context, c Contact) (*Contact, error)
}

// Contact is the ledger's view of a customer.
type Contact struct {
	ContactID string `json:"contact_id,omitempty"`
	Name      string `json:"contact_name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone"`
	State     string `json:"state,omitempty"`
}

// BooksError is a non-2xx reply from the ledger API.
type BooksError struct {
	StatusCode int
	Code       int    `json:"code"`
	Message    string `json:"message"`
}

func (e *BooksError) Error() string {
	return fmt.Sprintf("ledger api error: http %d code %d: %s", e.StatusCode, e.Code, e.Message)
}

// BooksClient talks to the accounting ledger's REST API using refresh-token
// auth. Access tokens are cached until shortly before expiry.
type BooksClient struct {
	BaseURL      string
	AuthURL      string
	OrgID        string
	ClientID     string
	ClientSecret string
	RefreshToken string
	Client       *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func (b *BooksClient) httpClient() *http.Client {
	if b.Client == nil {
		b.Client = &http.Client{Timeout: 15 * time.Second}
	}
	return b.Client
}

// token returns a valid access token, refreshing when the cached one is
// within a minute of expiry.
func (b *BooksClient) token(ctx context.Context) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.accessToken != "" && time.Until(b.tokenExpiry) > time.Minute {
		return b.accessToken, nil
	}

	form := url.Values{
		"refresh_token": {b.RefreshToken},
		"client_id":     {b.ClientID},
		"client_secret": {b.ClientSecret},
		"grant_type":    {"refresh_token"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.AuthURL, bytes.NewBufferString(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := b.httpClient().Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &BooksError{StatusCode: resp.StatusCode, Message: "token refresh rejected"}
	}

	var tok struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", err
	}
	b.accessToken = tok.AccessToken
	b.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	return b.accessToken, nil
}

func (b *BooksClient) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	tok, err := b.token(ctx)
	if err != nil {
		return err
	}

	var buf *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		buf = bytes.NewBuffer(raw)
	} else {
		buf = &bytes.Buffer{}
	}

	u := b.BaseURL + path
	if query == nil {
		query = url.Values{}
	}
	query.Set("organization_id", b.OrgID)
	u += "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, method, u, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Zoho-oauthtoken "+tok)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := b.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &BooksError{StatusCode: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// SearchContact looks a contact up by phone; (nil, nil) when absent.
func (b *BooksClient) SearchContact(ctx context.Context, phone string) (*Contact, error) {
	var reply struct {
		Contacts []Contact `json:"contacts"`
	}
	q := url.Values{"phone": {phone}}
	if err := b.do(ctx, http.MethodGet, "/contacts", q, nil, &reply); err != nil {
		return nil, err
	}
	if len(reply.Contacts) == 0 {
		return nil, nil
	}
	return &reply.Contacts[0], nil
}

func (b *BooksClient) CreateContact(ctx context.Context, c Contact) (*Contact, error) {
	var reply struct {
		Contact Contact `json:"contact"`
	}
	if err := b.do(ctx, http.MethodPost, "/contacts", nil, c, &reply); err != nil {
		return nil, err
	}
	return &reply.Contact, nil
}

func (b *BooksClient) UpdateContact(ctx context.Context, c Contact) (*Contact, error) {
	var reply struct {
		Contact Contact `json:"contact"`
	}
	if err := b.do(ctx, http.MethodPut, "/contacts/"+c.ContactID, nil, c, &reply); err != nil {
		return nil, err
	}
	return &reply.Contact, nil
}

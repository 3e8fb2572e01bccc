package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	sandboxBaseURL = "https://sandbox.sslcommerz.com"
	liveBaseURL    = "https://securepay.sslcommerz.com"

	sessionPath    = "/gwprocess/v4/api.php"
	validationPath = "/validator/api/merchantTransIDvalidationAPI.php"
)

// Error is returned when a gateway call fails or comes back with an
// unexpected shape.
type Error struct {
	Op     string
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sslcommerz %s: %s: %v", e.Op, e.Reason, e.Err)
	}
	return fmt.Sprintf("sslcommerz %s: %s", e.Op, e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

// Transaction is one element of a transaction-lookup response. Raw carries
// the full gateway payload for the payment audit trail.
type Transaction struct {
	Status string
	TranID string
	Amount string
	Raw    map[string]interface{}
}

// CallbackURLs are the redirect and IPN endpoints registered with each
// payment session.
type CallbackURLs struct {
	Success string
	Fail    string
	Cancel  string
	IPN     string
}

// Client talks to the SSLCommerz hosted gateway. Construct it once at
// startup and inject it; it is safe for concurrent use.
type Client struct {
	storeID    string
	storePass  string
	baseURL    string
	callbacks  CallbackURLs
	httpClient *http.Client
}

func NewClient(storeID, storePass string, sandbox bool, callbacks CallbackURLs) *Client {
	baseURL := liveBaseURL
	if sandbox {
		baseURL = sandboxBaseURL
	}
	return &Client{
		storeID:   storeID,
		storePass: storePass,
		baseURL:   baseURL,
		callbacks: callbacks,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// WithBaseURL overrides the gateway endpoint. Used for local proxies and
// tests against a fake gateway.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = u
	return c
}

type sessionResponse struct {
	Status         string `json:"status"`
	FailedReason   string `json:"failedreason"`
	SessionKey     string `json:"sessionkey"`
	GatewayPageURL string `json:"GatewayPageURL"`
}

// InitiateSession creates a payment session for the given amount and
// transaction id and returns the hosted checkout URL the customer should be
// redirected to.
func (c *Client) InitiateSession(ctx context.Context, totalAmount float64, tranID string) (string, error) {
	form := url.Values{}
	form.Set("store_id", c.storeID)
	form.Set("store_passwd", c.storePass)
	form.Set("total_amount", strconv.FormatFloat(totalAmount, 'f', 2, 64))
	form.Set("currency", "BDT")
	form.Set("tran_id", tranID)
	form.Set("success_url", fmt.Sprintf("%s?tran_id=%s", c.callbacks.Success, url.QueryEscape(tranID)))
	form.Set("fail_url", c.callbacks.Fail)
	form.Set("cancel_url", c.callbacks.Cancel)
	form.Set("ipn_url", c.callbacks.IPN)

	// Static merchant profile fields required by the session API.
	form.Set("shipping_method", "Courier")
	form.Set("product_name", "N/A")
	form.Set("product_category", "N/A")
	form.Set("product_profile", "general")
	form.Set("cus_name", "N/A")
	form.Set("cus_email", "N/A")
	form.Set("cus_add1", "Dhaka")
	form.Set("cus_add2", "Dhaka")
	form.Set("cus_city", "Dhaka")
	form.Set("cus_state", "Dhaka")
	form.Set("cus_postcode", "1000")
	form.Set("cus_country", "Bangladesh")
	form.Set("cus_phone", "01711111111")
	form.Set("ship_name", "N/A")
	form.Set("ship_add1", "Dhaka")
	form.Set("ship_add2", "Dhaka")
	form.Set("ship_city", "Dhaka")
	form.Set("ship_state", "Dhaka")
	form.Set("ship_postcode", "1000")
	form.Set("ship_country", "Bangladesh")

	var resp sessionResponse
	if err := c.postForm(ctx, sessionPath, form, &resp); err != nil {
		return "", &Error{Op: "InitiateSession", Reason: "session request failed", Err: err}
	}

	if resp.GatewayPageURL == "" {
		reason := "gateway did not return a redirect URL"
		if resp.FailedReason != "" {
			reason = resp.FailedReason
		}
		return "", &Error{Op: "InitiateSession", Reason: reason}
	}

	return resp.GatewayPageURL, nil
}

type validationResponse struct {
	APIConnect     string                   `json:"APIConnect"`
	NoOfTransFound int                      `json:"no_of_trans_found"`
	Element        []map[string]interface{} `json:"element"`
}

// QueryTransaction looks up a transaction by id and returns the first
// matching element. The gateway may report zero or more elements for an id;
// an empty result is an error for the caller.
func (c *Client) QueryTransaction(ctx context.Context, tranID string) (Transaction, error) {
	query := url.Values{}
	query.Set("tran_id", tranID)
	query.Set("store_id", c.storeID)
	query.Set("store_passwd", c.storePass)
	query.Set("format", "json")

	endpoint := c.baseURL + validationPath + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Transaction{}, &Error{Op: "QueryTransaction", Reason: "create request", Err: err}
	}

	body, err := c.do(req)
	if err != nil {
		return Transaction{}, &Error{Op: "QueryTransaction", Reason: "validation request failed", Err: err}
	}

	var resp validationResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Transaction{}, &Error{Op: "QueryTransaction", Reason: "decode response", Err: err}
	}

	if len(resp.Element) == 0 {
		return Transaction{}, &Error{Op: "QueryTransaction", Reason: fmt.Sprintf("no transaction found for %s", tranID)}
	}

	element := resp.Element[0]
	return Transaction{
		Status: stringField(element, "status"),
		TranID: stringField(element, "tran_id"),
		Amount: stringField(element, "amount"),
		Raw:    element,
	}, nil
}

// ---- HTTP helpers ----

func (c *Client) postForm(ctx context.Context, path string, form url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := c.do(req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

func stringField(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

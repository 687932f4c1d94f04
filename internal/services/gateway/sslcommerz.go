package gateway

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	sandboxEndpoint = "https://sandbox.sslcommerz.com/gwprocess/v4/api.php"
	liveEndpoint    = "https://securepay.sslcommerz.com/gwprocess/v4/api.php"
)

// SSLCommerzClient creates hosted checkout sessions and verifies callback
// signatures for the SSLCommerz gateway.
type SSLCommerzClient struct {
	StoreID       string
	StorePassword string
	Sandbox       bool
	SuccessURL    string
	FailURL       string
	CancelURL     string

	httpClient *http.Client
}

func NewSSLCommerzClient(storeID, storePassword string, sandbox bool, successURL, failURL, cancelURL string) *SSLCommerzClient {
	return &SSLCommerzClient{
		StoreID:       storeID,
		StorePassword: storePassword,
		Sandbox:       sandbox,
		SuccessURL:    successURL,
		FailURL:       failURL,
		CancelURL:     cancelURL,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
	}
}

type SessionRequest struct {
	TransactionID string
	Amount        float64
	Currency      string
	ProductName   string

	CustomerName     string
	CustomerEmail    string
	CustomerPhone    string
	CustomerAddress  string
	CustomerCity     string
	CustomerState    string
	CustomerPostcode string
}

type sessionResponse struct {
	Status         string `json:"status"`
	FailedReason   string `json:"failedreason"`
	GatewayPageURL string `json:"GatewayPageURL"`
}

func (c *SSLCommerzClient) endpoint() string {
	if c.Sandbox {
		return sandboxEndpoint
	}
	return liveEndpoint
}

// CreateSession opens a checkout session and returns the gateway page URL.
func (c *SSLCommerzClient) CreateSession(ctx context.Context, req SessionRequest) (string, error) {
	form := url.Values{}
	form.Set("store_id", c.StoreID)
	form.Set("store_passwd", c.StorePassword)
	form.Set("total_amount", fmt.Sprintf("%.2f", req.Amount))
	form.Set("currency", req.Currency)
	form.Set("tran_id", req.TransactionID)
	form.Set("success_url", c.SuccessURL)
	form.Set("fail_url", c.FailURL)
	form.Set("cancel_url", c.CancelURL)
	form.Set("emi_option", "0")
	form.Set("cus_name", req.CustomerName)
	form.Set("cus_email", req.CustomerEmail)
	form.Set("cus_phone", orDefault(req.CustomerPhone, "N/A"))
	form.Set("cus_add1", orDefault(req.CustomerAddress, "N/A"))
	form.Set("cus_city", orDefault(req.CustomerCity, "N/A"))
	form.Set("cus_state", orDefault(req.CustomerState, "N/A"))
	form.Set("cus_postcode", orDefault(req.CustomerPostcode, "N/A"))
	form.Set("cus_country", "Bangladesh")
	form.Set("shipping_method", "NO")
	form.Set("num_of_item", "1")
	form.Set("product_name", req.ProductName)
	form.Set("product_category", "Pet Listing")
	form.Set("product_profile", "general")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build session request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	var session sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return "", fmt.Errorf("failed to decode gateway response: %w", err)
	}

	if session.Status != "SUCCESS" || session.GatewayPageURL == "" {
		reason := session.FailedReason
		if reason == "" {
			reason = "unknown error"
		}
		return "", fmt.Errorf("payment session rejected: %s", reason)
	}

	return session.GatewayPageURL, nil
}

// VerifyCallbackSignature checks the md5 signature on a callback. verifyKey
// names the signed fields in order; the store password hash is appended and
// the whole string hashed. Comparison is case-insensitive hex.
func (c *SSLCommerzClient) VerifyCallbackSignature(fields map[string]string, verifySign, verifyKey string) bool {
	if verifySign == "" || verifyKey == "" {
		return false
	}

	var parts []string
	for _, key := range strings.Split(verifyKey, ",") {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		parts = append(parts, key+"="+fields[key])
	}

	passwordHash := md5.Sum([]byte(c.StorePassword))
	parts = append(parts, "store_passwd="+hex.EncodeToString(passwordHash[:]))

	sum := md5.Sum([]byte(strings.Join(parts, "&")))
	expected := hex.EncodeToString(sum[:])
	return strings.EqualFold(expected, verifySign)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

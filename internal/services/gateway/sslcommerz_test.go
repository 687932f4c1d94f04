package gateway

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rewriteTransport struct {
	target *url.URL
}

func (t *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.URL.Scheme = t.target.Scheme
	req.URL.Host = t.target.Host
	return http.DefaultTransport.RoundTrip(req)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *SSLCommerzClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	target, err := url.Parse(server.URL)
	require.NoError(t, err)

	client := NewSSLCommerzClient("teststore", "testpass", true, "http://s", "http://f", "http://c")
	client.httpClient = &http.Client{Transport: &rewriteTransport{target: target}}
	return client
}

func TestCreateSession_Success(t *testing.T) {
	var form url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		form = r.PostForm
		w.Write([]byte(`{"status":"SUCCESS","GatewayPageURL":"https://sandbox.sslcommerz.com/pay/abc"}`))
	})

	pageURL, err := client.CreateSession(context.Background(), SessionRequest{
		TransactionID: "tx-1",
		Amount:        20,
		Currency:      "USD",
		ProductName:   "Pet Sale Post",
		CustomerName:  "alice",
		CustomerEmail: "alice@example.test",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://sandbox.sslcommerz.com/pay/abc", pageURL)

	assert.Equal(t, "teststore", form.Get("store_id"))
	assert.Equal(t, "20.00", form.Get("total_amount"))
	assert.Equal(t, "tx-1", form.Get("tran_id"))
	assert.Equal(t, "N/A", form.Get("cus_phone"), "missing customer fields get placeholders")
}

func TestCreateSession_Rejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"FAILED","failedreason":"store credentials invalid"}`))
	})

	_, err := client.CreateSession(context.Background(), SessionRequest{TransactionID: "tx-1", Amount: 5, Currency: "USD"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store credentials invalid")
}

func TestVerifyCallbackSignature(t *testing.T) {
	client := NewSSLCommerzClient("teststore", "testpass", true, "", "", "")

	fields := map[string]string{
		"amount":  "20.00",
		"status":  "VALID",
		"tran_id": "tx-1",
	}
	verifyKey := "amount,status,tran_id"

	passwordHash := md5.Sum([]byte("testpass"))
	signed := "amount=20.00&status=VALID&tran_id=tx-1&store_passwd=" + hex.EncodeToString(passwordHash[:])
	sum := md5.Sum([]byte(signed))
	verifySign := hex.EncodeToString(sum[:])

	assert.True(t, client.VerifyCallbackSignature(fields, verifySign, verifyKey))
	assert.True(t, client.VerifyCallbackSignature(fields, strings.ToUpper(verifySign), verifyKey),
		"hex comparison is case-insensitive")

	// Any tampered field breaks the signature.
	tampered := map[string]string{"amount": "0.01", "status": "VALID", "tran_id": "tx-1"}
	assert.False(t, client.VerifyCallbackSignature(tampered, verifySign, verifyKey))

	// Empty inputs never verify.
	assert.False(t, client.VerifyCallbackSignature(fields, "", verifyKey))
	assert.False(t, client.VerifyCallbackSignature(fields, verifySign, ""))
}

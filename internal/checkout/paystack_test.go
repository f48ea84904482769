package checkout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaystackInitialize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/initialize", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_abc", r.Header.Get("Authorization"))

		var body paystackInitRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, int64(300000), body.Amount)
		assert.Equal(t, "JSN-1-ABCD", body.Reference)

		w.Write([]byte(`{"status":true,"data":{"authorization_url":"https://checkout.paystack.com/abc","access_code":"abc","reference":"JSN-1-ABCD"}}`))
	}))
	defer srv.Close()

	gateway := NewPaystackGateway("sk_test_abc", srv.URL)
	auth, err := gateway.Initialize(context.Background(), ChargeRequest{
		Reference:   "JSN-1-ABCD",
		AmountMinor: 300000,
		Currency:    "NGN",
		Email:       "jason@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "JSN-1-ABCD", auth.Reference)
	assert.Equal(t, "https://checkout.paystack.com/abc", auth.PaymentURL)
}

func TestPaystackVerify(t *testing.T) {
	t.Run("successful payment", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/transaction/verify/JSN-1-ABCD", r.URL.Path)
			w.Write([]byte(`{"status":true,"data":{"status":"success"}}`))
		}))
		defer srv.Close()

		paid, err := NewPaystackGateway("sk", srv.URL).Verify(context.Background(), "JSN-1-ABCD")
		require.NoError(t, err)
		assert.True(t, paid)
	})

	t.Run("abandoned payment", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":true,"data":{"status":"abandoned"}}`))
		}))
		defer srv.Close()

		paid, err := NewPaystackGateway("sk", srv.URL).Verify(context.Background(), "JSN-1-ABCD")
		require.NoError(t, err)
		assert.False(t, paid)
	})

	t.Run("api error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		_, err := NewPaystackGateway("sk", srv.URL).Verify(context.Background(), "JSN-1-ABCD")
		assert.Error(t, err)
	})
}

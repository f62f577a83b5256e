package payment_gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"myserv-service/internal/pkg/dto/requests"
	"myserv-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestService(baseURL string) *mercadoPagoService {
	return &mercadoPagoService{
		BaseURL:     baseURL,
		AccessToken: "test-access-token",
		HTTPClient:  http.DefaultClient,
		Log:         zap.NewNop(),
	}
}

func TestCreatePreference(t *testing.T) {
	t.Run("created preference decoded", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/checkout/preferences", r.URL.Path)
			assert.Equal(t, "Bearer test-access-token", r.Header.Get("Authorization"))

			var body requests.CreatePreferenceRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "unlock:pay-1:booking-9", body.ExternalReference)

			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]string{
				"id":         "pref-1",
				"init_point": "https://gateway.test/checkout/pref-1",
			})
		}))
		defer server.Close()

		service := newTestService(server.URL)
		preference, err := service.CreatePreference(context.Background(), &requests.CreatePreferenceRequest{
			Items:             []requests.PreferenceItem{{Title: "unlock payment", Quantity: 1, UnitPrice: 9.9}},
			ExternalReference: "unlock:pay-1:booking-9",
		})
		assert.NoError(t, err)
		assert.Equal(t, "pref-1", preference.ID)
		assert.Equal(t, "https://gateway.test/checkout/pref-1", preference.InitPoint)
	})

	t.Run("error status maps to service unavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"message":"invalid items"}`))
		}))
		defer server.Close()

		service := newTestService(server.URL)
		_, err := service.CreatePreference(context.Background(), &requests.CreatePreferenceRequest{})
		var customErr *exceptions.CustomError
		assert.ErrorAs(t, err, &customErr)
		assert.Equal(t, http.StatusServiceUnavailable, customErr.StatusCode)
	})
}

func TestFetchPayment(t *testing.T) {
	t.Run("numeric id decoded as string", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/v1/payments/12345", r.URL.Path)
			assert.Equal(t, "Bearer test-access-token", r.Header.Get("Authorization"))

			w.Write([]byte(`{
				"id": 12345,
				"status": "approved",
				"status_detail": "accredited",
				"transaction_amount": 9.9,
				"external_reference": "unlock:pay-1:booking-9",
				"metadata": {"user_id": "provider-1"},
				"payer": {"email": "provider@example.com"}
			}`))
		}))
		defer server.Close()

		service := newTestService(server.URL)
		payment, err := service.FetchPayment(context.Background(), "12345")
		assert.NoError(t, err)
		assert.Equal(t, "12345", payment.ID)
		assert.Equal(t, "approved", payment.Status)
		assert.Equal(t, 9.9, payment.TransactionAmount)
		assert.Equal(t, "unlock:pay-1:booking-9", payment.ExternalReference)
		assert.Equal(t, "provider-1", payment.Metadata["user_id"])
		assert.Equal(t, "provider@example.com", payment.PayerEmail)
	})

	t.Run("not found maps to service unavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		service := newTestService(server.URL)
		_, err := service.FetchPayment(context.Background(), "12345")
		var customErr *exceptions.CustomError
		assert.ErrorAs(t, err, &customErr)
		assert.Equal(t, http.StatusServiceUnavailable, customErr.StatusCode)
	})
}

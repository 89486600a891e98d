package factory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pizza_service/internal/model"
)

func TestClient_SignReceipt(t *testing.T) {
	var gotAuth string
	var gotBody map[string]json.RawMessage

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"jwt":"signed-receipt","reportUrl":"http://factory/report/1"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "factory-key", 5*time.Second)

	diner := &model.User{ID: 7, Name: "Kai Chen", Email: "d@jwt.com"}
	order := &model.Order{
		ID:          1,
		FranchiseID: 1,
		StoreID:     1,
		Items:       []model.OrderItem{{MenuID: 1, Description: "Veggie", Price: 0.05}},
	}

	receipt, err := client.SignReceipt(context.Background(), diner, order)

	require.NoError(t, err)
	assert.Equal(t, "signed-receipt", receipt)
	assert.Equal(t, "Bearer factory-key", gotAuth)
	assert.Contains(t, gotBody, "diner")
	assert.Contains(t, gotBody, "order")
}

func TestClient_SignReceipt_FactoryError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "factory-key", 5*time.Second)

	_, err := client.SignReceipt(context.Background(), &model.User{ID: 1}, &model.Order{})

	assert.Error(t, err)
}

func TestClient_SignReceipt_MissingReceipt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "factory-key", 5*time.Second)

	_, err := client.SignReceipt(context.Background(), &model.User{ID: 1}, &model.Order{})

	assert.Error(t, err)
}

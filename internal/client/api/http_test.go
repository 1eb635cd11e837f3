package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/cartsync/internal/client/models"
	"github.com/dmitrijs2005/cartsync/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClient_MapsUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	_, err := c.FetchCart(context.Background())
	require.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestHTTPClient_MapsServerErrorToUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	err := c.AddItem(context.Background(), "p1", 1)
	require.ErrorIs(t, err, common.ErrUnavailable)
}

func TestHTTPClient_MapsValidationDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Quantity must be positive"})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	err := c.AddItem(context.Background(), "p1", 0)
	require.ErrorIs(t, err, common.ErrorValidation)
	assert.Contains(t, err.Error(), "Quantity must be positive")
}

func TestHTTPClient_ConnectionErrorIsUnavailable(t *testing.T) {
	// nothing listens here
	c := NewHTTPClient("http://127.0.0.1:1")
	err := c.ClearCart(context.Background())
	require.ErrorIs(t, err, common.ErrUnavailable)
}

func TestHTTPClient_AttachesAccessToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(models.Cart{})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	c.SetTokens("acc-123", "ref-456")
	_, err := c.FetchCart(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer acc-123", gotAuth)
}

func TestHTTPClient_SignInReturnsMergedCart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/token/", r.URL.Path)

		var req struct {
			Email     string      `json:"email"`
			Password  string      `json:"password"`
			GuestCart models.Cart `json:"guest_cart"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "a@b.c", req.Email)
		assert.Len(t, req.GuestCart, 1)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"access":  "acc",
			"refresh": "ref",
			"user":    models.User{ID: "u1", Email: "a@b.c"},
			"cart":    models.Cart{{ProductID: "p1", Quantity: 3}},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	res, err := c.SignIn(context.Background(), "a@b.c", "pw", models.Cart{{ProductID: "p1", Quantity: 1}})
	require.NoError(t, err)
	assert.Equal(t, "acc", res.Tokens.Access)
	assert.Equal(t, "u1", res.User.ID)
	assert.Equal(t, 3, res.Cart[0].Quantity)
}

func TestHTTPClient_SignUpDuplicateEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/register/", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": common.ErrorUserAlreadyExists.Error()})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	_, err := c.SignUp(context.Background(), Registration{Email: "a@b.c", Password: "pw"}, nil)
	require.ErrorIs(t, err, common.ErrorUserAlreadyExists)
}

func TestHTTPClient_MergeCart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/cart/merge", r.URL.Path)
		_ = json.NewEncoder(w).Encode(models.Cart{
			{ProductID: "a", Quantity: 2},
			{ProductID: "b", Quantity: 4},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	merged, err := c.MergeCart(context.Background(), models.Cart{{ProductID: "a", Quantity: 2}})
	require.NoError(t, err)
	require.Len(t, merged, 2)
}

func TestHTTPClient_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	_, err := c.FetchCart(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, common.ErrUnavailable))
}

package twilio

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendSuccess(t *testing.T) {
	var gotPath, gotTo, gotFrom, gotBody string
	var gotUser, gotPass string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, gotPass, _ = r.BasicAuth()
		require.NoError(t, r.ParseForm())
		gotTo = r.PostForm.Get("To")
		gotFrom = r.PostForm.Get("From")
		gotBody = r.PostForm.Get("Body")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"sid": "SM123"})
	}))
	defer srv.Close()

	n := New("AC123", "secret", "+15550001111", "+15552223333", WithBaseURL(srv.URL))
	err := n.Send(context.Background(), "⚡ Lightning detected approximately 3 km away!")

	require.NoError(t, err)
	assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", gotPath)
	assert.Equal(t, "AC123", gotUser)
	assert.Equal(t, "secret", gotPass)
	assert.Equal(t, "+15552223333", gotTo)
	assert.Equal(t, "+15550001111", gotFrom)
	assert.Equal(t, "⚡ Lightning detected approximately 3 km away!", gotBody)
}

func TestSendAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{"code": 21211, "message": "Invalid 'To' number"})
	}))
	defer srv.Close()

	n := New("AC123", "secret", "+1", "+2", WithBaseURL(srv.URL))
	err := n.Send(context.Background(), "msg")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid 'To' number")
	assert.Contains(t, err.Error(), "21211")
}

func TestSendHTTPErrorWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	n := New("AC123", "secret", "+1", "+2", WithBaseURL(srv.URL))
	err := n.Send(context.Background(), "msg")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestName(t *testing.T) {
	assert.Equal(t, "sms", New("a", "b", "c", "d").Name())
}

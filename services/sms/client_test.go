package sms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"imobil/utils"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGenerateCodeRange(t *testing.T) {
	for i := 0; i < 500; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		require.GreaterOrEqual(t, n, 100000)
		require.LessOrEqual(t, n, 999999)
	}
}

func TestSendCodePostsForm(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		got = map[string]string{
			"connection_id": r.PostForm.Get("connection_id"),
			"password":      r.PostForm.Get("password"),
			"to":            r.PostForm.Get("to"),
			"message":       r.PostForm.Get("message"),
			"sender":        r.PostForm.Get("sender"),
		}
		_, _ = w.Write([]byte("MESSAGE;1;ok"))
	}))
	defer srv.Close()

	c := NewClient(Config{ConnectionID: "conn", Password: "pw", Sender: "imobil", APIURL: srv.URL}, zap.NewNop(), false)
	code, err := c.SendCode(context.Background(), "40712345678")
	require.NoError(t, err)
	require.Len(t, code, 6)

	require.Equal(t, "conn", got["connection_id"])
	require.Equal(t, "pw", got["password"])
	require.Equal(t, "40712345678", got["to"])
	require.Equal(t, "imobil", got["sender"])
	require.Contains(t, got["message"], code)
}

func TestSendCodeNon2xxIsNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(Config{ConnectionID: "conn", Password: "pw", APIURL: srv.URL}, zap.NewNop(), false)
	_, err := c.SendCode(context.Background(), "40712345678")
	require.ErrorIs(t, err, ErrSendFailed)
	require.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestSendCodeTimeoutIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(Config{ConnectionID: "conn", Password: "pw", APIURL: srv.URL}, zap.NewNop(), false).
		WithHTTPClient(&http.Client{Timeout: 20 * time.Millisecond})
	_, err := c.SendCode(context.Background(), "40712345678")
	require.ErrorIs(t, err, ErrSendFailed)

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	require.True(t, appErr.Retryable)
}

func TestSendCodeWithoutCredentials(t *testing.T) {
	c := NewClient(Config{APIURL: "http://unused"}, zap.NewNop(), false)
	_, err := c.SendCode(context.Background(), "40712345678")
	require.ErrorIs(t, err, ErrNotConfigured)
}

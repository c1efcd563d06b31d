package youtube

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
)

type stubTokens struct {
	calls map[string]int
	err   error
}

func (s *stubTokens) TokenSource(ctx context.Context, account string) (oauth2.TokenSource, error) {
	s.calls[account]++
	if s.err != nil {
		return nil, s.err
	}
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: account}), nil
}

func TestConnector_CachesClients(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer alice", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"id":"v1","status":{"privacyStatus":"public"}}]}`))
	}))
	defer srv.Close()

	tokens := &stubTokens{calls: map[string]int{}}
	conn := NewConnector(Config{RequestsPerSecond: 1000}, tokens, zap.NewNop(), option.WithEndpoint(srv.URL+"/"))

	for i := 0; i < 2; i++ {
		status, found, err := conn.VideoStatus(context.Background(), "alice", "v1")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "public", status)
	}
	assert.Equal(t, 1, tokens.calls["alice"])
}

func TestConnector_TokenError(t *testing.T) {
	tokens := &stubTokens{calls: map[string]int{}, err: errors.New("denied")}
	conn := NewConnector(Config{}, tokens, zap.NewNop())

	_, _, err := conn.VideoStatus(context.Background(), "alice", "v1")
	assert.EqualError(t, err, "denied")
}

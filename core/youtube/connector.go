package youtube

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
)

// TokenProvider supplies credentials for an archived account.
type TokenProvider interface {
	TokenSource(ctx context.Context, account string) (oauth2.TokenSource, error)
}

// Connector hands out one Client per account and reuses it for the run.
type Connector struct {
	cfg    Config
	tokens TokenProvider
	logger *zap.Logger
	opts   []option.ClientOption

	mu      sync.Mutex
	clients map[string]*Client
}

// NewConnector creates a connector. Extra options are appended to every client.
func NewConnector(cfg Config, tokens TokenProvider, logger *zap.Logger, opts ...option.ClientOption) *Connector {
	return &Connector{
		cfg:     cfg,
		tokens:  tokens,
		logger:  logger,
		opts:    opts,
		clients: make(map[string]*Client),
	}
}

// Register stores an already authorized token source, e.g. right after AddAccount.
func (c *Connector) Register(ctx context.Context, account string, ts oauth2.TokenSource) (*Client, error) {
	client, err := NewClient(ctx, c.cfg, c.logger.With(zap.String("account", account)), c.clientOptions(ts)...)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.clients[account] = client
	c.mu.Unlock()
	return client, nil
}

// Client returns the client of an account, authorizing it on first use.
func (c *Connector) Client(ctx context.Context, account string) (*Client, error) {
	c.mu.Lock()
	client, ok := c.clients[account]
	c.mu.Unlock()
	if ok {
		return client, nil
	}

	ts, err := c.tokens.TokenSource(ctx, account)
	if err != nil {
		return nil, err
	}
	return c.Register(ctx, account, ts)
}

// VideoStatus looks up a video with the credentials of account.
func (c *Connector) VideoStatus(ctx context.Context, account, videoID string) (string, bool, error) {
	client, err := c.Client(ctx, account)
	if err != nil {
		return "", false, err
	}
	return client.VideoStatus(ctx, videoID)
}

func (c *Connector) clientOptions(ts oauth2.TokenSource) []option.ClientOption {
	opts := []option.ClientOption{option.WithTokenSource(ts)}
	return append(opts, c.opts...)
}

package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const tokenFile = "token.json"

// Authenticator manages per-account OAuth tokens for the installed-app flow.
type Authenticator struct {
	cfg    Config
	oauth  *oauth2.Config
	logger *zap.Logger

	// authorize runs the interactive consent flow and returns a fresh token.
	authorize func(ctx context.Context) (*oauth2.Token, error)
	// accountName resolves the channel title a token belongs to.
	accountName func(ctx context.Context, ts oauth2.TokenSource) (string, error)
}

// NewAuthenticator loads the OAuth client secrets.
func NewAuthenticator(cfg Config, logger *zap.Logger) (*Authenticator, error) {
	data, err := os.ReadFile(cfg.ClientSecrets)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w (expected %s)", ErrMissingClientSecrets, cfg.ClientSecrets)
	}
	if err != nil {
		return nil, fmt.Errorf("read client secrets: %w", err)
	}

	oc, err := google.ConfigFromJSON(data, youtube.YoutubeReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parse client secrets: %w", err)
	}
	oc.RedirectURL = "http://localhost:" + strconv.Itoa(cfg.CallbackPort) + "/"

	a := &Authenticator{cfg: cfg, oauth: oc, logger: logger}
	a.authorize = a.loopbackFlow
	a.accountName = func(ctx context.Context, ts oauth2.TokenSource) (string, error) {
		client, err := NewClient(ctx, cfg, logger, option.WithTokenSource(ts))
		if err != nil {
			return "", err
		}
		return client.AccountName(ctx)
	}
	return a, nil
}

// Accounts lists the accounts that have a token directory, sorted by name.
func (a *Authenticator) Accounts() ([]string, error) {
	entries, err := os.ReadDir(a.cfg.TokenDir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	var accounts []string
	for _, e := range entries {
		if e.IsDir() {
			accounts = append(accounts, e.Name())
		}
	}
	sort.Strings(accounts)
	return accounts, nil
}

// TokenSource returns credentials for a known account. A stored token is used
// while it is valid or refreshable; otherwise the consent flow runs again and
// the new credentials must belong to the same account.
func (a *Authenticator) TokenSource(ctx context.Context, account string) (oauth2.TokenSource, error) {
	tok, err := a.loadToken(account)
	if err == nil {
		ts := a.oauth.TokenSource(ctx, tok)
		fresh, err := ts.Token()
		if err == nil {
			if fresh.AccessToken != tok.AccessToken {
				if err := a.saveToken(account, fresh); err != nil {
					return nil, err
				}
			}
			return ts, nil
		}
		a.logger.Warn("Unable to refresh credentials", zap.String("account", account), zap.Error(err))
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	a.logger.Info("Requesting a new token", zap.String("account", account))
	tok, err = a.authorize(ctx)
	if err != nil {
		return nil, fmt.Errorf("authorize %s: %w", account, err)
	}

	ts := a.oauth.TokenSource(ctx, tok)
	name, err := a.accountName(ctx, ts)
	if err != nil {
		return nil, fmt.Errorf("resolve account name: %w", err)
	}
	if name != account {
		return nil, fmt.Errorf("%w: got %q, expected %q", ErrAccountMismatch, name, account)
	}

	if err := a.saveToken(account, tok); err != nil {
		return nil, err
	}
	return ts, nil
}

// AddAccount authorizes a new account. When the account was archived before,
// confirmOverwrite decides whether its stored token is replaced.
func (a *Authenticator) AddAccount(ctx context.Context, confirmOverwrite func(account string) bool) (string, oauth2.TokenSource, error) {
	a.logger.Info("Requesting YouTube account credentials")
	tok, err := a.authorize(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("authorize: %w", err)
	}

	ts := a.oauth.TokenSource(ctx, tok)
	name, err := a.accountName(ctx, ts)
	if err != nil {
		return "", nil, fmt.Errorf("resolve account name: %w", err)
	}

	if _, err := os.Stat(a.accountDir(name)); err == nil {
		if confirmOverwrite == nil || !confirmOverwrite(name) {
			return name, nil, ErrOverwriteDeclined
		}
	}

	if err := a.saveToken(name, tok); err != nil {
		return "", nil, err
	}
	return name, ts, nil
}

func (a *Authenticator) accountDir(account string) string {
	return filepath.Join(a.cfg.TokenDir, account)
}

func (a *Authenticator) loadToken(account string) (*oauth2.Token, error) {
	data, err := os.ReadFile(filepath.Join(a.accountDir(account), tokenFile))
	if err != nil {
		return nil, err
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("decode token of %s: %w", account, err)
	}
	return &tok, nil
}

func (a *Authenticator) saveToken(account string, tok *oauth2.Token) error {
	dir := a.accountDir(account)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, tokenFile), data, 0600); err != nil {
		return fmt.Errorf("write token of %s: %w", account, err)
	}
	return nil
}

// loopbackFlow serves the redirect on the callback port and exchanges the
// returned code for a token.
func (a *Authenticator) loopbackFlow(ctx context.Context) (*oauth2.Token, error) {
	state := uuid.NewString()
	codes := make(chan string, 1)
	errs := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			return
		}
		if e := q.Get("error"); e != "" {
			fmt.Fprintln(w, "Authorization failed, you may close this window.")
			errs <- fmt.Errorf("authorization denied: %s", e)
			return
		}
		fmt.Fprintln(w, "Authorization complete, you may close this window.")
		codes <- q.Get("code")
	})

	ln, err := net.Listen("tcp", "localhost:"+strconv.Itoa(a.cfg.CallbackPort))
	if err != nil {
		return nil, fmt.Errorf("listen for oauth callback: %w", err)
	}
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go srv.Serve(ln)
	defer srv.Close()

	url := a.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
	fmt.Printf("\nOpen this URL in a browser to authorize access:\n%s\n\n", url)

	select {
	case code := <-codes:
		tok, err := a.oauth.Exchange(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("exchange code: %w", err)
		}
		return tok, nil
	case err := <-errs:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/oauth2kit/pkceflow"
	"github.com/oauth2kit/pkceflow/internal/logging"
)

func main() {
	if err := logging.LoadLevel(); err != nil {
		logrus.WithError(err).Warn("failed to load log level")
	}
	if err := run(context.Background()); err != nil {
		logrus.WithError(err).Fatal("login failed")
	}
}

func run(ctx context.Context) error {
	conf, err := pkceflow.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	metaStore := pkceflow.ResolveMetaStore(conf.Storage)

	verifier := pkceflow.GenerateVerifier("")
	challenge := pkceflow.ComputeChallenge(verifier)
	state := pkceflow.GenerateState()

	err = metaStore.SaveMeta(ctx, pkceflow.FlowMeta{
		CodeVerifier: verifier,
		Params:       map[string]string{pkceflow.QueryParamState: state},
	})
	if err != nil {
		return fmt.Errorf("failed to save flow state: %w", err)
	}

	// The redirect step is not part of the core; golang.org/x/oauth2
	// builds the authorize URL with the challenge embedded.
	oc := &oauth2.Config{
		ClientID:    conf.ClientID,
		RedirectURL: conf.RedirectURI,
		Scopes:      conf.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  conf.AuthorizeURL,
			TokenURL: conf.TokenURL,
		},
	}
	authorizeURL := oc.AuthCodeURL(state,
		oauth2.SetAuthURLParam(pkceflow.QueryParamCodeChallenge, challenge),
		oauth2.SetAuthURLParam(pkceflow.QueryParamCodeChallengeMethod, pkceflow.DefaultCodeChallengeMethod))

	fmt.Fprintf(os.Stderr, "Open the following URL in your browser:\n\n%s\n\n", authorizeURL)

	code, err := waitForCallback(ctx, conf.RedirectURI, state)
	if err != nil {
		return err
	}

	meta, err := metaStore.LoadMeta(ctx)
	if err != nil {
		return err
	}

	resp, err := pkceflow.NewClient(nil).ExchangeCodeForTokens(ctx, pkceflow.TokenRequestParams{
		ClientID:          conf.ClientID,
		RedirectURI:       conf.RedirectURI,
		AuthorizationCode: code,
		CodeVerifier:      meta.CodeVerifier,
	}, conf.TokenURL)
	if err != nil {
		return err
	}

	if err := metaStore.ClearMeta(ctx); err != nil {
		return fmt.Errorf("failed to clear flow state: %w", err)
	}

	if resp.IDToken != "" && conf.JWKSURL != "" {
		if _, err := pkceflow.VerifyIDToken(ctx, resp.IDToken, conf); err != nil {
			return err
		}
		logrus.Info("id_token verified")
	}

	return json.NewEncoder(os.Stdout).Encode(resp.Raw())
}

// waitForCallback runs a loopback listener on the redirect URI's host and
// returns the authorization code once the browser lands on it.
func waitForCallback(ctx context.Context, redirectURI, wantState string) (string, error) {
	u, err := url.Parse(redirectURI)
	if err != nil {
		return "", fmt.Errorf("invalid redirectURI: %w", err)
	}

	type result struct {
		code string
		err  error
	}
	ch := make(chan result, 1)

	mux := http.NewServeMux()
	mux.HandleFunc(u.Path, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if s := q.Get(pkceflow.QueryParamState); s != wantState {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			ch <- result{err: errors.New("state mismatch on callback")}
			return
		}
		fmt.Fprintln(w, "Login complete. You can close this tab.")
		ch <- result{code: q.Get(pkceflow.FormParamAuthorizationCode)}
	})

	srv := &http.Server{Addr: u.Host, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			ch <- result{err: err}
		}
	}()
	defer srv.Shutdown(context.Background())

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		return res.code, res.err
	}
}

package picasa

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/snapkit-cli/snapkit/log"
	"github.com/snapkit-cli/snapkit/open"
)

const callbackPath = "/authorize/"

const closePage = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>snapkit</title></head>
<body style="font-family: sans-serif; text-align: center; margin-top: 20vh">
<h1>%s</h1>
<p>You may close this tab and return to the terminal.</p>
</body>
</html>`

// LocalServerReceiver listens on a loopback port and waits for the browser to be redirected to it.
type LocalServerReceiver struct {
	// Host is the interface to listen on; the port is picked by the system.
	Host string
	// Timeout bounds the wait for the browser. Zero means five minutes.
	Timeout time.Duration
	// Open shows the authorization URL to the user.
	Open func(string) error
}

// ReceiveCode sets settings.RedirectURL, opens the authorization URL and returns the callback query.
func (r *LocalServerReceiver) ReceiveCode(ctx context.Context, settings *OAuth2Settings) (map[string]string, error) {
	host := r.Host
	if host == "" {
		host = "127.0.0.1"
	}

	listener, err := net.Listen("tcp", net.JoinHostPort(host, "0"))
	if err != nil {
		return nil, fmt.Errorf("start local receiver: %w", err)
	}

	settings.RedirectURL = "http://" + listener.Addr().String() + callbackPath

	resultCh := make(chan map[string]string, 1)
	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, func(w http.ResponseWriter, req *http.Request) {
		result := make(map[string]string)
		for k, v := range req.URL.Query() {
			if len(v) > 0 {
				result[k] = v[0]
			}
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if result["error"] != "" {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, closePage, "Authorization failed")
		} else {
			fmt.Fprintf(w, closePage, "Authorization received")
		}

		select {
		case resultCh <- result:
		default:
		}
	})

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	timeout := r.Timeout
	if timeout == 0 {
		timeout = 5 * time.Minute
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	authURL := settings.FormattedAuthURL()
	openURL := r.Open
	if openURL == nil {
		openURL = open.Start
	}
	if err := openURL(authURL); err != nil {
		log.Warnf("Can't open the browser: %v", err)
		fmt.Printf("Please visit %s\n", authURL)
	}

	log.Infof("Waiting for the authorization callback on %s", settings.RedirectURL)

	select {
	case result := <-resultCh:
		return result, nil
	case err := <-errCh:
		return nil, fmt.Errorf("local receiver: %w", err)
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for authorization: %w", ctx.Err())
	}
}

package fxclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DownloadURL builds the retrieval URL for a download token. A
// cache-busting timestamp is appended so a re-processed artifact is
// never served from a stale cache. The URL references the token, not
// the file location, and stops working when the token expires.
func (c *Client) DownloadURL(token DownloadToken) string {
	return fmt.Sprintf("%s/api/temp-download/%s?t=%d", c.baseURL, token, time.Now().UnixMilli())
}

// ResolveResult exchanges a succeeded outcome for a retrieval URL. Any
// other outcome is an error: only success carries a token.
func (c *Client) ResolveResult(o Outcome) (string, error) {
	if o.Status != StatusSucceeded {
		return "", fmt.Errorf("cannot resolve a %s outcome", o.Status)
	}
	if o.Token == "" {
		return "", fmt.Errorf("succeeded outcome carries no token")
	}
	return c.DownloadURL(o.Token), nil
}

type downloadLinkResponse struct {
	Token string `json:"token"`
}

// HistoryDownloadLink exchanges a processed filename from the caller's
// history for a fresh download token. Requires a credential; repeated
// calls for the same filename mint new tokens for the same artifact.
func (c *Client) HistoryDownloadLink(ctx context.Context, filename string) (DownloadToken, error) {
	if !c.Authenticated() {
		return "", &AuthError{Err: errors.New("no credential present")}
	}

	endpoint := "/api/history-download-link?filename=" + url.QueryEscape(filename)

	var resp downloadLinkResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		var he *httpError
		if errors.As(err, &he) {
			switch he.StatusCode {
			case http.StatusUnauthorized:
				return "", &AuthError{Err: err}
			case http.StatusNotFound:
				return "", &NotFoundError{Resource: filename}
			}
		}
		return "", err
	}

	return DownloadToken(resp.Token), nil
}

// Fetch retrieves the processed artifact behind a token. The caller owns
// the returned body and must close it.
func (c *Client) Fetch(ctx context.Context, token DownloadToken) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.DownloadURL(token), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		if resp.StatusCode == http.StatusNotFound {
			return nil, &NotFoundError{Resource: string(token)}
		}
		return nil, &httpError{StatusCode: resp.StatusCode}
	}

	return resp.Body, nil
}

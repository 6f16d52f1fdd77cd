package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// GoogleProfile is the identity extracted from a verified Google ID token.
type GoogleProfile struct {
	GoogleID string
	Email    string
	Name     string
	Picture  string
}

// GoogleVerifier validates a Google ID token credential.
type GoogleVerifier interface {
	Verify(ctx context.Context, credential string) (*GoogleProfile, error)
}

// ErrBadCredential is returned when Google rejects the token or the audience
// does not match our client ID.
var ErrBadCredential = errors.New("invalid google credential")

const tokeninfoURL = "https://oauth2.googleapis.com/tokeninfo"

// tokeninfoVerifier checks credentials against Google's tokeninfo endpoint.
type tokeninfoVerifier struct {
	clientID string
	client   *http.Client
}

func NewGoogleVerifier(clientID string) GoogleVerifier {
	return &tokeninfoVerifier{
		clientID: clientID,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (v *tokeninfoVerifier) Verify(ctx context.Context, credential string) (*GoogleProfile, error) {
	reqURL := tokeninfoURL + "?id_token=" + url.QueryEscape(credential)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tokeninfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrBadCredential
	}

	var info struct {
		Aud     string `json:"aud"`
		Sub     string `json:"sub"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode tokeninfo response: %w", err)
	}

	if info.Aud != v.clientID || info.Sub == "" {
		return nil, ErrBadCredential
	}

	return &GoogleProfile{
		GoogleID: info.Sub,
		Email:    info.Email,
		Name:     info.Name,
		Picture:  info.Picture,
	}, nil
}

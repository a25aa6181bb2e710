package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// GoogleUserInfo is the subset of the tokeninfo response the club cares
// about when signing a member in with Google.
type GoogleUserInfo struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	Aud     string `json:"aud"`
}

// VerifyGoogleIDToken checks an ID token against Google's tokeninfo
// endpoint and, when clientID is non-empty, that the token was issued
// for this application.
func VerifyGoogleIDToken(ctx context.Context, idToken, clientID string) (*GoogleUserInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	endpoint := googleTokenInfoURL + "?id_token=" + url.QueryEscape(idToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tokeninfo request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google rejected the token: %s", resp.Status)
	}

	var info GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("could not decode tokeninfo response: %v", err)
	}

	if info.Email == "" {
		return nil, fmt.Errorf("token has no email claim")
	}
	if clientID != "" && info.Aud != clientID {
		return nil, fmt.Errorf("token audience mismatch")
	}

	return &info, nil
}

package preferences

import (
	"context"
	"fmt"
	"time"

	"github.com/HerbHall/toolhub/internal/version"
	"resty.dev/v3"
)

// ProfileSource reports the remote "onboarding completed" flag for a user.
type ProfileSource interface {
	OnboardingCompleted(ctx context.Context, userID string) (bool, error)
}

// profileResponse is the subset of the remote profile document we read.
type profileResponse struct {
	OnboardingCompleted bool `json:"onboarding_completed"`
}

// Compile-time interface guard.
var _ ProfileSource = (*HTTPProfileSource)(nil)

// HTTPProfileSource reads profiles from GET {baseURL}/profiles/{userID}.
type HTTPProfileSource struct {
	client *resty.Client
}

// NewHTTPProfileSource creates a profile client. Requests are not retried:
// a failed lookup simply means no new information.
func NewHTTPProfileSource(baseURL string, timeout time.Duration) *HTTPProfileSource {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", version.UserAgent())
	return &HTTPProfileSource{client: client}
}

// OnboardingCompleted fetches the user's profile and returns its flag.
func (p *HTTPProfileSource) OnboardingCompleted(ctx context.Context, userID string) (bool, error) {
	var body profileResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetPathParam("userID", userID).
		SetResult(&body).
		Get("/profiles/{userID}")
	if err != nil {
		return false, fmt.Errorf("fetch profile %q: %w", userID, err)
	}
	if resp.IsError() {
		return false, fmt.Errorf("fetch profile %q: HTTP %d", userID, resp.StatusCode())
	}
	return body.OnboardingCompleted, nil
}

// Close releases the underlying HTTP client.
func (p *HTTPProfileSource) Close() error {
	return p.client.Close()
}

package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/dghubble/go-twitter/twitter" //nolint:staticcheck // Using stable v1.1 API
	"github.com/dghubble/oauth1"
)

// TwitterCredentials are the OAuth1 user credentials of the posting account
type TwitterCredentials struct {
	APIKey       string
	APISecret    string
	AccessToken  string
	AccessSecret string
}

// TwitterNotifier posts one status per notice
type TwitterNotifier struct {
	client *twitter.Client
	pause  time.Duration
}

// NewTwitterNotifier creates a Twitter notifier. All four credentials are
// required.
func NewTwitterNotifier(creds TwitterCredentials) (*TwitterNotifier, error) {
	if creds.APIKey == "" || creds.APISecret == "" || creds.AccessToken == "" || creds.AccessSecret == "" {
		return nil, fmt.Errorf("missing required Twitter credentials")
	}

	config := oauth1.NewConfig(creds.APIKey, creds.APISecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessSecret)
	httpClient := config.Client(oauth1.NoContext, token)

	return &TwitterNotifier{client: twitter.NewClient(httpClient), pause: 2 * time.Second}, nil
}

// Notify posts a status for each notice
func (n *TwitterNotifier) Notify(ctx context.Context, notices []Notice) error {
	for i, notice := range notices {
		if _, _, err := n.client.Statuses.Update(formatNotice(notice), nil); err != nil {
			return fmt.Errorf("failed to post status for %s: %w", notice.Key(), err)
		}

		// Rate limiting: wait between posts
		if i < len(notices)-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(n.pause):
			}
		}
	}
	return nil
}

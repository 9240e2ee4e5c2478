package gcp

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"

	"github.com/custodia-labs/bucketqa/internal/core/domain"
)

// CloudPlatformScope grants access to every API this program calls.
const CloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// TokenSource returns credentials for cloud. A configured service account
// file takes precedence over application default credentials.
func TokenSource(ctx context.Context, cloud domain.CloudSettings) (oauth2.TokenSource, error) {
	if cloud.CredentialsFile != "" {
		data, err := os.ReadFile(cloud.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		creds, err := google.CredentialsFromJSON(ctx, data, CloudPlatformScope)
		if err != nil {
			return nil, fmt.Errorf("parse credentials file: %w", err)
		}
		return creds.TokenSource, nil
	}

	ts, err := google.DefaultTokenSource(ctx, CloudPlatformScope)
	if err != nil {
		return nil, fmt.Errorf("find default credentials: %w", err)
	}
	return ts, nil
}

// ClientOptions builds the client options shared by every Google API client.
func ClientOptions(ctx context.Context, cloud domain.CloudSettings) ([]option.ClientOption, error) {
	ts, err := TokenSource(ctx, cloud)
	if err != nil {
		return nil, err
	}
	return []option.ClientOption{option.WithTokenSource(ts)}, nil
}

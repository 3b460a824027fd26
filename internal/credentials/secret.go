package credentials

import (
	"context"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/googleapis/gax-go/v2"
)

type secretAccessor interface {
	AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest, opts ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error)
}

// SecretResolver reads the bearer token from Google Secret Manager.
type SecretResolver struct {
	accessor secretAccessor
	close    func() error
}

func NewSecretResolver(ctx context.Context) (*SecretResolver, error) {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create secret manager client: %w", err)
	}

	return &SecretResolver{
		accessor: client,
		close:    client.Close,
	}, nil
}

func (r *SecretResolver) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}

func (r *SecretResolver) Resolve(ctx context.Context, name string) (string, error) {
	resp, err := r.accessor.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: SecretVersionName(name),
	})
	if err != nil {
		return "", fmt.Errorf("access secret %s: %w", name, err)
	}

	token := strings.TrimSpace(string(resp.GetPayload().GetData()))
	if token == "" {
		return "", fmt.Errorf("secret %s is empty", name)
	}
	return token, nil
}

// SecretVersionName pins a bare secret name to its latest version.
func SecretVersionName(name string) string {
	name = strings.TrimSuffix(strings.TrimSpace(name), "/")
	if strings.Contains(name, "/versions/") {
		return name
	}
	return name + "/versions/latest"
}

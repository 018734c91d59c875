package vault

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

const defaultServiceAccountTokenPath = "/var/run/secrets/kubernetes.io/serviceaccount/token"

// VaultClient reads relayer secrets from a KV v2 mount after a Kubernetes
// auth login.
type VaultClient struct {
	addr         string
	kvSecretPath string
	role         string
	token        string
	saTokenPath  string
	client       *resty.Client
}

type Option func(*VaultClient)

// WithServiceAccountTokenPath overrides where the pod's JWT is read from.
func WithServiceAccountTokenPath(path string) Option {
	return func(vc *VaultClient) {
		vc.saTokenPath = path
	}
}

func New(addr, kvSecretPath, role string, opts ...Option) (*VaultClient, error) {
	vc := &VaultClient{
		addr:         strings.TrimRight(addr, "/"),
		role:         role,
		kvSecretPath: strings.Trim(kvSecretPath, "/"),
		saTokenPath:  defaultServiceAccountTokenPath,
		client:       resty.New().SetTimeout(10 * time.Second),
	}
	for _, opt := range opts {
		opt(vc)
	}

	token, err := vc.login()
	if err != nil {
		return nil, errors.Wrap(err, "vault login")
	}
	vc.token = token
	return vc, nil
}

type loginResponse struct {
	Auth *struct {
		ClientToken string `json:"client_token"`
	} `json:"auth"`
	Errors []string `json:"errors"`
}

type kvResponse struct {
	Data *struct {
		Data map[string]interface{} `json:"data"`
	} `json:"data"`
	Errors []string `json:"errors"`
}

func (vc *VaultClient) login() (string, error) {
	jwt, err := os.ReadFile(vc.saTokenPath)
	if err != nil {
		return "", fmt.Errorf("failed to read service account token: %v", err)
	}

	var out loginResponse
	resp, err := vc.client.R().
		SetBody(map[string]string{
			"jwt":  strings.TrimSpace(string(jwt)),
			"role": vc.role,
		}).
		SetResult(&out).
		SetError(&out).
		Post(vc.addr + "/v1/auth/kubernetes/login")
	if err != nil {
		return "", err
	}
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("vault authentication failed with status %d: %s", resp.StatusCode(), strings.Join(out.Errors, "; "))
	}
	if out.Auth == nil || out.Auth.ClientToken == "" {
		return "", errors.New("vault returned no client_token")
	}
	return out.Auth.ClientToken, nil
}

// GetKV returns secretKey from the configured KV v2 path.
func (vc *VaultClient) GetKV(secretKey string) (string, error) {
	var out kvResponse
	resp, err := vc.client.R().
		SetHeader("X-Vault-Token", vc.token).
		SetResult(&out).
		SetError(&out).
		Get(vc.addr + "/v1/" + vc.kvSecretPath)
	if err != nil {
		return "", err
	}
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("vault KV get failed with status %d: %s", resp.StatusCode(), strings.Join(out.Errors, "; "))
	}
	if out.Data == nil || out.Data.Data == nil {
		return "", errors.New("vault response has no KV v2 data")
	}

	value, ok := out.Data.Data[secretKey]
	if !ok {
		return "", fmt.Errorf("secret key '%s' not found", secretKey)
	}
	secret, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("secret value for key '%s' is not a string", secretKey)
	}
	return secret, nil
}

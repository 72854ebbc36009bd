package pkceflow

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/oauth2kit/pkceflow/storage"
)

const defaultConfigFile = "/etc/pkceflow/config.yaml"

// Config is the SDK configuration supplied by the embedding application:
// the OAuth client identity, the authorization server endpoints, and the
// flow state storage selection.
type Config struct {
	ClientID    string `yaml:"clientID" json:"clientID"`
	RedirectURI string `yaml:"redirectURI" json:"redirectURI"`
	Issuer      string `yaml:"issuer" json:"issuer"`

	// Endpoint overrides. When empty they are derived from the issuer.
	AuthorizeURL string `yaml:"authorizeURL" json:"authorizeURL"`
	TokenURL     string `yaml:"tokenURL" json:"tokenURL"`
	JWKSURL      string `yaml:"jwksURL" json:"jwksURL"`

	Scopes []string `yaml:"scopes" json:"scopes"`

	Storage storage.Config `yaml:"storage" json:"storage"`
}

// LoadConfig reads the YAML config file pointed to by PKCEFLOW_CONFIG, or
// the default path, and validates it.
func LoadConfig() (*Config, error) {
	fileName := defaultConfigFile
	if fn := os.Getenv("PKCEFLOW_CONFIG"); fn != "" {
		fileName = fn
	}
	var cfg Config
	f, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.ValidateAndInitialize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ValidateAndInitialize checks required fields and fills in defaults.
func (c *Config) ValidateAndInitialize() error {
	if c.ClientID == "" {
		return fmt.Errorf("clientID must be set")
	}
	if c.RedirectURI == "" {
		return fmt.Errorf("redirectURI must be set")
	}
	if c.Issuer == "" && (c.AuthorizeURL == "" || c.TokenURL == "") {
		return fmt.Errorf("issuer must be set when authorizeURL or tokenURL is not")
	}

	base := strings.TrimSuffix(c.Issuer, "/")
	if c.AuthorizeURL == "" {
		c.AuthorizeURL = base + "/v1/authorize"
	}
	if c.TokenURL == "" {
		c.TokenURL = base + "/v1/token"
	}
	if c.JWKSURL == "" && c.Issuer != "" {
		c.JWKSURL = base + "/v1/keys"
	}
	if len(c.Scopes) == 0 {
		c.Scopes = []string{"openid"}
	}
	return nil
}

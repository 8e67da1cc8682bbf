package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Auth   AuthConfig
	Cache  CacheConfig
	Client ClientConfig
}

// AuthConfig carries the OAuth2 client-credentials configuration.
type AuthConfig struct {
	ClientID     string `env:"PARTNERLINK_CLIENT_ID, required"`
	ClientSecret string `env:"PARTNERLINK_CLIENT_SECRET, required"`
	TokenURL     string `env:"PARTNERLINK_TOKEN_URL, default=https://auth.partnerlink.io/oauth2/token"`
	Scope        string `env:"PARTNERLINK_SCOPE"`

	// CredentialVersion tags the credential set for cache namespacing.
	// Bump it when rotating the client secret so stale shared-cache
	// entries are never adopted.
	CredentialVersion string `env:"PARTNERLINK_CREDENTIAL_VERSION, default=v1"`
}

// ClientConfig specifies the API endpoint and affiliate parameters attached
// to every catalog request, plus outgoing HTTP tuning.
type ClientConfig struct {
	Endpoint    string `env:"PARTNERLINK_ENDPOINT, default=https://api.partnerlink.io"`
	Marketplace string `env:"PARTNERLINK_MARKETPLACE, default=www.partnerlink.io"`
	PartnerTag  string `env:"PARTNERLINK_PARTNER_TAG"`

	OutgoingHTTPMaxIdleConns    int `env:"PARTNERLINK_OUTGOING_MAX_IDLE_CONNS, default=100"`
	OutgoingHTTPMaxConnsPerHost int `env:"PARTNERLINK_OUTGOING_MAX_CONNS_PER_HOST, default=20"`

	// HTTPTelemetryEnabled wraps the outgoing transport with OpenTelemetry
	// instrumentation. The hosting application owns exporter setup.
	HTTPTelemetryEnabled bool `env:"PARTNERLINK_HTTP_TELEMETRY_ENABLED, default=false"`
}

// CacheConfig specifies the shared token cache configuration.
type CacheConfig struct {
	// Type selects the cache implementation: "none" (default, in-process
	// only), "memory" or "valkey".
	Type string `env:"PARTNERLINK_CACHE_TYPE, default=none"`

	// Prefix namespaces cache keys, so several deployments can share one
	// cache server.
	Prefix string `env:"PARTNERLINK_CACHE_PREFIX, default=partnerlink"`

	// MemoryMaxSize bounds the entry count of the "memory" cache type.
	MemoryMaxSize int `env:"PARTNERLINK_CACHE_MEMORY_MAX_SIZE, default=1000"`

	// Valkey holds distributed cache settings.
	Valkey ValkeyConfig

	// Encryption holds cache encryption settings.
	// Only supported with valkey cache type.
	Encryption CacheEncryptionConfig
}

// ValkeyConfig specifies distributed cache configuration.
type ValkeyConfig struct {
	// Address is the Valkey server address (host:port).
	Address string `env:"PARTNERLINK_VALKEY_ADDRESS"`

	// TLS enables TLS connection to Valkey. Defaults to true so the secure
	// option is the default.
	TLS bool `env:"PARTNERLINK_VALKEY_TLS, default=true"`

	// Username for Valkey authentication.
	Username string `env:"PARTNERLINK_VALKEY_USERNAME"`

	// Password for Valkey authentication.
	Password string `env:"PARTNERLINK_VALKEY_PASSWORD"`

	// IAMEnabled switches authentication to ElastiCache IAM tokens.
	IAMEnabled bool `env:"PARTNERLINK_VALKEY_IAM_ENABLED, default=false"`

	// IAMCacheName is the ElastiCache replication group or serverless cache
	// name used when minting IAM tokens.
	IAMCacheName string `env:"PARTNERLINK_VALKEY_IAM_CACHE_NAME"`

	// IAMServerless marks the cache as ElastiCache Serverless.
	IAMServerless bool `env:"PARTNERLINK_VALKEY_IAM_SERVERLESS, default=false"`
}

// CacheEncryptionConfig holds settings for cache encryption.
type CacheEncryptionConfig struct {
	// Enabled turns on encryption for cached tokens.
	// Requires PARTNERLINK_CACHE_TYPE=valkey.
	Enabled bool `env:"PARTNERLINK_CACHE_ENCRYPTION_ENABLED, default=false"`

	// KeysetFile is a path to a cleartext Tink keyset (development only).
	KeysetFile string `env:"PARTNERLINK_CACHE_ENCRYPTION_KEYSET_FILE"`

	// KeysetURI is the URI to the encrypted Tink keyset.
	// Format: aws-secretsmanager://secret-name
	KeysetURI string `env:"PARTNERLINK_CACHE_ENCRYPTION_KEYSET_URI"`

	// KMSEnvelopeKeyURI is the AWS KMS key URI for envelope encryption.
	// Format: aws-kms://arn:aws:kms:region:account:key/key-id
	KMSEnvelopeKeyURI string `env:"PARTNERLINK_CACHE_ENCRYPTION_KMS_ENVELOPE_KEY_URI"`
}

func Load(ctx context.Context) (Config, error) {
	return load(ctx, nil) // load from OS environment
}

func load(ctx context.Context, lookup envconfig.Lookuper) (Config, error) {
	var cfg Config
	err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookup, // nil defaults to OS environment
	})
	if err != nil {
		return cfg, err
	}

	err = cfg.Cache.Validate()
	if err != nil {
		return cfg, fmt.Errorf("invalid cache configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the cache configuration is valid.
func (c *CacheConfig) Validate() error {
	switch c.Type {
	case "none", "memory", "valkey":
	default:
		return fmt.Errorf("invalid cache type %q: must be \"none\", \"memory\" or \"valkey\"", c.Type)
	}

	// Encryption requires distributed cache
	if c.Encryption.Enabled && c.Type != "valkey" {
		return fmt.Errorf("cache encryption requires PARTNERLINK_CACHE_TYPE=valkey")
	}

	// Encryption requires a keyset source
	if c.Encryption.Enabled && c.Encryption.KeysetFile == "" {
		if c.Encryption.KeysetURI == "" {
			return fmt.Errorf("PARTNERLINK_CACHE_ENCRYPTION_KEYSET_URI required when encryption enabled")
		}
		if c.Encryption.KMSEnvelopeKeyURI == "" {
			return fmt.Errorf("PARTNERLINK_CACHE_ENCRYPTION_KMS_ENVELOPE_KEY_URI required when encryption enabled")
		}
	}

	// Valkey requires address
	if c.Type == "valkey" && c.Valkey.Address == "" {
		return fmt.Errorf("PARTNERLINK_VALKEY_ADDRESS required when PARTNERLINK_CACHE_TYPE=valkey")
	}

	if c.Type == "valkey" && c.Valkey.IAMEnabled && c.Valkey.IAMCacheName == "" {
		return fmt.Errorf("PARTNERLINK_VALKEY_IAM_CACHE_NAME required when IAM auth enabled")
	}

	return nil
}

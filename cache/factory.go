package cache

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/partnerlink/partnerlink-go/cache/encryption"
	"github.com/partnerlink/partnerlink-go/config"
	"github.com/rs/zerolog/log"
	"github.com/tink-crypto/tink-go/v2/tink"
	"github.com/valkey-io/valkey-go"
)

// NewFromConfig creates a cache implementation based on the provided
// configuration. It returns the cache and any error encountered.
//
// The cache type must be "none", "memory" or "valkey". "none" returns a nil
// cache, which callers treat as "no shared cache configured". maxTTL bounds
// entry lifetime for the memory type and the client-side caching window for
// the valkey type.
func NewFromConfig[T any](
	ctx context.Context,
	cacheConfig config.CacheConfig,
	maxTTL time.Duration,
) (TokenCache[T], error) {
	switch cacheConfig.Type {
	case "valkey":
		log.Info().
			Str("cache_type", "valkey").
			Str("address", cacheConfig.Valkey.Address).
			Bool("tls", cacheConfig.Valkey.TLS).
			Bool("iam_enabled", cacheConfig.Valkey.IAMEnabled).
			Msg("initializing distributed cache")

		if cacheConfig.Valkey.Address == "" {
			return nil, fmt.Errorf("valkey address is required when cache type is valkey")
		}

		valkeyOpts := valkey.ClientOption{
			InitAddress: []string{cacheConfig.Valkey.Address},
		}

		if cacheConfig.Valkey.IAMEnabled {
			awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
			if err != nil {
				return nil, fmt.Errorf("loading AWS config for IAM auth: %w", err)
			}

			credsFn, err := IAMCredentialsFn(cacheConfig.Valkey, awsCfg)
			if err != nil {
				return nil, fmt.Errorf("configuring IAM credentials: %w", err)
			}
			valkeyOpts.AuthCredentialsFn = credsFn
			valkeyOpts.ConnLifetime = 11 * time.Hour
		} else {
			valkeyOpts.AuthCredentialsFn = StaticCredentialsFn(
				cacheConfig.Valkey.Username,
				cacheConfig.Valkey.Password,
			)
		}

		// Configure TLS if enabled
		if cacheConfig.Valkey.TLS {
			valkeyOpts.TLSConfig = &tls.Config{
				MinVersion: tls.VersionTLS12,
			}
		}

		valkeyClient, err := valkey.NewClient(valkeyOpts)
		if err != nil {
			return nil, fmt.Errorf("failed to create valkey client: %w", err)
		}

		// Initialize encryption strategy if enabled.
		var strategy EncryptionStrategy
		if cacheConfig.Encryption.Enabled {
			var aead tink.AEAD
			var err error

			switch {
			case cacheConfig.Encryption.KeysetFile != "":
				aead, err = encryption.NewAEADFromFile(cacheConfig.Encryption.KeysetFile)
			default:
				aead, err = encryption.NewAEADFromKMS(ctx, cacheConfig.Encryption.KeysetURI, cacheConfig.Encryption.KMSEnvelopeKeyURI)
			}
			if err != nil {
				valkeyClient.Close()
				return nil, fmt.Errorf("initializing encryption: %w", err)
			}
			strategy = NewTinkEncryptionStrategy(aead)

			log.Info().Msg("cache encryption enabled")
		}

		distributed, err := NewDistributed[T](valkeyClient, maxTTL, strategy)
		if err != nil {
			if strategy != nil {
				_ = strategy.Close()
			}
			valkeyClient.Close()
			return nil, fmt.Errorf("failed to create distributed cache: %w", err)
		}

		return NewInstrumented(distributed, "distributed"), nil

	case "memory":
		log.Info().
			Str("cache_type", "memory").
			Msg("initializing in-memory cache")

		memory, err := NewMemory[T](maxTTL, cacheConfig.MemoryMaxSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create memory cache: %w", err)
		}

		return NewInstrumented(memory, "memory"), nil

	case "none", "":
		return nil, nil

	default:
		return nil, fmt.Errorf("invalid cache type %q: must be \"none\", \"memory\" or \"valkey\"", cacheConfig.Type)
	}
}

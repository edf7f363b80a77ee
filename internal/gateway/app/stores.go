package app

import (
	"fmt"
	"log"

	"assetforge/internal/gateway/config"
	artifactrepo "assetforge/internal/gateway/repository/artifact"
)

// initExportStore builds the export backend selected by EXPORT_BACKEND.
// Remote backends are fronted by the LRU read cache.
func initExportStore(cfg *config.Config) (artifactrepo.Store, func() error, error) {
	noop := func() error { return nil }
	exp := cfg.Export

	switch exp.Backend {
	case config.BackendDir:
		store, err := artifactrepo.NewDirStore(exp.Dir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open export dir: %w", err)
		}
		log.Printf("export store: dir root=%s", store.Root())
		return artifactrepo.NewCachedStore(store, artifactrepo.DefaultCacheConfig()), noop, nil

	case config.BackendS3:
		if !exp.S3.CanUseS3() {
			log.Printf("export store: s3 settings incomplete, falling back to memory")
			return artifactrepo.NewMemoryStore(), noop, nil
		}
		store, err := artifactrepo.NewS3Store(artifactrepo.S3Config{
			Endpoint:  exp.S3.Endpoint,
			Region:    exp.S3.Region,
			AccessKey: exp.S3.AccessKey,
			SecretKey: exp.S3.SecretKey,
			Bucket:    exp.S3.Bucket,
			UseSSL:    exp.S3.UseSSL,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize export s3 store: %w", err)
		}
		log.Printf("export store: s3 bucket=%s endpoint=%s", exp.S3.Bucket, exp.S3.Endpoint)
		return artifactrepo.NewCachedStore(store, artifactrepo.DefaultCacheConfig()), noop, nil

	case config.BackendPostgres:
		if exp.PostgresDSN == "" {
			return nil, nil, fmt.Errorf("EXPORT_PG_DSN is required for the postgres backend")
		}
		store, err := artifactrepo.OpenPostgres(exp.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open export db: %w", err)
		}
		log.Printf("export store: postgres")
		return artifactrepo.NewCachedStore(store, artifactrepo.DefaultCacheConfig()), store.Close, nil

	default:
		log.Printf("export store: memory")
		return artifactrepo.NewMemoryStore(), noop, nil
	}
}

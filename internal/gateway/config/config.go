package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	BackendMemory   = "memory"
	BackendDir      = "dir"
	BackendS3       = "s3"
	BackendPostgres = "postgres"
)

type Config struct {
	Port   string
	Env    string
	Export ExportConfig
}

type ExportConfig struct {
	Backend        string
	Dir            string
	PostgresDSN    string
	EncodedEntries int
	S3             S3Config
}

type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// CanUseS3 reports whether enough settings are present to build a client.
func (c S3Config) CanUseS3() bool {
	return c.Endpoint != "" && c.AccessKey != "" && c.SecretKey != "" && c.Bucket != ""
}

// Load reads .env (if present), flags and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port := flag.String("port", ":8081", "server port")
	flag.Parse()

	return fromEnv(*port)
}

func fromEnv(port string) (*Config, error) {
	if envPort := os.Getenv("PORT"); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			port = envPort
		} else {
			port = ":" + envPort
		}
	}

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	exp, err := loadExportConfig(env)
	if err != nil {
		return nil, err
	}
	return &Config{
		Port:   port,
		Env:    env,
		Export: exp,
	}, nil
}

func loadExportConfig(env string) (ExportConfig, error) {
	backend := strings.ToLower(firstNonEmpty(strings.TrimSpace(os.Getenv("EXPORT_BACKEND")), BackendMemory))
	switch backend {
	case BackendMemory, BackendDir, BackendS3, BackendPostgres:
	default:
		return ExportConfig{}, fmt.Errorf("unknown EXPORT_BACKEND %q", backend)
	}

	entries := 0
	if raw := strings.TrimSpace(os.Getenv("ENCODED_CACHE_ENTRIES")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return ExportConfig{}, fmt.Errorf("invalid ENCODED_CACHE_ENTRIES %q", raw)
		}
		entries = n
	}

	return ExportConfig{
		Backend:        backend,
		Dir:            firstNonEmpty(strings.TrimSpace(os.Getenv("EXPORT_DIR")), "exports"),
		PostgresDSN:    strings.TrimSpace(os.Getenv("EXPORT_PG_DSN")),
		EncodedEntries: entries,
		S3:             loadS3Config(env),
	}, nil
}

func loadS3Config(env string) S3Config {
	return S3Config{
		Endpoint:  resolveS3Endpoint(env),
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("EXPORT_S3_REGION")), "us-east-1"),
		AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("EXPORT_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
		SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("EXPORT_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
		Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("EXPORT_S3_BUCKET")), "assetforge-exports"),
		UseSSL:    resolveS3UseSSL(env),
	}
}

func resolveS3Endpoint(env string) string {
	if isLocal(env) {
		return firstNonEmpty(strings.TrimSpace(os.Getenv("EXPORT_S3_ENDPOINT")), "minio:9000")
	}
	return strings.TrimSpace(os.Getenv("EXPORT_S3_ENDPOINT"))
}

func resolveS3UseSSL(env string) bool {
	raw := strings.TrimSpace(os.Getenv("EXPORT_S3_USE_SSL"))
	if raw == "" {
		return !isLocal(env)
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return !isLocal(env)
	}
	return v
}

func isLocal(env string) bool {
	return strings.EqualFold(strings.TrimSpace(env), "local")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

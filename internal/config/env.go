package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// S3 holds object-store connection settings. Empty credentials defer to the
// AWS default chain (shared config, instance role).
type S3 struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string

	// Endpoint overrides the service URL, for MinIO or LocalStack.
	Endpoint     string
	UsePathStyle bool
}

// HasStaticCredentials reports whether an explicit key pair was supplied.
func (s S3) HasStaticCredentials() bool {
	return s.AccessKeyID != "" && s.SecretAccessKey != ""
}

// DefaultRegion is used when neither AWS_REGION nor AWS_DEFAULT_REGION is set.
const DefaultRegion = "us-east-1"

// LoadS3FromEnv reads S3 settings from the standard AWS_* variables plus
// S3_ENDPOINT and S3_USE_PATH_STYLE.
func LoadS3FromEnv() S3 {
	return S3{
		Region:          envOr("AWS_REGION", envOr("AWS_DEFAULT_REGION", DefaultRegion)),
		AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Endpoint:        os.Getenv("S3_ENDPOINT"),
		UsePathStyle:    envBool("S3_USE_PATH_STYLE", false),
	}
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// EnvOr returns the value of key, or def when it is unset or blank.
func EnvOr(key, def string) string { return envOr(key, def) }

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

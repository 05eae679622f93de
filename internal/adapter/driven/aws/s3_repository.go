package aws

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/accrualworks/wd-accruals/internal/domain/repository"
	"github.com/accrualworks/wd-accruals/internal/shared/types"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3Types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/rs/zerolog"
)

// S3RepositoryImpl implementa o StorageRepository com cache de clientes.
type S3RepositoryImpl struct {
	cfgCache    map[string]aws.Config
	clientCache map[string]interface{}
	mu          sync.Mutex
	log         zerolog.Logger
}

// NewS3Repository cria uma nova implementação do StorageRepository.
func NewS3Repository(log zerolog.Logger) repository.StorageRepository {
	return &S3RepositoryImpl{
		cfgCache:    make(map[string]aws.Config),
		clientCache: make(map[string]interface{}),
		log:         log,
	}
}

func (r *S3RepositoryImpl) getAWSConfig(ctx context.Context, profile, region string) (aws.Config, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cacheKey := profile + "|" + region
	if cfg, ok := r.cfgCache[cacheKey]; ok {
		return cfg, nil
	}

	var opts []func(*config.LoadOptions) error
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config for profile %q: %w", profile, err)
	}

	r.cfgCache[cacheKey] = cfg
	return cfg, nil
}

func (r *S3RepositoryImpl) getServiceClient(ctx context.Context, profile, region, service string) (interface{}, error) {
	cacheKey := fmt.Sprintf("%s-%s-%s", profile, region, service)

	r.mu.Lock()
	if client, ok := r.clientCache[cacheKey]; ok {
		r.mu.Unlock()
		return client, nil
	}
	r.mu.Unlock()

	cfg, err := r.getAWSConfig(ctx, profile, region)
	if err != nil {
		return nil, err
	}

	var client interface{}
	switch service {
	case "sts":
		client = sts.NewFromConfig(cfg)
	case "s3":
		client = s3.NewFromConfig(cfg)
	default:
		return nil, fmt.Errorf("unsupported service: %s", service)
	}

	r.mu.Lock()
	r.clientCache[cacheKey] = client
	r.mu.Unlock()

	return client, nil
}

// GetCallerIdentity returns the ARN of the credentials in use.
func (r *S3RepositoryImpl) GetCallerIdentity(ctx context.Context, profile, region string) (string, error) {
	client, err := r.getServiceClient(ctx, profile, region, "sts")
	if err != nil {
		return "", err
	}
	stsClient := client.(*sts.Client)

	result, err := stsClient.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("error getting caller identity for profile %q: %w", profile, err)
	}
	return aws.ToString(result.Arn), nil
}

// DownloadObjects copies bucket/prefix/name to destDir/name for every name.
func (r *S3RepositoryImpl) DownloadObjects(ctx context.Context, profile, region, bucket, prefix string, names []string, destDir string) ([]string, error) {
	client, err := r.getServiceClient(ctx, profile, region, "s3")
	if err != nil {
		return nil, err
	}
	s3Client := client.(*s3.Client)

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating directory '%s': %w", destDir, err)
	}

	paths := make([]string, 0, len(names))
	for _, name := range names {
		key := ObjectKey(prefix, name)
		target := filepath.Join(destDir, name)

		if err := r.download(ctx, s3Client, bucket, key, target); err != nil {
			return paths, err
		}

		r.log.Info().Str("bucket", bucket).Str("key", key).Str("target", target).Msg("input staged from S3")
		paths = append(paths, target)
	}

	return paths, nil
}

func (r *S3RepositoryImpl) download(ctx context.Context, client *s3.Client, bucket, key, target string) error {
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *s3Types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return fmt.Errorf("%w: s3://%s/%s", types.ErrMissingFile, bucket, key)
		}
		return fmt.Errorf("error downloading s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	file, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("error creating %s: %w", target, err)
	}
	defer file.Close()

	if _, err := io.Copy(file, out.Body); err != nil {
		return fmt.Errorf("error writing %s: %w", target, err)
	}
	return nil
}

// ObjectKey joins an optional prefix and a file name into an S3 key.
func ObjectKey(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

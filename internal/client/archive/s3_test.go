package archive

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubAWS(t *testing.T, load func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error)) *s3.Options {
	t.Helper()
	origLoad := loadDefaultAWSConfig
	origNew := newS3ClientFromConfig
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNew
	})

	var captured s3.Options
	loadDefaultAWSConfig = load
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&captured)
		}
		return &s3.Client{}
	}
	return &captured
}

func TestNewS3Client_AppliesConfig(t *testing.T) {
	var lo awsconfig.LoadOptions
	captured := stubAWS(t, func(_ context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		for _, fn := range optFns {
			if err := fn(&lo); err != nil {
				return aws.Config{}, err
			}
		}
		return aws.Config{}, nil
	})

	c, err := NewS3Client(context.Background(), S3Config{
		Endpoint:  "http://localhost:9000",
		AccessKey: "minio",
		SecretKey: "minio123",
	})
	require.NoError(t, err)
	require.NotNil(t, c)

	assert.Equal(t, "us-east-1", lo.Region)
	require.NotNil(t, lo.Credentials)
	creds, err := lo.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "minio", creds.AccessKeyID)

	require.NotNil(t, captured.BaseEndpoint)
	assert.Equal(t, "http://localhost:9000", *captured.BaseEndpoint)
	assert.True(t, captured.UsePathStyle)
}

func TestNewS3Client_DefaultChainWithoutKeys(t *testing.T) {
	var lo awsconfig.LoadOptions
	captured := stubAWS(t, func(_ context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		for _, fn := range optFns {
			_ = fn(&lo)
		}
		return aws.Config{}, nil
	})

	_, err := NewS3Client(context.Background(), S3Config{Region: "eu-west-1"})
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", lo.Region)
	assert.Nil(t, lo.Credentials)
	assert.Nil(t, captured.BaseEndpoint)
	assert.False(t, captured.UsePathStyle)
}

func TestNewS3Client_LoadError(t *testing.T) {
	stubAWS(t, func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("boom")
	})

	_, err := NewS3Client(context.Background(), S3Config{})
	require.Error(t, err)
}

func TestS3Config_Enabled(t *testing.T) {
	assert.False(t, S3Config{}.Enabled())
	assert.True(t, S3Config{Endpoint: "http://minio:9000"}.Enabled())
}

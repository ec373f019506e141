package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/spf13/pflag"

	"github.com/hupe1980/sigcarve/blobstore"
	minioblob "github.com/hupe1980/sigcarve/blobstore/minio"
	s3blob "github.com/hupe1980/sigcarve/blobstore/s3"
)

type storeConfig struct {
	kind      string
	out       string
	bucket    string
	endpoint  string
	secure    bool
	compress  string
	bufferKiB int
}

func (c *storeConfig) addFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&c.kind, "store", "local", "output store: local, minio or s3")
	flagSet.StringVar(&c.out, "out", "carved", "output directory, or key prefix for minio and s3")
	flagSet.StringVar(&c.bucket, "bucket", "", "bucket for minio and s3")
	flagSet.StringVar(&c.endpoint, "endpoint", "localhost:9000", "minio endpoint")
	flagSet.BoolVar(&c.secure, "secure", false, "use TLS for minio")
	flagSet.StringVar(&c.compress, "compress", "none", "stream compression: none, zstd or lz4")
	flagSet.IntVar(&c.bufferKiB, "buffer-kib", 32, "write buffer per local stream in KiB (0 disables)")
}

func (c *storeConfig) open(ctx context.Context) (blobstore.Store, error) {
	comp, err := blobstore.ParseCompression(c.compress)
	if err != nil {
		return nil, fmt.Errorf("--compress: %w", err)
	}

	var store blobstore.Store
	switch c.kind {
	case "local":
		store = blobstore.NewLocalStore(c.out, blobstore.WithBufferSize(c.bufferKiB<<10))
	case "minio":
		if c.bucket == "" {
			return nil, errors.New("--bucket is required for --store minio")
		}
		client, err := minio.New(c.endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(os.Getenv("MINIO_ACCESS_KEY"), os.Getenv("MINIO_SECRET_KEY"), ""),
			Secure: c.secure,
		})
		if err != nil {
			return nil, err
		}
		store = minioblob.NewStore(client, c.bucket, c.out)
	case "s3":
		if c.bucket == "" {
			return nil, errors.New("--bucket is required for --store s3")
		}
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, err
		}
		store = s3blob.NewStore(awss3.NewFromConfig(cfg), c.bucket, c.out)
	default:
		return nil, fmt.Errorf("--store: unknown store %q", c.kind)
	}

	if comp == blobstore.CompressionNone {
		return store, nil
	}
	return blobstore.NewCompressedStore(store, comp), nil
}

package storage

import (
	"strings"

	"placepix/db"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

type StorageType uint8

const (
	StorageTypeFile StorageType = 0
	StorageTypeS3   StorageType = 1
)

// Bucket is one configured image store - either a writable directory or an
// S3 bucket. Place folders are created directly under it.
type Bucket struct {
	ID            uint64 `gorm:"primaryKey"`
	CreatedAt     int64
	UpdatedAt     int64
	Name          string `gorm:"type:varchar(200)"`
	StorageType   StorageType
	Path          string // Path on a drive or a prefix in a S3 bucket
	AuthDetails   string // In case of S3 bucket - "key:secret"
	Region        string `gorm:"type:varchar(20)"`   // S3 region
	Endpoint      string `gorm:"type:varchar(300)"`  // Custom S3 endpoint (minio, etc)
	SSEEncryption string `gorm:"type:varchar(20)"`   // Optional server-side encryption, e.g. "AES256"
}

func (b *Bucket) Create() error {
	return db.Instance.Create(b).Error
}

func (b *Bucket) IsS3() bool {
	return b.StorageType == StorageTypeS3
}

// GetRemotePath prepends the configured prefix to an object path
func (b *Bucket) GetRemotePath(path string) string {
	if b.Path == "" {
		return path
	}
	return strings.TrimSuffix(b.Path, "/") + "/" + path
}

func (b *Bucket) CreateSVC() *s3.S3 {
	auth := strings.SplitN(b.AuthDetails, ":", 2)
	if len(auth) != 2 {
		panic("S3 bucket auth details must be in key:secret format")
	}
	cfg := aws.NewConfig().
		WithRegion(b.Region).
		WithCredentials(credentials.NewStaticCredentials(auth[0], auth[1], ""))
	if b.Endpoint != "" {
		cfg = cfg.WithEndpoint(b.Endpoint).WithS3ForcePathStyle(true)
	}
	return s3.New(session.Must(session.NewSession()), cfg)
}

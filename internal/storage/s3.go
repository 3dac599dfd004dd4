package storage

import (
	"fmt"     // URL formatting
	"path"    // Extension handling
	"regexp"  // Folder validation
	"strings" // String manipulation
	"time"    // Presign lifetime

	"krishisaarthi/internal/config" // Bucket settings
	"krishisaarthi/internal/domain" // Validation errors

	"github.com/aws/aws-sdk-go/aws"             // AWS core types
	"github.com/aws/aws-sdk-go/aws/credentials" // Static credentials
	"github.com/aws/aws-sdk-go/aws/session"     // AWS session
	"github.com/aws/aws-sdk-go/service/s3"      // S3 client
	"github.com/google/uuid"                    // Collision free object names
)

var (
	folderPattern    = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,62}$`)
	extensionPattern = regexp.MustCompile(`^[A-Za-z0-9]{1,10}$`)
)

// Upload is a presigned direct upload slot
type Upload struct {
	Key       string `json:"key"`        // Object key inside the bucket
	UploadURL string `json:"upload_url"` // Presigned PUT URL
	PublicURL string `json:"public_url"` // Where the object is readable after upload
}

// Presigner issues presigned upload URLs
type Presigner interface {
	PresignUpload(key, contentType string) (Upload, error)
}

// S3Presigner presigns PUT requests against one bucket
type S3Presigner struct {
	svc    *s3.S3
	bucket string
	ttl    time.Duration
}

// NewS3Presigner builds a presigner from the application configuration
func NewS3Presigner(cfg *config.Config) (*S3Presigner, error) {
	awsCfg := &aws.Config{Region: aws.String(cfg.AWSRegion)}
	if cfg.AWSAccessKeyID != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, "")
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("aws session: %w", err)
	}
	ttl := cfg.PresignTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &S3Presigner{svc: s3.New(sess), bucket: cfg.S3Bucket, ttl: ttl}, nil
}

// PresignUpload returns a presigned PUT URL for key and the object's public URL
func (p *S3Presigner) PresignUpload(key, contentType string) (Upload, error) {
	req, _ := p.svc.PutObjectRequest(&s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	})
	urlStr, err := req.Presign(p.ttl)
	if err != nil {
		return Upload{}, fmt.Errorf("presign %s: %w", key, err)
	}
	return Upload{
		Key:       key,
		UploadURL: urlStr,
		PublicURL: fmt.Sprintf("https://%s.s3.amazonaws.com/%s", p.bucket, key),
	}, nil
}

// ObjectKey builds "{folder}/{userID}/{uuid}.{ext}" for an upload
func ObjectKey(folder string, userID uint, fileName string) (string, error) {
	if !folderPattern.MatchString(folder) {
		return "", domain.Invalid("folder", "may only contain lowercase letters, digits, '-' and '_'")
	}
	ext := strings.TrimPrefix(path.Ext(fileName), ".")
	if !extensionPattern.MatchString(ext) {
		return "", domain.Invalid("file_name", "must end with an alphanumeric file extension")
	}
	return fmt.Sprintf("%s/%d/%s.%s", folder, userID, uuid.NewString(), strings.ToLower(ext)), nil
}

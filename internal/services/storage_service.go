// internal/services/storage_service.go
package services

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/Dr-Xcristy/GeneVault/internal/config"
	"github.com/Dr-Xcristy/GeneVault/internal/utils"
)

// StorageService stores off-chain IP documentation in S3, keyed by its
// sha256. The returned hash is what gets recorded on the asset at mint time;
// the registry itself never sees the document.
type StorageService struct {
	s3Client *s3.S3
	cfg      *config.Config
}

type UploadResult struct {
	URL          string `json:"url"`
	Key          string `json:"key"`
	Size         int64  `json:"size"`
	MetadataHash string `json:"metadata_hash"`
}

const maxMetadataDocSize = 10 << 20 // 10 MB

var allowedDocTypes = []string{".pdf", ".json", ".txt", ".md"}

func NewStorageService(cfg *config.Config) (*StorageService, error) {
	if cfg.AWS.AccessKeyID == "" {
		// Return service without S3 for local development
		return &StorageService{cfg: cfg}, nil
	}

	// Create AWS session
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWS.AccessKeyID,
			cfg.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &StorageService{
		s3Client: s3.New(sess),
		cfg:      cfg,
	}, nil
}

// UploadMetadataDocument validates, hashes and stores a metadata document.
// The object key is derived from the content hash, so re-uploading the same
// document is idempotent.
func (s *StorageService) UploadMetadataDocument(file multipart.File, header *multipart.FileHeader) (*UploadResult, error) {
	if header.Size > maxMetadataDocSize {
		return nil, fmt.Errorf("file size %d bytes exceeds maximum allowed size %d bytes", header.Size, int64(maxMetadataDocSize))
	}

	fileExt := strings.ToLower(filepath.Ext(header.Filename))
	allowed := false
	for _, allowedType := range allowedDocTypes {
		if fileExt == allowedType {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("file type %s is not allowed", fileExt)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	hash := utils.HashBytes(data)
	key := fmt.Sprintf("metadata/%s%s", hash, fileExt)

	if s.s3Client == nil {
		return nil, errors.New("storage is not configured")
	}

	_, err = s.s3Client.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.AWS.S3Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(header.Header.Get("Content-Type")),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &UploadResult{
		URL:          fmt.Sprintf("%s/%s", s.cfg.Registry.MetadataBaseURI, hash),
		Key:          key,
		Size:         header.Size,
		MetadataHash: hash,
	}, nil
}

// FetchMetadataDocument retrieves a stored document by its content hash and
// extension, verifying it still matches the hash.
func (s *StorageService) FetchMetadataDocument(hash, ext string) ([]byte, error) {
	if s.s3Client == nil {
		return nil, errors.New("storage is not configured")
	}

	key := fmt.Sprintf("metadata/%s%s", hash, ext)
	out, err := s.s3Client.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(s.cfg.AWS.S3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch from S3: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}

	if !utils.ValidateFileHash(data, hash) {
		return nil, errors.New("stored document no longer matches its recorded hash")
	}

	return data, nil
}

package s3client

import (
	"fmt"
	"strings"
	"time"

	"github.com/Kotlang/photoFeedGo/logger"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const uploadUrlExpiry = 15 * time.Minute

type S3Client struct {
	s3             *s3.S3
	bucket         string
	mediaUrlPrefix string
}

func NewS3Client(region, bucket, mediaUrlPrefix string) (*S3Client, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, err
	}

	if len(mediaUrlPrefix) == 0 {
		mediaUrlPrefix = fmt.Sprintf("https://%s.s3.amazonaws.com", bucket)
	}

	return &S3Client{
		s3:             s3.New(sess),
		bucket:         bucket,
		mediaUrlPrefix: strings.TrimSuffix(mediaUrlPrefix, "/"),
	}, nil
}

// GetPresignedUrlForPosts returns a presigned PUT url for a new post image and
// the url the image will be served from once uploaded.
func (c *S3Client) GetPresignedUrlForPosts(tenant, userId, extension string) (string, string, error) {
	key := fmt.Sprintf("%s/posts/%s/%d-%s.%s",
		tenant, userId, time.Now().Unix(), uuid.NewString(), strings.ToLower(extension))

	req, _ := c.s3.PutObjectRequest(&s3.PutObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})

	uploadUrl, err := req.Presign(uploadUrlExpiry)
	if err != nil {
		logger.Error("Failed presigning upload url", zap.String("key", key), zap.Error(err))
		return "", "", err
	}

	return uploadUrl, c.mediaUrlPrefix + "/" + key, nil
}

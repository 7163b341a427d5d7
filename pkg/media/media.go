// Package media pushes uploaded files to the S3 media host and hands back
// the public URL stored on the video row.
package media

import (
	"context"
	"io"
	"mime"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	pkgerrors "github.com/pkg/errors"
)

type Uploader struct {
	bucket   string
	uploader *s3manager.Uploader
}

func NewUploader(region, bucket string) (*Uploader, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to create aws session")
	}
	return &Uploader{
		bucket:   bucket,
		uploader: s3manager.NewUploader(sess),
	}, nil
}

// Upload stores body under key and returns the public URL of the object.
func (u *Uploader) Upload(ctx context.Context, body io.Reader, key string) (string, error) {
	contentType := mime.TypeByExtension(filepath.Ext(key))

	result, err := u.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", pkgerrors.Wrap(err, "failed to upload file to media host")
	}
	return result.Location, nil
}

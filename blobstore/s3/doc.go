// Package s3 provides a blobstore.Store backed by Amazon S3.
//
// Writes stream through the S3 upload manager, which switches to a
// multipart upload once a stream outgrows a single part.
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	if err != nil {
//	    return err
//	}
//	store := s3.NewStore(awss3.NewFromConfig(cfg), "evidence", "case-42/")
package s3

// Package minio provides a blobstore.Store backed by the MinIO client, for
// MinIO and other S3-compatible servers (Ceph, Garage, SeaweedFS).
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	store := minioblob.NewStore(client, "evidence", "case-42/")
//
// Created blobs are streamed with a single PutObject of unknown length, so
// a stream becomes visible only when its writer is closed.
package minio

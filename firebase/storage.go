package firebase

import "mime/multipart"

// StorageClient abstracts image storage so handlers can be tested without a
// real Firebase project.
type StorageClient interface {
	UploadProductImage(file multipart.File, filename, contentType string) (string, error)
	UploadArtworkImage(file multipart.File, filename, contentType string) (string, error)
	DeleteFile(objectPath string) error
}

// FirebaseStorageClient is the production StorageClient backed by the
// package-level Firebase app.
type FirebaseStorageClient struct{}

func NewStorageClient() StorageClient {
	return FirebaseStorageClient{}
}

func (FirebaseStorageClient) UploadProductImage(file multipart.File, filename, contentType string) (string, error) {
	return UploadProductImage(file, filename, contentType)
}

func (FirebaseStorageClient) UploadArtworkImage(file multipart.File, filename, contentType string) (string, error) {
	return UploadArtworkImage(file, filename, contentType)
}

func (FirebaseStorageClient) DeleteFile(objectPath string) error {
	return DeleteFile(objectPath)
}

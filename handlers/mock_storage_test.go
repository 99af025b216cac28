package handlers

import "mime/multipart"

// mockStorage is a test double for firebase.StorageClient that records
// calls and returns canned URLs.
type mockStorage struct {
	UploadProductImageFn func(file multipart.File, filename, contentType string) (string, error)
	UploadArtworkImageFn func(file multipart.File, filename, contentType string) (string, error)
	DeleteFileFn         func(objectPath string) error

	UploadCallCount int
	DeleteFileCalls []string
}

func newMockStorage() *mockStorage {
	return &mockStorage{}
}

func (m *mockStorage) UploadProductImage(file multipart.File, filename, contentType string) (string, error) {
	m.UploadCallCount++
	if m.UploadProductImageFn != nil {
		return m.UploadProductImageFn(file, filename, contentType)
	}
	return "https://storage.googleapis.com/test-bucket/products/" + filename, nil
}

func (m *mockStorage) UploadArtworkImage(file multipart.File, filename, contentType string) (string, error) {
	m.UploadCallCount++
	if m.UploadArtworkImageFn != nil {
		return m.UploadArtworkImageFn(file, filename, contentType)
	}
	return "https://storage.googleapis.com/test-bucket/artwork/" + filename, nil
}

func (m *mockStorage) DeleteFile(objectPath string) error {
	m.DeleteFileCalls = append(m.DeleteFileCalls, objectPath)
	if m.DeleteFileFn != nil {
		return m.DeleteFileFn(objectPath)
	}
	return nil
}

package ports

// Hasher defines the interface for computing hashes.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// SHA256File returns the hex encoded sha256 digest of the file content.
	SHA256File(path string) (string, error)
	// Fingerprint returns a fast, non-cryptographic hash of data.
	Fingerprint(data []byte) string
	// FingerprintFile returns the fingerprint of the file content, or an
	// empty string when the file does not exist.
	FingerprintFile(path string) (string, error)
}

package domain

import "go.trai.ch/zerr"

var (
	// ErrBlockNotFound is returned when a block name is not registered in the graph.
	ErrBlockNotFound = zerr.New("block not found")

	// ErrGraphSealed is returned when the graph is mutated after it has been flattened.
	ErrGraphSealed = zerr.New("block graph is sealed, prerequisites can only be added before flattening")

	// ErrCycleDetected is returned when a cycle is detected in the block prerequisite graph.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrCommandGenerationFailed is returned when a block fails to generate its commands.
	ErrCommandGenerationFailed = zerr.New("failed to generate block commands")

	// ErrExternalNotFetched is returned when a block references a dependency that was not fetched.
	ErrExternalNotFetched = zerr.New("external dependency not fetched")

	// ErrInvalidDependency is returned when a dependency spec is incomplete or inconsistent.
	ErrInvalidDependency = zerr.New("invalid dependency spec")

	// ErrUnknownDependency is returned when a required dependency has no spec.
	ErrUnknownDependency = zerr.New("unknown dependency")

	// ErrNetwork is returned when a download fails at the transport level or with a non-2xx status.
	ErrNetwork = zerr.New("network request failed")

	// ErrChecksumMismatch is returned when a freshly downloaded archive does not match its expected digest.
	ErrChecksumMismatch = zerr.New("checksum mismatch")

	// ErrUnsupportedArchive is returned when an archive container format is not recognized.
	ErrUnsupportedArchive = zerr.New("unsupported archive format")

	// ErrEmptyArchive is returned when an archive contains no directory to extract.
	ErrEmptyArchive = zerr.New("archive has no top-level directory")

	// ErrAmbiguousBaseDir is returned when an archive has more than one top-level directory.
	ErrAmbiguousBaseDir = zerr.New("ambiguous archive base directory")

	// ErrUnsafeArchivePath is returned when an archive member escapes the extraction directory.
	ErrUnsafeArchivePath = zerr.New("archive member path escapes extraction directory")

	// ErrExtractFailed is returned when an archive cannot be extracted.
	ErrExtractFailed = zerr.New("failed to extract archive")

	// ErrCloneFailed is returned when a git repository cannot be cloned.
	ErrCloneFailed = zerr.New("failed to clone repository")

	// ErrAliasPermission is returned when the platform refuses to create a symlink.
	ErrAliasPermission = zerr.New("symlink creation denied")

	// ErrAliasPublishFailed is returned when an alias cannot be published.
	ErrAliasPublishFailed = zerr.New("failed to publish alias")

	// ErrFileHashFailed is returned when hashing a file fails.
	ErrFileHashFailed = zerr.New("failed to hash file content")

	// ErrFileOpenFailed is returned when a file cannot be opened.
	ErrFileOpenFailed = zerr.New("failed to open file")

	// ErrUnquotableValue is returned when a value cannot be quoted for the target platform.
	ErrUnquotableValue = zerr.New("value contains quote characters and cannot be quoted")

	// ErrUnknownSystem is returned when a platform name is not supported.
	ErrUnknownSystem = zerr.New("unknown system, expected Windows, Linux, Darwin or MinGW")

	// ErrInvalidBuildType is returned when the build type is neither release nor debug.
	ErrInvalidBuildType = zerr.New("invalid build type, expected 'release' or 'debug'")

	// ErrInvalidDebugOption is returned when a debug option is not supported.
	ErrInvalidDebugOption = zerr.New("invalid debug option, expected gl, vk, mem, scene or gpu_capture")

	// ErrInvalidBuildBackend is returned when the build backend is neither ninja nor vs.
	ErrInvalidBuildBackend = zerr.New("invalid build backend, expected 'ninja' or 'vs'")

	// ErrConfigReadFailed is returned when the manifest cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the manifest cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrStoreCreateFailed is returned when the fetch state store directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create fetch state store directory")

	// ErrStoreReadFailed is returned when a fetch record cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read fetch record")

	// ErrStoreUnmarshalFailed is returned when a fetch record cannot be unmarshaled.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal fetch record")

	// ErrStoreMarshalFailed is returned when a fetch record cannot be marshaled.
	ErrStoreMarshalFailed = zerr.New("failed to marshal fetch record")

	// ErrStoreWriteFailed is returned when a fetch record cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write fetch record")

	// ErrFetchFailed is returned when fetching the external dependencies fails.
	ErrFetchFailed = zerr.New("failed to fetch external dependencies")

	// ErrScriptWriteFailed is returned when the generated build script cannot be written.
	ErrScriptWriteFailed = zerr.New("failed to write build script")

	// ErrVenvCreateFailed is returned when the Python virtual environment cannot be created.
	ErrVenvCreateFailed = zerr.New("failed to create Python virtual environment")

	// ErrCommandFailed is returned when an external command exits with an error.
	ErrCommandFailed = zerr.New("command failed")
)

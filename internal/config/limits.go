package config

const (
	// MaxFolderNameLength is the maximum length for folder names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (names should be short and descriptive).
	MaxFolderNameLength = 255

	// MaxDocumentNameLength is the maximum length for document names.
	// Same bound as folder names for consistency.
	MaxDocumentNameLength = 255

	// MaxTagNameLength is the maximum length for tag names. Tags are
	// short labels; 50 matches the column width.
	MaxTagNameLength = 50

	// MaxBatchSize caps the number of document ids one batch request may
	// name. Batches are bounded client selections, not bulk imports.
	MaxBatchSize = 500
)

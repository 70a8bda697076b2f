package config

const (
	// MaxProjectNameLength is the maximum length for project names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (names should be short and descriptive).
	MaxProjectNameLength = 255

	// MaxFolderNameLength is the maximum length for folder names.
	MaxFolderNameLength = 255

	// MaxRequirementTitleLength is the maximum length for requirement titles.
	// Same as folder names for consistency.
	MaxRequirementTitleLength = 255

	// MaxTagLength is the maximum length for a single tag value.
	// Tags are free-form strings; anything longer is almost certainly a
	// paste mistake, not a label.
	MaxTagLength = 100
)

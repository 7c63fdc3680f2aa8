package handlers

// Validation limits for post and category fields.
const (
	maxTitleLen       = 300
	maxContentLen     = 100_000
	maxNameLen        = 200
	maxDescriptionLen = 1_000
)

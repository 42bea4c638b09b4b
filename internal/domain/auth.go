package domain

import "time"

// SubjectType differentiates token holders.
type SubjectType string

const (
	SubjectTypeOperator SubjectType = "OPERATOR"
	SubjectTypeSystem   SubjectType = "SYSTEM"
)

// Operator is the knowledge-base maintainer authenticated from configuration.
type Operator struct {
	Username string
}

// Token represents issued authentication token metadata.
type Token struct {
	Value     string
	Subject   SubjectType
	SubjectID string
	ExpiresAt time.Time
}

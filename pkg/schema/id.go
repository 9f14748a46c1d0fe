package schema

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// NewRequestID generates a request ID in format REQ-{nanoid(10)}.
func NewRequestID() (string, error) {
	id, err := gonanoid.New(10)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("REQ-%s", id), nil
}

// NewDocumentID generates a package document ID in format DOC-{nanoid(10)}.
func NewDocumentID() (string, error) {
	id, err := gonanoid.New(10)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("DOC-%s", id), nil
}

// NewStepID generates an approval step ID in format STP-{nanoid(10)}.
func NewStepID() (string, error) {
	id, err := gonanoid.New(10)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("STP-%s", id), nil
}

// NewAdvisoryID generates an advisory review ID in format ADV-{nanoid(10)}.
func NewAdvisoryID() (string, error) {
	id, err := gonanoid.New(10)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ADV-%s", id), nil
}

// NewCLINID generates a ledger entry ID in format CLIN-{nanoid(10)}.
func NewCLINID() (string, error) {
	id, err := gonanoid.New(10)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("CLIN-%s", id), nil
}

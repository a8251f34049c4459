package pipeline

import (
	"errors"
	"fmt"

	"github.com/pfrederiksen/ward-profiles/internal/ckan"
	"github.com/pfrederiksen/ward-profiles/internal/download"
)

// ErrResourceNotFound matches any *ResourceNotFoundError.
var ErrResourceNotFound = errors.New("resource not found")

// ResourceNotFoundError is returned when no resource name contains the
// configured substring.
type ResourceNotFoundError struct {
	Name string
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("resource %q not found in package", e.Name)
}

func (e *ResourceNotFoundError) Is(target error) bool {
	return target == ErrResourceNotFound
}

// StageError records the stage a run stopped in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Diagnostic returns the console line for an expected failure, or "" when err
// is not one.
func Diagnostic(err error) string {
	var apiStatus *ckan.StatusError
	var notFound *ResourceNotFoundError
	var dlStatus *download.StatusError

	switch {
	case errors.As(err, &apiStatus):
		return fmt.Sprintf("Failed to connect to the API. HTTP Status Code: %d", apiStatus.StatusCode)
	case errors.Is(err, ckan.ErrUnsuccessful):
		return "Failed to retrieve package metadata. The response was not successful."
	case errors.As(err, &notFound):
		return fmt.Sprintf("Resource '%s' not found in the package resources.", notFound.Name)
	case errors.As(err, &dlStatus):
		return fmt.Sprintf("Failed to download the resource. HTTP Status Code: %d", dlStatus.StatusCode)
	default:
		return ""
	}
}

// IsAborted reports whether err is an expected failure that was already
// reported with a diagnostic.
func IsAborted(err error) bool {
	return err != nil && Diagnostic(err) != ""
}

// Package cerr defines the sentinel errors for the error taxonomy (kinds,
// not types) that callers can test against with errors.Is.
package cerr

import "errors"

// Validation errors: malformed attribute, invalid flexibility, invalid
// selection update.
var (
	ErrEmptySelections   = errors.New("cohortsort: attribute has no selections")
	ErrMatrixNotSquare   = errors.New("cohortsort: compatibility matrix is not square over selections")
	ErrWeightOutOfRange  = errors.New("cohortsort: weight is outside [0,1]")
	ErrFlexibilityRange  = errors.New("cohortsort: flexibility score is outside [1,10]")
	ErrInvalidSelection  = errors.New("cohortsort: selection is not one of the attribute's selections")
	ErrActiveNotInOption = errors.New("cohortsort: active attribute is not among the catalog's options")
)

// Missing-data errors: pair scoring requested without a selection.
var ErrMissingSelection = errors.New("cohortsort: person has no selection for attribute")

// State errors: group overflow, double membership, non-member removal.
var (
	ErrGroupFull       = errors.New("cohortsort: group has reached its maximum size")
	ErrAlreadyMember   = errors.New("cohortsort: person is already a member of this group")
	ErrNotMember       = errors.New("cohortsort: person is not a member of this group")
	ErrBoundsInvalid   = errors.New("cohortsort: group size bounds are invalid")
)

// Allocator errors: a person could not be placed into any group.
var ErrUnplaceable = errors.New("cohortsort: cohort cannot place every person within nMax capacity")

package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error message string constants - single source of truth for error messages
const (
	ErrMsgNotFound            = "not found"
	ErrMsgAmbiguousMatch      = "ambiguous match"
	ErrMsgMissingGlass        = "missing glass"
	ErrMsgMissingIngredients  = "missing ingredients"
	ErrMsgInsufficientItems   = "insufficient items"
	ErrMsgInvalidArgument     = "invalid argument"
	ErrMsgUnauthorized        = "unauthorized"
	ErrMsgUserNotFound        = "user not found"
)

// Common domain errors. Wrap with fmt.Errorf("%w: details", domain.ErrXxx)
// for additional context; callers classify with errors.Is.
var (
	ErrNotFound           = errors.New(ErrMsgNotFound)
	ErrAmbiguousMatch     = errors.New(ErrMsgAmbiguousMatch)
	ErrMissingGlass       = errors.New(ErrMsgMissingGlass)
	ErrMissingIngredients = errors.New(ErrMsgMissingIngredients)
	ErrInsufficientItems  = errors.New(ErrMsgInsufficientItems)
	ErrInvalidArgument    = errors.New(ErrMsgInvalidArgument)
	ErrUnauthorized       = errors.New(ErrMsgUnauthorized)
	ErrUserNotFound       = errors.New(ErrMsgUserNotFound)
)

// MissingIngredientsError reports every required-but-absent ingredient of a
// craft together, not one at a time. Unwraps to ErrMissingIngredients.
type MissingIngredientsError struct {
	Names []string
}

func (e *MissingIngredientsError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMsgMissingIngredients, strings.Join(e.Names, ", "))
}

func (e *MissingIngredientsError) Unwrap() error { return ErrMissingIngredients }

// InsufficientItemsError names the first item a trade party lacks. Unlike
// craft validation it carries a single name, not the full set.
type InsufficientItemsError struct {
	Name string
}

func (e *InsufficientItemsError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMsgInsufficientItems, e.Name)
}

func (e *InsufficientItemsError) Unwrap() error { return ErrInsufficientItems }

// AmbiguousMatchError reports a name that resolved to multiple catalog
// records when the caller needed exactly one.
type AmbiguousMatchError struct {
	Kind    ItemKind
	Term    string
	Matches []CatalogItem
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("%s: %s %q matches %d items", ErrMsgAmbiguousMatch, e.Kind, e.Term, len(e.Matches))
}

func (e *AmbiguousMatchError) Unwrap() error { return ErrAmbiguousMatch }

// Package errs holds the typed errors shared by the domain, the workflow and
// the adapters.
//
// Every kind comes as a sentinel (ErrValueIsRequired, ErrTransitionIsNotAllowed,
// ...) plus a struct carrying the details. Constructors exist with and without
// a cause, and Unwrap returns the sentinel, so callers branch with errors.Is and
// read the details with errors.As:
//
//	var validation *errs.ValidationFailedError
//	switch {
//	case errors.As(err, &validation):
//	    // validation.Problems lists every missing or malformed field
//	case errors.Is(err, errs.ErrTransitionIsNotAllowed):
//	    // the move is not in the department's transition table
//	}
//
// The HTTP adapter maps these kinds onto status codes.
package errs

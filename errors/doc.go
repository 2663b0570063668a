/*
Package errors provides semantic error types for the dynarest library.

The package defines common error scenarios with specific types that can be
checked using the standard errors.Is() function or the provided helper functions.

Common Errors:

	var (
	    ErrNotFound      = errors.New("record not found")
	    ErrAlreadyExists = errors.New("record already exists")
	    ErrInvalidInput  = errors.New("invalid input")
	    ErrInvalidSchema = errors.New("invalid schema")
	)

Usage:

	// Check error type
	item, err := store.GetItem(ctx, key)
	if err != nil {
	    if errors.IsNotFound(err) {
	        // Handle not found case
	        return nil, fmt.Errorf("record %v does not exist", key)
	    }
	    return nil, err
	}

	// Create typed errors
	err := errors.NewNotFoundError("thread", "general")
	err := errors.NewValidationError("views", "expected a number")
	err := errors.NewSchemaError("thread", "duplicate attribute name")

SchemaError is special in that it is only ever returned at resource
construction time; the remaining types surface during request handling.
The error types implement the error interface and support wrapping,
making them compatible with Go's standard error handling patterns.
*/
package errors

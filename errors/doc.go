/*
Package errors implements custom error interfaces for the application.

Reuse as many errors from this package as possible and define custom package
errors when absolutely necessary, using Register(code, description). Extension
packages reserve their own code ranges, for example x/aswap takes 1010-1020.

Create errors using ErrXyz.New("...") or errors.Wrap(err, "...") at the point
of creation to ensure a stacktrace is attached. If you wrap multiple times,
only the first wrap records the stacktrace.

Once you have an error, you can use fmt to get more context
	%s is just the error message
	%+v is the full stack trace
*/
package errors

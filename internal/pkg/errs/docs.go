// Package errs provides the shared error types of the order service.
//
// Every type follows the same shape:
//   - a sentinel error variable (e.g. ErrObjectNotFound) used with errors.Is
//   - a struct carrying the details (ParamName, ID, Cause, ...)
//   - NewXxxError and NewXxxErrorWithCause constructors
//   - Error() for formatting and Unwrap() returning the sentinel
//
// Domain packages declare their own sentinels (order.ErrInvalidTransition,
// services.ErrInvalidCoupon) and reuse these types for validation,
// lookup and persistence failures.
package errs

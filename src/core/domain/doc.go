// Package domain contains the core domain model for the contacts API.
//
// This package defines:
//   - Entities: Contact, the only aggregate with behaviour
//   - Reference data: AreaCode (DDD), looked up but never mutated here
//   - Validation: ValidationResult, produced by every construction/update
//   - Domain Errors: sentinel errors and typed wrappers for errors.Is/As
//
// Rules for this package:
//   - No infrastructure concerns (database, HTTP, logging)
//   - Entities validate their own invariants and report failures as data
//   - Construction never fails; callers check ValidationResult before persisting
//
// Example:
//
//	c := domain.NewContact(domain.ContactInput{
//	    Name:  "Ana",
//	    Phone: "11987654321",
//	    Email: "ana@example.com",
//	})
//	if !c.ValidationResult.IsValid() {
//	    return domain.NewValidationFailedError(c.ValidationResult)
//	}
package domain

// Package column provides the stock field types used to declare entity schemas.
//
// Every type implements the read capability generic code relies on
// (String and Raw) plus the plumbing needed to move values between the wire,
// HTML forms and SQL rows:
//
//   - encoding.TextUnmarshaler for form values and path segments
//   - sql.Scanner and driver.Valuer for storage
//   - JSON marshaling for the API
//
// Columns are declared as struct fields and exposed through schema field
// descriptors that return a pointer to the field:
//
//	type Article struct {
//		ID        column.UUID
//		Title     column.Text
//		Body      column.Markdown
//		Published column.Bool
//	}
//
// InputType returns a hint for the default UI renderer; it carries no
// semantics for the API or storage.
package column

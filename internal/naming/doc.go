// Package naming derives deterministic filenames and display names for
// cartridge records.
//
// A ROM filename has the form "NAME - id (date).tic" and its cover image
// "NAME - id.png". Generation is a pure function of the record and the
// naming options, so running any batch command twice yields identical names.
package naming

// Package absorption loads and interpolates tabulated absorption spectra,
// primarily the Kou (1993) water absorption dataset shipped with this
// repository.
//
// The on-disk format is whitespace-delimited (wavelength nm, absorption)
// rows with a six-line header, optional # comments, and descending
// wavelength order; loading reverses it into ascending order. Queries
// between samples interpolate linearly and queries outside the tabulated
// range clamp to the edge values.
//
// # Usage
//
// Load once at startup and share the table; it is immutable afterwards
// and safe for concurrent readers:
//
//	table := absorption.Load(absorption.DefaultPath)
//	mua := table.ValueAt(1450)
//
// Load never fails: if the file is missing or malformed it logs the error
// and returns a synthetic all-zero spectrum over 800-2400 nm, so callers
// keep working with degraded data. Check Synthetic to detect that case.
// Use ReadFile or Parse directly when a hard failure is preferable.
package absorption

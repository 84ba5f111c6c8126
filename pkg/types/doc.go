// Package types defines the lending catalog's entity types, calendar dates,
// search modes, library configuration, and the standard errors shared by
// every shelf package.
package types

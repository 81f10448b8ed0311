// Package kernel holds the value objects shared by every aggregate of the care
// plan domain: identifiers and contact addresses.
package kernel

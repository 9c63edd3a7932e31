// Package scout names the Scout UI framework types and annotations the DTO
// generator understands and bundles descriptors of the framework base classes
// so model descriptors only need to describe application code.
package scout

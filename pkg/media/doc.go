// Package media defines the normalized media descriptor, the normalizer
// converting raw provider records into descriptors, and filename
// templating.
//
// A Descriptor is the canonical output shape of every extraction path:
// one downloadable asset with its kind, target filename and post metadata,
// decoupled from the provider's nested response structures.
package media

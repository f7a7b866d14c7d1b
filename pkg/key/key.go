// Package key builds composite ledger keys from a namespace and ordered
// string segments. Every segment is terminated by a separator that sorts
// below any printable byte, so encoding a leading subset of segments yields
// a prefix that matches exactly the keys sharing those segments under the
// same namespace.
package key

import "strconv"

// Namespaces partition the flat key space per record kind.
const (
	NamespaceModelMetadata  = "modelMetadataKey"
	NamespaceClientUpdate   = "originalModelKey"
	NamespaceEndRoundModel  = "endRoundModelKey"
	NamespaceRoundSelection = "clientSelectedForRoundKey"
)

const separator = "\x00"

// Encode joins a namespace and segments into a single collision-free key.
// Two encodings are equal iff the namespace and all segments are equal.
func Encode(namespace string, segments ...string) string {
	k := namespace + separator
	for _, s := range segments {
		k += s + separator
	}

	return k
}

// ModelMetadata keys the metadata record of one model.
func ModelMetadata(modelID string) string {
	return Encode(NamespaceModelMetadata, modelID)
}

// ClientUpdate keys one trainer's update for one round of one model.
func ClientUpdate(modelID string, round int, clientID string) string {
	return Encode(NamespaceClientUpdate, modelID, strconv.Itoa(round), clientID)
}

// ClientUpdatePrefix is the scan prefix covering every client update of one
// round of one model, and nothing else.
func ClientUpdatePrefix(modelID string, round int) string {
	return Encode(NamespaceClientUpdate, modelID, strconv.Itoa(round))
}

// EndRoundModel keys the aggregator's published result for one round.
func EndRoundModel(modelID string, round int) string {
	return Encode(NamespaceEndRoundModel, modelID, strconv.Itoa(round))
}

// RoundSelection keys the externally written selected-for-round flag of one
// client. The coordinator reads this key but never writes it.
func RoundSelection(clientID string) string {
	return Encode(NamespaceRoundSelection, clientID)
}

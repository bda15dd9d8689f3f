// Package scan reads room-scan documents: the detected walls, floors, desks
// and blocking geometry a room session is built from.
//
// Documents are JSON or YAML and are checked against an embedded JSON Schema
// before decoding. Lengths are given in the document's declared units and
// converted to metres on load.
package scan

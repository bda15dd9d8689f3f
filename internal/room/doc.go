// Package room coordinates every placement grid of one room session.
//
// A Registry is built once from a scan. It generates the wall, floor and
// desk grids, blocks them against each other and against the scan's
// furniture, and then answers placement queries through a single facade.
// Queries never return errors: a failed search reports false with a zero
// position and the identity rotation, and the caller falls back to a weaker
// constraint.
package room

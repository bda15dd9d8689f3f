// Package scene is an in-memory physical world for the placement engine.
//
// A World holds blocking volumes and the cell colliders of registered
// surfaces. It answers the volumetric overlap and raycast queries that the
// floor search confirms candidates with, and lets callers switch the cell
// colliders off while the search is idle.
package scene

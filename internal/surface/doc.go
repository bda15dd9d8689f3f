// Package surface owns the Grid Surface model: one physical wall, floor or
// desk discretised into a flat arena of cells, each carrying a blocked flag
// and a clearance (distance to the nearest blocked cell or boundary edge).
//
// Responsibilities: cell generation over rectangular and polygonal
// boundaries, column blocking against obstacle volumes, incremental
// brushfire distance propagation, baseline snapshot/reset, and the three
// per-role placement searches (Desk, Floor, WallSet).
//
// Key types: Grid, Cell, Strategy, Desk, Floor, WallSet, Hit.
//
// Host capabilities (OverlapTester, Raycaster) are interfaces satisfied by
// the physical world representation; see package scene for the in-memory
// implementation. Nothing here is safe for concurrent use: the engine is
// driven by a single caller per room session.
package surface

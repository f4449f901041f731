// Package sim implements a discrete-time model of a three-lane one-way
// highway, built to study how middle-lane camping changes the odds of a
// traffic jam forming.
//
// Each tick runs a fixed sequence of passes over the cars in position order:
// lane choice, car-following speed adjustment, position integration,
// despawn/spawn at the highway boundaries, and jam detection. Within a pass,
// earlier cars' updates are visible to later cars; that sequential visibility
// is part of the model, not an implementation accident.
//
// A Simulation is single-threaded and owns a seeded RNG, so two instances
// with the same Config replay exactly. Concurrency belongs to callers that
// run many instances side by side (see internal/sweep) or serialize access
// to one (see internal/api).
package sim

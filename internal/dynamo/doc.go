// Package dynamo drives atom worlds through time.
//
// The package sits between a [physics.World] and whatever consumes its
// output:
//
//   - [Simulator]: ticks one world, samples [Frame] values, feeds metrics
//   - [Metric]: scalar summary folded over every tick
//   - [Observer]: per-tick hook (recorders, live renderers)
//   - [Ensemble]: runs one world per seed concurrently
//
// # Example
//
//	w, _ := physics.NewWorld(physics.DefaultParams(), physics.WithSeed(1))
//	w.AddAtom(r2.Vec{}, 6, 0, r2.Vec{})
//	sim := dynamo.New(w)
//	result, _ := sim.Run(ctx, dynamo.DefaultConfig())
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. For parallel simulations,
// use the [Ensemble] type, which builds a separate world for every run.
package dynamo

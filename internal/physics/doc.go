// Package physics implements the charged-particle atom model.
//
// A [World] owns a flat slice of [Particle] values, each either a nucleus
// (charge = proton count) or an electron (charge = -1). Relations between
// particles are kept outside the particles in [Relations], keyed by [ID]:
//
//   - shell membership: (electron, nucleus) -> shell index
//   - pairing: electron -> electron, always symmetric
//
// Every call to [World.Tick] runs three phases in a fixed order:
//
//  1. force accumulation for every particle ([World.Simulate])
//  2. shell classification for every nucleus ([World.ClassifyShells])
//  3. position integration ([World.Integrate])
//
// Classification reads the forces of phase 1 and writes velocities only, so
// no phase may start before the previous one finished for all particles.
//
// # Shell Rules
//
// Shell n holds [ShellCapacity](n) = 4(n-1)+2 electrons in [OrbitalCount](n)
// = 2(n-1)+1 orbital slots. A nucleus of charge q hosts shells up to
// [MaxShell](q) = ceil(sqrt(q/2)); electrons classified beyond that are
// dropped from the nucleus until they come back into range.
//
// # Thread Safety
//
// A World is NOT thread-safe. Independent worlds may be ticked concurrently.
package physics

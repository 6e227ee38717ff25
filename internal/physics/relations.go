package physics

import "sort"

type shellKey struct {
	electron ID
	nucleus  ID
}

type shellEntry struct {
	shell int
	since int // tick the shell number was last changed
}

// Relations holds the non-owning links between particles: which shell an
// electron occupies around each nucleus, and which electron it is paired
// with. Link and Unlink keep pairs symmetric.
type Relations struct {
	shells map[shellKey]shellEntry
	pairs  map[ID]ID
}

func NewRelations() *Relations {
	return &Relations{
		shells: make(map[shellKey]shellEntry),
		pairs:  make(map[ID]ID),
	}
}

// Shell reports the shell of electron e around nucleus n.
func (r *Relations) Shell(e, n ID) (int, bool) {
	entry, ok := r.shells[shellKey{e, n}]
	return entry.shell, ok
}

func (r *Relations) entry(e, n ID) (shellEntry, bool) {
	entry, ok := r.shells[shellKey{e, n}]
	return entry, ok
}

// SetShell records the shell of e around n as of the given tick.
func (r *Relations) SetShell(e, n ID, shell, tick int) {
	key := shellKey{e, n}
	if prev, ok := r.shells[key]; ok && prev.shell == shell {
		return
	}
	r.shells[key] = shellEntry{shell: shell, since: tick}
}

// reseed overwrites the entry and restarts its age.
func (r *Relations) reseed(e, n ID, shell, tick int) {
	r.shells[shellKey{e, n}] = shellEntry{shell: shell, since: tick}
}

// ClearShell removes the classification of e around n and reports whether
// one existed.
func (r *Relations) ClearShell(e, n ID) bool {
	key := shellKey{e, n}
	if _, ok := r.shells[key]; !ok {
		return false
	}
	delete(r.shells, key)
	return true
}

// Assignment is one (nucleus, shell) classification of an electron.
type Assignment struct {
	Nucleus ID
	Shell   int
}

// ShellsOf lists every classification of e, ordered by nucleus ID.
func (r *Relations) ShellsOf(e ID) []Assignment {
	var out []Assignment
	for key, entry := range r.shells {
		if key.electron == e {
			out = append(out, Assignment{Nucleus: key.nucleus, Shell: entry.shell})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nucleus < out[j].Nucleus })
	return out
}

// Pair returns the partner of e.
func (r *Relations) Pair(e ID) (ID, bool) {
	p, ok := r.pairs[e]
	if !ok {
		return NoParticle, false
	}
	return p, true
}

// Paired reports whether a's recorded partner is b.
func (r *Relations) Paired(a, b ID) bool {
	p, ok := r.pairs[a]
	return ok && p == b
}

// Link pairs a and b, dropping any previous partners of either.
func (r *Relations) Link(a, b ID) {
	if a == b {
		return
	}
	r.Unlink(a)
	r.Unlink(b)
	r.pairs[a] = b
	r.pairs[b] = a
}

// Unlink clears e's pair, and the partner's link back to e if it has one.
func (r *Relations) Unlink(e ID) {
	p, ok := r.pairs[e]
	if !ok {
		return
	}
	delete(r.pairs, e)
	if back, ok := r.pairs[p]; ok && back == e {
		delete(r.pairs, p)
	}
}

// setPair writes a one-sided link; used to model stale state.
func (r *Relations) setPair(a, b ID) {
	r.pairs[a] = b
}

// PairCount returns the number of electrons holding a link.
func (r *Relations) PairCount() int { return len(r.pairs) }

// Asymmetric counts links whose partner does not point back.
func (r *Relations) Asymmetric() int {
	n := 0
	for a, b := range r.pairs {
		if back, ok := r.pairs[b]; !ok || back != a {
			n++
		}
	}
	return n
}

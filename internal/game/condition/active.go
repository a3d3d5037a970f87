package condition

// Active tracks one applied effect on a combatant.
type Active struct {
	Effect    Effect `yaml:"effect"`
	Remaining int    `yaml:"remaining"`
	Elapsed   int    `yaml:"elapsed"`
}

// Ledger is the ordered list of effects currently ticking on one combatant.
// It is not safe for concurrent use; the caller must serialise access.
type Ledger struct {
	Entries []*Active `yaml:"entries,omitempty"`
}

// Add records e on the ledger.
// A non-stackable effect whose ID is already present refreshes the existing
// record's remaining turns to max(existing, e.Duration) instead of adding a second one.
//
// Postcondition: Len() grows by one, or an existing record is refreshed.
func (l *Ledger) Add(e Effect) *Active {
	if !e.Stackable {
		for _, a := range l.Entries {
			if a.Effect.ID == e.ID && a.Effect.Kind == e.Kind && a.Effect.Status == e.Status {
				if e.Duration > a.Remaining {
					a.Remaining = e.Duration
				}
				return a
			}
		}
	}
	a := &Active{Effect: e.Clone(), Remaining: e.Duration}
	l.Entries = append(l.Entries, a)
	return a
}

// Age increments Elapsed on every record.
func (l *Ledger) Age() {
	for _, a := range l.Entries {
		a.Elapsed++
	}
}

// Tick decrements Remaining on every record and removes the ones that reach zero.
// Records at UntilCured never expire.
//
// Postcondition: Returns the removed records in ledger order.
func (l *Ledger) Tick() []Active {
	var expired []Active
	kept := l.Entries[:0]
	for _, a := range l.Entries {
		if a.Remaining < UntilCured {
			a.Remaining--
		}
		if a.Remaining <= 0 {
			expired = append(expired, *a)
			continue
		}
		kept = append(kept, a)
	}
	l.Entries = kept
	return expired
}

// Status returns the first status record carrying tag, or nil.
func (l *Ledger) Status(tag string) *Active {
	for _, a := range l.Entries {
		if a.Effect.Kind == KindStatus && a.Effect.Status == tag {
			return a
		}
	}
	return nil
}

// RemoveStatus drops every status record carrying tag.
func (l *Ledger) RemoveStatus(tag string) {
	kept := l.Entries[:0]
	for _, a := range l.Entries {
		if a.Effect.Kind == KindStatus && a.Effect.Status == tag {
			continue
		}
		kept = append(kept, a)
	}
	l.Entries = kept
}

// Find returns the first record of the given kind, or nil.
func (l *Ledger) Find(kind Kind) *Active {
	for _, a := range l.Entries {
		if a.Effect.Kind == kind {
			return a
		}
	}
	return nil
}

// RemoveKind drops every record of the given kind.
func (l *Ledger) RemoveKind(kind Kind) {
	kept := l.Entries[:0]
	for _, a := range l.Entries {
		if a.Effect.Kind != kind {
			kept = append(kept, a)
		}
	}
	l.Entries = kept
}

// Remove drops the given record. It is a no-op if a is not on the ledger.
func (l *Ledger) Remove(a *Active) {
	for i, e := range l.Entries {
		if e == a {
			l.Entries = append(l.Entries[:i], l.Entries[i+1:]...)
			return
		}
	}
}

// Len returns the number of records.
func (l *Ledger) Len() int { return len(l.Entries) }

// Clone returns a deep copy of l.
func (l *Ledger) Clone() Ledger {
	out := Ledger{Entries: make([]*Active, 0, len(l.Entries))}
	for _, a := range l.Entries {
		c := *a
		c.Effect = a.Effect.Clone()
		out.Entries = append(out.Entries, &c)
	}
	return out
}

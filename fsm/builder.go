package fsm

// Builder provides a fluent API for constructing machines in code.
type Builder struct {
	name    string
	initial Kind
	table   Table
	opts    []Option
}

// NewBuilder creates a new machine builder.
func NewBuilder(name string) *Builder {
	return &Builder{
		name:  name,
		table: make(Table),
	}
}

// WithInitial sets the initial kind.
func (b *Builder) WithInitial(initial Kind) *Builder {
	b.initial = initial

	return b
}

// Allow declares the kinds reachable from a given kind. Repeated calls
// for the same kind accumulate.
func (b *Builder) Allow(from Kind, to ...Kind) *Builder {
	b.table[from] = append(b.table[from], to...)

	return b
}

// WithGuard installs a guard on the built machine.
func (b *Builder) WithGuard(g Guard) *Builder {
	b.opts = append(b.opts, WithGuard(g))

	return b
}

// WithObserver installs an observer on the built machine.
func (b *Builder) WithObserver(o Observer) *Builder {
	b.opts = append(b.opts, WithObserver(o))

	return b
}

// WithLogCapacity overrides the transition log bound.
func (b *Builder) WithLogCapacity(n int) *Builder {
	b.opts = append(b.opts, WithLogCapacity(n))

	return b
}

// Build constructs the machine.
func (b *Builder) Build() *Machine {
	return New(b.name, b.initial, b.table, b.opts...)
}

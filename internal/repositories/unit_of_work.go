package repositories

// Repos bundles every repository so a unit of work can hand callers a
// consistent, transaction-bound view of the store.
type Repos struct {
	Users      UserRepository
	Products   ProductRepository
	Carts      CartRepository
	Orders     OrderRepository
	Categories CategoryRepository
}

// UnitOfWork executes a set of writes that must commit or abort
// together. Every repository handed to fn is bound to the same
// transaction; any error from fn rolls the whole unit back.
type UnitOfWork interface {
	Do(fn func(r Repos) error) error
}

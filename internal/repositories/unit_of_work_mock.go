package repositories

// MockUnitOfWork runs units of work directly against a fixed bundle of
// in-memory repositories. It does not roll back on failure; tests that
// exercise atomicity use the GORM unit of work over sqlite.
type MockUnitOfWork struct {
	Repos Repos
}

// NewMockUnitOfWork creates a new instance of MockUnitOfWork over the
// in-memory repositories.
func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		Repos: Repos{
			Users:      NewMockUserRepository(),
			Products:   NewMockProductRepository(),
			Carts:      NewMockCartRepository(),
			Orders:     NewMockOrderRepository(),
			Categories: NewMockCategoryRepository(),
		},
	}
}

// Do executes fn against the shared in-memory repositories.
func (u *MockUnitOfWork) Do(fn func(r Repos) error) error {
	return fn(u.Repos)
}

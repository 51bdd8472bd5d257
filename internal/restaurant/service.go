package restaurant

// Service exposes read-only catalog operations for restaurants.
type Service struct {
	repo Repository
}

// ServiceInterface lets other packages depend on the service without the
// concrete type.
type ServiceInterface interface {
	ListActive() ([]Restaurant, error)
	GetByID(id string) (Restaurant, error)
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListActive() ([]Restaurant, error) {
	return s.repo.ListActive()
}

func (s *Service) GetByID(id string) (Restaurant, error) {
	if id == "" {
		return Restaurant{}, ErrNotFound
	}
	return s.repo.GetByID(id)
}

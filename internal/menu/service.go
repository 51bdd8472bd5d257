package menu

// Service exposes read-only menu operations.
type Service struct {
	repo Repository
}

// ServiceInterface is implemented by *Service and consumed by the order
// handler for enriching order lines.
type ServiceInterface interface {
	ListAvailable(restaurantID string) ([]Item, error)
	GetByID(id string) (Item, error)
	ListByIDs(ids []string) ([]Item, error)
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListAvailable(restaurantID string) ([]Item, error) {
	if restaurantID == "" {
		return []Item{}, nil
	}
	return s.repo.ListAvailable(restaurantID)
}

func (s *Service) GetByID(id string) (Item, error) {
	if id == "" {
		return Item{}, ErrNotFound
	}
	return s.repo.GetByID(id)
}

func (s *Service) ListByIDs(ids []string) ([]Item, error) {
	return s.repo.ListByIDs(ids)
}

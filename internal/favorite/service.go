package favorite

import "errors"

var ErrInvalidRestaurant = errors.New("invalid restaurant id")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Add(userKey, restaurantID string) (Favorite, error) {
	if userKey == "" || restaurantID == "" {
		return Favorite{}, ErrInvalidRestaurant
	}
	return s.repo.Add(userKey, restaurantID)
}

func (s *Service) Remove(userKey, restaurantID string) error {
	if userKey == "" || restaurantID == "" {
		return ErrInvalidRestaurant
	}
	return s.repo.Remove(userKey, restaurantID)
}

func (s *Service) List(userKey string) ([]Favorite, error) {
	if userKey == "" {
		return []Favorite{}, nil
	}
	return s.repo.List(userKey)
}

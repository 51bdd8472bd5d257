package telegram

import (
	"time"
)

// Service verifies Telegram identities and manages stored profiles.
type Service struct {
	repo     Repository
	botToken string
	maxAge   time.Duration
}

func NewService(repo Repository, botToken string, maxAge time.Duration) *Service {
	return &Service{repo: repo, botToken: botToken, maxAge: maxAge}
}

// Authenticate verifies the init data and upserts the profile. The profile
// write is best-effort from the session's point of view: a failed upsert is
// returned but the identity itself was still proven.
func (s *Service) Authenticate(initData string) (Profile, error) {
	user, err := VerifyInitData(initData, s.botToken, s.maxAge)
	if err != nil {
		return Profile{}, err
	}

	p := Profile{
		UserKey:    UserKey(user.ID),
		TelegramID: user.ID,
		FirstName:  user.FirstName,
		IsPremium:  user.IsPremium,
	}
	if user.Username != "" {
		p.Username = &user.Username
	}
	if user.LastName != "" {
		p.LastName = &user.LastName
	}
	if user.LanguageCode != "" {
		p.LanguageCode = &user.LanguageCode
	}
	return s.repo.Upsert(p)
}

func (s *Service) GetProfile(userKey string) (Profile, error) {
	if userKey == "" {
		return Profile{}, ErrNotFound
	}
	return s.repo.GetByUserKey(userKey)
}

package friends

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"storiny/backend/internal/models"
)

// ErrInvalidPage is returned for page numbers below 1.
var ErrInvalidPage = errors.New("page must be >= 1")

// Service exposes the friend-listing read path.
type Service struct {
	db *gorm.DB
}

// NewService creates a service bound to the given DB connection.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ListFriends returns one page of the subject's accepted friends, or an
// empty page when the viewer may not see the list. Denial is not an error:
// the endpoint must not reveal whether a private subject has friends.
func (s *Service) ListFriends(ctx context.Context, p Params) ([]Summary, error) {
	if p.Page < 1 {
		return nil, ErrInvalidPage
	}
	p.Search = strings.TrimSpace(p.Search)

	var subject models.User
	if err := s.db.WithContext(ctx).First(&subject, p.SubjectID).Error; err != nil {
		return nil, err
	}

	allowed, err := s.visible(ctx, &subject, p.ViewerID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return []Summary{}, nil
	}

	var page []Summary
	q := NewBuilder(s.db.WithContext(ctx), p).Build()
	if err := q.Find(&page).Error; err != nil {
		return nil, err
	}
	if page == nil {
		page = []Summary{}
	}
	return page, nil
}

// visible applies the privacy gate. Anonymous viewers only see fully public
// lists; authenticated viewers get through a private account or a
// friends-only list via an accepted friendship with the subject; a list set
// to "none" is visible to nobody but the subject.
func (s *Service) visible(ctx context.Context, subject *models.User, viewerID *uint64) (bool, error) {
	if viewerID == nil {
		return !subject.IsPrivate && subject.FriendListVisibility == models.VisibilityEveryone, nil
	}
	if *viewerID == subject.ID {
		return true, nil
	}

	isFriend, err := s.accepted(ctx, subject.ID, *viewerID)
	if err != nil {
		return false, err
	}

	if subject.IsPrivate && !isFriend {
		return false, nil
	}
	switch subject.FriendListVisibility {
	case models.VisibilityEveryone:
		return true, nil
	case models.VisibilityFriends:
		return isFriend, nil
	default:
		return false, nil
	}
}

// accepted reports whether an accepted, live friendship exists between the
// two users, in either direction.
func (s *Service) accepted(ctx context.Context, a, b uint64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Friend{}).
		Where(
			"((transmitter_id = ? AND receiver_id = ?) OR (transmitter_id = ? AND receiver_id = ?))",
			a, b, b, a,
		).
		Where("accepted_at IS NOT NULL").
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count > 0, err
}

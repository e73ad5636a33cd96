package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mallardapp/mallard/backend/internal/models"
	"github.com/mallardapp/mallard/backend/internal/repositories"
	"gorm.io/gorm"
)

// fakeUserRepository keeps users in memory, keyed by username.
type fakeUserRepository struct {
	seq   uint
	users map[string]*models.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[string]*models.User)}
}

func (f *fakeUserRepository) CreateUser(user *models.User) error {
	f.seq++
	user.ID = f.seq
	f.users[user.Username] = user
	return nil
}

func (f *fakeUserRepository) GetUserByID(id uint) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) GetUserByUsername(username string) (*models.User, error) {
	if u, ok := f.users[username]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// fakeNotificationRepository mirrors the Postgres store's semantics in memory
// so handlers can be exercised without a database.
type fakeNotificationRepository struct {
	seq    uint
	notifs map[uint]*models.Notification
	users  *fakeUserRepository
}

func newFakeNotificationRepository(users *fakeUserRepository) *fakeNotificationRepository {
	return &fakeNotificationRepository{
		notifs: make(map[uint]*models.Notification),
		users:  users,
	}
}

func (f *fakeNotificationRepository) Create(notif *models.Notification, data []byte) (*models.Notification, error) {
	switch notif.Type {
	case models.TypePolicy:
		var p models.PolicyNotif
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", repositories.ErrInvalidData, err)
		}
		notif.Policy = &p
	case models.TypeClaim:
		var c models.ClaimNotif
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("%w: %v", repositories.ErrInvalidData, err)
		}
		if _, err := f.users.GetUserByUsername(c.PolicyHolder); err != nil {
			return nil, repositories.ErrForbidden
		}
		if _, err := f.users.GetUserByUsername(c.Claimant); err != nil {
			return nil, repositories.ErrForbidden
		}
		notif.Claim = &c
	case models.TypeNews:
		var n models.NewsNotif
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, fmt.Errorf("%w: %v", repositories.ErrInvalidData, err)
		}
		notif.News = &n
	default:
		return nil, fmt.Errorf("%w: unknown type %q", repositories.ErrInvalidData, notif.Type)
	}

	f.seq++
	notif.ID = f.seq
	notif.CreatedAt = time.Now()
	switch {
	case notif.Policy != nil:
		notif.Policy.NotifID = notif.ID
	case notif.Claim != nil:
		notif.Claim.NotifID = notif.ID
	case notif.News != nil:
		notif.News.NotifID = notif.ID
	}
	f.notifs[notif.ID] = notif
	return notif, nil
}

func (f *fakeNotificationRepository) GetByID(id uint) (*models.Notification, error) {
	if n, ok := f.notifs[id]; ok {
		return n, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeNotificationRepository) ListByFilter(filter *models.NotificationFilter) ([]models.Message, error) {
	messages := []models.Message{}
	for id := uint(1); id <= f.seq; id++ {
		n, ok := f.notifs[id]
		if !ok || !n.IsActive {
			continue
		}
		if filter.Type != "" && n.Type != filter.Type {
			continue
		}
		if filter.Sender != "" && n.Sender != filter.Sender {
			continue
		}
		if filter.Recipient != "" && n.Recipient != filter.Recipient {
			continue
		}
		if filter.Priority != nil && n.Priority != *filter.Priority {
			continue
		}
		if filter.IsFlagged != nil && n.IsFlagged != *filter.IsFlagged {
			continue
		}
		if filter.IsDraft != nil && n.IsDraft != *filter.IsDraft {
			continue
		}
		messages = append(messages, models.MessageOf(n))
	}
	return messages, nil
}

func (f *fakeNotificationRepository) UpdateSubtypeFields(id uint, actingUser, notifType string, edits map[string]interface{}) (*models.Notification, error) {
	n, err := f.GetByID(id)
	if err != nil {
		return nil, err
	}
	if n.Sender != actingUser {
		return nil, repositories.ErrForbidden
	}
	if n.Type != notifType {
		return nil, fmt.Errorf("%w: notification %d is not of type %q", repositories.ErrInvalidData, id, notifType)
	}

	baseEdits, subtypeEdits := models.SplitEdits(notifType, edits)
	applyBaseEdits(n, baseEdits)
	switch notifType {
	case models.TypePolicy:
		applyPolicyEdits(n.Policy, subtypeEdits)
	case models.TypeClaim:
		applyClaimEdits(n.Claim, subtypeEdits)
	case models.TypeNews:
		applyNewsEdits(n.News, subtypeEdits)
	}
	return n, nil
}

func (f *fakeNotificationRepository) SoftDelete(id uint, actingUser string) (*models.Notification, error) {
	n, err := f.GetByID(id)
	if err != nil {
		return nil, err
	}
	if n.Sender != actingUser {
		return nil, repositories.ErrForbidden
	}
	n.IsActive = false
	return n, nil
}

func applyBaseEdits(n *models.Notification, edits map[string]interface{}) {
	if v, ok := edits["is_flagged"].(bool); ok {
		n.IsFlagged = v
	}
	if v, ok := edits["is_draft"].(bool); ok {
		n.IsDraft = v
	}
	if v, ok := edits["priority"].(float64); ok {
		n.Priority = int(v)
	}
}

func applyPolicyEdits(p *models.PolicyNotif, edits map[string]interface{}) {
	if v, ok := edits["policy_id"].(string); ok {
		p.PolicyID = v
	}
	if v, ok := edits["subject"].(string); ok {
		p.Subject = v
	}
	if v, ok := edits["body"].(string); ok {
		p.Body = v
	}
	if v, ok := edits["is_read"].(bool); ok {
		p.IsRead = v
	}
	if v, ok := edits["is_archived"].(bool); ok {
		p.IsArchived = v
	}
}

func applyClaimEdits(c *models.ClaimNotif, edits map[string]interface{}) {
	if v, ok := edits["policy_holder"].(string); ok {
		c.PolicyHolder = v
	}
	if v, ok := edits["claimant"].(string); ok {
		c.Claimant = v
	}
	if v, ok := edits["type"].(string); ok {
		c.Type = v
	}
	if v, ok := edits["due_date"].(string); ok {
		c.DueDate = v
	}
	if v, ok := edits["business"].(string); ok {
		c.Business = v
	}
	if v, ok := edits["description"].(string); ok {
		c.Description = v
	}
	if v, ok := edits["is_completed"].(bool); ok {
		c.IsCompleted = v
	}
}

func applyNewsEdits(n *models.NewsNotif, edits map[string]interface{}) {
	if v, ok := edits["title"].(string); ok {
		n.Title = v
	}
	if v, ok := edits["body"].(string); ok {
		n.Body = v
	}
	if v, ok := edits["type"].(string); ok {
		n.Type = v
	}
	if v, ok := edits["created_on"].(string); ok {
		n.CreatedOn = v
	}
	if v, ok := edits["expires_on"].(string); ok {
		n.ExpiresOn = v
	}
}

// fakeEventRepository collects events in order.
type fakeEventRepository struct {
	events []models.NotificationEvent
}

func (f *fakeEventRepository) Record(_ context.Context, event *models.NotificationEvent) error {
	event.At = time.Now()
	f.events = append(f.events, *event)
	return nil
}

func (f *fakeEventRepository) ListByNotification(_ context.Context, notifID uint) ([]models.NotificationEvent, error) {
	matched := []models.NotificationEvent{}
	for _, e := range f.events {
		if e.NotifID == notifID {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

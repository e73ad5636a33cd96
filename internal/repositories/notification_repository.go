package repositories

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/mallardapp/mallard/backend/internal/models"
	"gorm.io/gorm"
)

var validate = validator.New()

// NotificationRepository defines the interface for notification operations.
// Ownership is enforced here, once, for every mutation.
type NotificationRepository interface {
	Create(notif *models.Notification, data []byte) (*models.Notification, error)
	GetByID(id uint) (*models.Notification, error)
	ListByFilter(filter *models.NotificationFilter) ([]models.Message, error)
	UpdateSubtypeFields(id uint, actingUser, notifType string, edits map[string]interface{}) (*models.Notification, error)
	SoftDelete(id uint, actingUser string) (*models.Notification, error)
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

// Create inserts the base row and exactly one subtype row in a single
// transaction; either both become visible or neither does. Claim creation
// additionally requires that policy_holder and claimant are existing users.
func (r *postgresNotificationRepository) Create(notif *models.Notification, data []byte) (*models.Notification, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(notif).Error; err != nil {
			return err
		}

		switch notif.Type {
		case models.TypePolicy:
			var p models.PolicyNotif
			if err := decodeSubtype(data, &p); err != nil {
				return err
			}
			p.NotifID = notif.ID
			if err := tx.Create(&p).Error; err != nil {
				return err
			}
			notif.Policy = &p

		case models.TypeClaim:
			var c models.ClaimNotif
			if err := decodeSubtype(data, &c); err != nil {
				return err
			}
			ok, err := usernamesExist(tx, c.PolicyHolder, c.Claimant)
			if err != nil {
				return err
			}
			if !ok {
				return ErrForbidden
			}
			c.NotifID = notif.ID
			if err := tx.Create(&c).Error; err != nil {
				return err
			}
			notif.Claim = &c

		case models.TypeNews:
			var n models.NewsNotif
			if err := decodeSubtype(data, &n); err != nil {
				return err
			}
			n.NotifID = notif.ID
			if err := tx.Create(&n).Error; err != nil {
				return err
			}
			notif.News = &n

		default:
			return fmt.Errorf("%w: unknown type %q", ErrInvalidData, notif.Type)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return notif, nil
}

// GetByID is a primary-key fetch: it returns soft-deleted records too, with
// is_active reporting their state.
func (r *postgresNotificationRepository) GetByID(id uint) (*models.Notification, error) {
	var notif models.Notification
	err := r.db.Preload("Policy").Preload("Claim").Preload("News").First(&notif, id).Error
	if err != nil {
		return nil, err
	}
	return &notif, nil
}

// ListByFilter returns the inbox view models matching every set criterion,
// restricted to active rows. No match is an empty slice, not an error.
func (r *postgresNotificationRepository) ListByFilter(filter *models.NotificationFilter) ([]models.Message, error) {
	q := r.db.Where("is_active = ?", true)
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Sender != "" {
		q = q.Where("sender = ?", filter.Sender)
	}
	if filter.Recipient != "" {
		q = q.Where("recipient = ?", filter.Recipient)
	}
	if filter.Priority != nil {
		q = q.Where("priority = ?", *filter.Priority)
	}
	if filter.IsFlagged != nil {
		q = q.Where("is_flagged = ?", *filter.IsFlagged)
	}
	if filter.IsDraft != nil {
		q = q.Where("is_draft = ?", *filter.IsDraft)
	}

	var notifs []models.Notification
	err := q.Preload("Policy").Preload("Claim").Preload("News").
		Order("created_at DESC").
		Find(&notifs).Error
	if err != nil {
		return nil, err
	}

	messages := make([]models.Message, 0, len(notifs))
	for i := range notifs {
		messages = append(messages, models.MessageOf(&notifs[i]))
	}
	return messages, nil
}

// UpdateSubtypeFields applies an edits object to a notification owned by
// actingUser. Base flags (is_flagged, is_draft, priority) go to the base row,
// recognized subtype fields to the subtype row, everything else is dropped.
func (r *postgresNotificationRepository) UpdateSubtypeFields(id uint, actingUser, notifType string, edits map[string]interface{}) (*models.Notification, error) {
	notif, err := r.ownedBy(id, actingUser)
	if err != nil {
		return nil, err
	}
	if notif.Type != notifType {
		return nil, fmt.Errorf("%w: notification %d is not of type %q", ErrInvalidData, id, notifType)
	}

	baseEdits, subtypeEdits := models.SplitEdits(notifType, edits)

	err = r.db.Transaction(func(tx *gorm.DB) error {
		if len(baseEdits) > 0 {
			if err := tx.Model(&models.Notification{}).Where("id = ?", id).Updates(baseEdits).Error; err != nil {
				return err
			}
		}
		if len(subtypeEdits) == 0 {
			return nil
		}
		switch notifType {
		case models.TypePolicy:
			return tx.Model(&models.PolicyNotif{}).Where("notif_id = ?", id).Updates(subtypeEdits).Error
		case models.TypeClaim:
			return tx.Model(&models.ClaimNotif{}).Where("notif_id = ?", id).Updates(subtypeEdits).Error
		case models.TypeNews:
			return tx.Model(&models.NewsNotif{}).Where("notif_id = ?", id).Updates(subtypeEdits).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

// SoftDelete flips is_active off for a notification owned by actingUser.
// Repeating it is a no-op; nothing is ever physically removed.
func (r *postgresNotificationRepository) SoftDelete(id uint, actingUser string) (*models.Notification, error) {
	if _, err := r.ownedBy(id, actingUser); err != nil {
		return nil, err
	}

	err := r.db.Model(&models.Notification{}).Where("id = ?", id).Update("is_active", false).Error
	if err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

// ownedBy is the single ownership gate in front of every mutation: it loads
// the notification and requires actingUser to be its sender.
func (r *postgresNotificationRepository) ownedBy(id uint, actingUser string) (*models.Notification, error) {
	notif, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	if notif.Sender != actingUser {
		return nil, ErrForbidden
	}
	return notif, nil
}

// decodeSubtype unmarshals the request's data object into a subtype struct
// and runs its field validation.
func decodeSubtype(data []byte, dest interface{}) error {
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	if err := validate.Struct(dest); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	return nil
}

func usernamesExist(tx *gorm.DB, usernames ...string) (bool, error) {
	unique := make(map[string]struct{}, len(usernames))
	for _, u := range usernames {
		unique[u] = struct{}{}
	}
	names := make([]string, 0, len(unique))
	for u := range unique {
		names = append(names, u)
	}

	var count int64
	err := tx.Model(&models.User{}).Where("username IN ?", names).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count == int64(len(names)), nil
}

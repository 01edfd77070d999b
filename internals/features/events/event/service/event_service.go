package service

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"math/big"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gerejaku_backend/internals/features/events/event/model"
)

const externalURLLength = 16

var urlAlphabet = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

type EventService struct{}

func NewEventService() *EventService { return &EventService{} }

// GenerateExternalURL returns a random 16-char slug.
func GenerateExternalURL() (string, error) {
	out := make([]rune, externalURLLength)
	max := big.NewInt(int64(len(urlAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = urlAlphabet[n.Int64()]
	}
	return string(out), nil
}

// GenerateExternalPIN returns 6 random digits.
func GenerateExternalPIN() (string, error) {
	digits := make([]byte, 6)
	max := big.NewInt(10)
	for i := range digits {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}

// ValidatePIN compares in constant time.
func ValidatePIN(expected, supplied string) bool {
	return subtle.ConstantTimeCompare([]byte(expected), []byte(supplied)) == 1
}

func (s *EventService) GetEvent(tx *gorm.DB, churchID, eventID uuid.UUID) (*model.EventModel, error) {
	var ev model.EventModel
	err := tx.
		Where("event_id = ? AND event_church_id = ?", eventID, churchID).
		First(&ev).Error
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

// FindByExternalURL resolves a public slug. Only enabled + active
// events resolve; a disabled event's old slug is gone immediately.
func (s *EventService) FindByExternalURL(tx *gorm.DB, externalURL string) (*model.EventModel, error) {
	var ev model.EventModel
	err := tx.
		Where("event_external_check_in_url = ? AND event_external_check_in_enabled = ? AND event_is_active = ?",
			externalURL, true, true).
		First(&ev).Error
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

// ToggleExternalCheckIn enables (regenerating slug + PIN) or disables
// (clearing both) the public check-in pair for an event.
func (s *EventService) ToggleExternalCheckIn(tx *gorm.DB, churchID, eventID uuid.UUID, enable bool) (*model.EventModel, error) {
	ev, err := s.GetEvent(tx, churchID, eventID)
	if err != nil {
		return nil, err
	}

	if enable {
		url, err := GenerateExternalURL()
		if err != nil {
			return nil, err
		}
		pin, err := GenerateExternalPIN()
		if err != nil {
			return nil, err
		}
		ev.EventExternalCheckInEnabled = true
		ev.EventExternalCheckInURL = &url
		ev.EventExternalCheckInPIN = &pin
	} else {
		ev.EventExternalCheckInEnabled = false
		ev.EventExternalCheckInURL = nil
		ev.EventExternalCheckInPIN = nil
	}

	if err := tx.Model(&model.EventModel{}).
		Where("event_id = ?", ev.EventID).
		Updates(map[string]interface{}{
			"event_external_check_in_enabled": ev.EventExternalCheckInEnabled,
			"event_external_check_in_url":     ev.EventExternalCheckInURL,
			"event_external_check_in_pin":     ev.EventExternalCheckInPIN,
		}).Error; err != nil {
		return nil, err
	}
	return ev, nil
}

// CheckPIN validates a supplied PIN against the event.
func (s *EventService) CheckPIN(ev *model.EventModel, supplied string) error {
	if !ev.EventExternalCheckInEnabled || ev.EventExternalCheckInPIN == nil {
		return errors.New("external check-in is not enabled for this event")
	}
	if !ValidatePIN(*ev.EventExternalCheckInPIN, supplied) {
		return errors.New("invalid PIN")
	}
	return nil
}

// internal/services/notification_service.go
package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Dr-Xcristy/GeneVault/internal/models"
	"github.com/Dr-Xcristy/GeneVault/internal/registry"
)

type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

func (s *NotificationService) notify(userID uuid.UUID, notificationType, title, message string, data models.JSONB) {
	notification := &models.Notification{
		UserID:  userID,
		Type:    notificationType,
		Title:   title,
		Message: message,
		Data:    data,
		Status:  models.NotificationStatusUnread,
	}

	if err := s.db.Create(notification).Error; err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to create notification")
	}
}

// SendLicenseExecutedNotification tells the licensor their listing was taken.
func (s *NotificationService) SendLicenseExecutedNotification(assetID registry.AssetID, licensor, licensee uuid.UUID, fee int64) {
	s.notify(licensor, "license_executed",
		"Your license listing was executed",
		fmt.Sprintf("Asset #%d is now licensed; the fee of %d has been credited to your balance.", assetID, fee),
		models.JSONB{
			"asset_id": uint64(assetID),
			"licensee": licensee.String(),
			"fee":      fee,
		})
}

// SendLicenseRevokedNotification tells the licensee their license was revoked.
func (s *NotificationService) SendLicenseRevokedNotification(assetID registry.AssetID, licensee uuid.UUID) {
	s.notify(licensee, "license_revoked",
		"Your license was revoked",
		fmt.Sprintf("The owner of asset #%d revoked your license; royalty payments will no longer be accepted.", assetID),
		models.JSONB{
			"asset_id": uint64(assetID),
		})
}

// SendRoyaltyReceivedNotification tells the current owner a royalty arrived.
func (s *NotificationService) SendRoyaltyReceivedNotification(assetID registry.AssetID, owner, licensee uuid.UUID, amount int64) {
	s.notify(owner, "royalty_received",
		"Royalty payment received",
		fmt.Sprintf("A royalty of %d for asset #%d has been credited to your balance.", amount, assetID),
		models.JSONB{
			"asset_id": uint64(assetID),
			"licensee": licensee.String(),
			"amount":   amount,
		})
}

func (s *NotificationService) ListUserNotifications(userID uuid.UUID) ([]models.Notification, error) {
	var notifications []models.Notification
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").Limit(100).
		Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}
	return notifications, nil
}

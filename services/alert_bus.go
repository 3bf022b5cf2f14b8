package services

import (
	"fmt"
	"time"

	"backend/models"
	"gorm.io/gorm"
)

type alertDeps struct {
	db *gorm.DB
	rt *RealtimeHub
	ps *PushService
}

var _alert alertDeps

func InitAlertDeps(db *gorm.DB, rt *RealtimeHub, ps *PushService) {
	_alert = alertDeps{db: db, rt: rt, ps: ps}
}

// EmitConfirmNudge asks the user to confirm a low-confidence portion guess.
// Safe to call before InitAlertDeps; it then does nothing.
func EmitConfirmNudge(userID, scanID uint, label string) {
	if _alert.db == nil {
		return
	}
	msg := fmt.Sprintf("We guessed %s for your scan. Tap to confirm or adjust.", label)
	a := &models.Alert{UserID: userID, Type: "confirm_portion", Message: msg, CreatedAt: time.Now()}
	_ = _alert.db.Create(a).Error

	if _alert.rt != nil {
		_alert.rt.Broadcast(userID, "alert.created", map[string]any{
			"alert":  a,
			"scanId": scanID,
		})
	}
	if _alert.ps != nil {
		_alert.ps.PushToUser(userID, "Confirm your portion", msg, map[string]string{
			"type":    "confirm_portion",
			"scanId":  fmt.Sprintf("%d", scanID),
			"alertId": fmt.Sprintf("%d", a.ID),
		})
	}
}

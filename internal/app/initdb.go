package app

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/agriconnect/agrimarket/internal/domain"
	"github.com/agriconnect/agrimarket/pkg/common"
)

func (a *Application) checkSuper() {
	const superUsername = "admin"
	const defaultPassword = "agrimarket"

	var operator domain.SysOpr
	err := a.gormDB.Where("username = ?", superUsername).First(&operator).Error
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		if err != nil {
			zap.L().Error("failed to query super admin", zap.Error(err))
		}
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.DefaultCost)
	if err != nil {
		zap.L().Error("failed to hash default super admin password", zap.Error(err))
		return
	}

	if err := a.gormDB.Create(&domain.SysOpr{
		ID:        common.UUIDint64(),
		Realname:  "administrator",
		Mobile:    "0000",
		Email:     common.NA,
		Username:  superUsername,
		Password:  string(hashed),
		Level:     "super",
		Status:    common.ENABLED,
		Remark:    "super",
		LastLogin: time.Now(),
	}).Error; err != nil {
		zap.L().Error("failed to create default super admin", zap.Error(err))
		return
	}
	zap.L().Info("initialized default super admin account", zap.String("username", superUsername))
}

type settingDefault struct {
	Category    string
	Name        string
	Default     string
	Description string
}

var settingDefaults = []settingDefault{
	{"smtp", "Host", "smtp.gmail.com", "SMTP server host for status notifications"},
	{"smtp", "Port", "587", "SMTP server port"},
	{"smtp", "Username", "", "SMTP account username"},
	{"smtp", "Password", "", "SMTP account password"},
	{"smtp", "From", "AgriMarket <no-reply@agrimarket.local>", "Sender address on outgoing mail"},
	{"notify", "Enabled", "true", "Send order status change notifications"},
	{"notify", "HistoryDays", "90", "Days to keep notification log entries"},
}

func (a *Application) checkSettings() {
	// Iterate over all setting definitions, initializing missing entries
	for sortid, s := range settingDefaults {
		var count int64
		a.gormDB.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", s.Category, s.Name).
			Count(&count)

		if count == 0 {
			a.gormDB.Create(&domain.SysConfig{
				ID:     common.UUIDint64(),
				Sort:   sortid,
				Type:   s.Category,
				Name:   s.Name,
				Value:  s.Default,
				Remark: s.Description,
			})
			zap.L().Info("initialized config",
				zap.String("key", s.Category+"."+s.Name),
				zap.String("default", s.Default))
		}
	}
}

package app

import (
	"sync"
	"time"

	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/agriconnect/agrimarket/internal/domain"
)

const settingsCacheTTL = 30 * time.Second

// ConfigManager reads system settings from the sys_config table with a short
// read-through cache. Values are stored as strings and cast on access.
type ConfigManager struct {
	dbp      DBProvider
	mu       sync.RWMutex
	cache    map[string]string
	loadedAt time.Time
}

func NewConfigManager(dbp DBProvider) *ConfigManager {
	return &ConfigManager{dbp: dbp, cache: make(map[string]string)}
}

func (m *ConfigManager) reloadIfStale() {
	m.mu.RLock()
	fresh := time.Since(m.loadedAt) < settingsCacheTTL
	m.mu.RUnlock()
	if fresh {
		return
	}

	var rows []domain.SysConfig
	if err := m.dbp.DB().Find(&rows).Error; err != nil {
		zap.L().Warn("settings reload failed", zap.Error(err))
		return
	}

	next := make(map[string]string, len(rows))
	for _, r := range rows {
		next[r.Type+"."+r.Name] = r.Value
	}

	m.mu.Lock()
	m.cache = next
	m.loadedAt = time.Now()
	m.mu.Unlock()
}

func (m *ConfigManager) GetString(category, name string) string {
	m.reloadIfStale()
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cache[category+"."+name]
}

func (m *ConfigManager) GetInt(category, name string) int {
	return cast.ToInt(m.GetString(category, name))
}

func (m *ConfigManager) GetInt64(category, name string) int64 {
	return cast.ToInt64(m.GetString(category, name))
}

func (m *ConfigManager) GetBool(category, name string) bool {
	return cast.ToBool(m.GetString(category, name))
}

// SetValue upserts a setting row and refreshes the cache entry in place.
func (m *ConfigManager) SetValue(category, name, value string) error {
	db := m.dbp.DB()
	var count int64
	db.Model(&domain.SysConfig{}).Where("type = ? and name = ?", category, name).Count(&count)
	var err error
	if count == 0 {
		err = db.Create(&domain.SysConfig{Type: category, Name: name, Value: value}).Error
	} else {
		err = db.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", category, name).
			Update("value", value).Error
	}
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.cache[category+"."+name] = value
	m.mu.Unlock()
	return nil
}

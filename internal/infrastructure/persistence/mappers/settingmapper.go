package mappers

import (
	"tvmanager/internal/domain/setting"
)

// SettingsRecord is the stored JSON shape of the application settings
type SettingsRecord struct {
	MessageTemplateUpcoming string `json:"messageTemplateUpcoming"`
	MessageTemplateExpired  string `json:"messageTemplateExpired"`
}

// ToSettingsDomain converts a record into validated settings
func ToSettingsDomain(record *SettingsRecord) (*setting.AppSettings, error) {
	return setting.NewAppSettings(record.MessageTemplateUpcoming, record.MessageTemplateExpired)
}

// ToSettingsRecord converts settings into their stored shape
func ToSettingsRecord(s *setting.AppSettings) *SettingsRecord {
	return &SettingsRecord{
		MessageTemplateUpcoming: s.Upcoming(),
		MessageTemplateExpired:  s.Expired(),
	}
}

// Package entities contains domain entities used across the application.
package entities

// Chapter represents one of the 114 surahs of the Qur'an.
// It includes the English and Arabic names and the number of verses.
type Chapter struct {
	Number      int    `json:"number"`       // number of the surah (from 1 to 114)
	EnglishName string `json:"english"`      // transliterated name, e.g. "Al-Baqarah"
	ArabicName  string `json:"arabic"`       // name in Arabic script
	VersesCount int    `json:"verses_count"` // number of ayat in the surah
}

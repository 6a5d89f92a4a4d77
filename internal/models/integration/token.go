package integration

import "time"

const ProviderCalendly = "calendly"

// Token - сохранённый OAuth токен интеграции
type Token struct {
	Provider     string     `json:"provider" db:"provider"`
	AccessToken  string     `json:"-" db:"access_token"`
	RefreshToken string     `json:"-" db:"refresh_token"`
	TokenType    string     `json:"token_type" db:"token_type"`
	Expiry       *time.Time `json:"expires_at,omitempty" db:"expiry"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

package sensor

import "time"

// User is a registered account that owns sensors.
// Accounts are created out of band and are immutable while the server runs.
type User struct {
	// ID is the numeric primary key.
	ID uint `gorm:"primaryKey" json:"id"`
	// Name is the display name of the account holder.
	Name string `gorm:"not null" json:"name"`
	// Username is the login identifier presented with Basic credentials.
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	// Email is the contact address of the account holder.
	Email string `gorm:"uniqueIndex;not null" json:"email"`
	// Secret is the account credential. Never serialized.
	Secret string `gorm:"not null" json:"-"`
}

// Sensor is a remote motion sensor registered to exactly one user.
// Status and UpdatedAt are mutated only by the status engine.
type Sensor struct {
	// ID is the sensor identifier, also its Basic auth login.
	ID string `gorm:"primaryKey" json:"id"`
	// Name is the human-readable sensor label.
	Name string `gorm:"not null" json:"name"`
	// Location describes where the sensor is installed.
	Location string `json:"location"`
	// OwnerID references the owning user. Immutable post-creation.
	OwnerID uint `gorm:"index;not null" json:"owner_id"`
	// Secret is the sensor credential. Never serialized.
	Secret string `gorm:"not null" json:"-"`
	// Status is the current escalation level.
	Status Status `gorm:"type:varchar(16);not null;default:CALM" json:"status"`
	// UpdatedAt is the time of the last status transition or reset.
	UpdatedAt time.Time `gorm:"autoUpdateTime:false" json:"updated_at"`
}

// Record is one persisted trigger observation. Append-only, immutable.
type Record struct {
	// ID is the numeric primary key.
	ID uint `gorm:"primaryKey" json:"id"`
	// SensorID references the reporting sensor.
	SensorID string `gorm:"index;not null" json:"sensor_id"`
	// IsTriggered is the reported observation: motion detected or not.
	IsTriggered bool `json:"is_triggered"`
	// CreatedAt is the ingestion time of the observation.
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

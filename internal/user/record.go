// internal/user/record.go
//
// `app_user` table row model.
//
// Context
// -------
// Accounts live at the hosted auth provider.  The first authenticated
// request creates a local row keyed by the provider subject so pages,
// meeting types, and availability have an integer owner.
//
// Schema reference
//
//	CREATE TABLE app_user (
//	    id           BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
//	    auth_subject VARCHAR(191) NOT NULL UNIQUE,
//	    email        VARCHAR(320) NOT NULL DEFAULT '',
//	    display_name VARCHAR(100) NOT NULL DEFAULT '',
//	    bio          VARCHAR(500) NOT NULL DEFAULT '',
//	    avatar_url   VARCHAR(2048) NOT NULL DEFAULT '',
//	    timezone     VARCHAR(64)  NOT NULL DEFAULT 'UTC',
//	    created_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
//	    updated_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
//	);
package user

import "time"

// Record mirrors one row in `app_user`.
type Record struct {
	ID          int64     `db:"id"           json:"id"`
	AuthSubject string    `db:"auth_subject" json:"-"`
	Email       string    `db:"email"        json:"email"`
	DisplayName string    `db:"display_name" json:"display_name"`
	Bio         string    `db:"bio"          json:"bio"`
	AvatarURL   string    `db:"avatar_url"   json:"avatar_url"`
	Timezone    string    `db:"timezone"     json:"timezone"`
	CreatedAt   time.Time `db:"created_at"   json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"   json:"updated_at"`
}

// Location returns the user's time zone, falling back to UTC for unknown
// names.
func (r *Record) Location() *time.Location {
	if loc, err := time.LoadLocation(r.Timezone); err == nil && r.Timezone != "" {
		return loc
	}
	return time.UTC
}

// Schema is applied by `linkbio migrate` through the profile component.
var Schema = []string{`
    CREATE TABLE IF NOT EXISTS app_user (
        id           BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
        auth_subject VARCHAR(191)  NOT NULL UNIQUE,
        email        VARCHAR(320)  NOT NULL DEFAULT '',
        display_name VARCHAR(100)  NOT NULL DEFAULT '',
        bio          VARCHAR(500)  NOT NULL DEFAULT '',
        avatar_url   VARCHAR(2048) NOT NULL DEFAULT '',
        timezone     VARCHAR(64)   NOT NULL DEFAULT 'UTC',
        created_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
        updated_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

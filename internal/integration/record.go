// internal/integration/record.go
//
// `integration` and `subscriber` table row models.

package integration

import "time"

// Record mirrors one row in `integration`.  Config holds string values only.
type Record struct {
	ID        int64     `db:"id"         json:"id"`
	PageID    int64     `db:"page_id"    json:"-"`
	Provider  string    `db:"provider"   json:"provider"`
	Kind      string    `db:"kind"       json:"kind"`
	Config    Config    `db:"config"     json:"config"`
	Enabled   bool      `db:"enabled"    json:"enabled"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Masked returns a copy safe to send to the browser.
func (r Record) Masked() Record {
	out := r
	out.Config = make(Config, len(r.Config))
	for k, v := range r.Config {
		if IsSecretKey(k) {
			v = Mask(v)
		}
		out.Config[k] = v
	}
	return out
}

// Subscriber mirrors one row in `subscriber`.
type Subscriber struct {
	ID        int64     `db:"id"         json:"id"`
	PageID    int64     `db:"page_id"    json:"-"`
	Email     string    `db:"email"      json:"email"`
	Source    string    `db:"source"     json:"source"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Schema is owned by the integrations component.
var Schema = []string{`
    CREATE TABLE IF NOT EXISTS integration (
        id         BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
        page_id    BIGINT UNSIGNED NOT NULL,
        provider   VARCHAR(32) NOT NULL,
        kind       VARCHAR(32) NOT NULL,
        config     JSON NOT NULL,
        enabled    BOOLEAN NOT NULL DEFAULT TRUE,
        created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
        updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
        UNIQUE KEY uq_integration_page_provider (page_id, provider),
        CONSTRAINT fk_integration_page FOREIGN KEY (page_id) REFERENCES page(id) ON DELETE CASCADE
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`, `
    CREATE TABLE IF NOT EXISTS subscriber (
        id         BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
        page_id    BIGINT UNSIGNED NOT NULL,
        email      VARCHAR(320) NOT NULL,
        source     VARCHAR(32)  NOT NULL DEFAULT 'page',
        created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
        UNIQUE KEY uq_subscriber_page_email (page_id, email),
        CONSTRAINT fk_subscriber_page FOREIGN KEY (page_id) REFERENCES page(id) ON DELETE CASCADE
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

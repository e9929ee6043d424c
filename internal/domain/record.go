// internal/domain/record.go
//
// `domain` table row model.
//
// Context
// -------
// An owner attaches a custom host (e.g. links.example.com) to their page.
// The row starts `pending` with a random verification token.  The owner
// publishes either a TXT record carrying that token or a CNAME to the
// platform target, then asks for verification.  Only `verified` hosts are
// served by the public router.
//
// Certificates are issued by the edge proxy; ssl_status only mirrors that
// a verified host is eligible.
package domain

import "time"

// Verification states.
const (
	StatusPending  = "pending"
	StatusVerified = "verified"
	StatusFailed   = "failed"
)

// SSL states.
const (
	SSLPending = "pending"
	SSLActive  = "active"
)

// Record mirrors one row in `domain`.
type Record struct {
	ID                int64      `db:"id"                 json:"id"`
	PageID            int64      `db:"page_id"            json:"-"`
	Host              string     `db:"host"               json:"host"`
	VerificationToken string     `db:"verification_token" json:"verification_token"`
	Status            string     `db:"status"             json:"status"`
	SSLStatus         string     `db:"ssl_status"         json:"ssl_status"`
	LastError         string     `db:"last_error"         json:"last_error,omitempty"`
	VerifiedAt        *time.Time `db:"verified_at"        json:"verified_at"`
	CreatedAt         time.Time  `db:"created_at"         json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at"         json:"updated_at"`
}

// Schema is owned by the domains component.
var Schema = []string{`
    CREATE TABLE IF NOT EXISTS domain (
        id                 BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
        page_id            BIGINT UNSIGNED NOT NULL,
        host               VARCHAR(253) NOT NULL UNIQUE,
        verification_token VARCHAR(64)  NOT NULL,
        status             VARCHAR(16)  NOT NULL DEFAULT 'pending',
        ssl_status         VARCHAR(16)  NOT NULL DEFAULT 'pending',
        last_error         VARCHAR(255) NOT NULL DEFAULT '',
        verified_at        TIMESTAMP NULL,
        created_at         TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
        updated_at         TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
        KEY idx_domain_page (page_id),
        CONSTRAINT fk_domain_page FOREIGN KEY (page_id) REFERENCES page(id) ON DELETE CASCADE
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// internal/page/record.go
//
// `page` table row model.
//
// Context
// -------
// Every user owns at most one page.  Blocks, links, integrations, and custom
// domains hang off the page id.  Deleting a page is a soft delete: the row
// keeps its slug until the owner creates a new page, at which point the old
// row and its children are purged.
//
// Notes
// -----
//   - Theme is opaque JSON; rendering is done by the frontend.
//   - Oxford commas, two spaces after periods.
package page

import (
	"time"

	"github.com/yanizio/linkbio/internal/database"
)

// Record mirrors one row in `page`.
type Record struct {
	ID          int64         `db:"id"          json:"id"`
	UserID      int64         `db:"user_id"     json:"-"`
	Slug        string        `db:"slug"        json:"slug"`
	Title       string        `db:"title"       json:"title"`
	Description string        `db:"description" json:"description"`
	Theme       database.JSON `db:"theme"       json:"theme"`
	Published   bool          `db:"published"   json:"published"`
	DeletedAt   *time.Time    `db:"deleted_at"  json:"-"`
	CreatedAt   time.Time     `db:"created_at"  json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at"  json:"updated_at"`
}

// Schema is owned by the pages component.
var Schema = []string{`
    CREATE TABLE IF NOT EXISTS page (
        id          BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
        user_id     BIGINT UNSIGNED NOT NULL UNIQUE,
        slug        VARCHAR(40)  NOT NULL UNIQUE,
        title       VARCHAR(120) NOT NULL DEFAULT '',
        description VARCHAR(500) NOT NULL DEFAULT '',
        theme       JSON NOT NULL,
        published   BOOLEAN NOT NULL DEFAULT FALSE,
        deleted_at  TIMESTAMP NULL,
        created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
        updated_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
        CONSTRAINT fk_page_user FOREIGN KEY (user_id) REFERENCES app_user(id) ON DELETE CASCADE
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

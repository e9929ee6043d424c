// internal/block/record.go
//
// `block` table row model and the per-type config shapes.
//
// Context
// -------
// A block is one typed, positioned content unit on a page.  The row stores
// the type and an opaque JSON config; the shape of that config depends on
// the type and is checked by ValidateConfig before every write.
//
//	hero    heading, subheading, avatar_url
//	links   style (list, grid, or buttons)
//	faq     items[] of question and answer
//	social  items[] of network and url
package block

import (
	"time"

	"github.com/yanizio/linkbio/internal/database"
)

// Block types.
const (
	TypeHero   = "hero"
	TypeLinks  = "links"
	TypeFAQ    = "faq"
	TypeSocial = "social"
)

// Record mirrors one row in `block`.
type Record struct {
	ID        int64         `db:"id"         json:"id"`
	PageID    int64         `db:"page_id"    json:"-"`
	Type      string        `db:"type"       json:"type"`
	Position  int           `db:"position"   json:"position"`
	Config    database.JSON `db:"config"     json:"config"`
	Visible   bool          `db:"visible"    json:"visible"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}

type heroConfig struct {
	Heading    string `json:"heading"    validate:"required,max=120"`
	Subheading string `json:"subheading" validate:"max=240"`
	AvatarURL  string `json:"avatar_url" validate:"omitempty,httpurl"`
}

type linksConfig struct {
	Style string `json:"style" validate:"omitempty,oneof=list grid buttons"`
}

type faqItem struct {
	Question string `json:"question" validate:"required,max=300"`
	Answer   string `json:"answer"   validate:"required,max=2000"`
}

type faqConfig struct {
	Items []faqItem `json:"items" validate:"required,min=1,max=50,dive"`
}

type socialItem struct {
	Network string `json:"network" validate:"required,oneof=instagram tiktok youtube x facebook linkedin github twitch threads email website"`
	URL     string `json:"url"     validate:"required,httpurl"`
}

type socialConfig struct {
	Items []socialItem `json:"items" validate:"required,min=1,max=20,dive"`
}

// Schema is owned by the pages component.
var Schema = []string{`
    CREATE TABLE IF NOT EXISTS block (
        id         BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
        page_id    BIGINT UNSIGNED NOT NULL,
        type       VARCHAR(16) NOT NULL,
        position   INT NOT NULL DEFAULT 0,
        config     JSON NOT NULL,
        visible    BOOLEAN NOT NULL DEFAULT TRUE,
        created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
        updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
        KEY idx_block_page (page_id, position),
        CONSTRAINT fk_block_page FOREIGN KEY (page_id) REFERENCES page(id) ON DELETE CASCADE
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

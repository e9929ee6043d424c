// internal/block/config.go

package block

import (
	"bytes"
	"encoding/json"

	"github.com/yanizio/linkbio/internal/database"
	"github.com/yanizio/linkbio/internal/form"
)

// ValidType reports whether t is a known block type.
func ValidType(t string) bool {
	switch t {
	case TypeHero, TypeLinks, TypeFAQ, TypeSocial:
		return true
	}
	return false
}

// ValidateConfig checks raw against the shape for typ and returns the
// normalised document.  Field errors are reported under "config.".
func ValidateConfig(typ string, raw database.JSON) (database.JSON, error) {
	var dst any
	switch typ {
	case TypeHero:
		dst = &heroConfig{}
	case TypeLinks:
		dst = &linksConfig{}
	case TypeFAQ:
		dst = &faqConfig{}
	case TypeSocial:
		dst = &socialConfig{}
	default:
		return nil, form.Errors{{Name: "type", Message: "Must be one of: hero, links, faq, social."}}
	}

	if len(raw) == 0 {
		raw = database.JSON("{}")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return nil, form.Errors{{Name: "config", Message: "Does not match the " + typ + " block format."}}
	}

	if err := form.Validate(dst); err != nil {
		var out form.Errors
		if fe, ok := err.(form.Errors); ok {
			for _, f := range fe {
				out.Add("config."+f.Name, f.Message)
			}
			return nil, out
		}
		return nil, err
	}
	if lc, ok := dst.(*linksConfig); ok && lc.Style == "" {
		lc.Style = "list"
	}

	norm, err := json.Marshal(dst)
	if err != nil {
		return nil, err
	}
	return norm, nil
}

package models

import "time"

// ThemeTemplate is one named template of a theme.
type ThemeTemplate struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// Theme is a set of templates for rendering a web log. Templates keep their
// upload order.
type Theme struct {
	ID        ThemeID         `json:"id"`
	Name      string          `json:"name"`
	Version   string          `json:"version"`
	Templates []ThemeTemplate `json:"templates"`
}

// WithoutTemplateText returns a copy of the theme with template text blanked,
// for listings that only need template names.
func (t *Theme) WithoutTemplateText() Theme {
	out := *t
	out.Templates = make([]ThemeTemplate, len(t.Templates))
	for i, tpl := range t.Templates {
		out.Templates[i] = ThemeTemplate{Name: tpl.Name}
	}
	return out
}

// ThemeAsset is a static file belonging to a theme, keyed by the theme id and
// the asset's path within the theme. Assets are deleted with their theme.
type ThemeAsset struct {
	ID        ThemeAssetID `json:"id"`
	UpdatedOn time.Time    `json:"updatedOn"`
	Data      []byte       `json:"data,omitempty"`
}
